package routes

import (
	"github.com/gin-gonic/gin"

	"roomflow/handlers"
)

// RegisterWizardRoutes registers all endpoints for the booking wizard.
func RegisterWizardRoutes(r *gin.Engine, h *handlers.WizardHandler) {
	r.GET("/health", handlers.Health)

	wizard := r.Group("/api/wizard")
	{
		wizard.POST("/draft", h.StartDraft)
		wizard.GET("/draft/:draftID", h.GetDraft)
		wizard.DELETE("/draft/:draftID", h.CancelDraft)
		wizard.PUT("/draft/:draftID/stay", h.UpdateStay)

		wizard.POST("/draft/:draftID/rooms", h.SelectRoom)
		wizard.DELETE("/draft/:draftID/rooms/:roomID", h.DeselectRoom)

		wizard.GET("/services", h.ListServices)
		wizard.POST("/draft/:draftID/services", h.SelectService)
		wizard.DELETE("/draft/:draftID/services/:serviceID", h.RemoveService)

		wizard.GET("/draft/:draftID/combo", h.ResolveCombo)
		wizard.POST("/draft/:draftID/combo", h.ApplyCombo)

		wizard.PUT("/draft/:draftID/customer", h.SetCustomer)

		wizard.POST("/draft/:draftID/advance", h.Advance)
		wizard.POST("/draft/:draftID/back", h.Back)
		wizard.POST("/draft/:draftID/payment", h.SettlePayment)
	}
}

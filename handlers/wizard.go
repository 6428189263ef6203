package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomflow/models"
	"roomflow/services/wizard"
	"roomflow/utils"
)

// WizardHandler exposes the booking wizard over HTTP. It binds and
// normalizes request payloads; all decisions live in the wizard service.
type WizardHandler struct {
	svc    wizard.Service
	logger *zap.Logger
}

func NewWizardHandler(svc wizard.Service, logger *zap.Logger) *WizardHandler {
	return &WizardHandler{svc: svc, logger: logger}
}

const dateLayout = "2006-01-02"

// respondError maps the wizard error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *wizard.ValidationError
	var nerr *wizard.NotFoundError
	var rerr *wizard.RemoteError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, "validation failed", verr.Error())
	case errors.As(err, &nerr):
		utils.JSONError(c, http.StatusNotFound, "not found", nerr.Error())
	case errors.As(err, &rerr):
		utils.JSONError(c, http.StatusBadGateway, "upstream failure", rerr.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// StartDraft opens a new draft and runs the availability search.
func (h *WizardHandler) StartDraft(c *gin.Context) {
	var input struct {
		CheckIn  string `json:"checkIn" binding:"required"`
		CheckOut string `json:"checkOut" binding:"required"`
		Guests   int    `json:"guests" binding:"required"`
		Rooms    int    `json:"rooms"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	checkIn, err := time.ParseInLocation(dateLayout, input.CheckIn, time.Local)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "checkIn must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.ParseInLocation(dateLayout, input.CheckOut, time.Local)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "checkOut must be YYYY-MM-DD")
		return
	}

	d, err := h.svc.StartDraft(c.Request.Context(), checkIn, checkOut, input.Guests, input.Rooms)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) GetDraft(c *gin.Context) {
	d, err := h.svc.GetDraft(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) CancelDraft(c *gin.Context) {
	if err := h.svc.CancelDraft(c.Request.Context(), c.Param("draftID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// UpdateStay changes the stay dates or guest counts and restarts room
// selection with a fresh availability search.
func (h *WizardHandler) UpdateStay(c *gin.Context) {
	var input struct {
		CheckIn  string `json:"checkIn" binding:"required"`
		CheckOut string `json:"checkOut" binding:"required"`
		Guests   int    `json:"guests" binding:"required"`
		Rooms    int    `json:"rooms"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	checkIn, err := time.ParseInLocation(dateLayout, input.CheckIn, time.Local)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "checkIn must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.ParseInLocation(dateLayout, input.CheckOut, time.Local)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "checkOut must be YYYY-MM-DD")
		return
	}

	d, err := h.svc.UpdateStay(c.Request.Context(), c.Param("draftID"), checkIn, checkOut, input.Guests, input.Rooms)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) SelectRoom(c *gin.Context) {
	var input struct {
		RoomID string `json:"roomId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.svc.SelectRoom(c.Request.Context(), c.Param("draftID"), input.RoomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) DeselectRoom(c *gin.Context) {
	d, err := h.svc.DeselectRoom(c.Request.Context(), c.Param("draftID"), c.Param("roomID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) ListServices(c *gin.Context) {
	items, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": items})
}

func (h *WizardHandler) SelectService(c *gin.Context) {
	var input struct {
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.svc.SelectService(c.Request.Context(), c.Param("draftID"), input.ServiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) RemoveService(c *gin.Context) {
	d, err := h.svc.RemoveService(c.Request.Context(), c.Param("draftID"), c.Param("serviceID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// ResolveCombo returns the single bundling suggestion for the draft, if any.
func (h *WizardHandler) ResolveCombo(c *gin.Context) {
	dec, err := h.svc.ResolveCombo(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dec)
}

// ApplyCombo applies the combo, or unapplies it when it is already active.
func (h *WizardHandler) ApplyCombo(c *gin.Context) {
	var input struct {
		ComboID string `json:"comboId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.svc.ApplyCombo(c.Request.Context(), c.Param("draftID"), input.ComboID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *WizardHandler) SetCustomer(c *gin.Context) {
	var input models.CustomerInfo
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.svc.SetCustomer(c.Request.Context(), c.Param("draftID"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Advance moves the draft one stage forward.
func (h *WizardHandler) Advance(c *gin.Context) {
	d, err := h.svc.Advance(c.Request.Context(), c.Param("draftID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Back moves the draft to an earlier stage.
func (h *WizardHandler) Back(c *gin.Context) {
	var input struct {
		Stage string `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.svc.Back(c.Request.Context(), c.Param("draftID"), models.Stage(input.Stage))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// SettlePayment settles the chosen payment and completes the booking.
func (h *WizardHandler) SettlePayment(c *gin.Context) {
	var input struct {
		Method string `json:"method" binding:"required"`
		Timing string `json:"timing"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	d, err := h.svc.SettlePayment(c.Request.Context(), c.Param("draftID"), input.Method, input.Timing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Health reports the latest stored health snapshot.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}

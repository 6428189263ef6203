package wizard

import (
	"regexp"

	"roomflow/models"
)

var stageOrder = []models.Stage{
	models.StageSearch,
	models.StageSelectRoom,
	models.StageSelectServices,
	models.StageCheckout,
	models.StagePayment,
	models.StageComplete,
}

func stageIndex(s models.Stage) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// NextStage returns the stage following s, or s itself when s is terminal.
func NextStage(s models.Stage) models.Stage {
	i := stageIndex(s)
	if i < 0 || i == len(stageOrder)-1 {
		return s
	}
	return stageOrder[i+1]
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-]{6,19}$`)
)

// guardForward checks the precondition for moving the draft one stage
// forward. It returns nil when the transition may proceed; remote side
// effects (submission, settlement) are the caller's job.
func guardForward(d *models.BookingDraft) error {
	switch d.Stage {
	case models.StageSearch:
		if len(d.Offers) == 0 {
			return NewValidationError("offers", "no rooms available for the selected dates")
		}
	case models.StageSelectRoom:
		if len(d.RoomSlots) == 0 {
			return NewValidationError("roomSlots", "select at least one room")
		}
		if d.RequestedRoomCount > 1 && len(d.RoomSlots) != d.RequestedRoomCount {
			return NewValidationError("roomSlots", "select a room for every requested slot")
		}
	case models.StageSelectServices:
		// Services are optional.
	case models.StageCheckout:
		if d.Customer.FullName == "" {
			return NewValidationError("fullName", "name is required")
		}
		if !phonePattern.MatchString(d.Customer.Phone) {
			return NewValidationError("phone", "a valid phone number is required")
		}
		if !emailPattern.MatchString(d.Customer.Email) {
			return NewValidationError("email", "a valid email address is required")
		}
	case models.StagePayment:
		if d.Payment == nil {
			return NewValidationError("payment", "payment has not been settled")
		}
	default:
		return NewValidationError("stage", "no forward transition from this stage")
	}
	return nil
}

// GoBack moves the draft to an earlier stage. Backward transitions are
// always permitted except out of Complete.
func GoBack(d *models.BookingDraft, target models.Stage) error {
	if d.Stage == models.StageComplete {
		return NewValidationError("stage", "a completed booking cannot be reopened")
	}
	ti := stageIndex(target)
	if ti < 0 {
		return NewValidationError("stage", "unknown stage")
	}
	if ti >= stageIndex(d.Stage) {
		return NewValidationError("stage", "target stage is not behind the current one")
	}
	d.Stage = target
	return nil
}

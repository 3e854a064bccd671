package wizard

import (
	"errors"
	"strings"
)

// ActionType names one user interaction (a button press).
type ActionType string

const (
	ActionSelectDevice    ActionType = "select_device"
	ActionDeviceNotListed ActionType = "device_not_listed"
	ActionConfirmWorking  ActionType = "confirm_working"
	ActionChooseDecision  ActionType = "choose_decision"
	ActionWipeDone        ActionType = "wipe_done"
	ActionWipeUnable      ActionType = "wipe_unable"
	ActionProceedAnyway   ActionType = "proceed_anyway"
	ActionLinksDone       ActionType = "links_done"
	ActionSubmitID        ActionType = "submit_id"
	ActionBack            ActionType = "back"
)

// Action carries one user interaction and its payload fields. Only the field
// matching the action type is read.
type Action struct {
	Type          ActionType    `json:"type"`
	Device        string        `json:"device,omitempty"`
	WorkingStatus WorkingStatus `json:"workingStatus,omitempty"`
	Decision      Decision      `json:"decision,omitempty"`
	ParticipantID string        `json:"participantId,omitempty"`
}

// SubmitEffect asks the driver to append the session's answers to the record
// sink. Apply itself never touches the sink; the driver performs the append
// and feeds the outcome back via MarkSubmitted.
type SubmitEffect struct {
	ParticipantID string
}

var (
	ErrEmptySelection     = errors.New("a device must be selected")
	ErrInvalidStatus      = errors.New("working status must be working or not_working")
	ErrInvalidDecision    = errors.New("decision is not available for this device")
	ErrEmptyParticipantID = errors.New("participant id must not be empty")
	ErrBackNotAllowed     = errors.New("cannot go back from this step")
	ErrSessionComplete    = errors.New("session is already complete")
	ErrUnknownAction      = errors.New("action is not valid in the current step")
)

// Apply is the pure transition function: given a session and one action it
// returns the resulting session and, for a submission, the side effect the
// driver must perform. The input session is never modified. Invalid actions
// return the session unchanged together with a guard error.
func Apply(s Session, a Action) (Session, *SubmitEffect, error) {
	if s.State == StateDone {
		return s, nil, ErrSessionComplete
	}
	if a.Type == ActionBack {
		return back(s)
	}

	switch s.State {
	case StateSelectDevice:
		return applySelectDevice(s, a)
	case StateAskWorking:
		return applyAskWorking(s, a)
	case StateChooseOption:
		return applyChooseOption(s, a)
	case StateWipeInstructions:
		return applyWipeInstructions(s, a)
	case StateWipeUnableWarning:
		return applyWipeUnableWarning(s, a)
	case StateShowLinks:
		return applyShowLinks(s, a)
	case StateEnterID:
		return applyEnterID(s, a)
	}
	return s, nil, ErrUnknownAction
}

func applySelectDevice(s Session, a Action) (Session, *SubmitEffect, error) {
	switch a.Type {
	case ActionSelectDevice:
		device := strings.TrimSpace(a.Device)
		if device == "" {
			return s, nil, ErrEmptySelection
		}
		s.Device = device
		s.State = StateAskWorking
		return s, nil, nil
	case ActionDeviceNotListed:
		s.Device = UnlistedDevice
		s.WorkingStatus = WorkingUnknown
		s.State = StateChooseOption
		return s, nil, nil
	}
	return s, nil, ErrUnknownAction
}

func applyAskWorking(s Session, a Action) (Session, *SubmitEffect, error) {
	if a.Type != ActionConfirmWorking {
		return s, nil, ErrUnknownAction
	}
	if a.WorkingStatus != WorkingYes && a.WorkingStatus != WorkingNo {
		return s, nil, ErrInvalidStatus
	}
	s.WorkingStatus = a.WorkingStatus
	s.State = StateChooseOption
	return s, nil, nil
}

func applyChooseOption(s Session, a Action) (Session, *SubmitEffect, error) {
	if a.Type != ActionChooseDecision {
		return s, nil, ErrUnknownAction
	}
	for _, d := range s.Options() {
		if d == a.Decision {
			s.Decision = d
			s.State = StateWipeInstructions
			return s, nil, nil
		}
	}
	return s, nil, ErrInvalidDecision
}

func applyWipeInstructions(s Session, a Action) (Session, *SubmitEffect, error) {
	switch a.Type {
	case ActionWipeDone:
		s.WipeAcknowledged = true
		s.State = StateShowLinks
		return s, nil, nil
	case ActionWipeUnable:
		s.State = StateWipeUnableWarning
		return s, nil, nil
	}
	return s, nil, ErrUnknownAction
}

func applyWipeUnableWarning(s Session, a Action) (Session, *SubmitEffect, error) {
	if a.Type != ActionProceedAnyway {
		return s, nil, ErrUnknownAction
	}
	s.WipeAcknowledged = true
	s.WipeSkippedWithWarning = true
	s.State = StateShowLinks
	return s, nil, nil
}

func applyShowLinks(s Session, a Action) (Session, *SubmitEffect, error) {
	if a.Type != ActionLinksDone {
		return s, nil, ErrUnknownAction
	}
	s.LinksAcknowledged = true
	s.State = StateEnterID
	return s, nil, nil
}

func applyEnterID(s Session, a Action) (Session, *SubmitEffect, error) {
	if a.Type != ActionSubmitID {
		return s, nil, ErrUnknownAction
	}
	if s.Submitted() {
		// Revisited after a successful submission: short-circuit, never
		// touch the sink again.
		s.State = StateDone
		return s, nil, nil
	}
	id := strings.TrimSpace(a.ParticipantID)
	if id == "" {
		return s, nil, ErrEmptyParticipantID
	}
	return s, &SubmitEffect{ParticipantID: id}, nil
}

// MarkSubmitted records a successful sink append. It is a no-op once a
// submission id is set.
func MarkSubmitted(s Session, participantID string) Session {
	if s.Submitted() {
		return s
	}
	s.SubmittedID = participantID
	s.State = StateDone
	return s
}

// back moves one step backward, clearing every field owned by the step being
// left and by any later step, so re-advancing re-asks the same questions with
// no stale answers.
func back(s Session) (Session, *SubmitEffect, error) {
	switch s.State {
	case StateAskWorking:
		s.Device = ""
		s.State = StateSelectDevice
	case StateChooseOption:
		if s.Unlisted() {
			// The working-status step was skipped on the way in, so back
			// returns to device selection.
			s.Device = ""
			s.State = StateSelectDevice
		} else {
			s.State = StateAskWorking
		}
		s.WorkingStatus = WorkingUnknown
		s.Decision = ""
	case StateWipeInstructions:
		s.Decision = ""
		s.WipeAcknowledged = false
		s.WipeSkippedWithWarning = false
		s.State = StateChooseOption
	case StateWipeUnableWarning:
		s.State = StateWipeInstructions
	case StateShowLinks:
		s.WipeAcknowledged = false
		s.WipeSkippedWithWarning = false
		s.LinksAcknowledged = false
		s.State = StateWipeInstructions
	case StateEnterID:
		s.LinksAcknowledged = false
		s.State = StateShowLinks
	default:
		return s, nil, ErrBackNotAllowed
	}
	return s, nil, nil
}

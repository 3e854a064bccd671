package wizard

// State names a wizard step. States are named rather than ordinal because the
// wipe step has two distinct sub-states that share one screen position.
type State string

const (
	StateSelectDevice      State = "select_device"
	StateAskWorking        State = "ask_working"
	StateChooseOption      State = "choose_option"
	StateWipeInstructions  State = "wipe_instructions"
	StateWipeUnableWarning State = "wipe_unable_warning"
	StateShowLinks         State = "show_links"
	StateEnterID           State = "enter_id"
	StateDone              State = "done"
)

// WorkingStatus is the tri-state answer to "does the device power on".
type WorkingStatus string

const (
	WorkingUnknown WorkingStatus = "unknown"
	WorkingYes     WorkingStatus = "working"
	WorkingNo      WorkingStatus = "not_working"
)

// Decision is what the user chose to do with the device.
type Decision string

const (
	DecisionResell  Decision = "resell"
	DecisionDonate  Decision = "donate"
	DecisionRecycle Decision = "recycle"
)

// UnlistedDevice is the sentinel device value meaning "not in the catalog".
const UnlistedDevice = "__unlisted__"

// Session is one wizard instance. It is a value object: transitions never
// mutate a Session, they return a new one.
type Session struct {
	State                  State         `json:"state"`
	Device                 string        `json:"device"`
	WorkingStatus          WorkingStatus `json:"workingStatus"`
	Decision               Decision      `json:"decision"`
	WipeAcknowledged       bool          `json:"wipeAcknowledged"`
	WipeSkippedWithWarning bool          `json:"wipeSkippedWithWarning"`
	LinksAcknowledged      bool          `json:"linksAcknowledged"`
	SubmittedID            string        `json:"submittedId"`
}

// NewSession returns a fresh session positioned at the first step.
func NewSession() Session {
	return Session{
		State:         StateSelectDevice,
		WorkingStatus: WorkingUnknown,
	}
}

// Unlisted reports whether the session's device is the unlisted sentinel.
func (s Session) Unlisted() bool {
	return s.Device == UnlistedDevice
}

// Submitted reports whether the session's result reached the record sink.
// Once true it stays true for the session's lifetime.
func (s Session) Submitted() bool {
	return s.SubmittedID != ""
}

// Options derives the valid decision set for the session's device and
// working status. It is a pure function of those two fields:
//
//	unlisted, known not working  -> recycle only
//	unlisted, otherwise          -> donate or recycle
//	listed, working              -> resell, donate or recycle
//	listed, not working/unknown  -> donate or recycle
//
// Resell is never offered without a working device: there is no offer to
// price a device that cannot power on.
func (s Session) Options() []Decision {
	if s.Unlisted() {
		if s.WorkingStatus == WorkingNo {
			return []Decision{DecisionRecycle}
		}
		return []Decision{DecisionDonate, DecisionRecycle}
	}
	if s.WorkingStatus == WorkingYes {
		return []Decision{DecisionResell, DecisionDonate, DecisionRecycle}
	}
	return []Decision{DecisionDonate, DecisionRecycle}
}

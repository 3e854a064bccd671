package api

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"device-wizard-backend/internal/parse"
	"device-wizard-backend/internal/wizard"
)

// Link is a labeled URL shown to the user.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// PriceBanner is the resale quote shown on the decision step.
type PriceBanner struct {
	Available  bool    `json:"available"`
	Price      float64 `json:"price,omitempty"`
	MSRP       string  `json:"msrp,omitempty"`
	LaunchYear string  `json:"launchYear,omitempty"`
	Brand      string  `json:"brand,omitempty"`
}

// StepView is everything the client needs to render the current step.
type StepView struct {
	SessionID     string               `json:"sessionId"`
	State         wizard.State         `json:"state"`
	Prompt        string               `json:"prompt"`
	Device        string               `json:"device,omitempty"`
	WorkingStatus wizard.WorkingStatus `json:"workingStatus,omitempty"`
	Decision      wizard.Decision      `json:"decision,omitempty"`
	Devices       []string             `json:"devices,omitempty"`
	Options       []wizard.Decision    `json:"options,omitempty"`
	Price         *PriceBanner         `json:"price,omitempty"`
	WipeGuides    []Link               `json:"wipeGuides,omitempty"`
	Links         []Link               `json:"links,omitempty"`
	Warning       string               `json:"warning,omitempty"`
	SubmittedID   string               `json:"submittedId,omitempty"`
	CanGoBack     bool                 `json:"canGoBack"`
}

var (
	iosWipeGuides = []Link{
		{Label: "Disable Find My", URL: "https://support.apple.com/guide/icloud/remove-devices-and-items-from-find-my-mmdc23b125f6/icloud"},
		{Label: "Factory reset your iPhone", URL: "https://support.apple.com/en-us/109511"},
	}
	androidWipeGuides = []Link{
		{Label: "Factory reset your Android device", URL: "https://support.google.com/android/answer/6088915?hl=en"},
	}

	decisionLinks = map[wizard.Decision][]Link{
		wizard.DecisionResell: {
			{Label: "BackMarket", URL: "https://www.backmarket.com"},
			{Label: "Gazelle", URL: "https://www.gazelle.com"},
		},
		wizard.DecisionDonate: {
			{Label: "Goodwill near me", URL: "https://www.google.com/maps/search/Goodwill+near+me"},
			{Label: "Salvation Army near me", URL: "https://www.google.com/maps/search/Salvation+Army+near+me"},
		},
		wizard.DecisionRecycle: {
			{Label: "Best Buy recycling near me", URL: "https://www.google.com/maps/search/BestBuy+near+me"},
		},
	}
)

const wipeSkipWarning = "Sometimes it becomes too difficult or impossible to erase your data. " +
	"The phone may be non-functional. In these situations, you will have to decide for yourself " +
	"if you feel comfortable recycling or donating the phone."

// deviceLabel is the display and sink value for a session's device.
func deviceLabel(s wizard.Session) string {
	if s.Unlisted() {
		return "unlisted"
	}
	return s.Device
}

// wipeGuidesFor selects the wipe guides for a session's device. Unlisted
// devices get both, since the OS cannot be guessed.
func wipeGuidesFor(s wizard.Session) []Link {
	if s.Unlisted() {
		return append(append([]Link{}, iosWipeGuides...), androidWipeGuides...)
	}
	switch parse.OSFamilyOf(s.Device) {
	case parse.OSiOS:
		return iosWipeGuides
	case parse.OSAndroid:
		return androidWipeGuides
	}
	return append(append([]Link{}, iosWipeGuides...), androidWipeGuides...)
}

// renderStep builds the view for the session's current state and writes it.
// Adapter calls happen here, outside the pure transition function: the device
// catalog for SELECT_DEVICE and the price lookup for CHOOSE_OPTION.
func (h *Handler) renderStep(c *gin.Context, id string, s wizard.Session) {
	view := StepView{
		SessionID:     id,
		State:         s.State,
		Device:        s.Device,
		WorkingStatus: s.WorkingStatus,
		Decision:      s.Decision,
		CanGoBack:     s.State != wizard.StateSelectDevice && s.State != wizard.StateDone,
	}

	switch s.State {
	case wizard.StateSelectDevice:
		devices, err := h.store.ListDevices(c.Request.Context())
		if err != nil || len(devices) == 0 {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "device catalog is unavailable"})
			return
		}
		sort.Strings(devices)
		view.Prompt = "What device do you have?"
		view.Devices = devices

	case wizard.StateAskWorking:
		view.Prompt = fmt.Sprintf("Does your %s power on and hold a charge?", s.Device)

	case wizard.StateChooseOption:
		view.Prompt = "What would you like to do with your device?"
		view.Options = s.Options()
		view.Price = h.priceBanner(c, s)

	case wizard.StateWipeInstructions:
		view.Prompt = fmt.Sprintf("Before you %s your device, please wipe it securely.", s.Decision)
		view.WipeGuides = wipeGuidesFor(s)

	case wizard.StateWipeUnableWarning:
		view.Warning = wipeSkipWarning

	case wizard.StateShowLinks:
		view.Prompt = "Here are the links for your chosen action."
		view.Links = decisionLinks[s.Decision]

	case wizard.StateEnterID:
		if s.Submitted() {
			view.Prompt = fmt.Sprintf("You already submitted participant id %s.", s.SubmittedID)
			view.SubmittedID = s.SubmittedID
		} else {
			view.Prompt = "Please enter your participant id to finish."
		}

	case wizard.StateDone:
		view.Prompt = fmt.Sprintf("Thank you! Your participant id %s has been recorded.", s.SubmittedID)
		view.SubmittedID = s.SubmittedID
	}

	c.JSON(http.StatusOK, view)
}

// priceBanner computes the highest-offer banner for the decision step.
// Pricing failures are never fatal: a lookup problem just renders the banner
// as unavailable.
func (h *Handler) priceBanner(c *gin.Context, s wizard.Session) *PriceBanner {
	if s.Unlisted() || s.WorkingStatus != wizard.WorkingYes {
		return &PriceBanner{Available: false}
	}

	quote, err := h.store.HighestOffer(c.Request.Context(), s.Device)
	if err != nil || quote == nil {
		return &PriceBanner{Available: false}
	}
	return &PriceBanner{
		Available:  true,
		Price:      quote.Price,
		MSRP:       quote.MSRP,
		LaunchYear: quote.LaunchYear,
		Brand:      quote.Brand,
	}
}

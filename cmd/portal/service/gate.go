package service

import (
	"fmt"
	"time"

	"github.com/aviaunion/portal/common/models"
)

// WindowDecision is the outcome of evaluating the delegation window gate
type WindowDecision struct {
	Open   bool   `json:"open"`
	Reason string `json:"reason"`
	// Event the decision was made against; nil when none is scheduled
	Event *models.Event `json:"event,omitempty"`
}

// EvaluateWindow decides whether new delegation requests may be created.
// Pure function of the nearest event, the configured lead time and the
// current time: the window opens `lead` before the event and closes the
// moment the event starts.
func EvaluateWindow(event *models.Event, lead time.Duration, now time.Time) WindowDecision {
	if event == nil {
		return WindowDecision{
			Open:   false,
			Reason: "no event scheduled",
		}
	}

	opensAt := event.ScheduledAt.Add(-lead)

	if now.Before(opensAt) {
		return WindowDecision{
			Open:   false,
			Reason: fmt.Sprintf("opens on %s", opensAt.Format("2006-01-02")),
			Event:  event,
		}
	}

	if !now.Before(event.ScheduledAt) {
		return WindowDecision{
			Open:   false,
			Reason: "event already started or passed",
			Event:  event,
		}
	}

	return WindowDecision{
		Open:   true,
		Reason: fmt.Sprintf("closes on %s", event.ScheduledAt.Format("2006-01-02")),
		Event:  event,
	}
}

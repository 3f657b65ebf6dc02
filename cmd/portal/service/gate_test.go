package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/models"
)

func TestEvaluateWindow_NoEvent(t *testing.T) {
	decision := EvaluateWindow(nil, 30*24*time.Hour, time.Now().UTC())
	if decision.Open {
		t.Error("expected window closed when no event is scheduled")
	}
	if decision.Reason != "no event scheduled" {
		t.Errorf("unexpected reason: %q", decision.Reason)
	}
	if decision.Event != nil {
		t.Error("expected nil event in decision")
	}
}

func TestEvaluateWindow_Boundaries(t *testing.T) {
	lead := 30 * 24 * time.Hour
	scheduled := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	event := &models.Event{
		ID:          uuid.New(),
		Title:       "Annual Conference",
		ScheduledAt: scheduled,
	}

	tests := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"31 days before", scheduled.Add(-31 * 24 * time.Hour), false},
		{"one second before opening", scheduled.Add(-lead).Add(-time.Second), false},
		{"exactly at opening", scheduled.Add(-lead), true},
		{"29 days before", scheduled.Add(-29 * 24 * time.Hour), true},
		{"one second before start", scheduled.Add(-time.Second), true},
		{"exactly at start", scheduled, false},
		{"one second after start", scheduled.Add(time.Second), false},
		{"long after the event", scheduled.Add(48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := EvaluateWindow(event, lead, tt.now)
			if decision.Open != tt.open {
				t.Errorf("at %s: expected open=%v, got %v (%s)", tt.now, tt.open, decision.Open, decision.Reason)
			}
			if decision.Event == nil {
				t.Error("expected event echoed in decision")
			}
		})
	}
}

func TestEvaluateWindow_ReasonMentionsDates(t *testing.T) {
	lead := 30 * 24 * time.Hour
	scheduled := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	event := &models.Event{ID: uuid.New(), Title: "Conference", ScheduledAt: scheduled}

	early := EvaluateWindow(event, lead, scheduled.Add(-60*24*time.Hour))
	if early.Reason != "opens on 2026-05-16" {
		t.Errorf("unexpected early reason: %q", early.Reason)
	}

	open := EvaluateWindow(event, lead, scheduled.Add(-10*24*time.Hour))
	if open.Reason != "closes on 2026-06-15" {
		t.Errorf("unexpected open reason: %q", open.Reason)
	}
}

package event

import "log/slog"

// IssueLogHandler logs config.issue events at warn level.
func IssueLogHandler(raw any) {
	evt, ok := raw.(*IssueEvent)
	if !ok {
		slog.Error("Invalid event type for IssueLogHandler")
		return
	}
	slog.Warn("Config issue", "archetype", evt.Archetype, "field", evt.Field, "problem", evt.Problem, "value", evt.Value)
}

func NewIssueEvent(archetype, field, problem string, value any) *IssueEvent {
	return &IssueEvent{
		Archetype: archetype,
		Field:     field,
		Problem:   problem,
		Value:     value,
	}
}

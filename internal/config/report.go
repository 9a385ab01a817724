package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/getsentry/sentry-go"
)

// Reporter receives the issues found in one archetype.
type Reporter interface {
	ReportIssues(archetype string, issues []locomotion.Issue)
}

// Check validates every archetype, reports the issues and replaces each
// archetype with its sanitized form. It returns the number of issues.
func (c *Config) Check(r Reporter) int {
	total := 0
	for _, name := range c.ArchetypeNames() {
		arch := c.Archetypes[name]
		issues := arch.Validate()
		if len(issues) > 0 && r != nil {
			r.ReportIssues(name, issues)
		}
		total += len(issues)
		c.Archetypes[name] = arch.Sanitize()
	}
	return total
}

type LogReporter struct {
	Log *slog.Logger
}

func (r LogReporter) ReportIssues(archetype string, issues []locomotion.Issue) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	for _, is := range issues {
		log.Warn("Config issue", "archetype", archetype, "field", is.Field, "problem", is.Problem, "value", is.Value)
	}
}

// BusReporter publishes each issue as a config.issue event.
type BusReporter struct {
	Bus *event.Bus
}

func (r BusReporter) ReportIssues(archetype string, issues []locomotion.Issue) {
	if r.Bus == nil {
		return
	}
	for _, is := range issues {
		r.Bus.Publish(event.EventConfigIssue, event.NewIssueEvent(archetype, is.Field, is.Problem, is.Value))
	}
}

// SentryReporter sends each issue as a warning message on its own hub.
type SentryReporter struct {
	hub *sentry.Hub
}

func NewSentryReporter(opts sentry.ClientOptions) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (r *SentryReporter) ReportIssues(archetype string, issues []locomotion.Issue) {
	for _, is := range issues {
		r.hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelWarning)
			scope.SetTag("archetype", archetype)
			scope.SetTag("field", is.Field)
			scope.SetExtra("value", fmt.Sprint(is.Value))
			r.hub.CaptureMessage(fmt.Sprintf("config issue: %s", is))
		})
	}
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

// MultiReporter fans out to every non-nil reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) ReportIssues(archetype string, issues []locomotion.Issue) {
	for _, r := range m {
		if r != nil {
			r.ReportIssues(archetype, issues)
		}
	}
}

package publishers

import (
	"time"

	"github.com/bankdesk/bank-console/internal/domain"
)

// EventTypeLoadTestReport marks events carrying a finished load-test report.
const EventTypeLoadTestReport = "loadtest.report"

// Event represents the payload published downstream.
type Event struct {
	Type        string        `json:"type"`
	Report      domain.Report `json:"report"`
	PublishedAt time.Time     `json:"published_at"`
}

// NewReportEvent constructs an Event for a finished load-test run.
func NewReportEvent(report domain.Report) Event {
	return Event{
		Type:        EventTypeLoadTestReport,
		Report:      report,
		PublishedAt: time.Now().UTC(),
	}
}

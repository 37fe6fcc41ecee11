package tracking

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/bonpiedlaroute/leaseboost/internal/application"
	domain "github.com/bonpiedlaroute/leaseboost/internal/domain/tracking"
)

// How long a single delivery may take before it is abandoned.
const sendTimeout = 5 * time.Second

// Service implements the event vocabulary of the product on top of an
// injected sink. Every method is fire-and-forget: delivery happens in the
// background and failures are logged, never returned. A nil sink disables
// tracking entirely, which is a normal configuration.
type Service struct {
	Sink  domain.Sink
	Clock application.Clock
}

func New(sink domain.Sink) *Service {
	return &Service{Sink: sink, Clock: application.SystemClock{}}
}

// Event forwards a named event with its parameter mapping. It never blocks
// the caller and never fails the workflow it instruments.
func (s *Service) Event(client, name string, params domain.Params) {
	if s == nil || s.Sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := s.Sink.Send(ctx, client, name, params); err != nil {
			log.Printf("analytics: event %s dropped: %v", name, err)
		}
	}()
}

func (s *Service) timestamp() string {
	if s == nil || s.Clock == nil {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return s.Clock.Now().UTC().Format(time.RFC3339)
}

// PageView records one view of a page.
func (s *Service) PageView(client, pageName, pagePath string) {
	s.Event(client, "page_view", domain.Params{
		"page_name": pageName,
		"page_path": pagePath,
		"timestamp": s.timestamp(),
	})
}

// AnalysisStart records a file entering the upload workflow.
func (s *Service) AnalysisStart(client, filename, filesize string) {
	s.Event(client, "analysis_started", domain.Params{
		"file_name": filename,
		"file_size": filesize,
		"timestamp": s.timestamp(),
	})
}

// AnalysisComplete records a successful analysis and its wall-clock duration.
func (s *Service) AnalysisComplete(client, filename string, seconds float64) {
	s.Event(client, "analysis_completed", domain.Params{
		"file_name":                 filename,
		"analysis_duration_seconds": seconds,
		"timestamp":                 s.timestamp(),
	})
}

// AnalysisError records a failed upload workflow with its display message.
func (s *Service) AnalysisError(client, message, filename, filesize string) {
	s.Event(client, "analysis_error", domain.Params{
		"error_message": message,
		"file_name":     filename,
		"file_size":     filesize,
	})
}

// ReportExport records a print or PDF export of the results page.
func (s *Service) ReportExport(client, exportType, page string) {
	s.Event(client, "report_exported", domain.Params{
		"export_type": exportType,
		"page":        page,
		"timestamp":   s.timestamp(),
	})
}

// TimeOnAnalysisPage records dwell time on the results page, in seconds
// rounded to the nearest integer and minutes rounded to one decimal.
func (s *Service) TimeOnAnalysisPage(client string, seconds float64) {
	s.Event(client, "time_on_analysis_page", domain.Params{
		"time_spent_seconds": int(math.Round(seconds)),
		"time_spent_minutes": math.Round(seconds/60*10) / 10,
	})
}

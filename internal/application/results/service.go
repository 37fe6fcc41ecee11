package results

import (
	"context"

	"github.com/bonpiedlaroute/leaseboost/internal/application/tracking"
	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
)

// View is what the results page renders: the stored result plus the
// display fields derived from it. Optional substructures are defaulted so
// templates never dereference missing data.
type View struct {
	Filename string
	Result   *analysis.Result

	ComplianceLabel  string
	ComplianceDetail string

	HasImmediateOpportunity bool

	OpportunityCount int
	AlertCount       int
	DeadlineCount    int
}

// Service implements the results-page use cases: loading the active
// analysis, starting over, and the export / dwell-time events.
type Service struct {
	Sessions analysis.SessionStore
	Tracker  *tracking.Service

	dwell *dwellRegistry
}

func NewService(sessions analysis.SessionStore, tracker *tracking.Service) *Service {
	return &Service{
		Sessions: sessions,
		Tracker:  tracker,
		dwell:    newDwellRegistry(),
	}
}

// Load reads the session's active analysis and emits the page view. It
// returns analysis.ErrNoAnalysis when there is nothing to show, which the
// transport layer turns into a redirect to the landing page.
func (s *Service) Load(ctx context.Context, session string) (*View, error) {
	result, filename, err := s.Sessions.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	s.Tracker.PageView(session, "financial_analysis", "/analysis")

	label, detail := result.ComplianceLabel()
	return &View{
		Filename:                analysis.OrPlaceholder(filename),
		Result:                  result,
		ComplianceLabel:         label,
		ComplianceDetail:        detail,
		HasImmediateOpportunity: result.MarketIntelligence.HasImmediateOpportunity(),
		OpportunityCount:        len(result.Opportunities),
		AlertCount:              len(result.LegalAlerts),
		DeadlineCount:           len(result.CriticalDeadlines),
	}, nil
}

// Reset clears the active analysis so a new one can be started. Both stored
// fields go away together; the event carries the previous filename.
func (s *Service) Reset(ctx context.Context, session string) error {
	_, filename, err := s.Sessions.Get(ctx, session)
	if err != nil {
		filename = ""
	}
	if err := s.Sessions.Clear(ctx, session); err != nil {
		return err
	}
	s.Tracker.Event(session, "new_analysis_requested", map[string]any{
		"previous_file": filename,
	})
	return nil
}

// ReportExport records a print or PDF export of the report.
func (s *Service) ReportExport(session, exportType string) {
	s.Tracker.ReportExport(session, exportType, "/analysis")
}

// ReportDwell records time spent on the results page. The page wires three
// triggers (unload, tab hidden, unmount) that can all fire for one visit,
// so reporting is idempotent per visit ID: only the first beacon counts.
func (s *Service) ReportDwell(session, visitID string, seconds float64) {
	if !s.dwell.first(visitID) {
		return
	}
	s.Tracker.TimeOnAnalysisPage(session, seconds)
}

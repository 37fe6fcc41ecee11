package results

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonpiedlaroute/leaseboost/internal/application/tracking"
	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
	domtracking "github.com/bonpiedlaroute/leaseboost/internal/domain/tracking"
)

type fakeSessions struct {
	mu       sync.Mutex
	result   *analysis.Result
	filename string
}

func (f *fakeSessions) Save(_ context.Context, _ string, r *analysis.Result, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result, f.filename = r, filename
	return nil
}

func (f *fakeSessions) Get(context.Context, string) (*analysis.Result, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return nil, "", analysis.ErrNoAnalysis
	}
	return f.result, f.filename, nil
}

func (f *fakeSessions) Clear(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result, f.filename = nil, ""
	return nil
}

type recordSink struct {
	mu     sync.Mutex
	events []string
	params []domtracking.Params
}

func (r *recordSink) Send(_ context.Context, _ string, name string, params domtracking.Params) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
	r.params = append(r.params, params)
	return nil
}

func (r *recordSink) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func (r *recordSink) lastParams(name string) domtracking.Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i] == name {
			return r.params[i]
		}
	}
	return nil
}

func storedResult() *analysis.Result {
	return &analysis.Result{
		ExecutiveSummary: "Bail favorable",
		ComplianceScore:  "Good - minor issues",
		MarketIntelligence: analysis.MarketIntelligence{
			ImmediateOpportunity: "Renégociation possible",
		},
		LegalAlerts:       []analysis.LegalAlert{{Severity: analysis.SeverityHigh}},
		CriticalDeadlines: []analysis.CriticalDeadline{{Type: "Révision triennale"}},
		Opportunities: []analysis.Opportunity{
			{Impact: "15 000 €"},
			{Impact: "N/A"},
		},
	}
}

func TestLoadWithoutAnalysis(t *testing.T) {
	svc := NewService(&fakeSessions{}, nil)

	_, err := svc.Load(context.Background(), "s1")
	assert.ErrorIs(t, err, analysis.ErrNoAnalysis)
}

func TestLoadBuildsViewAndEmitsPageView(t *testing.T) {
	sessions := &fakeSessions{}
	require.NoError(t, sessions.Save(context.Background(), "s1", storedResult(), "bail.pdf"))

	sink := &recordSink{}
	svc := NewService(sessions, tracking.New(sink))

	view, err := svc.Load(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "bail.pdf", view.Filename)
	assert.Equal(t, "Good", view.ComplianceLabel)
	assert.Equal(t, "minor issues", view.ComplianceDetail)
	assert.True(t, view.HasImmediateOpportunity)
	assert.Equal(t, 2, view.OpportunityCount)
	assert.Equal(t, 1, view.AlertCount)
	assert.Equal(t, 1, view.DeadlineCount)

	require.Eventually(t, func() bool { return sink.count("page_view") == 1 }, time.Second, 5*time.Millisecond)
	params := sink.lastParams("page_view")
	assert.Equal(t, "financial_analysis", params["page_name"])
	assert.Equal(t, "/analysis", params["page_path"])
}

func TestResetClearsSessionAndRecordsPreviousFile(t *testing.T) {
	sessions := &fakeSessions{}
	require.NoError(t, sessions.Save(context.Background(), "s1", storedResult(), "bail.pdf"))

	sink := &recordSink{}
	svc := NewService(sessions, tracking.New(sink))

	require.NoError(t, svc.Reset(context.Background(), "s1"))

	_, _, err := sessions.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, analysis.ErrNoAnalysis)

	require.Eventually(t, func() bool { return sink.count("new_analysis_requested") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "bail.pdf", sink.lastParams("new_analysis_requested")["previous_file"])

	// resetting an already-empty session still succeeds
	require.NoError(t, svc.Reset(context.Background(), "s1"))
}

func TestReportDwellIsIdempotentPerVisit(t *testing.T) {
	sink := &recordSink{}
	svc := NewService(&fakeSessions{}, tracking.New(sink))

	// the page fires up to three triggers for the same visit
	svc.ReportDwell("s1", "visit-a", 93.4)
	svc.ReportDwell("s1", "visit-a", 94.0)
	svc.ReportDwell("s1", "visit-a", 94.2)

	require.Eventually(t, func() bool { return sink.count("time_on_analysis_page") == 1 }, time.Second, 5*time.Millisecond)
	params := sink.lastParams("time_on_analysis_page")
	assert.Equal(t, 93, params["time_spent_seconds"])
	assert.InDelta(t, 1.6, params["time_spent_minutes"], 1e-9)

	// a fresh visit reports again
	svc.ReportDwell("s1", "visit-b", 10)
	require.Eventually(t, func() bool { return sink.count("time_on_analysis_page") == 2 }, time.Second, 5*time.Millisecond)
}

func TestReportDwellIgnoresEmptyVisitID(t *testing.T) {
	sink := &recordSink{}
	svc := NewService(&fakeSessions{}, tracking.New(sink))

	svc.ReportDwell("s1", "", 30)
	svc.ReportExport("s1", "pdf")

	require.Eventually(t, func() bool { return sink.count("report_exported") == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, sink.count("time_on_analysis_page"))
	assert.Equal(t, "pdf", sink.lastParams("report_exported")["export_type"])
}

package upload

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bonpiedlaroute/leaseboost/internal/application"
	"github.com/bonpiedlaroute/leaseboost/internal/application/tracking"
	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
)

const (
	// MaxFileBytes caps accepted documents at 10 MiB.
	MaxFileBytes = 10 * 1024 * 1024

	// DefaultStageDelay is how long each simulated caption is held.
	DefaultStageDelay = 5 * time.Second
)

// User-facing validation messages.
const (
	MsgUnsupportedFormat = "Format non supporté. Veuillez utiliser un fichier PDF ou DOCX."
	MsgFileTooLarge      = "Fichier trop volumineux. Maximum 10MB autorisé."
)

// Service implements the upload-and-analyze use case: client-side
// validation, the four simulated progress stages, the real analyzer call,
// and persistence of the successful result for the results page.
type Service struct {
	Analyzer analysis.Analyzer
	Sessions analysis.SessionStore
	Tracker  *tracking.Service
	Clock    application.Clock
	Sleeper  application.Sleeper

	// StageDelay is overridable for tests.
	StageDelay time.Duration

	board *progressBoard
}

func NewService(analyzer analysis.Analyzer, sessions analysis.SessionStore, tracker *tracking.Service) *Service {
	return &Service{
		Analyzer:   analyzer,
		Sessions:   sessions,
		Tracker:    tracker,
		Clock:      application.SystemClock{},
		Sleeper:    application.TimerSleeper{},
		StageDelay: DefaultStageDelay,
		board:      newProgressBoard(),
	}
}

// Status reports the session's current progress caption.
func (s *Service) Status(session string) (Stage, bool) {
	return s.board.Status(session)
}

// Run takes one uploaded document through the whole workflow. Only one run
// may be in flight per session; re-entry fails with ErrAnalysisInProgress.
func (s *Service) Run(ctx context.Context, session string, up analysis.Upload) (*analysis.Result, error) {
	if !s.board.begin(session) {
		return nil, analysis.ErrAnalysisInProgress
	}

	start := s.Clock.Now()
	sizeMB := fmt.Sprintf("%.2fMB", float64(up.Size)/1024/1024)
	s.Tracker.AnalysisStart(session, up.Filename, sizeMB)

	if err := validate(up); err != nil {
		return nil, s.fail(session, up, sizeMB, err)
	}

	for _, stage := range runStages {
		s.board.set(session, stage)
		if err := s.Sleeper.Sleep(ctx, s.StageDelay); err != nil {
			return nil, s.fail(session, up, sizeMB, err)
		}
	}

	// The last caption stays on screen during the real call.
	result, err := s.Analyzer.Analyze(ctx, up)
	if err != nil {
		return nil, s.fail(session, up, sizeMB, err)
	}

	elapsed := s.Clock.Now().Sub(start).Seconds()
	s.Tracker.AnalysisComplete(session, up.Filename, elapsed)

	if err := s.Sessions.Save(ctx, session, result, up.Filename); err != nil {
		return nil, s.fail(session, up, sizeMB, fmt.Errorf("save analysis: %w", err))
	}

	s.board.finish(session, StageDone)
	return result, nil
}

// fail records the error event, clears the progress display and hands the
// error back for the transport layer to map to a display message.
func (s *Service) fail(session string, up analysis.Upload, sizeMB string, err error) error {
	s.Tracker.AnalysisError(session, err.Error(), up.Filename, sizeMB)
	s.board.finish(session, StageErrored)
	return err
}

// validate applies the pre-network checks, in order. Both checks are hard
// stops: nothing is sent to the analysis API for a rejected file.
func validate(up analysis.Upload) error {
	ct := strings.ToLower(up.ContentType)
	if !strings.Contains(ct, "pdf") && !strings.Contains(ct, "document") {
		return &analysis.ValidationError{Message: MsgUnsupportedFormat}
	}
	if up.Size > MaxFileBytes {
		return &analysis.ValidationError{Message: MsgFileTooLarge}
	}
	return nil
}

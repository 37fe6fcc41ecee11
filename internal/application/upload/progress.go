package upload

import (
	"sync"
	"time"
)

// Stage of the upload workflow, observable per session while a run is in
// flight. The four simulated stages are cosmetic and fixed-order; only the
// analyzer call depends on the external service.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageExtracting
	StageMarket
	StageLegal
	StageOpportunities
	StageDone
	StageErrored
)

// Captions shown to the user for each stage.
var stageCaptions = map[Stage]string{
	StageIdle:          "",
	StageValidating:    "Vérification du document...",
	StageExtracting:    "📄 Extraction du texte...",
	StageMarket:        "🏢 Analyse du marché local...",
	StageLegal:         "⚖️ Vérification conformité juridique...",
	StageOpportunities: "💰 Calcul des opportunités...",
	StageDone:          "✅ Analyse terminée !",
	StageErrored:       "",
}

func (s Stage) Caption() string { return stageCaptions[s] }

// simulated stages, in display order
var runStages = []Stage{StageExtracting, StageMarket, StageLegal, StageOpportunities}

// terminalGrace is how long a finished run's stage stays readable before
// its entry is pruned.
const terminalGrace = 10 * time.Minute

type run struct {
	stage    Stage
	active   bool
	finished time.Time
}

// progressBoard tracks the current stage per session and doubles as the
// overlap guard: begin refuses a session that already has an active run.
// Terminal runs are pruned after the grace window.
type progressBoard struct {
	mu   sync.Mutex
	runs map[string]*run
}

func newProgressBoard() *progressBoard {
	b := &progressBoard{runs: make(map[string]*run)}
	go b.janitor()
	return b
}

func (b *progressBoard) begin(session string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.runs[session]; ok && r.active {
		return false
	}
	b.runs[session] = &run{stage: StageValidating, active: true}
	return true
}

func (b *progressBoard) set(session string, stage Stage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.runs[session]; ok {
		r.stage = stage
	}
}

// finish releases the overlap guard, leaving the terminal stage readable
// until the janitor prunes it.
func (b *progressBoard) finish(session string, stage Stage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs[session] = &run{stage: stage, active: false, finished: time.Now()}
}

func (b *progressBoard) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		b.prune(time.Now())
	}
}

// prune drops terminal runs whose grace window has passed. Active runs are
// never touched.
func (b *progressBoard) prune(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for session, r := range b.runs {
		if !r.active && now.Sub(r.finished) > terminalGrace {
			delete(b.runs, session)
		}
	}
}

// Status returns the session's current stage and whether a run is active.
func (b *progressBoard) Status(session string) (Stage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.runs[session]
	if !ok {
		return StageIdle, false
	}
	return r.stage, r.active
}

package session

import (
	"context"
	"sync"
	"time"

	"sales-profiler-go/internal/fusion"
	"sales-profiler-go/internal/logger"
	"sales-profiler-go/internal/types"
)

// Manager serializes fuse+persist per session. The fusion engine itself is
// pure and holds no locks, so the manager guarantees at most one in-flight
// fusion call per session; calls for different sessions run in parallel.
type Manager struct {
	store *Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store, locks: map[string]*sync.Mutex{}}
}

func (m *Manager) lockFor(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	return l
}

// ApplyAssessment fuses one raw LLM payload into the session and persists
// the outcome. A non-nil upstreamErr marks the transport failure that
// takes the fallback path: the stored profile survives it untouched, only
// the interaction counter and confidence advance. The returned result is
// always complete, fallback or not.
func (m *Manager) ApplyAssessment(ctx context.Context, sessionID string, raw any, upstreamErr error, answeredIDs []string) (types.FusionResult, error) {
	lock := m.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	log := logger.New().WithSession(sessionID).WithField("component", "session-manager")

	st, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return types.FusionResult{}, err
	}
	if st == nil {
		st = &State{SessionID: sessionID}
	}
	st.InteractionCount++

	in := fusion.Input{
		RawPayload:       raw,
		PriorProfile:     st.Profile,
		PriorIndicators:  st.Indicators,
		PriorQuestions:   st.Questions,
		PriorConfidence:  st.Confidence,
		InteractionCount: st.InteractionCount,
		AnsweredIDs:      answeredIDs,
	}

	var res types.FusionResult
	if upstreamErr != nil {
		log.WithError(upstreamErr).Warn("upstream failure, taking fallback path")
		res = fusion.Fallback(in)
		st.Confidence = res.PsychologyConfidence
	} else {
		res = fusion.Fuse(in)
		profile := res.CumulativePsychology
		indicators := res.SalesIndicators
		st.Profile = &profile
		st.Indicators = &indicators
		st.Confidence = res.PsychologyConfidence
		st.Questions = res.ActiveClarifyingQuestions
		st.Archetype = res.CustomerArchetype
	}
	st.AnalysisLevel = res.AnalysisLevel
	st.UpdatedAt = time.Now().UTC()

	if err := m.store.Save(ctx, st); err != nil {
		return res, err
	}
	log.WithField("interaction_count", st.InteractionCount).
		WithField("psychology_confidence", st.Confidence).
		Info("assessment fused")
	return res, nil
}

// Get exposes the stored state for read endpoints.
func (m *Manager) Get(ctx context.Context, sessionID string) (*State, error) {
	return m.store.Get(ctx, sessionID)
}

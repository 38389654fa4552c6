package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"sales-profiler-go/internal/types"
)

// State is the per-session document persisted between fusion calls. It is
// everything the fusion engine needs as prior state, plus bookkeeping.
type State struct {
	SessionID        string                     `json:"session_id"`
	InteractionCount int                        `json:"interaction_count"`
	Profile          *types.CumulativeProfile   `json:"cumulative_psychology,omitempty"`
	Confidence       int                        `json:"psychology_confidence"`
	Indicators       *types.SalesIndicatorSet   `json:"sales_indicators,omitempty"`
	Questions        []types.ClarifyingQuestion `json:"active_clarifying_questions,omitempty"`
	Archetype        *types.CustomerArchetype   `json:"customer_archetype,omitempty"`
	AnalysisLevel    string                     `json:"analysis_level,omitempty"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// Store persists session states as JSON documents in Redis, one key per
// session under the configured prefix.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// StoreConfig configures the session store.
type StoreConfig struct {
	Prefix string        // key prefix, default "session"
	TTL    time.Duration // 0 = no expiry
}

func NewStore(client *redis.Client, config ...StoreConfig) *Store {
	cfg := StoreConfig{Prefix: "session"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "session"
	}
	return &Store{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

// Get returns the session state, or nil when the session does not exist.
func (s *Store) Get(ctx context.Context, sessionID string) (*State, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	var st State
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &st, nil
}

func (s *Store) Save(ctx context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", st.SessionID, err)
	}
	if err := s.client.Set(ctx, s.key(st.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", st.SessionID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// List returns all persisted session states.
func (s *Store) List(ctx context.Context) ([]State, error) {
	keys, err := s.client.Keys(ctx, s.prefix+":*").Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]State, 0, len(keys))
	for _, key := range keys {
		val, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue // expired between KEYS and GET
		}
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		var st State
		if err := json.Unmarshal([]byte(val), &st); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", key, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// Package facts keeps per-fact answer counters and persists them as one
// JSON record.
package facts

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/mathdrill/internal/logger"
	"github.com/verte-zerg/mathdrill/internal/model"
)

// RecordName is the fixed name of the persisted stats record.
const RecordName = "mathTrainingStats"

// Records loads and saves named serialized records.
type Records interface {
	LoadRecord(ctx context.Context, name string) ([]byte, bool, error)
	SaveRecord(ctx context.Context, name string, value []byte) error
}

// Store maps fact keys to their counters.
type Store struct {
	records Records
	log     *zap.Logger
	stats   map[string]model.FactStats
}

// Open loads the stats record. A missing or malformed record starts empty.
func Open(ctx context.Context, records Records, log *zap.Logger) (*Store, error) {
	s := &Store{
		records: records,
		log:     logger.OrNop(log),
		stats:   map[string]model.FactStats{},
	}
	raw, ok, err := records.LoadRecord(ctx, RecordName)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	if !ok {
		return s, nil
	}
	var loaded map[string]model.FactStats
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("stats record is malformed; starting empty", zap.Error(err))
		return s, nil
	}
	for key, fs := range loaded {
		s.stats[key] = sanitize(fs)
	}
	return s, nil
}

// Get returns the counters for key. Unknown keys yield zero counters.
func (s *Store) Get(key string) model.FactStats {
	return s.stats[key]
}

// Update records one answer for key and persists the whole mapping.
func (s *Store) Update(ctx context.Context, key string, correct bool) error {
	fs := s.stats[key]
	fs.Total++
	if correct {
		fs.Correct++
	}
	s.stats[key] = fs
	s.log.Debug("fact updated",
		zap.String("key", key),
		zap.Bool("correct", correct),
		zap.Int("total", fs.Total),
	)
	return s.save(ctx)
}

// Reset clears every record and persists the empty mapping.
func (s *Store) Reset(ctx context.Context) error {
	s.stats = map[string]model.FactStats{}
	s.log.Info("stats reset")
	return s.save(ctx)
}

// Snapshot returns a copy of all counters.
func (s *Store) Snapshot() map[string]model.FactStats {
	out := make(map[string]model.FactStats, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}

// Len returns the number of facts with counters.
func (s *Store) Len() int {
	return len(s.stats)
}

func (s *Store) save(ctx context.Context) error {
	raw, err := json.Marshal(s.stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := s.records.SaveRecord(ctx, RecordName, raw); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

// sanitize enforces total >= correct >= 0 on loaded data.
func sanitize(fs model.FactStats) model.FactStats {
	if fs.Correct < 0 {
		fs.Correct = 0
	}
	if fs.Total < fs.Correct {
		fs.Total = fs.Correct
	}
	return fs
}

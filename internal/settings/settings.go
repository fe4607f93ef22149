// Package settings persists the optional question type toggles.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/mathdrill/internal/facts"
	"github.com/verte-zerg/mathdrill/internal/logger"
	"github.com/verte-zerg/mathdrill/internal/model"
)

// RecordName is the fixed name of the persisted settings record.
const RecordName = "mathTrainingSettings"

// ErrUnknownFlag is returned for flag names other than division and sqrt.
var ErrUnknownFlag = errors.New("settings: unknown flag")

// Flag names one toggle.
type Flag int

const (
	Division Flag = iota + 1
	Sqrt
)

func (f Flag) String() string {
	switch f {
	case Division:
		return "division"
	case Sqrt:
		return "sqrt"
	default:
		return fmt.Sprintf("Flag(%d)", int(f))
	}
}

// ParseFlag maps "division" or "sqrt" to a Flag.
func ParseFlag(name string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "division":
		return Division, nil
	case "sqrt":
		return Sqrt, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
}

// Store holds the current settings.
type Store struct {
	records facts.Records
	log     *zap.Logger
	current model.Settings
}

// Open loads the settings record, falling back to defaults when it is
// missing or malformed.
func Open(ctx context.Context, records facts.Records, log *zap.Logger) (*Store, error) {
	s := &Store{
		records: records,
		log:     logger.OrNop(log),
		current: model.DefaultSettings(),
	}
	raw, ok, err := records.LoadRecord(ctx, RecordName)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !ok {
		return s, nil
	}
	loaded := model.DefaultSettings()
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.log.Warn("settings record is malformed; using defaults", zap.Error(err))
		return s, nil
	}
	s.current = loaded
	return s, nil
}

// Get returns the current settings.
func (s *Store) Get() model.Settings {
	return s.current
}

// Set updates one flag and persists the record. On a failed save the
// previous value is kept.
func (s *Store) Set(ctx context.Context, flag Flag, value bool) error {
	prev := s.current
	switch flag {
	case Division:
		s.current.EnableDivision = value
	case Sqrt:
		s.current.EnableSqrt = value
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFlag, flag)
	}
	raw, err := json.Marshal(s.current)
	if err != nil {
		s.current = prev
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.records.SaveRecord(ctx, RecordName, raw); err != nil {
		s.current = prev
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.log.Info("setting changed", zap.Stringer("flag", flag), zap.Bool("value", value))
	return nil
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/facts"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

func TestParseOnOff(t *testing.T) {
	for _, in := range []string{"on", "ON", " true ", "1", "yes"} {
		got, err := parseOnOff(in)
		if err != nil || !got {
			t.Fatalf("parseOnOff(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"off", "false", "0", "no"} {
		got, err := parseOnOff(in)
		if err != nil || got {
			t.Fatalf("parseOnOff(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseOnOff("maybe"); err == nil {
		t.Fatalf("expected error for invalid value")
	}
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"y":     true,
		"":      false,
	}
	for in, want := range cases {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(in), &out, "sure? ")
		if err != nil {
			t.Fatalf("confirm(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("confirm(%q) = %v, want %v", in, got, want)
		}
		if out.String() != "sure? " {
			t.Fatalf("unexpected prompt %q", out.String())
		}
	}
}

func TestValidateConfig(t *testing.T) {
	ok := model.Config{Count: 10, FeedbackDelay: time.Second, FinishDelay: 0}
	if err := validateConfig(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []model.Config{
		{Count: 0},
		{Count: 10, FeedbackDelay: -time.Second},
		{Count: 10, FinishDelay: -time.Millisecond},
	}
	for _, cfg := range bad {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestEnsureConfigFileWritesTemplateOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathdrill", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template must decode: %v", err)
	}
	if cfg.Quiz.Count != nil || cfg.Log.Debug != nil {
		t.Fatalf("template values must be commented out: %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("[quiz]\ncount = 30\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	cfg, err = config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Count == nil || *cfg.Quiz.Count != 30 {
		t.Fatalf("existing config must not be overwritten")
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	count := 30
	delay := config.Duration{Duration: 2 * time.Second}

	quizCount = defaultCount
	quizFeedbackDelay = defaultFeedbackDelay
	applyIntConfig(cmd, "count", &quizCount, &count)
	applyDurationConfig(cmd, "feedback-delay", &quizFeedbackDelay, &delay)
	if quizCount != 30 || quizFeedbackDelay != 2*time.Second {
		t.Fatalf("config values not applied: %d %v", quizCount, quizFeedbackDelay)
	}

	if err := cmd.Flags().Set("count", "20"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	applyIntConfig(cmd, "count", &quizCount, &count)
	if quizCount != 20 {
		t.Fatalf("flag must win over config, got %d", quizCount)
	}
	applyIntConfig(cmd, "count", &quizCount, nil)
	if quizCount != 20 {
		t.Fatalf("nil config value must not change target")
	}
}

func TestPrintStats(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "mathdrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()
	fs, err := facts.Open(ctx, st, nil)
	if err != nil {
		t.Fatalf("open facts: %v", err)
	}
	if err := fs.Update(ctx, "7x8", false); err != nil {
		t.Fatalf("update: %v", err)
	}
	now := time.Now()
	rec := model.QuizRecord{ID: "q1", StartedAt: now, EndedAt: now, Mode: model.Test, Series: []int{7}, Questions: 10, Answered: 10, Correct: 7, Completed: true}
	if err := st.InsertQuiz(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var out bytes.Buffer
	cfg := model.StatsConfig{CurveWindow: 5, WeakTop: 5}
	if err := printStats(ctx, &out, st, fs, cfg); err != nil {
		t.Fatalf("print: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Multiplication Overview", "Weakest Facts", "7x8", "Quizzes: 1 (1 completed)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestWriteSettings(t *testing.T) {
	var out bytes.Buffer
	if err := writeSettings(&out, model.Settings{EnableDivision: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := out.String(); got != "division: on\nsqrt: off\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

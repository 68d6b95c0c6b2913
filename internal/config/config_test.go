package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "3000" {
		t.Errorf("Server.Port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.Database.DBName != "talent_matching" {
		t.Errorf("Database.DBName = %q, want talent_matching", cfg.Database.DBName)
	}

	matching := cfg.Matching
	if matching.StructuredWeight != 0.6 || matching.SemanticWeight != 0.4 {
		t.Errorf("combined weights = %v/%v, want 0.6/0.4", matching.StructuredWeight, matching.SemanticWeight)
	}
	if matching.SkillWeight != 0.4 || matching.ExperienceWeight != 0.3 || matching.ContextualWeight != 0.3 {
		t.Errorf("semantic sub-weights = %v/%v/%v, want 0.4/0.3/0.3",
			matching.SkillWeight, matching.ExperienceWeight, matching.ContextualWeight)
	}
	if matching.TemporalDecay != 0.7 {
		t.Errorf("TemporalDecay = %v, want 0.7", matching.TemporalDecay)
	}
	if matching.JudgeThreshold != 0.7 || matching.JudgeFallbackScore != 0.7 {
		t.Errorf("judge defaults = %v/%v, want 0.7/0.7", matching.JudgeThreshold, matching.JudgeFallbackScore)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MATCH_TEMPORAL_DECAY", "0.5")
	t.Setenv("JUDGE_THRESHOLD", "0.85")
	t.Setenv("JUDGE_FALLBACK_SCORE", "0.6")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("RETRY_INITIAL_DELAY", "500ms")

	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Matching.TemporalDecay != 0.5 {
		t.Errorf("TemporalDecay = %v, want 0.5", cfg.Matching.TemporalDecay)
	}
	if cfg.Matching.JudgeThreshold != 0.85 {
		t.Errorf("JudgeThreshold = %v, want 0.85", cfg.Matching.JudgeThreshold)
	}
	if cfg.Matching.JudgeFallbackScore != 0.6 {
		t.Errorf("JudgeFallbackScore = %v, want 0.6", cfg.Matching.JudgeFallbackScore)
	}
	if cfg.Worker.Concurrency != 8 {
		t.Errorf("Worker.Concurrency = %d, want 8", cfg.Worker.Concurrency)
	}
	if cfg.Worker.RetryInitialDelay != 500*time.Millisecond {
		t.Errorf("RetryInitialDelay = %v, want 500ms", cfg.Worker.RetryInitialDelay)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MATCH_STRUCTURED_WEIGHT", "not-a-number")
	t.Setenv("WORKER_CONCURRENCY", "many")

	cfg := Load()

	if cfg.Matching.StructuredWeight != 0.6 {
		t.Errorf("StructuredWeight = %v, want default 0.6 on parse failure", cfg.Matching.StructuredWeight)
	}
	if cfg.Worker.Concurrency != 3 {
		t.Errorf("Worker.Concurrency = %d, want default 3 on parse failure", cfg.Worker.Concurrency)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     "5433",
			User:     "matcher",
			Password: "secret",
			DBName:   "talent",
		},
	}

	want := "host=db.internal port=5433 user=matcher password=secret dbname=talent sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}

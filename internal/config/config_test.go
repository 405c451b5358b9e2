package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.APIPort)
	}
	if cfg.QdrantCollection != "ops_knowledge" {
		t.Fatalf("expected default collection ops_knowledge, got %s", cfg.QdrantCollection)
	}
	if cfg.RetrievalTopK != 5 {
		t.Fatalf("expected default top_k 5, got %d", cfg.RetrievalTopK)
	}
	if cfg.ScoreThreshold != 0.75 {
		t.Fatalf("expected default threshold 0.75, got %v", cfg.ScoreThreshold)
	}
	if cfg.NATSSubject != "support.answers" {
		t.Fatalf("expected default subject support.answers, got %s", cfg.NATSSubject)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9191")
	t.Setenv("RETRIEVAL_TOP_K", "7")
	t.Setenv("SCORE_THRESHOLD", "0.6")

	cfg := Load()

	if cfg.APIPort != "9191" {
		t.Fatalf("expected overridden port 9191, got %s", cfg.APIPort)
	}
	if cfg.RetrievalTopK != 7 {
		t.Fatalf("expected top_k 7, got %d", cfg.RetrievalTopK)
	}
	if cfg.ScoreThreshold != 0.6 {
		t.Fatalf("expected threshold 0.6, got %v", cfg.ScoreThreshold)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "not-a-number")
	t.Setenv("SCORE_THRESHOLD", "high")

	cfg := Load()

	if cfg.RetrievalTopK != 5 {
		t.Fatalf("expected fallback top_k 5, got %d", cfg.RetrievalTopK)
	}
	if cfg.ScoreThreshold != 0.75 {
		t.Fatalf("expected fallback threshold 0.75, got %v", cfg.ScoreThreshold)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "redis", Addrs: []string{"localhost:6379"}},
		Retrieval: RetrievalConfig{
			Engine: EngineIndri,
			Indri: IndriConfig{
				IndriPath: "/opt/indri-5.11",
				Index:     "/data/robust/indri_index",
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 0")
	}
}

func TestValidate_UnknownEngine(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.Engine = "lucene"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown engine")
	}
	expected := `retrieval.engine must be "indri" or "web", got "lucene"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_WebRequiresAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.Engine = EngineWeb
	cfg.Retrieval.Web.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing web api key")
	}
}

func TestValidate_LLMRequiresKeyAndModel(t *testing.T) {
	cfg := validConfig()
	cfg.QueryGen.Mode = QueryGenLLM
	cfg.QueryGen.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for llm mode without api key")
	}
	cfg.QueryGen.APIKey = "test-key"
	cfg.QueryGen.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for llm mode without model")
	}
}

func TestValidate_UnknownDatabaseDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown database driver")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Retrieval.ResultsRequested != 1 {
		t.Errorf("results_requested default = %d, expected 1", cfg.Retrieval.ResultsRequested)
	}
	if cfg.Retrieval.Engine != EngineIndri {
		t.Errorf("engine default = %q, expected %q", cfg.Retrieval.Engine, EngineIndri)
	}
	if cfg.Retrieval.Indri.TextFormat != "trectext" {
		t.Errorf("text_format default = %q, expected trectext", cfg.Retrieval.Indri.TextFormat)
	}
	if cfg.QueryGen.Mode != QueryGenSimple {
		t.Errorf("query generation mode default = %q, expected %q", cfg.QueryGen.Mode, QueryGenSimple)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("database driver default = %q, expected redis", cfg.Database.Driver)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	raw := `
http:
  port: 8080
database:
  driver: bolt
retrieval:
  engine: web
  results_requested: 3
  web:
    api_key: ${CONVSEARCH_TEST_KEY}
`
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONVSEARCH_TEST_KEY", "secret-from-env")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retrieval.Web.APIKey != "secret-from-env" {
		t.Errorf("api_key = %q, expected env value", cfg.Retrieval.Web.APIKey)
	}
	if cfg.Retrieval.ResultsRequested != 3 {
		t.Errorf("results_requested = %d, expected 3", cfg.Retrieval.ResultsRequested)
	}
}

package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.Env != "development" || !cfg.IsDev() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.FlowVariant != "abcde" {
		t.Errorf("FlowVariant = %q, want abcde", cfg.FlowVariant)
	}
	if cfg.DefaultScenarioWeightKG != 4.5 {
		t.Errorf("DefaultScenarioWeightKG = %g, want 4.5", cfg.DefaultScenarioWeightKG)
	}
	if cfg.RetainCancelled {
		t.Error("RetainCancelled should default to false")
	}
	if cfg.SessionCap != 1000 {
		t.Errorf("SessionCap = %d, want 1000", cfg.SessionCap)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("FLOW_VARIANT", "branching")
	t.Setenv("RETAIN_CANCELLED_INTERVENTIONS", "true")
	t.Setenv("DEFAULT_SCENARIO_WEIGHT_KG", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9001" {
		t.Errorf("Port = %q, want 9001", cfg.Port)
	}
	if cfg.FlowVariant != "branching" {
		t.Errorf("FlowVariant = %q, want branching", cfg.FlowVariant)
	}
	if !cfg.RetainCancelled {
		t.Error("RetainCancelled not overridden")
	}
	if cfg.DefaultScenarioWeightKG != 10 {
		t.Errorf("DefaultScenarioWeightKG = %g, want 10", cfg.DefaultScenarioWeightKG)
	}
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:                     "development",
			FlowVariant:             "abcde",
			DefaultScenarioWeightKG: 4.5,
			SessionCap:              100,
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := base()
	cfg.FlowVariant = "random"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown FLOW_VARIANT accepted")
	}

	cfg = base()
	cfg.DefaultScenarioWeightKG = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero default weight accepted")
	}

	cfg = base()
	cfg.AdvanceDelayMS = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative advance delay accepted")
	}

	cfg = base()
	cfg.SessionCap = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero session cap accepted")
	}

	cfg = base()
	cfg.TLSEnabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("TLS enabled without cert/key accepted")
	}
}

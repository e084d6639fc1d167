package config

import "testing"

// TestNewBuildInfoDefaults verifies that NewBuildInfo returns the
// linker-injected default values when ldflags have not been set,
// which is the case during normal test runs.
func TestNewBuildInfoDefaults(t *testing.T) {
	info := NewBuildInfo()

	if info.Version != "dev" {
		t.Errorf("Version = %q, want %q", info.Version, "dev")
	}
	if info.Commit != "none" {
		t.Errorf("Commit = %q, want %q", info.Commit, "none")
	}
	if info.BuildTime != "unknown" {
		t.Errorf("BuildTime = %q, want %q", info.BuildTime, "unknown")
	}
}

// TestBuildInfoAssignable verifies the returned value slots directly into
// Config.Build.
func TestBuildInfoAssignable(t *testing.T) {
	cfg := Config{Build: NewBuildInfo()}
	if cfg.Build.Version != "dev" {
		t.Errorf("Config.Build.Version = %q, want %q", cfg.Build.Version, "dev")
	}
}

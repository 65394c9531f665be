package config

import "testing"

func TestNewXDGPathResolver_ConfigFile(t *testing.T) {
	r := NewXDGPathResolver()
	cf := r.ConfigFile()
	if cf == "" {
		t.Fatal("ConfigFile returned empty string")
	}
	if got := cf[len(cf)-len("config.toml"):]; got != "config.toml" {
		t.Errorf("ConfigFile = %q, want suffix config.toml", cf)
	}
}

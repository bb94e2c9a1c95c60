package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name" env:"SAMPLE_NAME"`
	Port int    `yaml:"port" env:"SAMPLE_PORT"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_HOST_NAME", "captions")
	p := writeFile(t, "name: ${SAMPLE_HOST_NAME}\nport: 8080\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "captions" || s.Port != 8080 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "9090")
	p := writeFile(t, "name: a\nport: 8080\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 9090 {
		t.Errorf("port = %d, want 9090", s.Port)
	}
}

func TestLoad_ValidationFails(t *testing.T) {
	p := writeFile(t, "name: a\nport: 0\n")
	var s sample
	if err := Load(p, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if s.Name != "default" || s.Port != 1 {
		t.Errorf("defaults lost: %+v", s)
	}
}

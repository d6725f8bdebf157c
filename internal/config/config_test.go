package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *c != *Defaults() {
		t.Fatalf("want defaults %+v, got %+v", *Defaults(), *c)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	c := Defaults()
	c.PercentileStep = 10
	c.OutputFormat = "yaml"
	c.ShowSpread = true
	if err := Save(c, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *c {
		t.Fatalf("want %+v, got %+v", *c, *got)
	}
}

func TestLoad_MissingExplicitFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "fresh.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *c != *Defaults() {
		t.Fatalf("want defaults %+v, got %+v", *Defaults(), *c)
	}
}

func TestLoad_MalformedExplicitFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("percentile_step: [1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected parse error for %s", p)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte("max_file_size_mb: 10\nregion_mode: name\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("REGIONSTATS_MAX_FILE_SIZE_MB", "20")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MaxFileSizeMB != 20 || c.RegionMode != "name" {
		t.Fatalf("unexpected config: %+v", *c)
	}
}

func TestValidate(t *testing.T) {
	cases := []func(*Global){
		func(c *Global) { c.MaxFileSizeMB = 0 },
		func(c *Global) { c.PercentileStep = 0 },
		func(c *Global) { c.PercentileStep = 101 },
		func(c *Global) { c.OutputFormat = "xml" },
		func(c *Global) { c.RegionMode = "random" },
	}
	for i, mutate := range cases {
		c := Defaults()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, *c)
		}
	}
	c := Defaults()
	c.OutputFormat = " YAML "
	if err := c.Validate(); err != nil || c.OutputFormat != "yaml" {
		t.Fatalf("normalization failed: %v %+v", err, *c)
	}
}

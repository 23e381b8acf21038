package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFlagOverridesTarget(t *testing.T) {
	// ParseFlags (rather than Flags().Set) merges rootCmd's persistent
	// flags into its local FlagSet the same way cobra's own dispatch does
	// before a RunE handler ever sees cmd.Flags().
	if err := rootCmd.ParseFlags([]string{"--target=t2-sbf"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	defer rootCmd.ParseFlags([]string{"--target="})

	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Target.Name != "t2-sbf" {
		t.Fatalf("target = %q, want t2-sbf", cfg.Target.Name)
	}
}

func TestLoadConfigLeavesTargetAloneWhenFlagUnset(t *testing.T) {
	if err := rootCmd.ParseFlags([]string{"--target="}); err != nil {
		t.Fatalf("reset target flag: %v", err)
	}

	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	// With no --target flag and no config file resolvable from the test's
	// working directory, loadConfig falls back to config.AppConfig's zero
	// value rather than erroring: flags/defaults must always be enough to
	// produce a usable (if empty) DriverConfig.
	_ = cfg
}

func TestReadSourcesRejectsAFileOverTheLimit(t *testing.T) {
	t.Setenv("SOLC_MAX_SOURCE_BYTES", "4")
	path := filepath.Join(t.TempDir(), "big.sol")
	if err := os.WriteFile(path, []byte("contract C {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readSources([]string{path}); err == nil {
		t.Fatal("expected an error for a source file over SOLC_MAX_SOURCE_BYTES")
	}
}

func TestReadSourcesAcceptsFilesWithinTheLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.sol")
	want := []byte("contract C {}")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}
	sources, err := readSources([]string{path})
	if err != nil {
		t.Fatalf("readSources: %v", err)
	}
	if string(sources[path]) != string(want) {
		t.Fatalf("sources[path] = %q, want %q", sources[path], want)
	}
}

func TestConfigureLoggingAcceptsEveryKnownLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		cfg, err := loadConfig(rootCmd)
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		cfg.Logging.Level = lvl
		configureLogging(cfg)
	}
}

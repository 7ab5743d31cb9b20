package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitCreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLINICSYNC_DATA_DIR", dir)

	rootCmd.SetArgs([]string{"init"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "clinic.db")); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLINICSYNC_DATA_DIR", dir)

	for i := 0; i < 2; i++ {
		rootCmd.SetArgs([]string{"init"})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestStatusRequiresInit(t *testing.T) {
	t.Setenv("CLINICSYNC_DATA_DIR", filepath.Join(t.TempDir(), "missing"))

	rootCmd.SetArgs([]string{"status"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error before init")
	}
}

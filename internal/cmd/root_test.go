package cmd

import (
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/filxconnect/cli/pkg/config"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"long ascii", "hello world", 8, "hello..."},
		{"multibyte kept", "héllo", 5, "héllo"},
		{"multibyte cut", "日本語のテスト", 5, "日本..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.max)
			if got != tc.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestOutputFlagOnlyOverridesWhenSet(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := config.Init(cfgPath); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if err := config.SetString("output.format", "json"); err != nil {
		t.Fatalf("failed to persist format: %v", err)
	}

	// Without --output the persisted value must survive.
	rootCmd.SetArgs([]string{"--config", cfgPath, "settings", "get", "output.format"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := config.GetString("output.format"); got != "json" {
		t.Errorf("flag default clobbered the persisted format, got %q", got)
	}

	// An explicit --output wins for this invocation.
	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "table", "settings", "get", "output.format"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := config.GetString("output.format"); got != "table" {
		t.Errorf("explicit --output should apply, got %q", got)
	}
}

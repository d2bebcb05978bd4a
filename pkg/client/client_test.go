package client

import (
	"path/filepath"
	"testing"

	"github.com/filxconnect/cli/pkg/config"
)

func initTestConfig(t *testing.T) {
	t.Helper()
	if err := config.Init(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
}

func TestGetClientInitializes(t *testing.T) {
	initTestConfig(t)
	Reset()

	c := GetClient()
	if c == nil {
		t.Fatal("GetClient should not return nil")
	}
	if c.BaseURL != config.GetString("api.base_url") {
		t.Errorf("BaseURL = %s, want %s", c.BaseURL, config.GetString("api.base_url"))
	}
}

func TestGetClientSingleton(t *testing.T) {
	initTestConfig(t)
	Reset()

	if GetClient() != GetClient() {
		t.Error("GetClient should return the same instance")
	}
}

func TestDefaultHeaders(t *testing.T) {
	initTestConfig(t)
	Reset()

	c := GetClient()
	if got := c.Header.Get("User-Agent"); got != "FilxConnect-CLI/0.1.0" {
		t.Errorf("User-Agent = %s, want FilxConnect-CLI/0.1.0", got)
	}
	if got := c.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", got)
	}
}

func TestSetBaseURL(t *testing.T) {
	initTestConfig(t)
	Reset()

	SetBaseURL("http://127.0.0.1:9999/api")
	if got := GetClient().BaseURL; got != "http://127.0.0.1:9999/api" {
		t.Errorf("BaseURL = %s after SetBaseURL", got)
	}
}

func TestResetRebuildsFromConfig(t *testing.T) {
	initTestConfig(t)
	Reset()

	SetBaseURL("http://127.0.0.1:9999/api")
	Reset()

	if got := GetClient().BaseURL; got != config.GetString("api.base_url") {
		t.Errorf("BaseURL after Reset = %s, want config value", got)
	}
}

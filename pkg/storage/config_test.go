package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/verum/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "evidence" {
		t.Errorf("container_name: got %s, want evidence", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONTAINER", "exhibits")
	t.Setenv("TEST_ACCOUNT_URL", "https://verum.blob.core.windows.net/")

	cfg := storage.Config{}
	err := cfg.Finalize(&storage.Env{
		Provider:      "TEST_PROVIDER",
		ContainerName: "TEST_CONTAINER",
		AccountURL:    "TEST_ACCOUNT_URL",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "exhibits" {
		t.Errorf("container_name: got %s, want exhibits", cfg.ContainerName)
	}
	if cfg.AccountURL != "https://verum.blob.core.windows.net/" {
		t.Errorf("account_url: got %s", cfg.AccountURL)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"azure without credentials", storage.Config{}, "connection_string or account_url required"},
		{"unknown provider", storage.Config{Provider: "s3"}, "unknown provider"},
		{"memory needs nothing", storage.Config{Provider: storage.ProviderMemory}, ""},
		{"account url only", storage.Config{AccountURL: "https://verum.blob.core.windows.net/"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "evidence", ConnectionString: "base-conn"}
	base.Merge(&storage.Config{ConnectionString: "overlay-conn", Provider: storage.ProviderMemory})

	if base.ContainerName != "evidence" {
		t.Errorf("container_name should remain evidence, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" || base.Provider != storage.ProviderMemory {
		t.Errorf("overlay not applied: %+v", base)
	}
}

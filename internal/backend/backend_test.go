package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artempelyovin/rashodomer-be/internal/config"
)

func TestBackendType_IsValid(t *testing.T) {
	tests := []struct {
		backendType BackendType
		want        bool
	}{
		{MemoryBackend, true},
		{FileBackend, true},
		{SQLiteBackend, true},
		{BackendType("sheets"), false},
		{BackendType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.backendType.String(), func(t *testing.T) {
			if got := tt.backendType.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		if _, err := FromAppConfig(nil); err == nil {
			t.Error("FromAppConfig(nil) error = nil, want error")
		}
	})

	t.Run("invalid backend type", func(t *testing.T) {
		appConfig := &config.Config{DataBackend: "postgres"}
		if _, err := FromAppConfig(appConfig); err == nil {
			t.Error("FromAppConfig() error = nil, want error")
		}
	})

	t.Run("valid config", func(t *testing.T) {
		appConfig := &config.Config{
			DataBackend:  "sqlite",
			FileDBPath:   "./data.json",
			SQLiteDBPath: "./data.db",
		}
		cfg, err := FromAppConfig(appConfig)
		if err != nil {
			t.Fatalf("FromAppConfig() error = %v", err)
		}
		if cfg.Type != SQLiteBackend {
			t.Errorf("FromAppConfig() Type = %v, want %v", cfg.Type, SQLiteBackend)
		}
		if cfg.SQLiteDBPath != "./data.db" {
			t.Errorf("FromAppConfig() SQLiteDBPath = %v, want ./data.db", cfg.SQLiteDBPath)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory backend", Config{Type: MemoryBackend}, false},
		{"file backend with path", Config{Type: FileBackend, FileDBPath: "./data.json"}, false},
		{"file backend without path", Config{Type: FileBackend}, true},
		{"sqlite backend with path", Config{Type: SQLiteBackend, SQLiteDBPath: "./data.db"}, false},
		{"sqlite backend without path", Config{Type: SQLiteBackend}, true},
		{"invalid backend", Config{Type: BackendType("sheets")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultFactory_CreateStore(t *testing.T) {
	factory := NewFactory(nil)
	ctx := context.Background()

	t.Run("memory store", func(t *testing.T) {
		result, err := factory.CreateStore(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("CreateStore() error = %v", err)
		}
		if result.Store == nil {
			t.Fatal("CreateStore() Store is nil")
		}
		if err := result.Cleanup(); err != nil {
			t.Errorf("Cleanup() error = %v", err)
		}
	})

	t.Run("file store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "store.json")
		result, err := factory.CreateStore(ctx, Config{Type: FileBackend, FileDBPath: path})
		if err != nil {
			t.Fatalf("CreateStore() error = %v", err)
		}
		if result.Store == nil {
			t.Fatal("CreateStore() Store is nil")
		}
		if err := result.Cleanup(); err != nil {
			t.Errorf("Cleanup() error = %v", err)
		}
	})

	t.Run("invalid backend type", func(t *testing.T) {
		_, err := factory.CreateStore(ctx, Config{Type: BackendType("sheets")})
		if err == nil {
			t.Fatal("CreateStore() error = nil, want error")
		}
		// The error names the valid backends
		for _, want := range GetBackendTypeStrings() {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("CreateStore() error %q does not mention %q", err, want)
			}
		}
	})
}

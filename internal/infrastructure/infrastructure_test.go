package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/generation"
	"github.com/JaimeStill/quill/internal/infrastructure"
	"github.com/JaimeStill/quill/pkg/database"
	"github.com/JaimeStill/quill/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "quill",
			User:            "quill",
			Password:        "quill",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "exports",
			ConnectionString: azuriteConnString,
		},
		Provider: generation.Config{
			Model:      "gpt-4o-mini",
			Attempts:   3,
			RetryDelay: "1s",
			Timeout:    "2m",
		},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("disabled without token", func(t *testing.T) {
		infra, err := infrastructure.New(validConfig())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if infra.Provider != nil {
			t.Error("Provider should be nil without a token")
		}
	})

	t.Run("enabled with token", func(t *testing.T) {
		cfg := validConfig()
		cfg.Provider.Token = "sk-test"
		cfg.Provider.BaseURL = "http://localhost:11434/v1"

		infra, err := infrastructure.New(cfg)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if infra.Provider == nil {
			t.Error("Provider is nil with a token configured")
		}
	})
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	_, err := infrastructure.New(cfg)
	if err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

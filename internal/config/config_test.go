package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		BindAddr:        "0.0.0.0",
		DatabasePath:    ".slick",
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		ShutdownTimeout: DefaultShutdownTimeout,
		ApiPort:         3000,
		MetricsPort:     12798,
		RentPerByte:     0,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
bindAddr: "127.0.0.1"
databasePath: ".slick-test"
blobPlugin: "badger"
metadataPlugin: "sqlite"
shutdownTimeout: "10s"
apiPort: 8080
metricsPort: 8088
rentPerByte: 25
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-slick.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		BindAddr:        "127.0.0.1",
		DatabasePath:    ".slick-test",
		BlobPlugin:      "badger",
		MetadataPlugin:  "sqlite",
		ShutdownTimeout: "10s",
		ApiPort:         8080,
		MetricsPort:     8088,
		RentPerByte:     25,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig()

	// Without Config file
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Expected is the original default values from globalConfig
	expected := &Config{
		BindAddr:        "0.0.0.0",
		DatabasePath:    ".slick",
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		ShutdownTimeout: DefaultShutdownTimeout,
		ApiPort:         3000,
		MetricsPort:     12798,
		RentPerByte:     0,
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf(
			"config mismatch without file:\nExpected: %+v\nGot:      %+v",
			expected,
			cfg,
		)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	resetGlobalConfig()

	t.Setenv("SLICK_BIND_ADDR", "127.0.0.2")
	t.Setenv("SLICK_RENT_PER_BYTE", "50")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.BindAddr != "127.0.0.2" {
		t.Errorf("expected BindAddr 127.0.0.2, got: %s", cfg.BindAddr)
	}
	if cfg.RentPerByte != 50 {
		t.Errorf("expected RentPerByte 50, got: %d", cfg.RentPerByte)
	}
}

package config

import (
	"log/slog"
	"os"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"MAMBLER_CODEPAGE", "MAMBLER_TITLE", "MAMBLER_MAX_CHUNK_BYTES",
		"MAMBLER_INDEX", "MAMBLER_LOG_LEVEL", "MAMBLER_LOG_FORMAT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name:     "defaults with empty environment",
			setupEnv: func(t *testing.T) {},
			wantErr:  false,
			checkConfig: func(cfg *Config) bool {
				return cfg.Codepage == "437" &&
					cfg.Title == "" &&
					cfg.MaxChunkBytes == 65535 &&
					cfg.Index &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text"
			},
		},
		{
			name: "custom values",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_CODEPAGE", "cp852")
				setEnv("MAMBLER_TITLE", "Pocket Almanac")
				setEnv("MAMBLER_MAX_CHUNK_BYTES", "16000")
				setEnv("MAMBLER_INDEX", "false")
				setEnv("MAMBLER_LOG_LEVEL", "debug")
				setEnv("MAMBLER_LOG_FORMAT", "json")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.Codepage == "cp852" &&
					cfg.Title == "Pocket Almanac" &&
					cfg.MaxChunkBytes == 16000 &&
					!cfg.Index &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json"
			},
		},
		{
			name: "invalid MAMBLER_MAX_CHUNK_BYTES",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_MAX_CHUNK_BYTES", "invalid")
			},
			wantErr: true,
		},
		{
			name: "zero MAMBLER_MAX_CHUNK_BYTES",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_MAX_CHUNK_BYTES", "0")
			},
			wantErr: true,
		},
		{
			name: "oversized MAMBLER_MAX_CHUNK_BYTES",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_MAX_CHUNK_BYTES", "65536")
			},
			wantErr: true,
		},
		{
			name: "invalid MAMBLER_INDEX",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_INDEX", "maybe")
			},
			wantErr: true,
		},
		{
			name: "invalid MAMBLER_LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_LOG_LEVEL", "loud")
			},
			wantErr: true,
		},
		{
			name: "warning is accepted as warn",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_LOG_LEVEL", "warning")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.LogLevel == slog.LevelWarn
			},
		},
		{
			name: "invalid MAMBLER_LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				setEnv("MAMBLER_LOG_FORMAT", "yaml")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Change to a temp directory without .env file to avoid loading it
			tmpDir := t.TempDir()
			originalWd, _ := os.Getwd()
			_ = os.Chdir(tmpDir) // Ignore error - test will fail if this doesn't work
			defer func() {
				_ = os.Chdir(originalWd) // Ignore error in cleanup
			}()

			// Clean up env vars before each test
			for _, key := range envVars {
				unsetEnv(key)
			}
			// Restore original values after test
			defer func() {
				for key, value := range originalEnv {
					if value != "" {
						setEnv(key, value)
					} else {
						unsetEnv(key)
					}
				}
			}()

			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "mixed case", input: "Debug", want: slog.LevelDebug},
		{name: "unknown", input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

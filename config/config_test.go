package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shhhinnovations/cryptokit/encryption"
	apperrors "github.com/shhhinnovations/cryptokit/errors"
	"github.com/shhhinnovations/cryptokit/logger"
	"github.com/shhhinnovations/cryptokit/validation"
)

const testPrefix = "CKTEST"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func loadOpts(opts ...LoaderOption) []LoaderOption {
	return append([]LoaderOption{
		WithEnvPrefix(testPrefix),
		WithLoaderLogger(logger.Nop()),
		WithFileSystem(&mockFS{}),
	}, opts...)
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name      string
		cfg       ServiceConfig
		wantEnv   string
		wantDebug bool
	}{
		{"empty", ServiceConfig{}, "development", true},
		{"production", ServiceConfig{Environment: "production"}, "production", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ApplyDefaults()
			if tt.cfg.Name != DefaultServiceName {
				t.Errorf("name = %q", tt.cfg.Name)
			}
			if tt.cfg.Environment != tt.wantEnv || tt.cfg.Debug != tt.wantDebug {
				t.Errorf("env = %q debug = %v", tt.cfg.Environment, tt.cfg.Debug)
			}
			if tt.cfg.Logging.ServiceName != DefaultServiceName || tt.cfg.Logging.Level != "info" {
				t.Errorf("logging = %+v", tt.cfg.Logging)
			}
		})
	}
}

func validConfig() Config {
	cfg := Config{
		Encryption: encryption.Config{
			Algorithm:  encryption.AlgorithmRijndael,
			PassPhrase: "passPhrase",
			InitVector: "1234567890123456",
		},
		HMAC: HMACConfig{Key: "secret"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(*Config) {}, ""},
		{"passthrough needs no secrets", func(c *Config) {
			c.Encryption = encryption.Config{Algorithm: encryption.AlgorithmPassthrough}
		}, ""},
		{"unknown algorithm", func(c *Config) { c.Encryption.Algorithm = "rot13" }, "encryption.algorithm"},
		{"missing passphrase", func(c *Config) { c.Encryption.PassPhrase = "  " }, "encryption.pass_phrase"},
		{"short iv", func(c *Config) { c.Encryption.InitVector = "short" }, "encryption.init_vector"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment"},
		{"bad location", func(c *Config) { c.HMAC.Location = "Mars/Olympus" }, "hmac.location"},
		{"negative ttl", func(c *Config) { c.HMAC.TTL = -time.Second }, "hmac.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
				t.Fatalf("error = %v, want INVALID_INPUT", err)
			}
			fields, _ := appErr.Details["fields"].([]validation.FieldError)
			var found bool
			for _, f := range fields {
				found = found || f.Field == tt.wantField
			}
			if !found {
				t.Errorf("fields = %+v, want %s", fields, tt.wantField)
			}
		})
	}
}

func TestConfig_ApplyDefaultsSanitizesSecrets(t *testing.T) {
	cfg := Config{
		Encryption: encryption.Config{PassPhrase: ` "pass" `, InitVector: "'1234567890123456'"},
		HMAC:       HMACConfig{Key: ` 'k' `},
	}
	cfg.ApplyDefaults()

	if cfg.Encryption.PassPhrase != "pass" || cfg.Encryption.InitVector != "1234567890123456" || cfg.HMAC.Key != "k" {
		t.Errorf("secrets not sanitized: %+v %+v", cfg.Encryption, cfg.HMAC)
	}
	if cfg.HMAC.TTL != 24*time.Hour || cfg.HMAC.Location != "UTC" {
		t.Errorf("hmac defaults = %+v", cfg.HMAC)
	}
	if cfg.Observability.Environment != "development" {
		t.Errorf("observability env = %q", cfg.Observability.Environment)
	}
}

func TestHMACConfig_Loc(t *testing.T) {
	loc, err := HMACConfig{Location: "Local"}.Loc()
	if err != nil || loc != time.Local {
		t.Errorf("Local -> %v, %v", loc, err)
	}
	loc, err = HMACConfig{Location: "UTC"}.Loc()
	if err != nil || loc != time.UTC {
		t.Errorf("UTC -> %v, %v", loc, err)
	}
}

func TestLoadConfig_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: cryptokit-test
environment: staging
encryption:
  algorithm: rijndael
  pass_phrase: from-file
  init_vector: "1234567890123456"
hmac:
  ttl: 2h
server:
  port: 9090
  cors:
    allowed_origins: ["https://a.example.com"]
`)
	t.Setenv(testPrefix+"_ENCRYPTION_PASS_PHRASE", "from-env")
	t.Setenv(testPrefix+"_HMAC_KEY", "env-key")
	t.Setenv(testPrefix+"_SERVER_READ_TIMEOUT", "3s")

	var cfg Config
	err := LoadConfig("cryptokit", &cfg, loadOpts(
		WithFileSystem(RealFileSystem{}),
		WithConfigFile(path),
		WithEnvFile(filepath.Join(dir, "absent.env")),
	)...)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Name != "cryptokit-test" || cfg.Environment != "staging" {
		t.Errorf("service = %+v", cfg.ServiceConfig)
	}
	if cfg.Encryption.PassPhrase != "from-env" {
		t.Errorf("pass phrase = %q, env should win", cfg.Encryption.PassPhrase)
	}
	if cfg.Encryption.Algorithm != encryption.AlgorithmRijndael {
		t.Errorf("algorithm = %q", cfg.Encryption.Algorithm)
	}
	if cfg.HMAC.Key != "env-key" || cfg.HMAC.TTL != 2*time.Hour {
		t.Errorf("hmac = %+v", cfg.HMAC)
	}
	if cfg.Server.Port != 9090 || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 {
		t.Errorf("cors = %+v", cfg.Server.CORS)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", testPrefix+"_HMAC_KEY=dotenv-key\n")
	unsetEnv(t, testPrefix+"_HMAC_KEY")

	var cfg Config
	err := LoadConfig("cryptokit", &cfg, loadOpts(
		WithFileSystem(RealFileSystem{}),
		WithConfigFile(""),
		WithEnvFile(envPath),
	)...)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HMAC.Key != "dotenv-key" {
		t.Errorf("hmac key = %q", cfg.HMAC.Key)
	}
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	var cfg Config
	err := LoadConfig("cryptokit", &cfg, loadOpts(WithConfigFile("/nonexistent/config.yml"))...)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestLoad_ValidatesResult(t *testing.T) {
	t.Setenv(testPrefix+"_ENCRYPTION_ALGORITHM", "aes-256-gcm")
	unsetEnv(t, testPrefix+"_ENCRYPTION_PASS_PHRASE")

	_, err := Load(loadOpts()...)
	if err == nil {
		t.Fatal("expected missing pass phrase error")
	}

	t.Setenv(testPrefix+"_ENCRYPTION_PASS_PHRASE", "pw")
	cfg, err := Load(loadOpts()...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Encryption.Algorithm != encryption.AlgorithmAESGCM {
		t.Errorf("algorithm = %q", cfg.Encryption.Algorithm)
	}
}

func TestResolver_SearchesStandardPaths(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/config.yml": true,
		"./.env.cryptokit":    true,
		"./.env":              true,
	}}
	r := &Resolver{FileSystem: fs}

	got := r.ResolveFiles("cryptokit", LoaderConfig{})
	if got.ConfigFile != "./config/config.yml" {
		t.Errorf("config file = %q", got.ConfigFile)
	}
	if got.EnvFile != "./.env.cryptokit" {
		t.Errorf("env file = %q", got.EnvFile)
	}

	got = r.ResolveFiles("cryptokit", LoaderConfig{ConfigFile: "x.yml", EnvFile: "y.env"})
	if got.ConfigFile != "x.yml" || got.EnvFile != "y.env" {
		t.Errorf("explicit paths not kept: %+v", got)
	}
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(Config{}), "")
	want := []string{
		"name", "environment", "logging.level",
		"encryption.pass_phrase", "encryption.derivation.iterations",
		"hmac.key", "hmac.location", "server.cors.allowed_origins", "observability.sample_rate",
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	for _, w := range want {
		if !set[w] {
			t.Errorf("missing key %s in %v", w, keys)
		}
	}
	if set["serviceconfig"] || set["serviceconfig.name"] {
		t.Error("squashed struct leaked its field name")
	}
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{"", "hmac.key", "HMAC_KEY"},
		{"", "encryption.pass_phrase", "ENCRYPTION_PASS_PHRASE"},
		{"ck", "server.port", "CK_SERVER_PORT"},
	}
	for _, tt := range tests {
		if got := EnvName(tt.prefix, tt.key); got != tt.want {
			t.Errorf("EnvName(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
		}
	}
}

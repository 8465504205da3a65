package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

// chdir — смена текущего рабочего каталога с авто-возвратом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// unsetenv — снимает переменную на время теста, восстанавливая исходное значение.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// Полный корректный YAML под текущую структуру config.go.
const sampleYAML = `
env: "prod"
http:
  host: "0.0.0.0"
  port: "8080"
  base_path: "/api"
auth:
  jwt_secret: "file-secret"
  token_ttl: "12h"
  issuer: "gw"
  bcrypt_cost: 10
news_api:
  base_url: "http://newsapi.local/v2"
  api_key: "file-key"
  timeout: "3s"
cache:
  articles_ttl: "1m"
  sources_ttl: "2h"
  sweep_interval: "30s"
storage:
  driver: "postgres"
  db_url: "postgres://u:p@db:5432/news?sslmode=disable"
cors:
  allowed_origins: ["https://a.example", "https://b.example"]
timeouts:
  request: "7s"
rate_limit:
  requests: 50
  window: "1m"
`

// Минимальный YAML: только секреты, остальное — дефолты/ENV.
const minimalYAML = `
env: "stage"
auth:
  jwt_secret: "s"
news_api:
  api_key: "k"
`

// Некорректный YAML для проверки сообщений об ошибке.
const brokenYAML = `
env: [unclosed
`

func TestHTTPConfig_Addr(t *testing.T) {
	t.Parallel()
	cfg := HTTPConfig{Host: "0.0.0.0", Port: "3000"}
	require.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	require.Equal(t, "/api", cfg.HTTP.BasePath)
	require.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "gw", cfg.Auth.Issuer)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Equal(t, "http://newsapi.local/v2", cfg.NewsAPI.BaseURL)
	require.Equal(t, 3*time.Second, cfg.NewsAPI.Timeout)
	require.Equal(t, time.Minute, cfg.Cache.ArticlesTTL)
	require.Equal(t, 2*time.Hour, cfg.Cache.SourcesTTL)
	require.Equal(t, 30*time.Second, cfg.Cache.SweepInterval)
	require.Equal(t, StoragePostgres, cfg.Storage.Driver)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, 7*time.Second, cfg.Timeouts.Request)
	require.Equal(t, 50, cfg.RateLimit.Requests)
	require.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", minimalYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.HTTP.Port)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, 12, cfg.Auth.BcryptCost)
	require.Equal(t, "https://newsapi.org/v2", cfg.NewsAPI.BaseURL)
	require.Equal(t, 5*time.Minute, cfg.Cache.ArticlesTTL)
	require.Equal(t, time.Hour, cfg.Cache.SourcesTTL)
	require.Zero(t, cfg.Cache.SweepInterval)
	require.Equal(t, StorageMemory, cfg.Storage.Driver)
	require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, 100, cfg.RateLimit.Requests)
	require.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "stage", cfg.Env)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "8080", cfg.HTTP.Port)
}

// Явный путь важнее CONFIG_PATH и local.yaml.
func TestLoad_Priority_ExplicitWinsOverEnvAndLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	explicit := writeFile(t, dir, "explicit.yaml", sampleYAML)
	badFromEnv := writeFile(t, dir, "bad.yaml", brokenYAML)
	t.Setenv("CONFIG_PATH", badFromEnv)
	writeFile(t, ".", "local.yaml", brokenYAML)

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

func TestLoad_EnvOverlay_OverridesValuesFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("CACHE_ARTICLES_TTL", "90s")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "18080", cfg.HTTP.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	require.Equal(t, "file-key", cfg.NewsAPI.APIKey)
	require.Equal(t, 90*time.Second, cfg.Cache.ArticlesTTL)
	require.Equal(t, StorageMemory, cfg.Storage.Driver)
}

// «Только ENV» без файлов.
func TestLoad_EnvOnly_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("ENV", "dev")
	t.Setenv("HTTP_PORT", "50090")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("NEWS_API_KEY", "k")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "50090", cfg.HTTP.Port)
	require.Equal(t, "s", cfg.Auth.JWTSecret)
	require.Equal(t, "k", cfg.NewsAPI.APIKey)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

// Без секретов сервис не стартует.
func TestLoad_EnvOnly_MissingSecrets(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	unsetenv(t, "JWT_SECRET")
	unsetenv(t, "NEWS_API_KEY")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	unsetenv(t, "JWT_SECRET")
	unsetenv(t, "NEWS_API_KEY")
	// Уже заданная переменная не перезаписывается значением из .env.
	t.Setenv("HTTP_PORT", "4000")

	writeFile(t, ".", ".env", "JWT_SECRET=dotenv-secret\nNEWS_API_KEY=dotenv-key\nHTTP_PORT=5000\n")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dotenv-secret", cfg.Auth.JWTSecret)
	require.Equal(t, "dotenv-key", cfg.NewsAPI.APIKey)
	require.Equal(t, "4000", cfg.HTTP.Port)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Auth:    AuthConfig{JWTSecret: "s", TokenTTL: time.Hour, BcryptCost: 12},
			NewsAPI: NewsAPIConfig{APIKey: "k"},
			Cache:   CacheConfig{ArticlesTTL: time.Minute, SourcesTTL: time.Hour},
			Storage: StorageConfig{Driver: StorageMemory},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"blank secret", func(c *Config) { c.Auth.JWTSecret = "  " }, false},
		{"blank api key", func(c *Config) { c.NewsAPI.APIKey = "" }, false},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, false},
		{"bcrypt too low", func(c *Config) { c.Auth.BcryptCost = 3 }, false},
		{"bcrypt too high", func(c *Config) { c.Auth.BcryptCost = 32 }, false},
		{"zero cache ttl", func(c *Config) { c.Cache.SourcesTTL = 0 }, false},
		{"postgres without url", func(c *Config) { c.Storage.Driver = StoragePostgres }, false},
		{"postgres with url", func(c *Config) {
			c.Storage.Driver = StoragePostgres
			c.Storage.DatabaseURL = "postgres://localhost/db"
		}, true},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }, false},
		{"negative rate limit", func(c *Config) { c.RateLimit.Requests = -1 }, false},
		{"rate limit without window", func(c *Config) { c.RateLimit.Requests = 10 }, false},
		{"rate limit", func(c *Config) {
			c.RateLimit.Requests = 10
			c.RateLimit.Window = time.Minute
		}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestMustLoad_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "ok.yaml", minimalYAML)

	cfg := MustLoad(cfgPath)
	require.NotNil(t, cfg)
	require.Equal(t, "stage", cfg.Env)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}

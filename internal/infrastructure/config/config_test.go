package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"STORE_APP_NAME",
	"STORE_APP_ENV",
	"STORE_APP_PORT",
	"STORE_DATABASE_URL",
	"STORE_DATABASE_HOST",
	"STORE_DATABASE_PORT",
	"STORE_DATABASE_PASSWORD",
	"STORE_DATABASE_MAX_OPEN_CONNS",
	"STORE_DATABASE_MAX_IDLE_CONNS",
	"STORE_JWT_SECRET",
	"STORE_JWT_ACCESS_TOKEN_EXPIRATION",
	"STORE_STRIPE_SECRET_KEY",
	"STORE_CORS_ALLOWED_ORIGINS",
	"STORE_RATE_LIMIT_REQUESTS",
	"STORE_TELEMETRY_SAMPLING_RATIO",
	"PORT",
	"APP_ENV",
	"NODE_ENV",
	"DATABASE_URL",
	"MONGODB_URI",
	"JWT_SECRET",
	"JWT_EXPIRE",
	"STRIPE_SECRET_KEY",
	"ALLOWED_ORIGINS",
	"CLIENT_URL",
}

// withCleanEnv clears managed variables for the duration of the test
func withCleanEnv(t *testing.T) {
	t.Helper()
	saved := make(map[string]string, len(managedEnv))
	for _, k := range managedEnv {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		withCleanEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "dripnest-storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "5000", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.ConnectAttempts)
		assert.Equal(t, 5*time.Second, cfg.Database.ConnectRetryDelay)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
		assert.Equal(t, "http://localhost:3000", cfg.CORS.ClientURL)
		assert.Equal(t, 1000, cfg.RateLimit.Requests)
		assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
		assert.Equal(t, []string{"Render/1.0"}, cfg.RateLimit.SkipUserAgents)
		assert.True(t, cfg.RateLimit.Enabled)
		assert.Equal(t, "usd", cfg.Stripe.Currency)
		assert.Equal(t, "order_events", cfg.AMQP.Exchange)
		assert.False(t, cfg.Redis.Enabled())
	})

	t.Run("loads values from environment variables with STORE prefix", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STORE_APP_NAME", "test-app")
		os.Setenv("STORE_APP_PORT", "9000")
		os.Setenv("STORE_DATABASE_HOST", "testdb.local")
		os.Setenv("STORE_DATABASE_PORT", "5433")
		os.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("honors plain environment aliases", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("PORT", "7070")
		os.Setenv("NODE_ENV", "staging")
		os.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop?sslmode=disable")
		os.Setenv("JWT_EXPIRE", "30d")
		os.Setenv("ALLOWED_ORIGINS", "https://shop.example.com, https://*.vercel.app")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "7070", cfg.App.Port)
		assert.Equal(t, "staging", cfg.App.Env)
		assert.Equal(t, "postgres://u:p@db:5432/shop?sslmode=disable", cfg.Database.DSN())
		assert.Equal(t, 30*24*time.Hour, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, []string{"https://shop.example.com", "https://*.vercel.app"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("prefixed variable wins over alias", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STORE_APP_PORT", "9100")
		os.Setenv("PORT", "7070")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9100", cfg.App.Port)
	})

	t.Run("rejects malformed token expiry", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("JWT_EXPIRE", "sevend")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.access_token_expiration")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates sampling ratio", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("STORE_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func() {
		os.Setenv("STORE_APP_ENV", "production")
		os.Setenv("STORE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("STORE_STRIPE_SECRET_KEY", "sk_live_123")
		os.Setenv("STORE_CORS_ALLOWED_ORIGINS", "https://shop.example.com")
	}

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("STORE_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires stripe key in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Unsetenv("STORE_STRIPE_SECRET_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stripe.secret_key is required in production")
	})

	t.Run("rejects wildcard origin in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("STORE_CORS_ALLOWED_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors.allowed_origins cannot be '*'")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("url takes precedence", func(t *testing.T) {
		cfg := DatabaseConfig{URL: "postgres://a@b/c", Host: "ignored"}
		assert.Equal(t, "postgres://a@b/c", cfg.DSN())
	})
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

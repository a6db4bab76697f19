package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Referral.RewardPoints)
	assert.Equal(t, "http://localhost:3000", cfg.Certificate.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, NotifyLog, cfg.Notify.Driver)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("CERTIFICATE_BASE_URL", "https://careers.example.com/")
	t.Setenv("REFERRAL_REWARD_POINTS", "25")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("COMPLETION_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "https://careers.example.com", cfg.Certificate.BaseURL)
	assert.Equal(t, 25, cfg.Referral.RewardPoints)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, "https://careers.example.com", cfg.GetAllowedOrigins())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"app mode", map[string]string{"APP_MODE": "staging"}},
		{"db driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"notify driver", map[string]string{"NOTIFY_DRIVER": "smtp"}},
		{"prod without secret", map[string]string{"APP_MODE": "prod"}},
		{"negative reward", map[string]string{"REFERRAL_REWARD_POINTS": "-1"}},
		{"no workers", map[string]string{"COMPLETION_WORKERS": "0"}},
		{"zero timeout", map[string]string{"COMPLETION_TIMEOUT": "0s"}},
		{"negative timeout", map[string]string{"COMPLETION_TIMEOUT": "-5s"}},
		{"unparsable timeout", map[string]string{"COMPLETION_TIMEOUT": "soon"}},
		{"zero reconcile batch", map[string]string{"RECONCILE_BATCH": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

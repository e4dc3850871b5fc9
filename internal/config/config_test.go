package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("SERVER_PORT"))
	assert.Equal(t, "mail.project_recipients", envKey("MAIL_PROJECT_RECIPIENTS"))
	assert.Equal(t, "ratelimit.leads_per_minute", envKey("RATELIMIT_LEADS_PER_MINUTE"))
	assert.Equal(t, "", envKey("MAIL"))
	assert.Equal(t, "", envKey("PATH"))
	assert.Equal(t, "", envKey("GOPATH_EXTRA"))
}

func TestLoadWithFile_EnvOnly(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAIL_PROJECT_RECIPIENTS", "ops@crm.test, sales@crm.test")
	t.Setenv("MAIL_DELIVERY", "disabled")

	cfg, err := LoadWithFile("")

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"ops@crm.test", "sales@crm.test"}, cfg.Mail.ProjectRecipients)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.Stats.Interval)
	assert.Equal(t, 10, cfg.RateLimit.LeadsPerMinute)
	assert.False(t, cfg.Server.TrustProxyHeaders)
}

func TestLoadWithFile_YAMLThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 7000
store:
  driver: mongo
mongo:
  database: crm_test
mail:
  delivery: queue
  project_recipients:
    - projects@crm.test
log:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("SERVER_PORT", "7001")
	t.Setenv("SERVER_TRUST_PROXY_HEADERS", "true")

	cfg, err := LoadWithFile(path)

	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "crm_test", cfg.Mongo.Database)
	assert.Equal(t, DeliveryQueue, cfg.Mail.Delivery)
	assert.Equal(t, []string{"projects@crm.test"}, cfg.Mail.ProjectRecipients)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Server.TrustProxyHeaders)
}

func TestLoadWithFile_Invalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadWithFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")

	_, err = LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Store.Driver = "sqlite"
	cfg.Mail.Delivery = "pigeon"
	cfg.Log.Format = "xml"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
	assert.Contains(t, err.Error(), "pigeon")
	assert.Contains(t, err.Error(), "xml")
}

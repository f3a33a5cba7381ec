package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "annoor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, domain.Tariffs{Inside: 70, Outside: 130}, cfg.Delivery)
	assert.Equal(t, domain.DefaultMerchantNumber, cfg.Merchant.BKash)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
store:
  driver: redis
  redis:
    addr: cache:6379
    db: 2
    ttl: 48h
    lock: true
delivery:
  inside: 60
  outside: "150"
emailjs:
  service_id: svc
  template_id: tpl
  public_key: pub
merchant:
  bkash: "01711111111"
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 48*time.Hour, cfg.Store.Redis.TTL)
	assert.True(t, cfg.Store.Redis.Lock)
	assert.Equal(t, 30*time.Second, cfg.Store.Redis.LockTTL, "unset keys keep defaults")
	assert.Equal(t, domain.Tariffs{Inside: 60, Outside: 150}, cfg.Delivery)
	assert.True(t, cfg.EmailJS.Configured())
	assert.Equal(t, "01711111111", cfg.Merchant.BKash)
	assert.Equal(t, domain.DefaultMerchantNumber, cfg.Merchant.Nagad)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store:\n  driver: file\n")
	t.Setenv("ANNOOR_STORE_DRIVER", "memory")
	t.Setenv("ANNOOR_DELIVERY_OUTSIDE", "140")
	t.Setenv("ANNOOR_CHECKOUT_TIMEOUT", "3s")
	t.Setenv("ANNOOR_STORE_FALLBACK_KEYS", "aa,bb")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, int64(140), cfg.Delivery.Outside)
	assert.Equal(t, 3*time.Second, cfg.Checkout.Timeout)
	assert.Equal(t, []string{"aa", "bb"}, cfg.Store.FallbackKeys)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "store: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "store:\n  driver: postgres\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "delivery:\n  inside: -5\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "stroe:\n  driver: file\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig, "unknown keys are rejected")

	_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	raw := map[string]interface{}{"http": map[string]interface{}{"addr": ":1"}}
	env := map[string]string{"ANNOOR_HTTP_ADDR": ":9090", "ANNOOR_REDIS_DB": "3", "UNRELATED": "x"}
	applyEnv(raw, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, ":9090", raw["http"].(map[string]interface{})["addr"])
	store := raw["store"].(map[string]interface{})
	assert.Equal(t, "3", store["redis"].(map[string]interface{})["db"])
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "annoor.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, domain.DefaultTariffs, cfg.Delivery)
}

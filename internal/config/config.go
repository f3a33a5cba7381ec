// Package config loads the store configuration from an optional YAML file
// overlaid with ANNOOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/internal/logging"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/emailjs"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/file"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/redis"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "annoor.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full runtime configuration.
type Config struct {
	Store    StoreConfig            `mapstructure:"store" yaml:"store"`
	Delivery domain.Tariffs         `mapstructure:"delivery" yaml:"delivery"`
	EmailJS  emailjs.Config         `mapstructure:"emailjs" yaml:"emailjs"`
	Catalog  CatalogConfig          `mapstructure:"catalog" yaml:"catalog"`
	Checkout CheckoutConfig         `mapstructure:"checkout" yaml:"checkout"`
	HTTP     HTTPConfig             `mapstructure:"http" yaml:"http"`
	Log      LogConfig              `mapstructure:"log" yaml:"log"`
	Merchant domain.MerchantNumbers `mapstructure:"merchant" yaml:"merchant"`
}

// StoreConfig selects where carts are persisted.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Dir    string `mapstructure:"dir" yaml:"dir"`
	// EncryptionKey is a 64-char hex AES-256 key. Empty disables encryption.
	EncryptionKey string      `mapstructure:"encryption_key" yaml:"encryption_key"`
	FallbackKeys  []string    `mapstructure:"fallback_keys" yaml:"fallback_keys"`
	Redis         RedisConfig `mapstructure:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Lock     bool          `mapstructure:"lock" yaml:"lock"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

type CatalogConfig struct {
	// Path to a YAML or JSON product list. Empty uses the embedded catalog.
	Path string `mapstructure:"path" yaml:"path"`
}

type CheckoutConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: DriverFile,
			Dir:    file.DefaultDir,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  redis.DefaultPrefix,
				LockTTL: 30 * time.Second,
			},
		},
		Delivery: domain.DefaultTariffs,
		EmailJS:  emailjs.Config{Endpoint: emailjs.DefaultEndpoint, Timeout: 10 * time.Second},
		Checkout: CheckoutConfig{Timeout: 15 * time.Second},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Log:      LogConfig{Level: "info"},
		Merchant: domain.DefaultMerchantNumbers,
	}
}

// envBindings maps environment variables to configuration keys.
var envBindings = map[string]string{
	"ANNOOR_STORE_DRIVER":          "store.driver",
	"ANNOOR_STORE_DIR":             "store.dir",
	"ANNOOR_STORE_ENCRYPTION_KEY":  "store.encryption_key",
	"ANNOOR_STORE_FALLBACK_KEYS":   "store.fallback_keys",
	"ANNOOR_REDIS_ADDR":            "store.redis.addr",
	"ANNOOR_REDIS_PASSWORD":        "store.redis.password",
	"ANNOOR_REDIS_DB":              "store.redis.db",
	"ANNOOR_REDIS_PREFIX":          "store.redis.prefix",
	"ANNOOR_REDIS_TTL":             "store.redis.ttl",
	"ANNOOR_REDIS_LOCK":            "store.redis.lock",
	"ANNOOR_REDIS_LOCK_TTL":        "store.redis.lock_ttl",
	"ANNOOR_DELIVERY_INSIDE":       "delivery.inside",
	"ANNOOR_DELIVERY_OUTSIDE":      "delivery.outside",
	"ANNOOR_EMAILJS_SERVICE_ID":    "emailjs.service_id",
	"ANNOOR_EMAILJS_TEMPLATE_ID":   "emailjs.template_id",
	"ANNOOR_EMAILJS_PUBLIC_KEY":    "emailjs.public_key",
	"ANNOOR_EMAILJS_PRIVATE_KEY":   "emailjs.private_key",
	"ANNOOR_EMAILJS_ENDPOINT":      "emailjs.endpoint",
	"ANNOOR_EMAILJS_TIMEOUT":       "emailjs.timeout",
	"ANNOOR_CATALOG_PATH":          "catalog.path",
	"ANNOOR_CHECKOUT_TIMEOUT":      "checkout.timeout",
	"ANNOOR_HTTP_ADDR":             "http.addr",
	"ANNOOR_LOG_LEVEL":             "log.level",
	"ANNOOR_MERCHANT_BKASH":        "merchant.bkash",
	"ANNOOR_MERCHANT_NAGAD":        "merchant.nagad",
}

// Load reads path (or DefaultFile when path is empty and the file exists),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	raw := map[string]interface{}{}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]interface{}{}
		}
	}

	applyEnv(raw, os.LookupEnv)

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(raw map[string]interface{}, lookup func(string) (string, bool)) {
	for env, key := range envBindings {
		if value, ok := lookup(env); ok {
			setPath(raw, strings.Split(key, "."), value)
		}
	}
}

func setPath(m map[string]interface{}, path []string, value interface{}) {
	for _, part := range path[:len(path)-1] {
		next, ok := m[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			m[part] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

func decode(raw map[string]interface{}, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at wiring time.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("%w: unknown store driver %q (want memory, file or redis)", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Delivery.Inside < 0 || c.Delivery.Outside < 0 {
		return fmt.Errorf("%w: delivery fees cannot be negative", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Checkout.Timeout < 0 {
		return fmt.Errorf("%w: checkout timeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}

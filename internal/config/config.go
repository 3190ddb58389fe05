package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"rapidxcel/internal/pricing"
)

const EnvPrefix = "RAPIDXCEL_"

type Config struct {
	Env string `koanf:"env"`

	HTTP struct {
		Port      string `koanf:"port"`
		BodyLimit int    `koanf:"bodyLimit"`
	} `koanf:"http"`

	DB struct {
		DSN string `koanf:"dsn"`
	} `koanf:"db"`

	Log struct {
		File string `koanf:"file"`
	} `koanf:"log"`

	Session struct {
		Backend       string        `koanf:"backend"` // memory | redis
		RedisAddr     string        `koanf:"redisAddr"`
		RedisPassword string        `koanf:"redisPassword"`
		RedisDB       int           `koanf:"redisDB"`
		TTL           time.Duration `koanf:"ttl"`
		CookieSecure  bool          `koanf:"cookieSecure"`
	} `koanf:"session"`

	Auth struct {
		BcryptCost int `koanf:"bcryptCost"`
	} `koanf:"auth"`

	Shipping struct {
		BaseFee     float64  `koanf:"baseFee"`
		PerUnitRate float64  `koanf:"perUnitRate"`
		Pincodes    []string `koanf:"pincodes"`
	} `koanf:"shipping"`

	Inventory struct {
		LowStockThreshold int `koanf:"lowStockThreshold"`
	} `koanf:"inventory"`

	Orders struct {
		RejectEmptyCart bool `koanf:"rejectEmptyCart"`
	} `koanf:"orders"`

	PublicURL string `koanf:"publicURL"`
	Seed      bool   `koanf:"seed"`
}

func Defaults() Config {
	var c Config
	c.Env = "development"
	c.HTTP.Port = "8080"
	c.HTTP.BodyLimit = 1 << 20
	c.DB.DSN = "rapidxcel.db"
	c.Log.File = "./rapidxcel.log"
	c.Session.Backend = "memory"
	c.Session.RedisAddr = "127.0.0.1:6379"
	c.Session.TTL = 24 * time.Hour
	c.Auth.BcryptCost = 12
	c.Shipping.BaseFee = pricing.BaseShippingFee
	c.Shipping.PerUnitRate = pricing.PerUnitRate
	c.Shipping.Pincodes = append([]string(nil), pricing.DefaultPincodes...)
	c.Inventory.LowStockThreshold = 10
	c.PublicURL = "http://localhost:8080"
	c.Seed = true
	return c
}

// Load layers an optional YAML file and RAPIDXCEL_* environment variables
// over Defaults. An empty path falls back to $RAPIDXCEL_CONFIG.
func Load(path string) (Config, error) {
	cfg := Defaults()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
	}

	// RAPIDXCEL_SESSION_REDISADDR -> session.redisaddr, then onto the file's
	// spelling (session.redisAddr) so the env value replaces it instead of
	// sitting beside it. Keys the file lacks match fields case-insensitively.
	canonical := make(map[string]string, len(k.Keys()))
	for _, key := range k.Keys() {
		canonical[strings.ToLower(key)] = key
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			if key == "CONFIG" {
				return "", nil
			}
			key = strings.ToLower(strings.ReplaceAll(key, "_", "."))
			if c, ok := canonical[key]; ok {
				key = c
			}
			return key, value
		},
	}), nil); err != nil {
		return cfg, errors.Wrap(err, "load env")
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: strings.EqualFold,
		},
	}); err != nil {
		return cfg, errors.Wrap(err, "unmarshal config")
	}

	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return cfg, errors.Errorf("auth.bcryptCost %d out of range", cfg.Auth.BcryptCost)
	}
	if cfg.Session.Backend != "memory" && cfg.Session.Backend != "redis" {
		return cfg, errors.Errorf("session.backend %q must be memory or redis", cfg.Session.Backend)
	}

	log.Printf("[config] ENV=%s PORT=%s DB_DSN=%s SESSION=%s LOG_FILE=%s",
		cfg.Env, cfg.HTTP.Port, cfg.DB.DSN, cfg.Session.Backend, cfg.Log.File)
	return cfg, nil
}

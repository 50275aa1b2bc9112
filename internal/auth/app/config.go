package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookeez/accounts/pkg/cryptox"
	"github.com/bookeez/accounts/pkg/jwtx"
	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Notification senders.
const (
	SenderLog = "log"
	SenderFCM = "fcm"
)

type Config struct {
	Env                 string        `env:"ENV"                   envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	StoreDriver   string        `env:"STORE_DRIVER"   envDefault:"mongo"`
	MongoURI      string        `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"bookeez"`
	SQLiteFile    string        `env:"SQLITE_FILE"    envDefault:"accounts.db"`
	BoltFile      string        `env:"BOLT_FILE"      envDefault:"accounts.bolt"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT"  envDefault:"5s"`

	// Secrets are never logged. In dev they are generated when unset.
	AccessSecret    string        `env:"JWT_SECRET_KEY"`
	RefreshSecret   string        `env:"JWT_REFRESH_SECRET_KEY"`
	Issuer          string        `env:"JWT_ISSUER"        envDefault:"bookeez-accounts"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	BcryptCost      int           `env:"BCRYPT_COST"       envDefault:"10"`

	NotifySender      string        `env:"NOTIFY_SENDER"       envDefault:"log"`
	FCMCredentials    string        `env:"FCM_CREDENTIALS_FILE"`
	FCMProjectID      string        `env:"FCM_PROJECT_ID"`
	NotifyQueueSize   int           `env:"NOTIFY_QUEUE_SIZE"   envDefault:"256"`
	NotifyWorkers     int           `env:"NOTIFY_WORKERS"      envDefault:"2"`
	NotifyTimeout     time.Duration `env:"NOTIFY_TIMEOUT"      envDefault:"5s"`
	NotifyMaxAttempts uint          `env:"NOTIFY_MAX_ATTEMPTS" envDefault:"3"`
	NotifyRatePerSec  float64       `env:"NOTIFY_RATE_PER_SEC" envDefault:"50"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the service runs in the development environment.
func (c *Config) IsDev() bool { return c.Env == "dev" }

// Validate checks the configuration. In dev, missing token secrets are
// replaced with random ones and a warning is logged; tokens then do not
// survive a restart.
func (c *Config) Validate(logger *slog.Logger) error {
	var errs []error

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo driver"))
		}
	case DriverSQLite:
		if c.SQLiteFile == "" {
			errs = append(errs, errors.New("SQLITE_FILE is required for the sqlite driver"))
		}
	case DriverBolt:
		if c.BoltFile == "" {
			errs = append(errs, errors.New("BOLT_FILE is required for the bolt driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.NotifySender {
	case SenderLog:
	case SenderFCM:
		if c.FCMCredentials == "" {
			errs = append(errs, errors.New("FCM_CREDENTIALS_FILE is required for the fcm sender"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_SENDER %q", c.NotifySender))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.BcryptCost < cryptox.MinCost || c.BcryptCost > cryptox.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be within [%d, %d]", cryptox.MinCost, cryptox.MaxCost))
	}

	if err := c.ensureSecrets(logger); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c *Config) ensureSecrets(logger *slog.Logger) error {
	if c.IsDev() {
		for name, secret := range map[string]*string{
			"JWT_SECRET_KEY":         &c.AccessSecret,
			"JWT_REFRESH_SECRET_KEY": &c.RefreshSecret,
		} {
			if *secret != "" {
				continue
			}
			generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return fmt.Errorf("generate %s: %w", name, err)
			}
			*secret = generated
			logger.Warn("token secret not set, using an ephemeral one", "var", name)
		}
	}

	switch {
	case c.AccessSecret == "" || c.RefreshSecret == "":
		return errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY are required")
	case len(c.AccessSecret) < jwtx.MinSecretBytes || len(c.RefreshSecret) < jwtx.MinSecretBytes:
		return fmt.Errorf("token secrets must be at least %d bytes", jwtx.MinSecretBytes)
	case c.AccessSecret == c.RefreshSecret:
		return errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must differ")
	}
	return nil
}

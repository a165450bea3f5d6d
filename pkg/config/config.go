package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BOOKNEST"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BOOKNEST_DB_DSN"
	EnvDBHost = "BOOKNEST_DB_HOST"
	EnvDBUser = "BOOKNEST_DB_USER"
	EnvDBName = "BOOKNEST_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	Service  ServiceConfig
	DB       DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Pipeline PipelineConfig
	Cron     CronConfig
	HTTP     HTTPConfig
	Dedupe   DedupeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOKNEST_APP_ENV" required:"true"`
	Port         string `envconfig:"BOOKNEST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BOOKNEST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOKNEST_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"BOOKNEST_APP_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BOOKNEST_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BOOKNEST_DB_DSN"`
	Driver string `envconfig:"BOOKNEST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BOOKNEST_DB_HOST"`
	LegacyPort     int    `envconfig:"BOOKNEST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BOOKNEST_DB_USER"`
	LegacyPassword string `envconfig:"BOOKNEST_DB_PASSWORD"`
	LegacyName     string `envconfig:"BOOKNEST_DB_NAME"`
	LegacySSLMode  string `envconfig:"BOOKNEST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BOOKNEST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOOKNEST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOOKNEST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOKNEST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOKNEST_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BOOKNEST_REDIS_ADDR"`
	Password     string        `envconfig:"BOOKNEST_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOKNEST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOKNEST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOKNEST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOKNEST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOKNEST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOKNEST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"BOOKNEST_KAFKA_BROKERS" default:"localhost:9092"`
	RawTopic     string        `envconfig:"BOOKNEST_KAFKA_RAW_TOPIC" default:"booknest.raw-records"`
	ErrorTopic   string        `envconfig:"BOOKNEST_KAFKA_ERROR_TOPIC" default:"booknest.quality-errors"`
	GroupID      string        `envconfig:"BOOKNEST_KAFKA_GROUP_ID" default:"booknest-etl"`
	MinBytes     int           `envconfig:"BOOKNEST_KAFKA_MIN_BYTES" default:"1"`
	MaxBytes     int           `envconfig:"BOOKNEST_KAFKA_MAX_BYTES" default:"10485760"`
	WriteTimeout time.Duration `envconfig:"BOOKNEST_KAFKA_WRITE_TIMEOUT" default:"10s"`
}

type PipelineConfig struct {
	QueueSize       int           `envconfig:"BOOKNEST_PIPELINE_QUEUE_SIZE" default:"256"`
	Workers         int           `envconfig:"BOOKNEST_PIPELINE_WORKERS" default:"4"`
	PromoteDebounce time.Duration `envconfig:"BOOKNEST_PIPELINE_PROMOTE_DEBOUNCE" default:"5s"`
}

type CronConfig struct {
	SweepSpec string        `envconfig:"BOOKNEST_CRON_SWEEP_SPEC" default:"@every 10m"`
	LockKey   string        `envconfig:"BOOKNEST_CRON_LOCK_KEY" default:"booknest:cron:sweep"`
	LockTTL   time.Duration `envconfig:"BOOKNEST_CRON_LOCK_TTL" default:"15m"`
}

type HTTPConfig struct {
	AllowedOrigins  []string      `envconfig:"BOOKNEST_HTTP_ALLOWED_ORIGINS" default:"*"`
	ReadTimeout     time.Duration `envconfig:"BOOKNEST_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"BOOKNEST_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"BOOKNEST_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DedupeConfig struct {
	TTL time.Duration `envconfig:"BOOKNEST_DEDUPE_TTL" default:"168h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

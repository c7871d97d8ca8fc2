package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, topics, intervals), standard settings
// -----------------------------------------------------------------------------

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Store    StoreConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	Topics   TopicsConfig
	Outbox   OutboxConfig
	Consumer ConsumerConfig
	Ledger   LedgerConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type StoreConfig struct {
	// postgres | memory
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type KafkaConfig struct {
	// Required with the postgres store. Empty is only accepted with the
	// memory store, where the in-process broker serves a single process.
	Brokers      []string      `envconfig:"KAFKA_BROKERS"`
	GroupID      string        `envconfig:"KAFKA_GROUP_ID"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
}

type TopicsConfig struct {
	Approved          string `envconfig:"TOPIC_APPROVED" default:"enrollment.approved.v1"`
	WithdrawRequested string `envconfig:"TOPIC_WITHDRAW_REQUESTED" default:"enrollment.withdraw.requested.v1"`
	Eligibility       string `envconfig:"TOPIC_ELIGIBILITY" default:"resource.withdraw.eligibility.v1"`
	WithdrawCompleted string `envconfig:"TOPIC_WITHDRAW_COMPLETED" default:"resource.withdraw.completed.v1"`
	WithdrawRejected  string `envconfig:"TOPIC_WITHDRAW_REJECTED" default:"resource.withdraw.rejected.v1"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
}

type ConsumerConfig struct {
	Workers      int           `envconfig:"CONSUMER_WORKERS" default:"2"`
	RetryBackoff time.Duration `envconfig:"CONSUMER_RETRY_BACKOFF" default:"1s"`
}

type LedgerConfig struct {
	// Zero disables purging.
	Retention     time.Duration `envconfig:"LEDGER_RETENTION" default:"720h"`
	PurgeInterval time.Duration `envconfig:"LEDGER_PURGE_INTERVAL" default:"1h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
		// The in-process broker is invisible to the other service, so a
		// durable outbox drained into it would be marked sent and lost.
		if !c.Kafka.Enabled() {
			return fmt.Errorf("KAFKA_BROKERS is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if len(c.CORS.AllowOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOW_ORIGINS must list at least one origin")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.Outbox.PollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.Consumer.Workers < 1 {
		return fmt.Errorf("CONSUMER_WORKERS must be at least 1")
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: 2 * time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Store: StoreConfig{Driver: StoreDriverMemory},
		CORS: CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        time.Hour,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
			TTL:    time.Hour,
		},
		Kafka: KafkaConfig{GroupID: "test", WriteTimeout: time.Second},
		Topics: TopicsConfig{
			Approved:          "enrollment.approved.v1",
			WithdrawRequested: "enrollment.withdraw.requested.v1",
			Eligibility:       "resource.withdraw.eligibility.v1",
			WithdrawCompleted: "resource.withdraw.completed.v1",
			WithdrawRejected:  "resource.withdraw.rejected.v1",
		},
		Outbox:   OutboxConfig{PollInterval: 50 * time.Millisecond},
		Consumer: ConsumerConfig{Workers: 1, RetryBackoff: 10 * time.Millisecond},
		Ledger:   LedgerConfig{Retention: 720 * time.Hour, PurgeInterval: time.Hour},
	}
}

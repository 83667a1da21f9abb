package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	AppEnv      string `mapstructure:"app_env"`
	GRPCPort    string `mapstructure:"grpc_port"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type LoggerConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // seconds
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	ConsumeTopic string   `mapstructure:"consume_topic"`
	NotifyTopic  string   `mapstructure:"notify_topic"`
	GroupID      string   `mapstructure:"group_id"`
}

// ForecastConfig exposes the engine's policy constants. The tier boundaries
// mirror observed product behavior; override with care.
type ForecastConfig struct {
	MinRecords        int `mapstructure:"min_records"`
	MinModelRecords   int `mapstructure:"min_model_records"`
	MediumRecords     int `mapstructure:"medium_records"`
	HighRecords       int `mapstructure:"high_records"`
	RestockMultiplier int `mapstructure:"restock_multiplier"`
}

type SchedulerConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Backoff     time.Duration `mapstructure:"backoff"`
	CacheMaxAge time.Duration `mapstructure:"cache_max_age"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
	ItemPause   time.Duration `mapstructure:"item_pause"`
}

// Load reads an optional yaml file and overlays APP_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_env", "development")
	v.SetDefault("server.grpc_port", ":8084")
	v.SetDefault("server.metrics_addr", ":9090")

	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.disable_caller", false)
	v.SetDefault("logger.disable_stacktrace", true)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "estoquemax")
	v.SetDefault("postgres.password", "estoquemax")
	v.SetDefault("postgres.dbname", "estoquemax")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", 300)
	v.SetDefault("postgres.conn_max_idle_time", 60)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consume_topic", "consumption.events")
	v.SetDefault("kafka.notify_topic", "pantry.notifications")
	v.SetDefault("kafka.group_id", "estoquemax-core")

	v.SetDefault("forecast.min_records", 5)
	v.SetDefault("forecast.min_model_records", 10)
	v.SetDefault("forecast.medium_records", 20)
	v.SetDefault("forecast.high_records", 50)
	v.SetDefault("forecast.restock_multiplier", 2)

	v.SetDefault("scheduler.interval", 6*time.Hour)
	v.SetDefault("scheduler.backoff", 30*time.Minute)
	v.SetDefault("scheduler.cache_max_age", 7*24*time.Hour)
	v.SetDefault("scheduler.lock_ttl", 2*time.Minute)
	v.SetDefault("scheduler.item_pause", 100*time.Millisecond)
}

package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type CacheDriver string

const (
	CacheDriverMemory CacheDriver = "memory"
	CacheDriverRedis  CacheDriver = "redis"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Moscow"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Store struct {
		URL      string        `env:"SCHEDULE_STORE_URL" envDefault:"http://localhost:3000"`
		Username string        `env:"SCHEDULE_STORE_USERNAME"`
		Password string        `env:"SCHEDULE_STORE_PASSWORD"`
		Timeout  time.Duration `env:"SCHEDULE_STORE_TIMEOUT" envDefault:"10s"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"calendar:calendar"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Queue    string `env:"RABBITMQ_QUEUE" envDefault:"doctor-schedule-calendar"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"schedules"`
	}

	Cache struct {
		Enabled        bool          `env:"CACHE_ENABLED" envDefault:"true"`
		Driver         CacheDriver   `env:"CACHE_DRIVER" envDefault:"memory"`
		MonthsSize     int           `env:"CACHE_MONTHS_SIZE" envDefault:"24"`
		SearchSize     int           `env:"CACHE_SEARCH_SIZE" envDefault:"256"`
		SearchTTL      time.Duration `env:"CACHE_SEARCH_TTL" envDefault:"5m"`
		RedisAddr      string        `env:"CACHE_REDIS_ADDR" envDefault:"localhost:6379"`
		RedisPassword  string        `env:"CACHE_REDIS_PASSWORD"`
		RedisDB        int           `env:"CACHE_REDIS_DB" envDefault:"0"`
		RedisKeyPrefix string        `env:"CACHE_REDIS_KEY_PREFIX" envDefault:"calendar:search:"`
	}

	Calendar struct {
		MaxEventsPerDay         int           `env:"CALENDAR_MAX_EVENTS_PER_DAY" envDefault:"50"`
		VirtualizationEnabled   bool          `env:"CALENDAR_VIRTUALIZATION_ENABLED"`
		VirtualizationThreshold int           `env:"CALENDAR_VIRTUALIZATION_THRESHOLD" envDefault:"500"`
		SearchDebounce          time.Duration `env:"CALENDAR_SEARCH_DEBOUNCE" envDefault:"300ms"`
		DedupScope              string        `env:"CALENDAR_DEDUP_SCOPE" envDefault:"global"`
		MaxViews                int           `env:"CALENDAR_MAX_VIEWS" envDefault:"1000"`
	}
}

// NewConfig reads the environment, preceded by an optional .env file.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))
	cfg.Cache.Driver = CacheDriver(strings.ToLower(string(cfg.Cache.Driver)))
	cfg.Store.URL = strings.TrimRight(cfg.Store.URL, "/")
	cfg.Auth.BasicClients = ParseBasicClients(cfg.Auth.BasicClientsString)

	return cfg, nil
}

// ParseBasicClients splits "user:pass,user2:pass2". Malformed pairs are skipped.
func ParseBasicClients(raw string) []ConfigBasicClient {
	clients := []ConfigBasicClient{}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) == 2 && parts[0] != "" {
			clients = append(clients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}
	return clients
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}

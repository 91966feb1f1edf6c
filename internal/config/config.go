package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"

	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage    string        `yaml:"storage" env:"STORAGE" env-default:"redis"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis"`
	Advisor    Advisor       `yaml:"advisor"`
	Tracing    Tracing       `yaml:"tracing"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Advisor - the remote move advisor. An empty URL means the built-in bot
// answers in-process.
type Advisor struct {
	URL        string        `yaml:"url" env:"ADVISOR_URL"`
	Timeout    time.Duration `yaml:"timeout" env:"ADVISOR_TIMEOUT" env-default:"3s"`
	Difficulty string        `yaml:"difficulty" env:"ADVISOR_DIFFICULTY" env-default:"hard"`
}

type Tracing struct {
	Exporter     string `yaml:"exporter" env:"TRACING_EXPORTER" env-default:"none"`
	OTLPEndpoint string `yaml:"otlp-endpoint" env:"TRACING_OTLP_ENDPOINT" env-default:"localhost:4317"`
	ServiceName  string `yaml:"service-name" env:"TRACING_SERVICE_NAME" env-default:"tictactoe-advisor"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	switch config.Storage {
	case StorageRedis, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown storage %q", config.Storage)
	}

	switch config.Tracing.Exporter {
	case ExporterNone, ExporterStdout, ExporterOTLP:
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", config.Tracing.Exporter)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIBaseURL    string `env:"FRAMESEEK_API_URL"    envDefault:"http://localhost:3001/api"`
	StaticBaseURL string `env:"FRAMESEEK_STATIC_URL" envDefault:"http://localhost:3001/frames"`

	StateFile string `env:"FRAMESEEK_STATE_FILE" envDefault:"frameseek-session.json"`

	RequestTimeoutSeconds int `env:"FRAMESEEK_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	UploadTimeoutSeconds  int `env:"FRAMESEEK_UPLOAD_TIMEOUT_SECONDS"  envDefault:"300"`
	StatusTTLSeconds      int `env:"FRAMESEEK_STATUS_TTL_SECONDS"      envDefault:"3"`

	MetricsPort  int    `env:"METRICS_PORT"  envDefault:"0"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:""`
	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port                 string   `env:"PORT" envDefault:"8080"`
	APIBaseURL           string   `env:"API_BASE_URL" envDefault:"http://localhost:7071/api"`
	HTTPTimeoutSeconds   int      `env:"HTTP_TIMEOUT_SECONDS" envDefault:"20"`
	UploadTimeoutSeconds int      `env:"UPLOAD_TIMEOUT_SECONDS" envDefault:"120"`
	UploadConcurrency    int      `env:"UPLOAD_CONCURRENCY" envDefault:"4"`
	BlobProvider         string   `env:"BLOB_PROVIDER" envDefault:"azure"` // azure | gcs | s3
	AllowedOriginSuffix  []string `env:"ALLOWED_ORIGIN_SUFFIXES" envSeparator:"," envDefault:"vercel.app"`
	LogLevel             string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string   `env:"LOG_FORMAT" envDefault:"text"`

	// Publication journal. Disabled unless DB_HOST is set.
	DBUser                 string `env:"DB_USER"`
	DBPassword             string `env:"DB_PASSWORD"`
	DBHost                 string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutSeconds) * time.Second
}

// JournalEnabled reports whether a database is configured for the publication journal.
func (c *Config) JournalEnabled() bool {
	return c.DBHost != "" || c.InstanceConnectionName != ""
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = 8000
	DefaultEndpoint        = "http://localhost:8000/api/analyze"
	DefaultMaxUploadBytes  = 10 << 20
	DefaultRateCapacity    = 30
	DefaultRateRefill      = 1
	DefaultMinioBucketName = "cv-analyzer"
)

// DefaultCORSOrigins are the dev servers of the web dashboard.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://localhost:8080",
}

type Config struct {
	Server struct {
		Port int `yaml:"port" validate:"min=1,max=65535"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver" validate:"omitempty,oneof=mysql postgres"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port" validate:"omitempty,min=1,max=65535"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL" validate:"omitempty,url"`
	} `yaml:"openai"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" validate:"dive,url"`
	} `yaml:"cors"`

	RateLimit struct {
		Capacity   int `yaml:"capacity" validate:"min=0"`
		RefillRate int `yaml:"refillRate" validate:"min=0"`
	} `yaml:"rateLimit"`

	Client struct {
		Endpoint       string `yaml:"endpoint" validate:"omitempty,url"`
		CacheDir       string `yaml:"cacheDir"`
		MaxUploadBytes *int64 `yaml:"maxUploadBytes"` // nil means default, <= 0 disables the limit
	} `yaml:"client"`
}

// UploadLimit is the client-side upload size limit in bytes. Zero or less means no limit.
func (c *Config) UploadLimit() int64 {
	if c.Client.MaxUploadBytes == nil {
		return DefaultMaxUploadBytes
	}
	return *c.Client.MaxUploadBytes
}

// Load baca file config.yaml, isi default, lalu validasi
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadOptional is Load, except that an empty path or a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Parse(nil)
	}
	return cfg, err
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every zero value that has a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "postgres":
			c.Database.Port = 5432
		default:
			c.Database.Port = 3306
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = DefaultMinioBucketName
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = DefaultRateCapacity
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = DefaultRateRefill
	}
	if c.Client.Endpoint == "" {
		c.Client.Endpoint = DefaultEndpoint
	}
	if c.Client.MaxUploadBytes == nil {
		limit := int64(DefaultMaxUploadBytes)
		c.Client.MaxUploadBytes = &limit
	}
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection URL.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// DSN for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "postgres" {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int             `yaml:"port"            env:"PORT"`
	Env            string          `yaml:"env"             env:"APP_ENV"` // "development" | "production"
	DatabaseURL    string          `yaml:"database_url"    env:"DATABASE_URL"`
	Database       DatabaseConfig  `yaml:"database"        envPrefix:"DB_"`
	Media          MediaConfig     `yaml:"media"           envPrefix:"MEDIA_"`
	Geocoding      GeocodingConfig `yaml:"geocoding"       envPrefix:"GEOCODING_"`
	AllowedOrigins []string        `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	AutoMigrate    bool            `yaml:"auto_migrate"    env:"AUTO_MIGRATE"`
}

type DatabaseConfig struct {
	Host     string            `yaml:"host"      env:"HOST"`
	Port     int               `yaml:"port"      env:"PORT"`
	User     string            `yaml:"user"      env:"USER"`
	Password string            `yaml:"password"  env:"PASSWORD"`
	Name     string            `yaml:"name"      env:"NAME"`
	SSLMode  string            `yaml:"sslmode"   env:"SSLMODE"`
	MaxConns int32             `yaml:"max_conns" env:"MAX_CONNS"`
	Params   map[string]string `yaml:"params"`
}

// MediaConfig describes where uploaded files go and how clients reach them.
type MediaConfig struct {
	Driver    string   `yaml:"driver"      env:"DRIVER"`
	Dir       string   `yaml:"dir"         env:"DIR"`
	BaseURL   string   `yaml:"base_url"    env:"BASE_URL"`
	MaxSizeMB int      `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	S3        S3Config `yaml:"s3"          envPrefix:"S3_"`
}

type S3Config struct {
	Endpoint        string `yaml:"endpoint"          env:"ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id"     env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	Bucket          string `yaml:"bucket"            env:"BUCKET"`
	Region          string `yaml:"region"            env:"REGION"`
	Prefix          string `yaml:"prefix"            env:"PREFIX"`
	CustomDomain    string `yaml:"custom_domain"     env:"CUSTOM_DOMAIN"`
	PathStyleAccess bool   `yaml:"path_style_access" env:"PATH_STYLE_ACCESS"`
}

// GeocodingConfig names the database-side reverse geocoding function.
type GeocodingConfig struct {
	Function      string `yaml:"function"       env:"FUNCTION"`
	UnknownStreet string `yaml:"unknown_street" env:"UNKNOWN_STREET"`
}

// Load reads the YAML file at configPath (if any) and overlays environment variables.
// A missing file is only tolerated for the default path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != "" && path != DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			SSLMode:  defaultDBSSLMode,
			MaxConns: defaultDBMaxConns,
		},
		Media: MediaConfig{
			Driver:  MediaDriverLocal,
			Dir:     defaultMediaDir,
			BaseURL: defaultMediaBaseURL,
		},
		Geocoding: GeocodingConfig{
			Function:      defaultGeocodingFunction,
			UnknownStreet: defaultUnknownStreet,
		},
		AutoMigrate: true,
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("invalid database.max_conns %d, expected >= 1", c.Database.MaxConns)
	}
	if c.Media.MaxSizeMB < 0 {
		return fmt.Errorf("invalid media.max_size_mb %d, expected >= 0", c.Media.MaxSizeMB)
	}
	switch c.Media.Driver {
	case MediaDriverLocal:
	case MediaDriverS3:
		s3 := c.Media.S3
		if s3.Bucket == "" || s3.Region == "" || s3.AccessKeyID == "" || s3.SecretAccessKey == "" {
			return errors.New("incomplete media.s3 config: bucket/region/access_key_id/secret_access_key are required")
		}
	default:
		return fmt.Errorf("invalid media.driver %q, expected %q or %q", c.Media.Driver, MediaDriverLocal, MediaDriverS3)
	}
	if !isSQLIdentifier(c.Geocoding.Function) {
		return fmt.Errorf("invalid geocoding.function %q", c.Geocoding.Function)
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// DSN returns the PostgreSQL connection string, preferring database_url.
func (c *AppConfig) DSN() string {
	if v := strings.TrimSpace(c.DatabaseURL); v != "" {
		return v
	}
	return c.Database.DSNValue()
}

// MediaDir returns the absolute directory used by the local media driver.
func (c *AppConfig) MediaDir() string {
	if c == nil {
		return ResolveRuntimePath("", defaultMediaDir)
	}
	return ResolveRuntimePath(c.Media.Dir, defaultMediaDir)
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

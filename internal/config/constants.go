package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8000
	defaultEnv        = "development"

	defaultDBHost     = "db"
	defaultDBPort     = 5432
	defaultDBUser     = "taganrog_user"
	defaultDBPassword = "taganrog_pass"
	defaultDBName     = "taganrog_db"
	defaultDBSSLMode  = "disable"
	defaultDBMaxConns = 10

	MediaDriverLocal    = "local"
	MediaDriverS3       = "s3"
	defaultMediaDir     = "uploads"
	defaultMediaBaseURL = "/media"

	defaultGeocodingFunction = "get_street_name"
	// defaultUnknownStreet is what get_street_name returns when no street is near.
	defaultUnknownStreet = "Неизвестная улица"
)

package config

import "strings"

func (c *AppConfig) normalize() {
	c.Env = strings.TrimSpace(c.Env)
	if c.Env == "" {
		c.Env = defaultEnv
	}
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.Database = normalizeDatabaseConfig(c.Database)
	c.Media = normalizeMediaConfig(c.Media)
	c.Geocoding = normalizeGeocodingConfig(c.Geocoding)
	c.AllowedOrigins = normalizeOrigins(c.AllowedOrigins)
}

func normalizeDatabaseConfig(cfg DatabaseConfig) DatabaseConfig {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.SSLMode = strings.ToLower(strings.TrimSpace(cfg.SSLMode))

	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
	}
	if cfg.User == "" {
		cfg.User = defaultDBUser
	}
	if cfg.Name == "" {
		cfg.Name = defaultDBName
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = defaultDBSSLMode
	}
	if cfg.MaxConns == 0 {
		cfg.MaxConns = defaultDBMaxConns
	}
	if cfg.Params != nil {
		cfg.Params = copyStringMap(cfg.Params)
	}
	return cfg
}

func normalizeMediaConfig(cfg MediaConfig) MediaConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	if cfg.Driver == "" {
		cfg.Driver = MediaDriverLocal
	}
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)

	cfg.S3.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.S3.Endpoint), "/")
	cfg.S3.AccessKeyID = strings.TrimSpace(cfg.S3.AccessKeyID)
	cfg.S3.SecretAccessKey = strings.TrimSpace(cfg.S3.SecretAccessKey)
	cfg.S3.Bucket = strings.TrimSpace(cfg.S3.Bucket)
	cfg.S3.Region = strings.TrimSpace(cfg.S3.Region)
	cfg.S3.Prefix = strings.Trim(strings.TrimSpace(cfg.S3.Prefix), "/")
	cfg.S3.CustomDomain = strings.TrimRight(strings.TrimSpace(cfg.S3.CustomDomain), "/")
	return cfg
}

// normalizeBaseURL keeps absolute URLs as-is and turns bare paths into "/path".
func normalizeBaseURL(raw string) string {
	v := strings.TrimRight(strings.TrimSpace(raw), "/")
	if v == "" {
		return defaultMediaBaseURL
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	if !strings.HasPrefix(v, "/") {
		v = "/" + v
	}
	return v
}

func normalizeGeocodingConfig(cfg GeocodingConfig) GeocodingConfig {
	cfg.Function = strings.TrimSpace(cfg.Function)
	if cfg.Function == "" {
		cfg.Function = defaultGeocodingFunction
	}
	if strings.TrimSpace(cfg.UnknownStreet) == "" {
		cfg.UnknownStreet = defaultUnknownStreet
	}
	return cfg
}

func normalizeOrigins(origins []string) []string {
	if origins == nil {
		return nil
	}
	out := make([]string, 0, len(origins))
	seen := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		v := strings.TrimRight(strings.TrimSpace(origin), "/")
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// isSQLIdentifier reports whether s is safe to splice into SQL as a
// (optionally schema-qualified) function name.
func isSQLIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
	}
	return true
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

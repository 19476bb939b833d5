package config

import (
	"net"
	neturl "net/url"
	"strconv"
	"strings"
)

// DSNValue builds a postgres:// URL from the discrete connection fields.
func (c DatabaseConfig) DSNValue() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(c.User)
	if user == "" {
		user = defaultDBUser
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = defaultDBName
	}
	sslMode := strings.TrimSpace(c.SSLMode)
	if sslMode == "" {
		sslMode = defaultDBSSLMode
	}

	params := neturl.Values{}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			params.Set(k, v)
		}
	}
	if params.Get("sslmode") == "" {
		params.Set("sslmode", sslMode)
	}

	u := &neturl.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + name,
		RawQuery: params.Encode(),
	}
	if c.Password != "" {
		u.User = neturl.UserPassword(user, c.Password)
	} else {
		u.User = neturl.User(user)
	}
	return u.String()
}

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/becodeorg/liveboard/irail"
)

// Environment keys for the store credentials. All four are required.
const (
	KeySQLServer   = "SQL_SERVER"
	KeySQLDatabase = "SQL_DATABASE"
	KeySQLUsername = "SQL_USERNAME"
	KeySQLPassword = "SQL_PASSWORD"
)

// Config holds everything the service needs, resolved once at process
// start and passed by reference from there.
type Config struct {
	SQLServer   string `validate:"required"`
	SQLDatabase string `validate:"required"`
	SQLUsername string `validate:"required"`
	SQLPassword string `validate:"required"`

	ListenAddr string `validate:"required"`
	IRailURL   string `validate:"required,url"`
}

// MissingKeysError lists the required environment variables that were
// absent or empty.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing environment variables: [%s]", strings.Join(e.Keys, ", "))
}

// Load reads configuration from the environment. Credential
// completeness is checked here, before anything dials the network or
// the store.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("IRAIL_URL", irail.DefaultBaseURL)

	cfg := &Config{
		SQLServer:   v.GetString(KeySQLServer),
		SQLDatabase: v.GetString(KeySQLDatabase),
		SQLUsername: v.GetString(KeySQLUsername),
		SQLPassword: v.GetString(KeySQLPassword),
		ListenAddr:  v.GetString("LISTEN_ADDR"),
		IRailURL:    v.GetString("IRAIL_URL"),
	}

	var missing []string
	for _, kv := range []struct{ key, val string }{
		{KeySQLServer, cfg.SQLServer},
		{KeySQLDatabase, cfg.SQLDatabase},
		{KeySQLUsername, cfg.SQLUsername},
		{KeySQLPassword, cfg.SQLPassword},
	} {
		if kv.val == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingKeysError{Keys: missing}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// PostgresDSN composes a lib/pq connection string from the credential
// parts.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.SQLUsername, c.SQLPassword),
		Host:   c.SQLServer,
		Path:   c.SQLDatabase,
	}
	return u.String()
}

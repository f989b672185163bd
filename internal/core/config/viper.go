package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/solatis/remap/internal/types"
)

// EnvPrefix is prepended to every environment override, e.g.
// REMAP_SERVER_PORT for server.port.
const EnvPrefix = "REMAP"

// FlagKeys maps CLI flag names to config keys. Only flags present in the
// FlagSet handed to LoadConfig are bound.
var FlagKeys = map[string]string{
	"program":       "remap.program_file",
	"workers":       "remap.workers",
	"drop-on-error": "remap.drop_on_error",
	"host":          "server.host",
	"port":          "server.port",
	"db-url":        "enrichment.db_url",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// LoadConfig loads configuration using viper.
// CLI flags > environment > config file > defaults precedence. Flags count
// only when explicitly set.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*RemapConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Credentials are environment-only.
		if err := validateNoSecretsInConfig(configPath); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &RemapConfig{
		ProgramFile:     v.GetString("remap.program_file"),
		Workers:         v.GetInt("remap.workers"),
		DropOnError:     v.GetBool("remap.drop_on_error"),
		MaxBatchSize:    v.GetInt("remap.max_batch_size"),
		MaxSourceLength: v.GetInt("remap.max_source_length"),
		Host:            v.GetString("server.host"),
		Port:            v.GetInt("server.port"),
		RequestTimeout:  v.GetDuration("server.request_timeout"),
		MaxPayloadSize:  v.GetInt("server.max_payload_size"),
		EnrichmentDBURL: v.GetString("enrichment.db_url"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		LogFormat:       strings.ToLower(v.GetString("log.format")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultRemapConfig()
	v.SetDefault("remap.program_file", d.ProgramFile)
	v.SetDefault("remap.workers", d.Workers)
	v.SetDefault("remap.drop_on_error", d.DropOnError)
	v.SetDefault("remap.max_batch_size", d.MaxBatchSize)
	v.SetDefault("remap.max_source_length", d.MaxSourceLength)
	v.SetDefault("server.host", d.Host)
	v.SetDefault("server.port", d.Port)
	v.SetDefault("server.request_timeout", d.RequestTimeout.String())
	v.SetDefault("server.max_payload_size", d.MaxPayloadSize)
	v.SetDefault("enrichment.db_url", d.EnrichmentDBURL)
	v.SetDefault("log.level", d.LogLevel)
	v.SetDefault("log.format", d.LogFormat)
}

// validateNoSecretsInConfig rejects a database URL with a password in the
// file itself. The file is read on its own so an environment override does
// not mask it.
func validateNoSecretsInConfig(configPath string) error {
	fileOnly := viper.New()
	fileOnly.SetConfigFile(configPath)
	if err := fileOnly.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	raw := fileOnly.GetString("enrichment.db_url")
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		return fmt.Errorf("%w: enrichment.db_url contains a password (use %s_ENRICHMENT_DB_URL environment variable)", types.ErrSecretInConfig, EnvPrefix)
	}
	return nil
}

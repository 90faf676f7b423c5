// Package config loads client settings from a config file, a dotenv file
// and SMITHY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/smithy-lang/smithy-go-client/client"
	"github.com/smithy-lang/smithy-go-client/logging"
	smithyhttp "github.com/smithy-lang/smithy-go-client/transport/http"
)

// DefaultEnvPrefix prefixes the environment variables read by Load, e.g.
// SMITHY_MAX_ATTEMPTS.
const DefaultEnvPrefix = "SMITHY"

// Config holds the client settings that can be set outside of code.
type Config struct {
	Endpoint                  string `mapstructure:"endpoint" validate:"omitempty,url"`
	MaxAttempts               int    `mapstructure:"max_attempts" validate:"min=1"`
	DisableRequestCompression bool   `mapstructure:"disable_request_compression"`
	MinCompressionSize        int64  `mapstructure:"min_compression_size" validate:"min=0,max=10485760"`
	AppID                     string `mapstructure:"app_id" validate:"max=50"`
	LogRetryAttempts          bool   `mapstructure:"log_retry_attempts"`

	// Zerolog level name. Logging stays disabled when empty.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`

	logOutput io.Writer
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Path of a YAML, JSON or TOML config file. Optional.
	ConfigFile string

	// Path of a dotenv file loaded into the environment before variables
	// are read. Existing variables are not overridden. Optional.
	EnvFile string

	EnvPrefix string

	// Destination of log entries when LogLevel is set. Defaults to
	// os.Stderr.
	LogOutput io.Writer
}

var defaults = map[string]any{
	"endpoint":                    "",
	"max_attempts":                3,
	"disable_request_compression": false,
	"min_compression_size":        smithyhttp.DefaultRequestMinCompressSizeBytes,
	"app_id":                      "",
	"log_retry_attempts":          false,
	"log_level":                   "",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the client settings.
func Load(optFns ...func(*LoadOptions)) (*Config, error) {
	o := LoadOptions{EnvPrefix: DefaultEnvPrefix, LogOutput: os.Stderr}
	for _, fn := range optFns {
		fn(&o)
	}

	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", o.EnvFile, err)
		}
	}

	v := viper.New()
	// AutomaticEnv only applies to keys viper already knows about.
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(o.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", o.ConfigFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, &ValidationError{Err: err}
	}

	cfg.logOutput = o.LogOutput
	return cfg, nil
}

// ValidationError is returned by Load when a setting is out of range.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	var verrs validator.ValidationErrors
	if !errors.As(e.Err, &verrs) {
		return fmt.Sprintf("invalid config, %v", e.Err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return "invalid config, " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Apply returns an option function that copies the settings onto client
// options. Unset settings leave the options untouched.
func (c *Config) Apply() func(*client.Options) {
	return func(o *client.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = c.Endpoint
		}
		o.RetryMaxAttempts = c.MaxAttempts
		o.DisableRequestCompression = c.DisableRequestCompression
		minSize := c.MinCompressionSize
		o.RequestMinCompressSizeBytes = &minSize
		if c.AppID != "" {
			o.AppID = c.AppID
		}
		o.LogRetryAttempts = c.LogRetryAttempts

		if c.LogLevel != "" {
			lvl, err := zerolog.ParseLevel(c.LogLevel)
			if err != nil {
				return
			}
			out := c.logOutput
			if out == nil {
				out = os.Stderr
			}
			z := logging.NewZerolog(out)
			z.Logger = z.Logger.Level(lvl)
			o.Logger = z
		}
	}
}

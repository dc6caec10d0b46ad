package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/olusolaa/arrayctl/internal/errors"
	"github.com/olusolaa/arrayctl/internal/log"
	"github.com/olusolaa/arrayctl/internal/reporting/text"
)

const EnvPrefix = "ARRAYCTL"

type Config struct {
	Settings    SettingsConfig    `mapstructure:"settings"`
	Array       ArrayConfig       `mapstructure:"array"`
	Jobs        JobsConfig        `mapstructure:"jobs"`
	Journal     JournalConfig     `mapstructure:"journal"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	VendorCodes map[string]string `mapstructure:"vendor_codes"`
}

type SettingsConfig struct {
	LogLevel     log.Level       `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat    log.Format      `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	Concurrency  int             `mapstructure:"concurrency" validate:"min=1,max=64"`
	ReporterType string          `mapstructure:"reporter" validate:"oneof=text json"`
	CheckMode    bool            `mapstructure:"check_mode"`
	Simulate     bool            `mapstructure:"simulate"`
	Reporter     ReporterConfigs `mapstructure:"reporter_config"`
}

type ReporterConfigs struct {
	Text *text.Config `mapstructure:"text"`
}

// ArrayConfig locates the array. Endpoint may be left empty when simulating.
type ArrayConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	Username          string        `mapstructure:"username"`
	Password          string        `mapstructure:"password"`
	VerifyCert        bool          `mapstructure:"verify_cert"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"min=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	ReadRetries       int           `mapstructure:"read_retries"`
	MaxRetryBackoff   time.Duration `mapstructure:"max_retry_backoff" validate:"min=0"`
	Async             bool          `mapstructure:"async"`
}

type JobsConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval" validate:"min=0"`
	MaxPollInterval time.Duration `mapstructure:"max_poll_interval" validate:"min=0"`
	Multiplier      float64       `mapstructure:"multiplier" validate:"omitempty,gte=1"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// JournalConfig enables the outcome journal when Path is set.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig enables the textfile export when TextfilePath is set.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
	Namespace    string `mapstructure:"namespace"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			Concurrency:  4,
			ReporterType: text.ReporterTypeText,
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false},
			},
		},
		Array: ArrayConfig{
			VerifyCert:        true,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
			ReadRetries:       3,
			MaxRetryBackoff:   2 * time.Second,
		},
		Jobs: JobsConfig{
			PollInterval:    2 * time.Second,
			MaxPollInterval: 30 * time.Second,
			Multiplier:      1.5,
			Timeout:         10 * time.Minute,
		},
		Metrics: MetricsConfig{Namespace: "arrayctl"},
	}
}

// SetDefaults registers every default with v so environment variables can
// override keys that no config file mentions.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("settings.log_level", string(d.Settings.LogLevel))
	v.SetDefault("settings.log_format", string(d.Settings.LogFormat))
	v.SetDefault("settings.concurrency", d.Settings.Concurrency)
	v.SetDefault("settings.reporter", d.Settings.ReporterType)
	v.SetDefault("settings.check_mode", false)
	v.SetDefault("settings.simulate", false)
	v.SetDefault("settings.reporter_config.text.no_color", false)
	v.SetDefault("array.endpoint", "")
	v.SetDefault("array.username", "")
	v.SetDefault("array.password", "")
	v.SetDefault("array.verify_cert", d.Array.VerifyCert)
	v.SetDefault("array.timeout", d.Array.Timeout)
	v.SetDefault("array.requests_per_second", d.Array.RequestsPerSecond)
	v.SetDefault("array.read_retries", d.Array.ReadRetries)
	v.SetDefault("array.max_retry_backoff", d.Array.MaxRetryBackoff)
	v.SetDefault("array.async", false)
	v.SetDefault("jobs.poll_interval", d.Jobs.PollInterval)
	v.SetDefault("jobs.max_poll_interval", d.Jobs.MaxPollInterval)
	v.SetDefault("jobs.multiplier", d.Jobs.Multiplier)
	v.SetDefault("jobs.timeout", d.Jobs.Timeout)
	v.SetDefault("journal.path", "")
	v.SetDefault("metrics.textfile_path", "")
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
}

// BindEnv makes ARRAYCTL_ARRAY_PASSWORD and friends visible to v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v. Booleans and
// numbers may be given as strings (verify_cert: "True").
func Load(ctx context.Context, v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeConfigParseError,
			"failed to decode configuration", "Check value types in the configuration file and ARRAYCTL_ variables.")
	}
	if cfg.Settings.Reporter.Text == nil {
		cfg.Settings.Reporter.Text = DefaultConfig().Settings.Reporter.Text
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate(ctx context.Context) error {
	var problems []string

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return errors.Wrap(err, errors.CodeInternal, "configuration validation could not run")
		}
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("field '%s' failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}

	if !c.Settings.Simulate && strings.TrimSpace(c.Array.Endpoint) == "" {
		problems = append(problems, "array.endpoint is required unless simulating")
	}
	if c.Jobs.MaxPollInterval > 0 && c.Jobs.PollInterval > c.Jobs.MaxPollInterval {
		problems = append(problems, "jobs.poll_interval exceeds jobs.max_poll_interval")
	}
	if _, err := c.VendorCodeOverrides(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.NewUserFacing(errors.CodeConfigValidation,
		"Configuration validation failed:\n - "+strings.Join(problems, "\n - "),
		"Please check your configuration file or flags.")
}

// VendorCodeOverrides resolves the vendor_codes section into taxonomy codes.
func (c *Config) VendorCodeOverrides() (map[string]errors.Code, error) {
	if len(c.VendorCodes) == 0 {
		return nil, nil
	}
	out := make(map[string]errors.Code, len(c.VendorCodes))
	for vendor, name := range c.VendorCodes {
		code, ok := errors.ParseCode(name)
		if !ok || !code.IsTaxonomy() {
			return nil, fmt.Errorf("vendor_codes.%s: '%s' is not a failure kind", vendor, name)
		}
		out[vendor] = code
	}
	return out, nil
}

func (c *Config) LogConfig() log.Config {
	return log.Config{Level: c.Settings.LogLevel, Format: c.Settings.LogFormat}
}

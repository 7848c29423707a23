package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Periods    PeriodsConfig    `yaml:"periods" mapstructure:"periods"`
	Benchmarks BenchmarksConfig `yaml:"benchmarks" mapstructure:"benchmarks"`
	Filters    FiltersConfig    `yaml:"filters" mapstructure:"filters"`
	Client     ClientConfig     `yaml:"client" mapstructure:"client"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// PeriodsConfig defines the two comparison periods. Dates are "2006-01-02"
// strings; empty dates trigger auto-detection from the data.
type PeriodsConfig struct {
	Period1Name string       `yaml:"period1_name" mapstructure:"period1_name"`
	Period2Name string       `yaml:"period2_name" mapstructure:"period2_name"`
	Period1     PeriodConfig `yaml:"period1" mapstructure:"period1"`
	Period2     PeriodConfig `yaml:"period2" mapstructure:"period2"`
}

// PeriodConfig is one period's date range plus its keyword set. Period 1
// carries exclude keywords, period 2 carries include keywords; the unused
// list on each side stays empty.
type PeriodConfig struct {
	StartDate       string   `yaml:"start_date" mapstructure:"start_date"`
	EndDate         string   `yaml:"end_date" mapstructure:"end_date"`
	ExcludeKeywords []string `yaml:"exclude_keywords" mapstructure:"exclude_keywords"`
	IncludeKeywords []string `yaml:"include_keywords" mapstructure:"include_keywords"`
}

// BenchmarksConfig holds the industry-reference thresholds. CTR is a floor;
// the rest are ceilings.
type BenchmarksConfig struct {
	CTR       float64 `yaml:"ctr" mapstructure:"ctr"`             // %
	CPM       float64 `yaml:"cpm" mapstructure:"cpm"`             // USD
	CPC       float64 `yaml:"cpc" mapstructure:"cpc"`             // USD
	CPL       float64 `yaml:"cpl" mapstructure:"cpl"`             // USD per conversation
	Frequency float64 `yaml:"frequency" mapstructure:"frequency"` // prospecting ceiling
}

// FiltersConfig is the pre-classification row filter.
type FiltersConfig struct {
	DeliveryActive        bool     `yaml:"delivery_active" mapstructure:"delivery_active"`
	DeliveryNotDelivering bool     `yaml:"delivery_not_delivering" mapstructure:"delivery_not_delivering"`
	MinSpend              float64  `yaml:"min_spend" mapstructure:"min_spend"`
	NameContains          string   `yaml:"name_contains" mapstructure:"name_contains"`
	NameExcludes          string   `yaml:"name_excludes" mapstructure:"name_excludes"`
	Ages                  []string `yaml:"ages" mapstructure:"ages"`
	Genders               []string `yaml:"genders" mapstructure:"genders"`
}

// ClientConfig holds client-facing report parameters.
type ClientConfig struct {
	Name          string  `yaml:"name" mapstructure:"name"`
	MonthlyBudget float64 `yaml:"monthly_budget" mapstructure:"monthly_budget"`
	Industry      string  `yaml:"industry" mapstructure:"industry"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ADLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("periods.period1_name", "Period 1")
	v.SetDefault("periods.period2_name", "Period 2")
	v.SetDefault("benchmarks.ctr", 1.4)
	v.SetDefault("benchmarks.cpm", 10.88)
	v.SetDefault("benchmarks.cpc", 1.11)
	v.SetDefault("benchmarks.cpl", 15.0)
	v.SetDefault("benchmarks.frequency", 1.5)
	v.SetDefault("filters.delivery_active", true)
	v.SetDefault("filters.delivery_not_delivering", true)
	v.SetDefault("filters.min_spend", 0.0)
	v.SetDefault("filters.ages", []string{})
	v.SetDefault("filters.genders", []string{})
	v.SetDefault("client.monthly_budget", 2000.0)
	v.SetDefault("client.industry", "ecommerce")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ValidatePeriods checks that both period ranges are fully populated. The
// classifier assumes a complete configuration and has no validation path of
// its own.
func (p PeriodsConfig) ValidatePeriods() error {
	if p.Period1.StartDate == "" || p.Period1.EndDate == "" {
		return eris.New("config: period1 date range is incomplete")
	}
	if p.Period2.StartDate == "" || p.Period2.EndDate == "" {
		return eris.New("config: period2 date range is incomplete")
	}
	return nil
}

// HasDates reports whether any period date is set; when false the analyze
// command auto-detects ranges from the data.
func (p PeriodsConfig) HasDates() bool {
	return p.Period1.StartDate != "" || p.Period1.EndDate != "" ||
		p.Period2.StartDate != "" || p.Period2.EndDate != ""
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

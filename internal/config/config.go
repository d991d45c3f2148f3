package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	SampleRows  int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	TopValues   int    `mapstructure:"top_values" yaml:"top_values"`
	SampleSeed  int64  `mapstructure:"sample_seed" yaml:"sample_seed"`
	Delimiter   string `mapstructure:"delimiter" yaml:"delimiter"`
	ChartFormat string `mapstructure:"chart_format" yaml:"chart_format"`

	// Chart page size in inches.
	ChartWidthIn  float64  `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64  `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	Palette       []string `mapstructure:"palette" yaml:"palette"`

	// Outcome column and its two labels
	OutcomeColumn          string `mapstructure:"outcome_column" yaml:"outcome_column"`
	OutcomeNegative        string `mapstructure:"outcome_negative" yaml:"outcome_negative"`
	OutcomePositive        string `mapstructure:"outcome_positive" yaml:"outcome_positive"`
	OutcomeNegativeDisplay string `mapstructure:"outcome_negative_display" yaml:"outcome_negative_display"`
	OutcomePositiveDisplay string `mapstructure:"outcome_positive_display" yaml:"outcome_positive_display"`

	HeatmapBaseColumns []string `mapstructure:"heatmap_base_columns" yaml:"heatmap_base_columns"`
	MonthOrder         []string `mapstructure:"month_order" yaml:"month_order"`

	// Default columns of the report charts
	AgeColumn       string `mapstructure:"age_column" yaml:"age_column"`
	IncomeColumn    string `mapstructure:"income_column" yaml:"income_column"`
	JobColumn       string `mapstructure:"job_column" yaml:"job_column"`
	EducationColumn string `mapstructure:"education_column" yaml:"education_column"`
	MonthColumn     string `mapstructure:"month_column" yaml:"month_column"`
}

// Dir returns ~/.datalens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".datalens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datalens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "datalens-out")
	v.SetDefault("sample_rows", 5)
	v.SetDefault("top_values", 10)
	v.SetDefault("sample_seed", 0)
	v.SetDefault("delimiter", "")
	v.SetDefault("chart_format", "png")
	v.SetDefault("chart_width_in", 10.0)
	v.SetDefault("chart_height_in", 6.0)
	v.SetDefault("palette", []string{"#e74c3c", "#3498db"})
	v.SetDefault("outcome_column", "y")
	v.SetDefault("outcome_negative", "no")
	v.SetDefault("outcome_positive", "yes")
	v.SetDefault("outcome_negative_display", "No")
	v.SetDefault("outcome_positive_display", "Sí")
	v.SetDefault("heatmap_base_columns", []string{"target_sale", "income", "age", "euribor3m", "campaign", "pdays"})
	v.SetDefault("month_order", []string{"mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"})
	v.SetDefault("age_column", "age")
	v.SetDefault("income_column", "income")
	v.SetDefault("job_column", "job")
	v.SetDefault("education_column", "education")
	v.SetDefault("month_column", "month")
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATALENS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values the renderer and audit depend on.
func (c *Global) Validate() error {
	switch strings.ToLower(c.ChartFormat) {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("invalid chart_format: %s (use png, svg or pdf)", c.ChartFormat)
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("chart size must be positive, got %gx%g in", c.ChartWidthIn, c.ChartHeightIn)
	}
	if len(c.Palette) != 2 {
		return fmt.Errorf("palette needs exactly two colors, got %d", len(c.Palette))
	}
	if c.SampleRows < 0 || c.TopValues < 0 {
		return fmt.Errorf("sample_rows and top_values must not be negative")
	}
	return nil
}

// Set assigns one key from its command-line form. Lists are comma separated.
// c is left unchanged when the value is rejected.
func (c *Global) Set(key, val string) error {
	next := *c
	if err := next.assign(key, val); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *Global) assign(key, val string) error {
	switch key {
	case "output_dir":
		c.OutputDir = val
	case "sample_rows", "top_values":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		if key == "sample_rows" {
			c.SampleRows = i
		} else {
			c.TopValues = i
		}
	case "sample_seed":
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int for sample_seed: %w", err)
		}
		c.SampleSeed = i
	case "delimiter":
		c.Delimiter = val
	case "chart_format":
		c.ChartFormat = strings.ToLower(val)
	case "chart_width_in", "chart_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid size for %s: %v", key, val)
		}
		if key == "chart_width_in" {
			c.ChartWidthIn = f
		} else {
			c.ChartHeightIn = f
		}
	case "palette":
		c.Palette = splitList(val)
	case "outcome_column":
		c.OutcomeColumn = val
	case "outcome_negative":
		c.OutcomeNegative = val
	case "outcome_positive":
		c.OutcomePositive = val
	case "outcome_negative_display":
		c.OutcomeNegativeDisplay = val
	case "outcome_positive_display":
		c.OutcomePositiveDisplay = val
	case "heatmap_base_columns":
		c.HeatmapBaseColumns = splitList(val)
	case "month_order":
		c.MonthOrder = splitList(val)
	case "age_column":
		c.AgeColumn = val
	case "income_column":
		c.IncomeColumn = val
	case "job_column":
		c.JobColumn = val
	case "education_column":
		c.EducationColumn = val
	case "month_column":
		c.MonthColumn = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

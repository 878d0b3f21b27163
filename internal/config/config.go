// Package config loads interview settings from the embedded defaults, an
// optional YAML file and INTERVIEWZ_* environment variables.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/interviewz/internal/interview"
	"github.com/abhisek/interviewz/internal/llm"
	"github.com/abhisek/interviewz/internal/prompt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the interview configuration file.
type Config struct {
	Locale          string     `yaml:"locale" validate:"oneof=en fr"`
	QuestionLimit   int        `yaml:"question_limit" validate:"min=1,max=50"`
	DeadlineSeconds int        `yaml:"deadline_seconds" validate:"min=5,max=3600"`
	Categories      []string   `yaml:"categories" validate:"min=1,dive,required"`
	ReportDir       string     `yaml:"report_dir"`
	ReportFormat    string     `yaml:"report_format" validate:"omitempty,oneof=text markdown html json pdf"`
	Generation      Generation `yaml:"generation"`
}

// Generation holds the sampling parameters sent with every completion.
type Generation struct {
	MaxTokens        int     `yaml:"max_tokens" validate:"min=1,max=8192"`
	Temperature      float64 `yaml:"temperature" validate:"min=0,max=2"`
	TopP             float64 `yaml:"top_p" validate:"gt=0,lte=1"`
	FrequencyPenalty float64 `yaml:"frequency_penalty" validate:"min=-2,max=2"`
	PresencePenalty  float64 `yaml:"presence_penalty" validate:"min=-2,max=2"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := decode(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads the defaults only.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from INTERVIEWZ_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("INTERVIEWZ_LOCALE"); ok && v != "" {
		c.Locale = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("INTERVIEWZ_QUESTIONS"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("INTERVIEWZ_QUESTIONS: %w", err)
		}
		c.QuestionLimit = n
	}
	if v, ok := lookup("INTERVIEWZ_DEADLINE"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("INTERVIEWZ_DEADLINE: %w", err)
		}
		c.DeadlineSeconds = n
	}
	if v, ok := lookup("INTERVIEWZ_CATEGORIES"); ok && v != "" {
		c.Categories = splitList(v)
	}
	if v, ok := lookup("INTERVIEWZ_REPORT_DIR"); ok && v != "" {
		c.ReportDir = v
	}
	if v, ok := lookup("INTERVIEWZ_REPORT_FORMAT"); ok && v != "" {
		c.ReportFormat = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// Deadline is the per-question time limit.
func (c *Config) Deadline() time.Duration {
	return time.Duration(c.DeadlineSeconds) * time.Second
}

// Settings converts the file into orchestrator settings.
func (c *Config) Settings() (interview.Settings, error) {
	locale, err := prompt.ParseLocale(c.Locale)
	if err != nil {
		return interview.Settings{}, err
	}
	return interview.Settings{
		QuestionLimit: c.QuestionLimit,
		Deadline:      c.Deadline(),
		Locale:        locale,
		Categories:    append([]string(nil), c.Categories...),
	}, nil
}

// Params returns the completion sampling parameters.
func (c *Config) Params() llm.Params {
	return llm.Params{
		MaxTokens:        c.Generation.MaxTokens,
		Temperature:      c.Generation.Temperature,
		TopP:             c.Generation.TopP,
		FrequencyPenalty: c.Generation.FrequencyPenalty,
		PresencePenalty:  c.Generation.PresencePenalty,
	}
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

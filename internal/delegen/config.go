package delegeninternal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Receivers policies
const (
	ReceiversOptional = "optional" // methods without a receiver forward to the zero delegate
	ReceiversRequired = "required" // methods without a receiver are errors
)

// Config is the configuration of a delegen run. It is read from a YAML file
// and overridden by command-line flags.
//
//	output: delegen_gen.go
//	tags: integration
//	tests: false
//	receivers: required
//	packages:
//	  - ./...
type Config struct {
	Output    string   `yaml:"output" validate:"required,endswith=.go,excludesall=/\\"`
	Tags      string   `yaml:"tags"`
	Tests     bool     `yaml:"tests"`
	Receivers string   `yaml:"receivers" validate:"required,oneof=optional required"`
	Packages  []string `yaml:"packages" validate:"dive,required"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Output:    "delegen_gen.go",
		Receivers: ReceiversOptional,
	}
}

// LoadConfig reads and validates a YAML config file. Omitted fields keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses YAML config content. The path argument is used only for
// error messages.
func ParseConfig(data []byte, path string) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration.
func (c Config) Validate() error {
	err := validate.Struct(c)

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}

	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Field()+": "+formatValidationError(ve))
	}
	return errors.New(strings.Join(messages, "; "))
}

// formatValidationError converts a validator.FieldError to a human-readable
// message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "endswith":
		return fmt.Sprintf("must end with %s", ve.Param())
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// Options returns the generation options of the configuration.
func (c Config) Options() Options {
	return Options{RequireReceiver: c.Receivers == ReceiversRequired}
}

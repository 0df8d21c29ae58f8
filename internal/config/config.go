// Package config loads geoscale settings from YAML. A Config value is passed
// explicitly to the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds rendering, logging and data source settings.
type Config struct {
	// Target size and margin used when fitting a bounding box.
	Width  int `yaml:"width" validate:"min=1"`
	Height int `yaml:"height" validate:"min=1"`
	Border int `yaml:"border" validate:"min=0"`

	// WarnEmptyCoordinates logs a warning whenever a point set carried
	// empty coordinates that were replaced by (0, 0).
	WarnEmptyCoordinates bool `yaml:"warn_empty_coordinates"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `yaml:"log_file"`

	Source Source `yaml:"source"`
}

// Source describes a database table holding a geometry column.
type Source struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required_with=Driver"`
	Table  string `yaml:"table" validate:"required_with=Driver"`
	Column string `yaml:"column" validate:"required_with=Driver"`
	Label  string `yaml:"label"`
	Limit  int    `yaml:"limit" validate:"min=0"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Width:                600,
		Height:               450,
		Border:               15,
		WarnEmptyCoordinates: true,
		LogLevel:             "info",
		Source: Source{
			Column: "geom",
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

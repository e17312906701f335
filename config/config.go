// Package config loads the YAML configuration of moelist.
//
// Every field is optional, a missing field keeps its default value.
//
//	workers: 4
//	style: table
//	tag: moeshare
//	forums:
//	  - chinese-physical
//	rules:
//	  - category: chinese-physical
//	    title: 中文实体分流区
//	    method: tier
//	    first: 实体首发
//	    second: 实体二次分流
//	    extra_rate: 0.3
//	    second_rate: 0.25
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/Defacto2/moelist"
	"github.com/Defacto2/moelist/bonus"
	"github.com/Defacto2/moelist/format"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrorType is the kind of configuration error.
type ErrorType string

const (
	FileNotFound    ErrorType = "FILE_NOT_FOUND"
	InvalidYAML     ErrorType = "INVALID_YAML"
	ValidationError ErrorType = "VALIDATION_ERROR"
)

// Error is an error that occurred while loading the configuration.
type Error struct {
	Type    ErrorType
	Path    string
	Message string
}

func (e *Error) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidYAML:
		return fmt.Sprintf("invalid YAML in configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Config holds the settings of moelist.
type Config struct {
	Workers int              `yaml:"workers"` // Workers is the number of archives read at the same time, 0 uses the number of CPUs.
	Forums  []bonus.Category `yaml:"forums"`  // Forums are the selected categories for the bonus lines.
	Style   format.Style     `yaml:"style"`   // Style of the post.
	Tag     string           `yaml:"tag"`     // Tag is the expected archive comment suffix.
	Version string           `yaml:"version"` // Version written in the first line of the post.
	Rules   bonus.Rules      `yaml:"rules"`   // Rules of the bonus calculation.
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Workers: 0,
		Forums:  []bonus.Category{},
		Style:   format.PreviewStyle,
		Tag:     moelist.DefaultTag,
		Version: format.Version,
		Rules:   bonus.Default(),
	}
}

// Load reads the named YAML file over the default configuration and validates it.
func Load(name string) (Config, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, &Error{Type: FileNotFound, Path: name}
		}
		return Config{}, fmt.Errorf("config load: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = name
		}
		return Config{}, err
	}
	return c, nil
}

// Parse decodes the YAML data over the default configuration and validates it.
// Unknown fields are an error.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &Error{Type: InvalidYAML, Message: err.Error()}
	}
	if c.Style == "" {
		c.Style = format.PreviewStyle
	}
	if c.Tag == "" {
		c.Tag = moelist.DefaultTag
	}
	if c.Version == "" {
		c.Version = format.Version
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.Style, _ = format.ParseStyle(string(c.Style))
	return c, nil
}

// Validate returns an error if any setting is unusable.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return &Error{Type: ValidationError, Message: fmt.Sprintf("workers cannot be negative: %d", c.Workers)}
	}
	if _, err := format.ParseStyle(string(c.Style)); err != nil {
		return &Error{Type: ValidationError, Message: err.Error()}
	}
	if err := c.Rules.Validate(); err != nil {
		return &Error{Type: ValidationError, Message: err.Error()}
	}
	for i, f := range c.Forums {
		if _, ok := c.Rules.Rule(f); !ok {
			return &Error{Type: ValidationError, Message: fmt.Sprintf("forums[%d] has no bonus rule: %q", i, f)}
		}
	}
	return nil
}

// Formatter returns the post formatter of the configuration.
func (c Config) Formatter() format.Formatter {
	return format.Formatter{Rules: c.Rules, Version: c.Version}
}

// Options returns the archive reader options of the configuration.
func (c Config) Options(log *zap.Logger) []moelist.Option {
	return []moelist.Option{
		moelist.WithWorkers(c.Workers),
		moelist.WithLogger(log),
	}
}

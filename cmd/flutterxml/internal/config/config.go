package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/compiler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/handler/builtin"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/markup"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/pipe"
	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/pkg/resolver"
)

// FileName is the config file looked up in the working directory.
const FileName = "flutterxml.yaml"

// Config represents the flutterxml.yaml configuration
type Config struct {
	// Receiver of non-reactive pipe calls
	PipeProvider string `yaml:"pipeProvider,omitempty" json:"pipeProvider,omitempty"`

	// One level of output indentation
	Indent string `yaml:"indent,omitempty" json:"indent,omitempty"`

	// Compile documents whose root element is the widget itself
	Fragment bool `yaml:"fragment,omitempty" json:"fragment,omitempty"`

	// Widget types that always take a children list
	ArrayTypes []string `yaml:"arrayTypes,omitempty" json:"arrayTypes,omitempty"`

	// Property receiving inline text, per widget type
	ContentProperties map[string]string `yaml:"contentProperties,omitempty" json:"contentProperties,omitempty"`

	// Positional property, per widget type
	UnnamedProperties map[string]string `yaml:"unnamedProperties,omitempty" json:"unnamedProperties,omitempty"`

	// Controller class declared by :controller, per widget type
	ControllerTypes map[string]string `yaml:"controllerTypes,omitempty" json:"controllerTypes,omitempty"`

	// Parser configuration
	Parser *ParserConfig `yaml:"parser,omitempty" json:"parser,omitempty"`

	// Additional wrapper attributes. Decoded separately so that each entry is
	// checked for unknown keys.
	Wrappers []handler.WrapperSpec `yaml:"-" json:"wrappers,omitempty"`
}

// ParserConfig contains markup parser options
type ParserConfig struct {
	PreserveComments      bool `yaml:"preserveComments,omitempty" json:"preserveComments,omitempty"`
	IgnoreUnknownEntities bool `yaml:"ignoreUnknownEntities,omitempty" json:"ignoreUnknownEntities,omitempty"`
}

type rawWrappers struct {
	Wrappers []map[string]any `yaml:"wrappers"`
}

// Load loads configuration from path. A missing file yields DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a config file body and applies the defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	var raw rawWrappers
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	for i, entry := range raw.Wrappers {
		spec, err := decodeWrapper(entry)
		if err != nil {
			return nil, fmt.Errorf("wrappers[%d]: %w", i, err)
		}
		cfg.Wrappers = append(cfg.Wrappers, spec)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func decodeWrapper(entry map[string]any) (handler.WrapperSpec, error) {
	var spec handler.WrapperSpec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return spec, err
	}
	if err := decoder.Decode(entry); err != nil {
		return spec, err
	}
	if spec.Attribute == "" || spec.Widget == "" {
		return spec, errors.New("attribute and widget are required")
	}
	return spec, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		PipeProvider:      pipe.DefaultProvider,
		Indent:            "  ",
		ArrayTypes:        resolver.DefaultArrayTypes(),
		ContentProperties: resolver.DefaultContentProperties(),
		UnnamedProperties: resolver.DefaultUnnamedProperties(),
		ControllerTypes:   builtin.ControllerTypes(),
		Parser:            &ParserConfig{},
	}
}

// applyDefaults fills missing values. Map entries from the file are added to the
// defaults rather than replacing them.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.PipeProvider == "" {
		cfg.PipeProvider = defaults.PipeProvider
	}
	if cfg.Indent == "" {
		cfg.Indent = defaults.Indent
	}
	if len(cfg.ArrayTypes) == 0 {
		cfg.ArrayTypes = defaults.ArrayTypes
	}
	if cfg.Parser == nil {
		cfg.Parser = defaults.Parser
	}
	cfg.ContentProperties = merge(defaults.ContentProperties, cfg.ContentProperties)
	cfg.UnnamedProperties = merge(defaults.UnnamedProperties, cfg.UnnamedProperties)
	cfg.ControllerTypes = merge(defaults.ControllerTypes, cfg.ControllerTypes)
}

func merge(base, over map[string]string) map[string]string {
	for k, v := range over {
		base[k] = v
	}
	return base
}

// Handlers builds the handler registry: the built-ins followed by the configured
// wrappers, which replace built-ins of the same name.
func (c *Config) Handlers() *handler.Registry {
	reg := builtin.Defaults()
	for _, spec := range c.Wrappers {
		reg.Register([]string{spec.Attribute}, handler.NewWrapper(spec))
	}
	return reg
}

// CompilerOptions turns the configuration into compiler options.
func (c *Config) CompilerOptions(logger *slog.Logger) compiler.Options {
	return compiler.Options{
		Handlers:          c.Handlers(),
		PipeProvider:      c.PipeProvider,
		ArrayTypes:        c.ArrayTypes,
		ContentProperties: c.ContentProperties,
		UnnamedProperties: c.UnnamedProperties,
		ControllerTypes:   c.ControllerTypes,
		Parser: markup.Options{
			PreserveComments:      c.Parser.PreserveComments,
			IgnoreUnknownEntities: c.Parser.IgnoreUnknownEntities,
		},
		Indent:   c.Indent,
		Fragment: c.Fragment,
		Logger:   logger,
	}
}

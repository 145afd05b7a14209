// Package config loads the generator configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"goa.design/torchgen/codegen/optable"
	"goa.design/torchgen/codegen/torchscript"
)

// Log formats.
const (
	FormatAuto     = ""
	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

type (
	// Config is the generator configuration.
	Config struct {
		// Variant is "plain" (default) or "quant".
		Variant string `yaml:"variant"`
		// Output is the path of the generated file. Defaults to a name
		// derived from the graph name.
		Output string `yaml:"output"`
		// ClassName overrides the graph name as generated class name.
		ClassName string `yaml:"class_name"`
		// Quant configures the quantization-aware variant.
		Quant Quant `yaml:"quant"`
		// Log configures logging.
		Log Log `yaml:"log"`
	}

	// Quant configures the quantization runtime.
	Quant struct {
		// RuntimeImport is the import line of the quantization runtime.
		RuntimeImport string `yaml:"runtime_import"`
		// FallbackModule wraps operators without quantized replacement.
		FallbackModule string `yaml:"fallback_module"`
		// Modules adds to or overrides the quantized replacement table.
		Modules map[string]string `yaml:"modules"`
	}

	// Log configures logging.
	Log struct {
		// Format is "terminal", "json" or empty to detect the terminal.
		Format string `yaml:"format"`
		// Debug enables debug logs.
		Debug bool `yaml:"debug"`
	}
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Variant: torchscript.VariantPlain,
		Quant: Quant{
			RuntimeImport:  optable.QuantRuntimeImport,
			FallbackModule: optable.QuantFallbackModule,
		},
	}
}

// Load reads the configuration file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode decodes a YAML configuration over the defaults. Unknown keys are
// rejected.
func Decode(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	switch c.Variant {
	case torchscript.VariantPlain, torchscript.VariantQuant:
	default:
		return fmt.Errorf("invalid variant %q, expected %q or %q", c.Variant, torchscript.VariantPlain, torchscript.VariantQuant)
	}
	switch c.Log.Format {
	case FormatAuto, FormatTerminal, FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q, expected %q or %q", c.Log.Format, FormatTerminal, FormatJSON)
	}
	if c.Variant == torchscript.VariantQuant {
		if c.Quant.RuntimeImport == "" {
			return errors.New("quant.runtime_import can not be empty")
		}
		if c.Quant.FallbackModule == "" {
			return errors.New("quant.fallback_module can not be empty")
		}
	}
	return nil
}

// Policy returns the emission policy described by c.
func (c *Config) Policy() (*torchscript.Policy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Variant != torchscript.VariantQuant {
		return torchscript.Plain(), nil
	}
	p := torchscript.Quant(c.Quant.Modules)
	p.Fallback = c.Quant.FallbackModule
	p.Imports = []string{c.Quant.RuntimeImport}
	return p, nil
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"goa.design/torchgen/codegen/torchscript"
	"goa.design/torchgen/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	p, err := c.Policy()
	require.NoError(t, err)
	require.Equal(t, torchscript.VariantPlain, p.Name)
}

func TestDecodeQuant(t *testing.T) {
	c, err := config.Decode([]byte(`
variant: quant
output: build/net.py
class_name: QuantNet
quant:
  modules:
    layer_norm: py_nndct.nn.LayerNorm
log:
  format: json
  debug: true
`))
	require.NoError(t, err)
	require.Equal(t, "build/net.py", c.Output)
	require.Equal(t, "QuantNet", c.ClassName)
	require.True(t, c.Log.Debug)
	require.Equal(t, config.FormatJSON, c.Log.Format)

	p, err := c.Policy()
	require.NoError(t, err)
	require.Equal(t, torchscript.VariantQuant, p.Name)
	require.Equal(t, torchscript.Submodule, p.Dispatch)
	require.Equal(t, "py_nndct.nn.LayerNorm", p.Replacements["layer_norm"])
	require.Equal(t, "py_nndct.nn.Linear", p.Replacements["dense"])
	require.Equal(t, "py_nndct.nn.Module", p.Fallback)
	require.Equal(t, []string{"import pytorch_nndct as py_nndct"}, p.Imports)
}

func TestDecodeCustomRuntime(t *testing.T) {
	c, err := config.Decode([]byte(`
variant: quant
quant:
  runtime_import: import my_runtime as rt
  fallback_module: rt.Module
`))
	require.NoError(t, err)
	p, err := c.Policy()
	require.NoError(t, err)
	require.Equal(t, []string{"import my_runtime as rt"}, p.Imports)
	require.Equal(t, "rt.Module", p.Fallback)
}

func TestDecodeEmpty(t *testing.T) {
	c, err := config.Decode(nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), c)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown variant", "variant: onnx", `invalid variant "onnx"`},
		{"unknown field", "varient: quant", "decode config"},
		{"bad log format", "log: {format: xml}", `invalid log format "xml"`},
		{"empty runtime import", "variant: quant\nquant: {runtime_import: ''}", "quant.runtime_import can not be empty"},
		{"empty fallback", "variant: quant\nquant: {fallback_module: ''}", "fallback_module"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Decode([]byte(tc.doc))
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torchgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: quant\n"), 0o600))
	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, torchscript.VariantQuant, c.Variant)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestPolicyRejectsMissingRuntimeImport(t *testing.T) {
	c := config.Default()
	c.Variant = torchscript.VariantQuant
	c.Quant.RuntimeImport = ""
	_, err := c.Policy()
	require.ErrorContains(t, err, "runtime_import")

	c.Variant = torchscript.VariantPlain
	p, err := c.Policy()
	require.NoError(t, err)
	require.Empty(t, p.Imports)
}

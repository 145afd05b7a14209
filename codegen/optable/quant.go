package optable

import "maps"

const (
	// QuantRuntimeImport imports the quantization runtime in generated
	// quantization-aware modules.
	QuantRuntimeImport = "import pytorch_nndct as py_nndct"
	// QuantFallbackModule wraps operators without a dedicated quantized
	// module. Its first constructor argument is the operator type.
	QuantFallbackModule = "py_nndct.nn.Module"
)

// quantModules maps operator types to their quantization-aware replacement
// modules.
var quantModules = map[string]string{
	"conv1d":             "py_nndct.nn.Conv1d",
	"conv2d":             "py_nndct.nn.Conv2d",
	"conv3d":             "py_nndct.nn.Conv3d",
	"depthwise_conv2d":   "py_nndct.nn.Conv2d",
	"conv_transpose2d":   "py_nndct.nn.ConvTranspose2d",
	"dense":              "py_nndct.nn.Linear",
	"batch_norm":         "py_nndct.nn.BatchNorm",
	"maxpool2d":          "py_nndct.nn.MaxPool2d",
	"avgpool2d":          "py_nndct.nn.AvgPool2d",
	"adaptive_avgpool2d": "py_nndct.nn.AdaptiveAvgPool2d",
	"relu":               "py_nndct.nn.ReLU",
	"leaky_relu":         "py_nndct.nn.LeakyReLU",
	"hardtanh":           "py_nndct.nn.Hardtanh",
	"sigmoid":            "py_nndct.nn.Sigmoid",
	"tanh":               "py_nndct.nn.Tanh",
	"add":                "py_nndct.nn.Add",
	"cat":                "py_nndct.nn.Cat",
	"mean":               "py_nndct.nn.Mean",
	"interpolate":        "py_nndct.nn.Interpolate",
	"lstm":               "py_nndct.nn.LSTM",
}

// DefaultQuantModules returns a copy of the quantization replacement table.
func DefaultQuantModules() map[string]string {
	return maps.Clone(quantModules)
}

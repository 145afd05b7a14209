package optable

var (
	convAttrs = []string{
		"in_channels", "out_channels", "kernel_size", "stride",
		"padding", "dilation", "groups", "bias",
	}
	convTransposeAttrs = []string{
		"in_channels", "out_channels", "kernel_size", "stride",
		"padding", "output_padding", "groups", "bias", "dilation",
	}
	batchNormAttrs = []string{"num_features", "eps", "momentum", "affine", "track_running_stats"}
	rnnAttrs       = []string{
		"input_size", "hidden_size", "num_layers", "bias",
		"batch_first", "dropout", "bidirectional",
	}
)

// torchEntries is the classification of the operator types produced by the
// graph builders of the quantization toolchain.
var torchEntries = map[string]Entry{
	// Stateful modules.
	"conv1d":             {StatefulModule, "torch.nn.Conv1d", convAttrs},
	"conv2d":             {StatefulModule, "torch.nn.Conv2d", convAttrs},
	"conv3d":             {StatefulModule, "torch.nn.Conv3d", convAttrs},
	"depthwise_conv2d":   {StatefulModule, "torch.nn.Conv2d", convAttrs},
	"conv_transpose2d":   {StatefulModule, "torch.nn.ConvTranspose2d", convTransposeAttrs},
	"dense":              {StatefulModule, "torch.nn.Linear", []string{"in_features", "out_features", "bias"}},
	"batch_norm":         {StatefulModule, "torch.nn.BatchNorm2d", batchNormAttrs},
	"batch_norm1d":       {StatefulModule, "torch.nn.BatchNorm1d", batchNormAttrs},
	"layer_norm":         {StatefulModule, "torch.nn.LayerNorm", []string{"normalized_shape", "eps", "elementwise_affine"}},
	"maxpool2d":          {StatefulModule, "torch.nn.MaxPool2d", []string{"kernel_size", "stride", "padding", "dilation", "return_indices", "ceil_mode"}},
	"avgpool2d":          {StatefulModule, "torch.nn.AvgPool2d", []string{"kernel_size", "stride", "padding", "ceil_mode", "count_include_pad"}},
	"adaptive_avgpool2d": {StatefulModule, "torch.nn.AdaptiveAvgPool2d", []string{"output_size"}},
	"relu":               {StatefulModule, "torch.nn.ReLU", []string{"inplace"}},
	"relu6":              {StatefulModule, "torch.nn.ReLU6", []string{"inplace"}},
	"leaky_relu":         {StatefulModule, "torch.nn.LeakyReLU", []string{"negative_slope", "inplace"}},
	"hardtanh":           {StatefulModule, "torch.nn.Hardtanh", []string{"min_val", "max_val", "inplace"}},
	"prelu":              {StatefulModule, "torch.nn.PReLU", []string{"num_parameters", "init"}},
	"dropout":            {StatefulModule, "torch.nn.Dropout", []string{"p", "inplace"}},
	"upsample":           {StatefulModule, "torch.nn.Upsample", []string{"size", "scale_factor", "mode", "align_corners"}},
	"embedding":          {StatefulModule, "torch.nn.Embedding", []string{"num_embeddings", "embedding_dim", "padding_idx"}},
	"lstm":               {StatefulModule, "torch.nn.LSTM", rnnAttrs},
	"gru":                {StatefulModule, "torch.nn.GRU", rnnAttrs},

	// Free functions.
	"add":         {FreeFunction, "torch.add", []string{"input", "other", "alpha"}},
	"sub":         {FreeFunction, "torch.sub", []string{"input", "other", "alpha"}},
	"mul":         {FreeFunction, "torch.mul", []string{"input", "other"}},
	"div":         {FreeFunction, "torch.div", []string{"input", "other"}},
	"matmul":      {FreeFunction, "torch.matmul", []string{"input", "other"}},
	"cat":         {FreeFunction, "torch.cat", []string{"tensors", "dim"}},
	"stack":       {FreeFunction, "torch.stack", []string{"tensors", "dim"}},
	"flatten":     {FreeFunction, "torch.flatten", []string{"input", "start_dim", "end_dim"}},
	"mean":        {FreeFunction, "torch.mean", []string{"input", "dim", "keepdim"}},
	"sum":         {FreeFunction, "torch.sum", []string{"input", "dim", "keepdim"}},
	"exp":         {FreeFunction, "torch.exp", []string{"input"}},
	"sigmoid":     {FreeFunction, "torch.sigmoid", []string{"input"}},
	"tanh":        {FreeFunction, "torch.tanh", []string{"input"}},
	"gelu":        {FreeFunction, "torch.nn.functional.gelu", []string{"input", "approximate"}},
	"silu":        {FreeFunction, "torch.nn.functional.silu", []string{"input", "inplace"}},
	"softmax":     {FreeFunction, "torch.nn.functional.softmax", []string{"input", "dim"}},
	"interpolate": {FreeFunction, "torch.nn.functional.interpolate", []string{"input", "size", "scale_factor", "mode", "align_corners"}},
	"pad":         {FreeFunction, "torch.nn.functional.pad", []string{"input", "pad", "mode", "value"}},
	"zeros":       {FreeFunction, "torch.zeros", []string{"size", "dtype", "device"}},
	"einsum":      {FreeFunction, "torch.einsum", GenericAttrs},

	// Tensor methods.
	"reshape":    {MethodCall, "reshape", []string{"shape"}},
	"view":       {MethodCall, "view", []string{"size"}},
	"permute":    {MethodCall, "permute", []string{"dims"}},
	"transpose":  {MethodCall, "transpose", []string{"dim0", "dim1"}},
	"contiguous": {MethodCall, "contiguous", []string{}},
	"squeeze":    {MethodCall, "squeeze", []string{"dim"}},
	"unsqueeze":  {MethodCall, "unsqueeze", []string{"dim"}},
	"chunk":      {MethodCall, "chunk", []string{"chunks", "dim"}},
	"size":       {MethodCall, "size", []string{"dim"}},
	"expand":     {MethodCall, "expand", []string{"size"}},
	"repeat":     {MethodCall, "repeat", []string{"sizes"}},
	"to":         {MethodCall, "to", []string{"dtype"}},

	// Language primitives.
	"int":   {Primitive, "int", []string{}},
	"float": {Primitive, "float", []string{}},
	"len":   {Primitive, "len", []string{}},
}

// Default returns the classification table of the PyTorch generators.
func Default() *Table {
	return New(torchEntries)
}

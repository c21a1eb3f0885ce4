// Package config loads and validates training configuration documents.
package config

// Default values applied before any document is read.
const (
	DefaultNumWorkers     = 10
	DefaultModelName      = "simpleconv"
	DefaultDepth          = 10
	DefaultDilationPeriod = 5
	DefaultHiddenMEG      = 320
	DefaultInitialLinear  = 270
	DefaultBatchSize      = 256
	DefaultEpochs         = 40
	DefaultMaxBatches     = 500
	DefaultOffsetMEGMs    = 150
)

// Config is the full training configuration. It is built once at
// startup, validated, and never mutated afterwards, so it is safe to
// share across goroutines.
type Config struct {
	NumWorkers int    `yaml:"num_workers" toml:"num_workers" json:"num_workers"`
	ModelName  string `yaml:"model_name" toml:"model_name" json:"model_name"`

	SimpleConv SimpleConv `yaml:"simpleconv" toml:"simpleconv" json:"simpleconv"`
	Optim      Optim      `yaml:"optim" toml:"optim" json:"optim"`
	Norm       Norm       `yaml:"norm" toml:"norm" json:"norm"`
	Task       Task       `yaml:"task" toml:"task" json:"task"`
}

// Hidden holds per-modality hidden channel widths. Only the MEG branch
// is configured today; the nesting mirrors the document layout.
type Hidden struct {
	MEG int `yaml:"meg" toml:"meg" json:"meg"`
}

// SimpleConv parameterizes the convolutional decoder architecture.
type SimpleConv struct {
	Hidden         Hidden `yaml:"hidden" toml:"hidden" json:"hidden"`
	BatchNorm      bool   `yaml:"batch_norm" toml:"batch_norm" json:"batch_norm"`
	Depth          int    `yaml:"depth" toml:"depth" json:"depth"`
	DilationPeriod int    `yaml:"dilation_period" toml:"dilation_period" json:"dilation_period"`
	Skip           bool   `yaml:"skip" toml:"skip" json:"skip"`

	// Subject conditioning. SubjectDim of zero disables the subject
	// embedding even when SubjectLayers is true; the two flags are not
	// cross-validated (see DESIGN.md).
	SubjectLayers bool `yaml:"subject_layers" toml:"subject_layers" json:"subject_layers"`
	SubjectDim    int  `yaml:"subject_dim" toml:"subject_dim" json:"subject_dim"`

	ComplexOut bool `yaml:"complex_out" toml:"complex_out" json:"complex_out"`
	GLU        int  `yaml:"glu" toml:"glu" json:"glu"`
	GLUContext int  `yaml:"glu_context" toml:"glu_context" json:"glu_context"`

	Merger       bool `yaml:"merger" toml:"merger" json:"merger"`
	MergerPosDim int  `yaml:"merger_pos_dim" toml:"merger_pos_dim" json:"merger_pos_dim"`

	InitialLinear int  `yaml:"initial_linear" toml:"initial_linear" json:"initial_linear"`
	GELU          bool `yaml:"gelu" toml:"gelu" json:"gelu"`

	// Output reduction. AvgPoolOut and FlattenOut are independent
	// toggles; FlattenOutChannels applies only when FlattenOut is set.
	AvgPoolOut         bool `yaml:"avg_pool_out" toml:"avg_pool_out" json:"avg_pool_out"`
	FlattenOut         bool `yaml:"flatten_out" toml:"flatten_out" json:"flatten_out"`
	FlattenOutChannels int  `yaml:"flatten_out_channels" toml:"flatten_out_channels" json:"flatten_out_channels"`

	// Per-layer parameters; each must have exactly Depth entries.
	Strides    []int `yaml:"strides" toml:"strides" json:"strides"`
	KernelSize []int `yaml:"kernel_size" toml:"kernel_size" json:"kernel_size"`
	Padding    []int `yaml:"padding" toml:"padding" json:"padding"`

	// SeqLen of -1 means the sequence length is inferred from the input.
	SeqLen           int  `yaml:"seq_len" toml:"seq_len" json:"seq_len"`
	AutoPadding      bool `yaml:"auto_padding" toml:"auto_padding" json:"auto_padding"`
	IsDeformableConv bool `yaml:"is_deformable_conv" toml:"is_deformable_conv" json:"is_deformable_conv"`
}

// Optim holds the training schedule bounds.
type Optim struct {
	Loss       string `yaml:"loss" toml:"loss" json:"loss"`
	Epochs     int    `yaml:"epochs" toml:"epochs" json:"epochs"`
	MaxBatches int    `yaml:"max_batches" toml:"max_batches" json:"max_batches"`
	BatchSize  int    `yaml:"batch_size" toml:"batch_size" json:"batch_size"`
}

// Norm holds normalization toggles.
type Norm struct {
	Clip bool `yaml:"clip" toml:"clip" json:"clip"`
}

// Task frames how signal and stimulus streams are aligned.
type Task struct {
	Type string `yaml:"type" toml:"type" json:"type"`
	// OffsetMEGMs is the signed temporal shift, in milliseconds,
	// applied to the MEG stream before training.
	OffsetMEGMs int `yaml:"offset_meg_ms" toml:"offset_meg_ms" json:"offset_meg_ms"`
}

// Default returns the built-in configuration. The values match the
// reference clip_meg setup so a document only needs to state what it
// changes.
func Default() *Config {
	return &Config{
		NumWorkers: DefaultNumWorkers,
		ModelName:  DefaultModelName,
		SimpleConv: SimpleConv{
			Hidden:             Hidden{MEG: DefaultHiddenMEG},
			BatchNorm:          true,
			Depth:              DefaultDepth,
			DilationPeriod:     DefaultDilationPeriod,
			Skip:               true,
			SubjectLayers:      true,
			SubjectDim:         0,
			ComplexOut:         false,
			GLU:                2,
			GLUContext:         1,
			Merger:             true,
			MergerPosDim:       256,
			InitialLinear:      DefaultInitialLinear,
			GELU:               true,
			AvgPoolOut:         false,
			FlattenOut:         false,
			FlattenOutChannels: 768,
			Strides:            repeatInt(1, DefaultDepth),
			KernelSize:         repeatInt(3, DefaultDepth),
			Padding:            repeatInt(1, DefaultDepth),
			SeqLen:             -1,
			AutoPadding:        true,
			IsDeformableConv:   false,
		},
		Optim: Optim{
			Loss:       "clip",
			Epochs:     DefaultEpochs,
			MaxBatches: DefaultMaxBatches,
			BatchSize:  DefaultBatchSize,
		},
		Norm: Norm{Clip: true},
		Task: Task{
			Type:        "decode",
			OffsetMEGMs: DefaultOffsetMEGMs,
		},
	}
}

func repeatInt(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

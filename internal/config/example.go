package config

// ExampleConfig returns an example YAML document showing all available
// options with their default values.
func ExampleConfig() string {
	return `# brainmagick training configuration
# Absent fields fall back to built-in defaults; BM_* environment
# variables override the schedule scalars (see bmconf help).

# Data-loading workers
num_workers: 10

# Architecture family; selects which section below applies
model_name: simpleconv

simpleconv:
  hidden:
    meg: 320            # hidden channels of the MEG branch
  batch_norm: true
  depth: 10             # number of convolutional layers
  dilation_period: 5    # dilation doubles each layer, resets every period
  skip: true            # residual connections

  # Subject conditioning. subject_dim of 0 disables the embedding even
  # when subject_layers is true.
  subject_layers: true
  subject_dim: 0

  complex_out: false
  glu: 2                # gating kernel multiplier, 0 disables GLU
  glu_context: 1

  merger: true          # channel-merging stage
  merger_pos_dim: 256   # positional embedding dimension of the merger

  initial_linear: 270   # width of the initial linear projection
  gelu: true

  # Output reduction
  avg_pool_out: false
  flatten_out: false
  flatten_out_channels: 768   # only read when flatten_out is true

  # Per-layer parameters; each list must have exactly 'depth' entries.
  strides: [1, 1, 1, 1, 1, 1, 1, 1, 1, 1]
  kernel_size: [3, 3, 3, 3, 3, 3, 3, 3, 3, 3]
  padding: [1, 1, 1, 1, 1, 1, 1, 1, 1, 1]

  seq_len: -1           # -1 infers the length from the input
  auto_padding: true    # recompute padding to preserve length
  is_deformable_conv: false

optim:
  loss: clip
  epochs: 40
  max_batches: 500
  batch_size: 256

norm:
  clip: true

task:
  type: decode
  offset_meg_ms: 150    # shift MEG relative to stimulus, milliseconds
`
}

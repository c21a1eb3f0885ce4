package config

import "fmt"

// Validate checks every field invariant. Value checks run before shape
// checks so a bad depth is reported as the root cause rather than as a
// cascade of length mismatches.
func Validate(cfg *Config) error {
	if cfg.NumWorkers < 0 {
		return &InvalidValueError{Field: "num_workers", Value: cfg.NumWorkers, Reason: "must be >= 0"}
	}
	// model_name selects which architecture section applies; only the
	// simpleconv family is defined by this document schema.
	if cfg.ModelName != "simpleconv" {
		return &InvalidValueError{Field: "model_name", Value: cfg.ModelName, Reason: `must be "simpleconv"`}
	}

	if err := validateSimpleConv(&cfg.SimpleConv); err != nil {
		return err
	}
	if err := validateOptim(&cfg.Optim); err != nil {
		return err
	}
	return validateTask(&cfg.Task)
}

func validateSimpleConv(sc *SimpleConv) error {
	if sc.Hidden.MEG <= 0 {
		return &InvalidValueError{Field: "simpleconv.hidden.meg", Value: sc.Hidden.MEG, Reason: "must be > 0"}
	}
	if sc.Depth <= 0 {
		return &InvalidValueError{Field: "simpleconv.depth", Value: sc.Depth, Reason: "must be > 0"}
	}
	if sc.DilationPeriod <= 0 {
		return &InvalidValueError{Field: "simpleconv.dilation_period", Value: sc.DilationPeriod, Reason: "must be > 0"}
	}
	if sc.SubjectDim < 0 {
		return &InvalidValueError{Field: "simpleconv.subject_dim", Value: sc.SubjectDim, Reason: "must be >= 0"}
	}
	if sc.GLU < 0 {
		return &InvalidValueError{Field: "simpleconv.glu", Value: sc.GLU, Reason: "must be >= 0"}
	}
	if sc.GLUContext < 0 {
		return &InvalidValueError{Field: "simpleconv.glu_context", Value: sc.GLUContext, Reason: "must be >= 0"}
	}
	if sc.MergerPosDim < 0 {
		return &InvalidValueError{Field: "simpleconv.merger_pos_dim", Value: sc.MergerPosDim, Reason: "must be >= 0"}
	}
	if sc.InitialLinear <= 0 {
		return &InvalidValueError{Field: "simpleconv.initial_linear", Value: sc.InitialLinear, Reason: "must be > 0"}
	}
	if sc.FlattenOut && sc.FlattenOutChannels <= 0 {
		return &InvalidValueError{Field: "simpleconv.flatten_out_channels", Value: sc.FlattenOutChannels, Reason: "must be > 0 when flatten_out is set"}
	}
	if sc.SeqLen != -1 && sc.SeqLen <= 0 {
		return &InvalidValueError{Field: "simpleconv.seq_len", Value: sc.SeqLen, Reason: "must be > 0, or -1 to infer from input"}
	}

	if len(sc.Strides) != sc.Depth {
		return &ShapeMismatchError{Field: "simpleconv.strides", Want: sc.Depth, Got: len(sc.Strides)}
	}
	if len(sc.KernelSize) != sc.Depth {
		return &ShapeMismatchError{Field: "simpleconv.kernel_size", Want: sc.Depth, Got: len(sc.KernelSize)}
	}
	if len(sc.Padding) != sc.Depth {
		return &ShapeMismatchError{Field: "simpleconv.padding", Want: sc.Depth, Got: len(sc.Padding)}
	}

	for i, s := range sc.Strides {
		if s <= 0 {
			return &InvalidValueError{Field: "simpleconv.strides", Value: s, Reason: indexReason(i, "must be > 0")}
		}
	}
	for i, k := range sc.KernelSize {
		if k <= 0 {
			return &InvalidValueError{Field: "simpleconv.kernel_size", Value: k, Reason: indexReason(i, "must be > 0")}
		}
	}
	for i, p := range sc.Padding {
		if p < 0 {
			return &InvalidValueError{Field: "simpleconv.padding", Value: p, Reason: indexReason(i, "must be >= 0")}
		}
	}
	return nil
}

func validateOptim(opt *Optim) error {
	// Loss names are passed through to the trainer; only emptiness is
	// rejected here.
	if opt.Loss == "" {
		return &InvalidValueError{Field: "optim.loss", Value: opt.Loss, Reason: "must not be empty"}
	}
	if opt.Epochs <= 0 {
		return &InvalidValueError{Field: "optim.epochs", Value: opt.Epochs, Reason: "must be > 0"}
	}
	if opt.MaxBatches <= 0 {
		return &InvalidValueError{Field: "optim.max_batches", Value: opt.MaxBatches, Reason: "must be > 0"}
	}
	if opt.BatchSize <= 0 {
		return &InvalidValueError{Field: "optim.batch_size", Value: opt.BatchSize, Reason: "must be > 0"}
	}
	return nil
}

func validateTask(task *Task) error {
	if task.Type == "" {
		return &InvalidValueError{Field: "task.type", Value: task.Type, Reason: "must not be empty"}
	}
	// offset_meg_ms is signed; any value is allowed.
	return nil
}

func indexReason(i int, reason string) string {
	return fmt.Sprintf("entry %d %s", i, reason)
}

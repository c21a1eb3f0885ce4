package config

// Geometry helpers derive per-layer convolution parameters from the
// declared hyperparameters. They describe the configured stack; no
// computation over signal data happens here.

// DilationAt returns the dilation factor of the given layer. The
// schedule is cyclic: dilation doubles each layer and resets every
// DilationPeriod layers.
func (sc *SimpleConv) DilationAt(layer int) int {
	d := 1
	for i := 0; i < layer%sc.DilationPeriod; i++ {
		d *= 2
	}
	return d
}

// PaddingAt returns the effective padding of the given layer. With
// AutoPadding set, the declared padding is replaced by the value that
// preserves sequence length for stride-1 layers.
func (sc *SimpleConv) PaddingAt(layer int) int {
	if sc.AutoPadding {
		return sc.DilationAt(layer) * (sc.KernelSize[layer] - 1) / 2
	}
	return sc.Padding[layer]
}

// Layer describes the resolved geometry of one convolutional layer.
type Layer struct {
	Index    int
	Kernel   int
	Stride   int
	Dilation int
	Padding  int
}

// Layers returns the resolved geometry of every layer. It must only be
// called on a validated config, where the per-layer sequences have
// exactly Depth entries.
func (sc *SimpleConv) Layers() []Layer {
	layers := make([]Layer, sc.Depth)
	for i := range layers {
		layers[i] = Layer{
			Index:    i,
			Kernel:   sc.KernelSize[i],
			Stride:   sc.Strides[i],
			Dilation: sc.DilationAt(i),
			Padding:  sc.PaddingAt(i),
		}
	}
	return layers
}

// ReceptiveField returns the input span, in samples, seen by one
// output position of the final layer.
func (sc *SimpleConv) ReceptiveField() int {
	rf := 1
	jump := 1
	for _, l := range sc.Layers() {
		rf += (l.Kernel - 1) * l.Dilation * jump
		jump *= l.Stride
	}
	return rf
}

// OutputLen returns the sequence length after the full stack for an
// input of length n, or -1 when a layer collapses the sequence to
// nothing.
func (sc *SimpleConv) OutputLen(n int) int {
	for _, l := range sc.Layers() {
		n = (n+2*l.Padding-l.Dilation*(l.Kernel-1)-1)/l.Stride + 1
		if n <= 0 {
			return -1
		}
	}
	return n
}

// ConfiguredOutputLen resolves OutputLen against the declared seq_len.
// A seq_len of -1 defers to the input, so the result is also -1.
func (sc *SimpleConv) ConfiguredOutputLen() int {
	if sc.SeqLen == -1 {
		return -1
	}
	return sc.OutputLen(sc.SeqLen)
}

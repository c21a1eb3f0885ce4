package config

import "testing"

func TestDilationAt(t *testing.T) {
	sc := &Default().SimpleConv

	want := []int{1, 2, 4, 8, 16, 1, 2, 4, 8, 16}
	for i, w := range want {
		if got := sc.DilationAt(i); got != w {
			t.Errorf("DilationAt(%d): got %d, want %d", i, got, w)
		}
	}
}

func TestPaddingAt(t *testing.T) {
	t.Run("auto padding preserves length", func(t *testing.T) {
		sc := &Default().SimpleConv
		// kernel 3 everywhere, so auto padding equals the dilation.
		for i := 0; i < sc.Depth; i++ {
			if got, want := sc.PaddingAt(i), sc.DilationAt(i); got != want {
				t.Errorf("PaddingAt(%d): got %d, want %d", i, got, want)
			}
		}
	})

	t.Run("literal padding without auto", func(t *testing.T) {
		sc := &Default().SimpleConv
		sc.AutoPadding = false
		for i := 0; i < sc.Depth; i++ {
			if got := sc.PaddingAt(i); got != 1 {
				t.Errorf("PaddingAt(%d): got %d, want 1", i, got)
			}
		}
	})
}

func TestOutputLen(t *testing.T) {
	t.Run("stride one with auto padding", func(t *testing.T) {
		sc := &Default().SimpleConv
		if got := sc.OutputLen(360); got != 360 {
			t.Errorf("OutputLen(360): got %d, want 360", got)
		}
	})

	t.Run("downsampling stack", func(t *testing.T) {
		sc := &SimpleConv{
			Depth:          2,
			DilationPeriod: 1,
			KernelSize:     []int{4, 4},
			Strides:        []int{2, 2},
			Padding:        []int{1, 1},
		}
		// 100 -> (100+2-3-1)/2+1 = 50 -> 25
		if got := sc.OutputLen(100); got != 25 {
			t.Errorf("OutputLen(100): got %d, want 25", got)
		}
	})

	t.Run("collapsed sequence", func(t *testing.T) {
		sc := &SimpleConv{
			Depth:          1,
			DilationPeriod: 1,
			KernelSize:     []int{9},
			Strides:        []int{1},
			Padding:        []int{0},
		}
		if got := sc.OutputLen(4); got != -1 {
			t.Errorf("OutputLen(4): got %d, want -1", got)
		}
	})
}

func TestReceptiveField(t *testing.T) {
	sc := &Default().SimpleConv
	// Two dilation cycles of kernel-3 layers: 1 + 2*(1+2+4+8+16)*2.
	if got := sc.ReceptiveField(); got != 125 {
		t.Errorf("ReceptiveField: got %d, want 125", got)
	}
}

func TestConfiguredOutputLen(t *testing.T) {
	sc := &Default().SimpleConv
	if got := sc.ConfiguredOutputLen(); got != -1 {
		t.Errorf("ConfiguredOutputLen with seq_len -1: got %d, want -1", got)
	}

	sc.SeqLen = 240
	if got := sc.ConfiguredOutputLen(); got != 240 {
		t.Errorf("ConfiguredOutputLen(240): got %d, want 240", got)
	}
}

package painter

import (
	"image"
	"math/rand/v2"
	"testing"
)

func TestKernelByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"reference", "reference"},
		{"wide", "wide"},
		{"", DefaultKernel().Name()},
	}
	for _, tt := range tests {
		k, err := KernelByName(tt.name)
		if err != nil {
			t.Fatalf("KernelByName(%q) error = %v", tt.name, err)
		}
		if k.Name() != tt.want {
			t.Errorf("KernelByName(%q).Name() = %q, want %q", tt.name, k.Name(), tt.want)
		}
	}
	if _, err := KernelByName("gpu"); err == nil {
		t.Error("KernelByName(\"gpu\") error = nil")
	}
}

func TestKernels_ProduceIdenticalMasks(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var ref ReferenceKernel
	var wk WideKernel

	for i := 0; i < 500; i++ {
		a := image.Pt(rng.IntN(80)-10, rng.IntN(80)-10)
		b := image.Pt(rng.IntN(80)-10, rng.IntN(80)-10)
		if i%7 == 0 {
			b = a
		}
		r := rng.IntN(12)
		win := image.Rect(
			min(a.X, b.X)-r, min(a.Y, b.Y)-r,
			max(a.X, b.X)+r+1, max(a.Y, b.Y)+r+1,
		).Intersect(image.Rect(0, 0, 64, 64))
		if win.Empty() {
			continue
		}

		n := win.Dx() * win.Dy()
		want := make([]bool, n)
		got := make([]bool, n)
		ref.CapsuleMask(want, win, a, b, r)
		wk.CapsuleMask(got, win, a, b, r)
		for j := range want {
			if got[j] != want[j] {
				x, y := win.Min.X+j%win.Dx(), win.Min.Y+j/win.Dx()
				t.Fatalf("segment %v-%v r=%d: pixel (%d,%d) wide=%t reference=%t", a, b, r, x, y, got[j], want[j])
			}
		}
	}
}

func TestWithKernel(t *testing.T) {
	l := NewLayer(4, 4, Depth8, WithKernel(ReferenceKernel{}))
	if l.Kernel().Name() != "reference" {
		t.Errorf("Kernel().Name() = %q, want reference", l.Kernel().Name())
	}
}

func BenchmarkCapsuleMask(b *testing.B) {
	win := image.Rect(0, 0, 128, 32)
	mask := make([]bool, win.Dx()*win.Dy())
	for _, k := range []MaskKernel{ReferenceKernel{}, WideKernel{}} {
		b.Run(k.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				k.CapsuleMask(mask, win, image.Pt(4, 4), image.Pt(120, 28), 8)
			}
		})
	}
}

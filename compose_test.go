package painter

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func randomPixmap(rng *rand.Rand, w, h int, d Depth) *Pixmap {
	pm := NewPixmap(w, h, d)
	m := int(d.Max()) + 1
	for i := range pm.data {
		pm.data[i] = uint16(rng.IntN(m))
	}
	return pm
}

func TestOver_ZeroOpacityIsBottom(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, d := range []Depth{Depth8, Depth16} {
		top := randomPixmap(rng, 7, 5, d)
		bottom := randomPixmap(rng, 7, 5, d)
		dst := NewPixmap(7, 5, d)
		if err := Over(dst, top, bottom, 0, true); err != nil {
			t.Fatal(err)
		}
		if !dst.Equal(bottom) {
			t.Errorf("%v: Over(opacity 0) != bottom", d)
		}
	}
}

func TestOver_OpaqueTopIsTop(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for _, d := range []Depth{Depth8, Depth16} {
		top := randomPixmap(rng, 6, 6, d)
		for i := 3; i < len(top.data); i += 4 {
			top.data[i] = d.Max()
		}
		bottom := randomPixmap(rng, 6, 6, d)
		dst := NewPixmap(6, 6, d)
		if err := Over(dst, top, bottom, 1, true); err != nil {
			t.Fatal(err)
		}
		if !dst.Equal(top) {
			t.Errorf("%v: Over(opaque top) != top", d)
		}
	}
}

func TestOver_InvisibleTopIsBottom(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	top := randomPixmap(rng, 3, 3, Depth8)
	bottom := randomPixmap(rng, 3, 3, Depth8)
	dst := NewPixmap(3, 3, Depth8)
	if err := Over(dst, top, bottom, 1, false); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(bottom) {
		t.Error("Over(invisible) != bottom")
	}
}

func TestOver_HalfRedOverBlack(t *testing.T) {
	bottom := NewLayer(2, 2, Depth8)
	top := NewLayer(2, 2, Depth8)
	_ = bottom.Reset(Opaque(Depth8, 0, 0, 0))
	_ = top.Reset(Opaque(Depth8, 255, 0, 0))
	top.SetOpacity(0.5)

	dst := NewPixmap(2, 2, Depth8)
	if err := Over(dst, top.pm, bottom.pm, top.Opacity(), true); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := dst.RGBA(x, y)
			if c.R <= 120 || c.R >= 140 || c.G != 0 || c.B != 0 {
				t.Errorf("pixel (%d,%d) = %v, want red in (120,140) and no green or blue", x, y, c)
			}
		}
	}
}

func TestOver_ShapeMismatch(t *testing.T) {
	a := NewPixmap(2, 2, Depth8)
	b := NewPixmap(2, 3, Depth8)
	c := NewPixmap(2, 2, Depth16)
	if err := Over(a, a, b, 1, true); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("size mismatch error = %v, want ErrShapeMismatch", err)
	}
	if err := Over(a, c, a, 1, true); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("depth mismatch error = %v, want ErrShapeMismatch", err)
	}
}

func TestMergeInto_LockedBottom(t *testing.T) {
	bottom := NewLayer(2, 2, Depth8)
	top := NewLayer(2, 2, Depth8)
	_ = top.Fill(Black(Depth8))
	bottom.SetLocked(true)

	if err := MergeInto(top, bottom); err != nil {
		t.Fatal(err)
	}
	if !bottom.Locked() {
		t.Error("MergeInto() unlocked the bottom layer")
	}
	if got := bottom.Pixels().RGBA(1, 1); got != Black(Depth8) {
		t.Errorf("merged pixel = %v, want black", got)
	}
}

func TestMergeLayers(t *testing.T) {
	if _, err := MergeLayers(nil); !errors.Is(err, ErrEmptyStack) {
		t.Errorf("MergeLayers(nil) error = %v, want ErrEmptyStack", err)
	}

	base := NewLayer(2, 1, Depth8)
	mid := NewLayer(2, 1, Depth8)
	_ = mid.Fill(Opaque(Depth8, 0, 255, 0))
	mid.SetVisible(false)
	top := NewLayer(2, 1, Depth8)
	_ = top.Fill(RGBA{0, 0, 255, 0})

	got, err := MergeLayers([]*Layer{base, mid, top})
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Error("MergeLayers() did not return layers[0]")
	}
	if c := got.Pixels().RGBA(0, 0); c != White(Depth8) {
		t.Errorf("merged pixel = %v, want white (hidden and transparent layers)", c)
	}
}

func TestRenderLayers(t *testing.T) {
	a := NewLayer(2, 2, Depth8)
	_ = a.Fill(Opaque(Depth8, 0, 0, 0))
	b := NewLayer(2, 2, Depth8)
	_ = b.Fill(Opaque(Depth8, 255, 0, 0))
	b.SetOpacity(0.5)
	c := NewLayer(2, 2, Depth8)
	c.SetVisible(false)

	out := NewPixmap(2, 2, Depth8)
	if err := RenderLayers([]*Layer{a, b, c}, out); err != nil {
		t.Fatal(err)
	}
	want := NewPixmap(2, 2, Depth8)
	if err := RenderLayers([]*Layer{a, b}, want); err != nil {
		t.Fatal(err)
	}
	if !out.Equal(want) {
		t.Error("hidden top layer changed the render")
	}
	if got := out.RGBA(0, 0); got != (RGBA{128, 0, 0, 255}) {
		t.Errorf("render pixel = %v, want {128 0 0 255}", got)
	}

	untouched := NewPixmap(2, 2, Depth8)
	untouched.Clear(RGBA{1, 2, 3, 4})
	a.SetVisible(false)
	b.SetVisible(false)
	if err := RenderLayers([]*Layer{a, b, c}, untouched); err != nil {
		t.Fatal(err)
	}
	if got := untouched.RGBA(1, 1); got != (RGBA{1, 2, 3, 4}) {
		t.Errorf("render with nothing visible wrote %v", got)
	}
}

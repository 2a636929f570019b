package filter

import (
	"image"
	"image/color"
	"testing"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x*16 + y*7) % 256)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: 255 - v, B: v / 2, A: 255})
		}
	}
	return img
}

func TestLUT_Identity(t *testing.T) {
	tbl := LUT(100)
	for i := 0; i < 256; i++ {
		if tbl[i] != uint8(i) {
			t.Fatalf("LUT(100)[%d] = %d, want %d", i, tbl[i], i)
		}
	}
}

func TestLUT_Gamma50(t *testing.T) {
	// g = 0.5, inv = 2: 255 * (128/255)^2 is roughly 64
	tbl := LUT(50)
	got := int(tbl[128])
	if got < 63 || got > 65 {
		t.Errorf("LUT(50)[128] = %d, want about 64", got)
	}
	if tbl[0] != 0 {
		t.Errorf("LUT(50)[0] = %d, want 0", tbl[0])
	}
	if tbl[255] != 255 {
		t.Errorf("LUT(50)[255] = %d, want 255", tbl[255])
	}
}

func TestLUT_Monotonic(t *testing.T) {
	for _, percent := range []int{25, 50, 150, 200} {
		tbl := LUT(percent)
		for i := 1; i < 256; i++ {
			if tbl[i] < tbl[i-1] {
				t.Fatalf("LUT(%d) not monotonic at %d: %d < %d", percent, i, tbl[i], tbl[i-1])
			}
		}
	}
}

func TestApply_IdentityLeavesPixels(t *testing.T) {
	src := gradientImage(8, 8)
	out := Apply(src, 100, 0)

	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("Pixel byte %d changed under identity gamma", i)
		}
	}
}

func TestApply_LeavesAlphaUntouched(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 77})
		}
	}

	out := Apply(src, 50, 0)

	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 77 {
			t.Fatalf("Alpha byte %d = %d, want 77", i, out.Pix[i])
		}
	}
	if out.Pix[0] == 128 {
		t.Error("Color channels must change under gamma 50")
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	src := gradientImage(8, 8)
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	Apply(src, 50, 0)

	for i := range src.Pix {
		if src.Pix[i] != before[i] {
			t.Fatal("Apply must never modify the original pixels")
		}
	}
}

func TestApply_CapsResolution(t *testing.T) {
	src := gradientImage(64, 32)
	out := Apply(src, 50, 16)

	b := out.Bounds()
	if b.Dx() != 16 {
		t.Errorf("Width = %d, want capped to 16", b.Dx())
	}
	if b.Dy() != 8 {
		t.Errorf("Height = %d, want proportionally downscaled to 8", b.Dy())
	}
}

package display

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRenderKeepsAspectRatio(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wide.png"), 400, 200)

	th := NewThumbnailer(dir, "")
	data, err := th.Render("wide.png", 100, 100)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}

	again, err := th.Render("wide.png", 100, 100)
	if err != nil || !bytes.Equal(again, data) {
		t.Error("Expected cached render to be identical")
	}
}

func TestRenderRejectsPaths(t *testing.T) {
	th := NewThumbnailer(t.TempDir(), "")
	for _, name := range []string{"../secret.png", "sub/a.png", ""} {
		if _, err := th.Render(name, 10, 10); err == nil {
			t.Errorf("Expected error for %q", name)
		}
	}
}

func TestRenderIdle(t *testing.T) {
	dir := t.TempDir()
	idle := filepath.Join(dir, "coat-of-arms.png")
	writePNG(t, idle, 60, 120)

	th := NewThumbnailer(t.TempDir(), idle)
	data, err := th.RenderIdle(1500, 1000)
	if err != nil {
		t.Fatalf("RenderIdle failed: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dy() != 1000 || b.Dx() != 500 {
		t.Errorf("Expected 500x1000, got %dx%d", b.Dx(), b.Dy())
	}

	if _, err := NewThumbnailer(dir, "").RenderIdle(10, 10); err == nil {
		t.Error("Expected error without idle image")
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{400, 200, 100, 100, 100, 50},
		{60, 120, 1500, 1000, 500, 1000},
		{3000, 2000, 1500, 1000, 1500, 1000},
		{1000, 1000, 500, 333, 333, 333},
	}
	for _, tt := range tests {
		w, h := fitSize(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitSize(%d,%d,%d,%d) = %dx%d, expected %dx%d",
				tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

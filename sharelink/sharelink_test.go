package sharelink

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"
)

func TestLink(t *testing.T) {
	tests := []struct {
		root string
		want string
	}{
		{"http://localhost", "http://localhost/abc123/Bilder.zip"},
		{"http://localhost/", "http://localhost/abc123/Bilder.zip"},
		{"https://booth.example.org/share/", "https://booth.example.org/share/abc123/Bilder.zip"},
		// a root without trailing slash loses its last segment, like a relative link in a browser
		{"https://booth.example.org/share", "https://booth.example.org/abc123/Bilder.zip"},
	}
	for _, tt := range tests {
		r, err := New(tt.root, "Bilder", 0)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", tt.root, err)
		}
		got, err := r.Link("abc123")
		if err != nil {
			t.Fatalf("Link failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("Link with root %q = %q, want %q", tt.root, got, tt.want)
		}
	}
}

func TestLinkEscapesArchiveName(t *testing.T) {
	r, err := New("http://localhost", "09.07. - Bilder", 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Link("id")
	if err != nil {
		t.Fatal(err)
	}
	if want := "http://localhost/id/09.07.%20-%20Bilder.zip"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNewRejectsRelativeRoot(t *testing.T) {
	if _, err := New("localhost/share", "Bilder", 0); err == nil {
		t.Error("Expected error for relative url root")
	}
}

func TestEmptyLink(t *testing.T) {
	r, err := New("http://localhost", "Bilder", 64)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Link(""); !errors.Is(err, ErrEmptyLink) {
		t.Errorf("Expected ErrEmptyLink for empty session id, got %v", err)
	}
	if _, err := r.PNG(""); !errors.Is(err, ErrEmptyLink) {
		t.Errorf("Expected ErrEmptyLink for empty link, got %v", err)
	}
}

func TestPNGIsBlackOnWhite(t *testing.T) {
	r, err := New("http://localhost", "Bilder", 256)
	if err != nil {
		t.Fatal(err)
	}
	link, _ := r.Link("abc123")
	data, err := r.PNG(link)
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("Expected 256x256, got %dx%d", b.Dx(), b.Dy())
	}

	// the quiet zone corner is background
	cr, cg, cb, _ := img.At(0, 0).RGBA()
	wr, wg, wb, _ := color.White.RGBA()
	if cr != wr || cg != wg || cb != wb {
		t.Errorf("Expected white background at (0,0)")
	}
	sawBlack := false
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && !sawBlack; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r == 0 && g == 0 && b == 0 {
				sawBlack = true
				break
			}
		}
	}
	if !sawBlack {
		t.Error("Expected black modules in the QR image")
	}
}

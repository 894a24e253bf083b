package display

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/moyoez/photobooth-go/tool"
)

const (
	ThumbQuality  = 80
	MaxRenderSize = 4096
	thumbCacheTTL = 10 * time.Minute
)

// Thumbnailer scales images to fit a box preserving aspect ratio.
type Thumbnailer struct {
	imageRoot string
	idleImage string
	cache     *ttlworker.Cache[string, []byte]
}

// NewThumbnailer renders files below imageRoot; idleImage is any path, may be empty.
func NewThumbnailer(imageRoot, idleImage string) *Thumbnailer {
	return &Thumbnailer{
		imageRoot: imageRoot,
		idleImage: idleImage,
		cache:     ttlworker.NewCache[string, []byte](thumbCacheTTL),
	}
}

// Render returns a JPEG of name (inside the image root) fitted into width x height.
func (t *Thumbnailer) Render(name string, width, height int) ([]byte, error) {
	if !tool.IsPlainFileName(name) {
		return nil, fmt.Errorf("invalid image name %q", name)
	}
	return t.renderFile(filepath.Join(t.imageRoot, name), width, height)
}

// RenderIdle returns the idle placeholder fitted into width x height.
func (t *Thumbnailer) RenderIdle(width, height int) ([]byte, error) {
	if t.idleImage == "" {
		return nil, os.ErrNotExist
	}
	return t.renderFile(t.idleImage, width, height)
}

func (t *Thumbnailer) renderFile(path string, width, height int) ([]byte, error) {
	width = clamp(width)
	height = clamp(height)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s@%dx%d:%d", path, width, height, info.ModTime().UnixNano())
	if cached := t.cache.Get(key); cached != nil {
		return cached, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := FitJPEG(f, width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	t.cache.Set(key, data)
	return data, nil
}

// FitJPEG decodes r, applies its EXIF orientation and scales it up or down to fit
// width x height.
func FitJPEG(r io.ReadSeeker, width, height int) ([]byte, error) {
	orientation := readOrientation(r)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	img = applyOrientation(img, orientation)
	w, h := fitSize(img.Bounds().Dx(), img.Bounds().Dy(), width, height)
	fitted := imaging.Resize(img, w, h, imaging.Linear)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fitted, &jpeg.Options{Quality: ThumbQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readOrientation returns the EXIF orientation, 1 when absent.
func readOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// fitSize returns the largest srcW x srcH multiple that fits into maxW x maxH.
func fitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 1, 1
	}
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	return max(w, 1), max(h, 1)
}

func clamp(v int) int {
	if v <= 0 {
		return 1
	}
	if v > MaxRenderSize {
		return MaxRenderSize
	}
	return v
}

// Package sharelink turns a session id into the download URL and its QR code.
package sharelink

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"net/url"

	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 512

// ErrEmptyLink is returned when asked to encode an empty link.
var ErrEmptyLink = errors.New("empty share link")

// Renderer builds share links below a root URL.
type Renderer struct {
	root        *url.URL
	archiveName string
	size        int
}

// New parses urlRoot once. archiveName is without the .zip suffix.
func New(urlRoot, archiveName string, size int) (*Renderer, error) {
	root, err := url.Parse(urlRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid url root %q: %w", urlRoot, err)
	}
	if !root.IsAbs() {
		return nil, fmt.Errorf("url root %q must be absolute", urlRoot)
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	return &Renderer{
		root:        root,
		archiveName: archiveName,
		size:        size,
	}, nil
}

// Link resolves <sessionID>/<archiveName>.zip against the root the way a browser resolves a
// relative link: a root without trailing slash loses its last path segment.
func (r *Renderer) Link(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptyLink
	}
	ref := &url.URL{Path: sessionID + "/" + r.archiveName + ".zip"}
	return r.root.ResolveReference(ref).String(), nil
}

func (r *Renderer) encode(link string) (*qrcode.QRCode, error) {
	if link == "" {
		return nil, ErrEmptyLink
	}
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White
	return q, nil
}

// Image renders link as a black-on-white bitmap.
func (r *Renderer) Image(link string) (image.Image, error) {
	q, err := r.encode(link)
	if err != nil {
		return nil, err
	}
	return q.Image(r.size), nil
}

// PNG renders link as PNG bytes.
func (r *Renderer) PNG(link string) ([]byte, error) {
	q, err := r.encode(link)
	if err != nil {
		return nil, err
	}
	png, err := q.PNG(r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// Package archive writes a session's images into a single zip file.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/moyoez/photobooth-go/metrics"
	"github.com/moyoez/photobooth-go/tool"
)

// ErrArchiveExists is returned when the session directory is already present.
// Session ids are random, so this only happens on a reused id.
var ErrArchiveExists = errors.New("archive directory already exists")

// Publisher copies a finished archive somewhere guests can download it.
type Publisher interface {
	Publish(ctx context.Context, sessionID, archivePath string) error
}

// Packager writes zip_root/<session>/<archiveName>.zip.
type Packager struct {
	imageRoot   string
	zipRoot     string
	archiveName string
	publisher   Publisher
}

// NewPackager creates a packager; publisher may be nil.
func NewPackager(imageRoot, zipRoot, archiveName string, publisher Publisher) *Packager {
	return &Packager{
		imageRoot:   imageRoot,
		zipRoot:     zipRoot,
		archiveName: archiveName,
		publisher:   publisher,
	}
}

// FileName is the archive file name inside the session directory.
func (p *Packager) FileName() string {
	return p.archiveName + ".zip"
}

// Path returns where the archive of sessionID is written.
func (p *Packager) Path(sessionID string) string {
	return filepath.Join(p.zipRoot, sessionID, p.FileName())
}

// Package writes names, read from the image root, into the session archive in the given
// order and under their bare names. A failure leaves whatever was written on disk.
func (p *Packager) Package(ctx context.Context, sessionID string, names []string) (string, error) {
	start := time.Now()
	path, size, err := p.write(ctx, sessionID, names)
	metrics.RecordArchive(time.Since(start), size, err == nil)
	if err != nil {
		return path, err
	}
	tool.DefaultLogger.Infof("[Archive] Wrote %s (%d images, %d bytes)", path, len(names), size)

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, sessionID, path); err != nil {
			return path, fmt.Errorf("failed to publish archive: %w", err)
		}
	}
	return path, nil
}

func (p *Packager) write(ctx context.Context, sessionID string, names []string) (string, int64, error) {
	if sessionID == "" || !tool.IsPlainFileName(sessionID) {
		return "", 0, fmt.Errorf("invalid session id %q", sessionID)
	}
	dir := filepath.Join(p.zipRoot, sessionID)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if os.IsExist(err) {
			return "", 0, fmt.Errorf("%w: %s", ErrArchiveExists, dir)
		}
		return "", 0, fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(dir, p.FileName())
	f, err := os.Create(path)
	if err != nil {
		return path, 0, fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			tool.DefaultLogger.Debugf("Failed to close %s: %v", path, err)
		}
	}()

	zw := zip.NewWriter(f)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return path, 0, err
		}
		if err := p.addFile(zw, name); err != nil {
			return path, 0, err
		}
	}
	if err := zw.Close(); err != nil {
		return path, 0, fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := f.Sync(); err != nil {
		return path, 0, fmt.Errorf("failed to sync archive: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		return path, 0, fmt.Errorf("failed to stat archive: %w", err)
	}
	return path, info.Size(), nil
}

func (p *Packager) addFile(zw *zip.Writer, name string) error {
	src, err := os.Open(filepath.Join(p.imageRoot, name))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build zip header for %s: %w", name, err)
	}
	header.Name = name
	// jpegs do not shrink, store them as-is
	header.Method = zip.Store

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

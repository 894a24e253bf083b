// Package watcher finds images that appeared in the image directory during a session.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// Lister returns the current directory entries. Entries that cannot be stat'ed are left out.
type Lister interface {
	List() ([]types.DirectoryEntry, error)
}

// DirLister lists a flat directory on disk.
type DirLister struct {
	Root string
}

// List reads Root in lexical order. Sub-directories and entries that vanish between
// the listing and the stat are skipped; they are reconsidered on the next call.
func (d DirLister) List() ([]types.DirectoryEntry, error) {
	dirEntries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, err
	}
	entries := make([]types.DirectoryEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		created, err := creationTime(filepath.Join(d.Root, e.Name()))
		if err != nil {
			tool.DefaultLogger.Debugf("Skipping %s this tick: %v", e.Name(), err)
			continue
		}
		entries = append(entries, types.DirectoryEntry{Name: e.Name(), CreatedAt: created})
	}
	return entries, nil
}

// Watcher classifies directory entries as new or already known.
type Watcher struct {
	lister     Lister
	tempMarker string
}

// New creates a watcher. Names containing tempMarker are ignored; an empty marker disables the filter.
func New(lister Lister, tempMarker string) *Watcher {
	return &Watcher{
		lister:     lister,
		tempMarker: tempMarker,
	}
}

// Poll appends every entry created strictly inside the session window that is not known yet,
// in listing order, and returns the appended names.
func (w *Watcher) Poll(session types.Session, known *types.KnownImageSet, now time.Time) []string {
	entries, err := w.lister.List()
	if err != nil {
		tool.DefaultLogger.Warnf("Failed to list image directory: %v", err)
		return nil
	}
	start, end := session.Window(now)

	var found []string
	for _, entry := range entries {
		if w.tempMarker != "" && strings.Contains(entry.Name, w.tempMarker) {
			continue
		}
		if !entry.CreatedAt.After(start) || !entry.CreatedAt.Before(end) {
			continue
		}
		if known.Add(entry.Name) {
			found = append(found, entry.Name)
		}
	}
	if len(found) > 0 {
		tool.DefaultLogger.Debugf("Found %d new image(s): %v", len(found), found)
	}
	return found
}

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package watcher

import (
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the inode change time, which is when the camera utility finished
// writing (or renamed) the file.
func creationTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, err
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec), nil
}

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package watcher

import (
	"os"
	"time"
)

func creationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

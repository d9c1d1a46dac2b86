package osutil

import (
	"os"

	"github.com/pkg/errors"
)

// Exists returns whether the given file or directory exists or not.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureDirectory creates dir and its parents unless it already exists. It
// fails when dir names something that is not a directory.
func EnsureDirectory(dir string) error {
	fi, err := os.Stat(dir)
	if err == nil {
		if !fi.IsDir() {
			return errors.Errorf("%s must be a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return errors.Wrapf(os.MkdirAll(dir, 0755), "could not create %s", dir)
}

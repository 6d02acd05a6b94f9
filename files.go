package main

import (
	"github.com/pingcap/errors"
	"github.com/spf13/afero"
)

// readDescription loads the whole description file
func readDescription(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.Annotatef(err, "opening %s", path)
	}
	return string(data), nil
}

// ensureDir creates the output directory if absent
func ensureDir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Annotatef(err, "creating %s", dir)
	}
	return nil
}

package internal

import (
	"os"
	"path/filepath"
)

// Directory lists the base names of all entries contained in file,
// subdirectories included, in directory order. If
// file is itself a regular file (not a directory), it returns a single-entry
// slice with file's own base name, so callers can treat a lone input file
// and a directory of input files uniformly.
func Directory(file string) (files []string, err error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Base(file)}, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() {
		nerr := f.Close()
		if err == nil {
			err = nerr
		}
	}()
	return f.Readdirnames(0)
}

// FullPathname resolves filename against the current working directory when
// it is not already absolute.
func FullPathname(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}

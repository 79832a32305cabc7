// Package filex contains filesystem helpers for the journal client: locating
// the local data directory and reading attachment files.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// EnsureDataDir makes sure dir exists and returns its absolute path. Relative
// paths are resolved against the working directory.
func EnsureDataDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// Attachment is a file read from disk for upload.
type Attachment struct {
	Name        string
	Data        []byte
	ContentType string
}

// ReadAttachment reads the file at path, rejecting directories and files
// larger than maxSize bytes (0 disables the limit).
func ReadAttachment(path string, maxSize int64) (*Attachment, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if maxSize > 0 && fi.Size() > maxSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d", path, fi.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Attachment{
		Name:        filepath.Base(path),
		Data:        data,
		ContentType: http.DetectContentType(data),
	}, nil
}

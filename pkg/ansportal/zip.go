package ansportal

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteZip stores each file as "<title>.pdf" in a zip archive written to w.
func WriteZip(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		entry, err := zw.Create(f.Title + ".pdf")
		if err != nil {
			return fmt.Errorf("create zip entry %q: %w", f.Title, err)
		}
		if _, err := entry.Write(f.Content); err != nil {
			return fmt.Errorf("write zip entry %q: %w", f.Title, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}

// SaveZip writes the archive to path and returns its absolute location.
func SaveZip(path string, files []File) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve zip path: %w", err)
	}
	out, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create zip file: %w", err)
	}
	if err := WriteZip(out, files); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close zip file: %w", err)
	}
	return abs, nil
}

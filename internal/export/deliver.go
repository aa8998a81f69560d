package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteArtifact stores a in dir under its filename and returns the final path.
// The file appears atomically; a failed write leaves nothing behind.
func WriteArtifact(dir string, a Artifact) (string, error) {
	if a.Filename == "" || filepath.Base(a.Filename) != a.Filename {
		return "", fmt.Errorf("invalid artifact filename %q", a.Filename)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	tmpFile, err := os.CreateTemp(dir, ".export-*"+filepath.Ext(a.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(a.Data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", a.Filename, err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		return "", fmt.Errorf("failed to chmod %s: %w", a.Filename, err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", a.Filename, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", a.Filename, err)
	}
	return path, nil
}

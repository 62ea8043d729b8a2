package pitcore

import (
	"fmt"
	"os"
	"path/filepath"
)

// MaterializeBlobTemp writes the content of a blob to a file named name
// inside dir, for handing to an external diff or merge tool as one of its
// LOCAL/REMOTE/BASE/MERGED inputs. An empty hash produces an empty file,
// standing in for a side where the path does not exist.
func (r *Repository) MaterializeBlobTemp(h Hash, dir, name string) (string, error) {
	var content []byte
	if h != "" {
		var err error
		content, err = r.ReadBlob(h)
		if err != nil {
			return "", err
		}
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write tool input %s: %w", name, err)
	}
	return path, nil
}

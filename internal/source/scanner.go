package source

import (
	"os"
	"path/filepath"
	"strings"
)

// ScanDir walks the logs directory and discovers all JSONL session files.
// Layout is logs/<user-id>/<session-id>.jsonl; files outside a user
// directory are ignored. A missing logs directory is not an error.
func ScanDir(dataDir string) ([]DiscoveredFile, error) {
	logsDir := filepath.Join(dataDir, "logs")

	info, err := os.Stat(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(logsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != ".jsonl" {
			return nil
		}

		rel, _ := filepath.Rel(logsDir, path)
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) < 2 {
			return nil
		}

		df := DiscoveredFile{
			Path:      path,
			UserID:    parts[0],
			SessionID: strings.TrimSuffix(name, ".jsonl"),
		}
		if fi, err := d.Info(); err == nil {
			df.Size = fi.Size()
			df.ModTime = fi.ModTime()
		}

		files = append(files, df)
		return nil
	})

	return files, err
}

// CountUsers returns the number of unique users in a set of discovered files.
func CountUsers(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.UserID] = struct{}{}
	}
	return len(seen)
}

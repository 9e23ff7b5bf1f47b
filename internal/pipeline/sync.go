// Package pipeline drives log ingestion and weekly summary precomputes.
package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"vocalog/internal/source"
	"vocalog/internal/store"
)

// SyncResult summarizes one ingestion pass.
type SyncResult struct {
	TotalFiles  int
	Unchanged   int
	Parsed      int
	ParseErrors int
	FileErrors  int
	Removed     int
	UserCount   int
}

// ProgressFunc is called during parsing to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Sync discovers session logs under the data directory, diffs them
// against the index by mtime and size, reparses only changed files, and
// prunes index rows whose log files disappeared. Parsing fans out over a
// bounded worker pool.
func Sync(dataDir string, st *store.Store, progressFn ProgressFunc) (*SyncResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &SyncResult{
		TotalFiles: len(files),
		UserCount:  source.CountUsers(files),
	}

	tracked, err := st.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toParse []source.DiscoveredFile
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		seen[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			result.Unchanged++
			continue
		}
		f.Size = info.Size()
		f.ModTime = info.ModTime()
		toParse = append(toParse, f)
	}

	// Prune logs that vanished since the last pass
	for path := range tracked {
		if _, ok := seen[path]; ok {
			continue
		}
		if err := st.DeleteSessionByPath(path); err != nil {
			return nil, fmt.Errorf("pruning %s: %w", path, err)
		}
		result.Removed++
	}

	if len(toParse) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(toParse) {
		numWorkers = len(toParse)
	}

	work := make(chan int, len(toParse))
	results := make([]source.ParseResult, len(toParse))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range toParse {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(toParse[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(toParse))
				}
			}
		}()
	}

	wg.Wait()

	// Index writes stay on this goroutine; sqlite likes one writer
	for i, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.Parsed++
		result.ParseErrors += pr.ParseErrors
		f := toParse[i]
		if err := st.SaveSession(pr.Session, f.ModTime.UnixNano(), f.Size); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", f.Path, err)
		}
	}

	return result, nil
}

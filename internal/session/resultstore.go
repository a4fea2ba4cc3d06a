package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/design-compactor/backend/internal/models"
)

// ResultStore persists compaction results as msgpack files keyed by the
// source file ID. Reloading a file from "Recent Files" then skips the
// expansion and compaction work entirely.
type ResultStore struct {
	resultsDir string
	mu         sync.RWMutex
	// cache tracks which file IDs have a persisted result (fileID -> path)
	cache map[string]string
}

// NewResultStore creates a result store. Uses environment variable
// RESULTS_DIR for the storage location, defaults to ./data/results
func NewResultStore() *ResultStore {
	resultsDir := os.Getenv("RESULTS_DIR")
	if resultsDir == "" {
		resultsDir = "./data/results"
	}
	return NewResultStoreWithDir(resultsDir)
}

// NewResultStoreWithDir creates a result store with a specific directory.
func NewResultStoreWithDir(resultsDir string) *ResultStore {
	os.MkdirAll(resultsDir, 0755)

	store := &ResultStore{
		resultsDir: resultsDir,
		cache:      make(map[string]string),
	}

	store.scanExisting()

	return store
}

// scanExisting scans the results directory for persisted results on startup.
func (rs *ResultStore) scanExisting() {
	entries, err := os.ReadDir(rs.resultsDir)
	if err != nil {
		fmt.Printf("[ResultStore] Warning: failed to scan results directory: %v\n", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		// Look for files matching pattern: doc_<id>.msgpack
		name := entry.Name()
		if strings.HasPrefix(name, "doc_") && filepath.Ext(name) == ".msgpack" {
			fileID := strings.TrimSuffix(name[4:], ".msgpack")
			rs.cache[fileID] = filepath.Join(rs.resultsDir, name)
		}
	}

	fmt.Printf("[ResultStore] Scanned %d existing compaction results\n", len(rs.cache))
}

// resultPath returns the path where a result is stored for a file ID.
func (rs *ResultStore) resultPath(fileID string) string {
	return filepath.Join(rs.resultsDir, fmt.Sprintf("doc_%s.msgpack", fileID))
}

// IsStored checks if a result has already been persisted for a file.
func (rs *ResultStore) IsStored(fileID string) bool {
	rs.mu.RLock()
	_, ok := rs.cache[fileID]
	rs.mu.RUnlock()

	if ok {
		return true
	}

	// Double-check on disk in case the file was created externally
	path := rs.resultPath(fileID)
	if _, err := os.Stat(path); err == nil {
		rs.mu.Lock()
		rs.cache[fileID] = path
		rs.mu.Unlock()
		return true
	}

	return false
}

// Save persists a compaction result, replacing any previous one.
func (rs *ResultStore) Save(result *models.CompactionResult) error {
	path := rs.resultPath(result.FileID)

	data, err := msgpack.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	rs.mu.Lock()
	rs.cache[result.FileID] = path
	rs.mu.Unlock()

	fmt.Printf("[ResultStore] Persisted result for file %s (%d bytes)\n", shortID(result.FileID), len(data))
	return nil
}

// Load returns the persisted result for a file, or nil if none exists.
func (rs *ResultStore) Load(fileID string) (*models.CompactionResult, error) {
	if !rs.IsStored(fileID) {
		return nil, nil
	}

	rs.mu.RLock()
	path := rs.cache[fileID]
	rs.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File was deleted, remove from cache
			rs.mu.Lock()
			delete(rs.cache, fileID)
			rs.mu.Unlock()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var result models.CompactionResult
	if err := msgpack.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}

	return &result, nil
}

// Delete removes the persisted result for a file (call when the original
// export is deleted).
func (rs *ResultStore) Delete(fileID string) error {
	rs.mu.Lock()
	delete(rs.cache, fileID)
	rs.mu.Unlock()

	path := rs.resultPath(fileID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete result: %w", err)
	}

	fmt.Printf("[ResultStore] Deleted result for file %s\n", shortID(fileID))
	return nil
}

// Stats returns statistics about the result store. Entries whose backing
// file disappeared are pruned, so this takes the write lock.
func (rs *ResultStore) Stats() map[string]interface{} {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var totalSize int64
	for fileID, path := range rs.cache {
		if info, err := os.Stat(path); err == nil {
			totalSize += info.Size()
		} else {
			delete(rs.cache, fileID)
		}
	}

	return map[string]interface{}{
		"resultCount": len(rs.cache),
		"totalSize":   totalSize,
		"resultsDir":  rs.resultsDir,
	}
}

// CleanupOrphaned removes results whose raw export no longer exists.
// rawFileIDs should be the list of file IDs present in file storage.
func (rs *ResultStore) CleanupOrphaned(rawFileIDs []string) int {
	validIDs := make(map[string]bool)
	for _, id := range rawFileIDs {
		validIDs[id] = true
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	removed := 0
	for fileID := range rs.cache {
		if !validIDs[fileID] {
			os.Remove(rs.cache[fileID])
			delete(rs.cache, fileID)
			removed++
			fmt.Printf("[ResultStore] Cleaned up orphaned result for file %s\n", shortID(fileID))
		}
	}

	return removed
}

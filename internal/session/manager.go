// Package session runs and tracks document compaction sessions.
package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/design-compactor/backend/internal/compaction"
	"github.com/design-compactor/backend/internal/models"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion
const MaxSessions = 20

// SessionMaxAge is how long to keep completed sessions before cleanup
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// DefaultWorkers is the per-session screen compaction concurrency.
const DefaultWorkers = 3

// Manager handles active compaction sessions.
type Manager struct {
	sessions  map[string]*SessionState
	mu        sync.RWMutex
	registry  *compaction.Registry
	compactor *compaction.Compactor
	rules     *models.CompactionRules
	results   *ResultStore
	workers   int
}

// SessionState holds session metadata and the completed result.
type SessionState struct {
	Session      *models.CompactionSession
	Result       *models.CompactionResult
	LastAccessed time.Time
}

// NewManager creates a session manager with default heuristics, no
// persistent result store, and default concurrency.
func NewManager() *Manager {
	return NewManagerWithOptions(nil, DefaultWorkers)
}

// NewManagerWithOptions creates a session manager with a persistent result
// store (may be nil) and a per-session worker count.
func NewManagerWithOptions(results *ResultStore, workers int) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		sessions:  make(map[string]*SessionState),
		registry:  compaction.GetGlobalRegistry(),
		compactor: compaction.NewCompactor(),
		results:   results,
		workers:   workers,
	}
}

// UseRules replaces the compactor heuristics for subsequent sessions.
func (m *Manager) UseRules(rules *models.CompactionRules) error {
	c, err := compaction.NewCompactorWithRules(rules)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.compactor = c
	m.rules = rules
	m.mu.Unlock()
	return nil
}

// Rules returns the heuristic rules applied to new sessions.
func (m *Manager) Rules() *models.CompactionRules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rules == nil {
		return models.DefaultCompactionRules()
	}
	return m.rules
}

// DeleteResult removes the persisted result for a file. Call when the raw
// export is deleted so a stale result is not served later.
func (m *Manager) DeleteResult(fileID string) error {
	if m.results == nil {
		return nil
	}
	return m.results.Delete(fileID)
}

// StartSession begins compacting a stored design export.
func (m *Manager) StartSession(fileID, filePath string) (*models.CompactionSession, error) {
	m.cleanupOldSessionsIfNeeded()

	sessionID := uuid.New().String()

	session := models.NewCompactionSession(sessionID, fileID)
	session.Status = models.SessionStatusExpanding

	state := &SessionState{
		Session:      session,
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = state
	m.mu.Unlock()

	go m.runCompaction(sessionID, fileID, filePath)

	return session, nil
}

func (m *Manager) runCompaction(sessionID, fileID, filePath string) {
	// Recover from panics to prevent backend crash
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Compact %s] PANIC recovered: %v\n", shortID(sessionID), r)
			m.updateSessionError(sessionID, fmt.Sprintf("compaction panicked: %v", r))
		}
		// Release the intern pool between documents
		compaction.ResetGlobalIntern()
	}()

	start := time.Now()
	fmt.Printf("[Compact %s] Starting compaction of %s\n", shortID(sessionID), filePath)

	// Reuse a persisted result when the same document was already compacted
	if m.results != nil {
		if result, err := m.results.Load(fileID); err == nil && result != nil {
			fmt.Printf("[Compact %s] Result cache hit for file %s\n", shortID(sessionID), shortID(fileID))
			m.finishSession(sessionID, result, time.Since(start).Milliseconds(), nil)
			return
		}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("[Compact %s] ERROR reading export: %v\n", shortID(sessionID), err)
		m.updateSessionError(sessionID, fmt.Sprintf("failed to read export: %v", err))
		return
	}

	doc, err := m.registry.DecodeDocument(data)
	if err != nil {
		fmt.Printf("[Compact %s] ERROR decoding export: %v\n", shortID(sessionID), err)
		m.updateSessionError(sessionID, fmt.Sprintf("failed to decode export: %v", err))
		return
	}

	sc := compaction.ExpandAll(doc.Nodes)
	fmt.Printf("[Compact %s] Expanded %d screens, %d notes\n",
		shortID(sessionID), len(sc.Screens), len(sc.Notes))

	m.mu.Lock()
	compactor := m.compactor
	if state, ok := m.sessions[sessionID]; ok {
		state.Session.Status = models.SessionStatusCompacting
		state.Session.Progress = 10
		state.Session.ScreenCount = len(sc.Screens)
		state.Session.NoteCount = len(sc.Notes)
	}
	m.mu.Unlock()

	outputs, compErrs := m.compactScreens(sessionID, compactor, sc.Screens)

	result := &models.CompactionResult{
		FileID:       fileID,
		DocumentName: doc.Name,
		Screens:      outputs,
		Notes:        collectNotes(sc.Notes),
		RawBytes:     int64(len(data)),
	}
	for i := range result.Screens {
		result.CompactBytes += int64(len(result.Screens[i].Text))
	}

	if m.results != nil {
		if err := m.results.Save(result); err != nil {
			fmt.Printf("[Compact %s] Warning: failed to persist result: %v\n", shortID(sessionID), err)
		}
	}

	elapsed := time.Since(start).Milliseconds()
	fmt.Printf("[Compact %s] Complete: %d screens, %d -> %d bytes in %dms\n",
		shortID(sessionID), len(result.Screens), result.RawBytes, result.CompactBytes, elapsed)

	m.finishSession(sessionID, result, elapsed, compErrs)
}

// compactScreens renders every screen through a bounded worker pool.
// Output order matches screen order regardless of completion order.
func (m *Manager) compactScreens(sessionID string, compactor *compaction.Compactor, screens []*models.DesignNode) ([]models.ScreenOutput, []models.CompactionError) {
	outputs := make([]models.ScreenOutput, len(screens))
	errs := make([]models.CompactionError, 0)

	var wg sync.WaitGroup
	var emu sync.Mutex
	sem := make(chan struct{}, m.workers)
	done := 0

	for i, screen := range screens {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, screen *models.DesignNode) {
			defer wg.Done()
			defer func() { <-sem }()

			text, err := compactor.Compact(screen)
			emu.Lock()
			if err != nil {
				errs = append(errs, models.CompactionError{
					ScreenID:   screen.ID,
					ScreenName: screen.Name,
					Reason:     err.Error(),
				})
			} else {
				outputs[i] = models.ScreenOutput{
					ID:       screen.ID,
					Name:     screen.Name,
					Text:     text,
					RawNodes: countNodes(screen),
				}
			}
			done++
			progress := 10.0
			if len(screens) > 0 {
				progress += float64(done) * 85.0 / float64(len(screens))
			}
			emu.Unlock()

			m.mu.Lock()
			if state, ok := m.sessions[sessionID]; ok {
				state.Session.Progress = progress
			}
			m.mu.Unlock()
		}(i, screen)
	}
	wg.Wait()

	// Drop slots of failed screens while keeping relative order.
	kept := outputs[:0]
	for _, out := range outputs {
		if out.ID != "" {
			kept = append(kept, out)
		}
	}
	return kept, errs
}

func (m *Manager) finishSession(sessionID string, result *models.CompactionResult, elapsed int64, errs []models.CompactionError) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	state.Result = result
	state.Session.Status = models.SessionStatusComplete
	state.Session.Progress = 100
	state.Session.ScreenCount = len(result.Screens)
	state.Session.NoteCount = len(result.Notes)
	state.Session.RawBytes = result.RawBytes
	state.Session.CompactBytes = result.CompactBytes
	state.Session.ProcessingTimeMs = elapsed
	if len(errs) > 0 {
		state.Session.Errors = append(state.Session.Errors, errs...)
	}
}

func (m *Manager) updateSessionError(sessionID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	state.Session.Status = models.SessionStatusError
	state.Session.Errors = append(state.Session.Errors, models.CompactionError{
		Reason: reason,
	})
}

// cleanupOldSessionsIfNeeded removes finished sessions when at capacity.
func (m *Manager) cleanupOldSessionsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	toFree := len(m.sessions) - MaxSessions + 1
	for id, state := range m.sessions {
		if toFree == 0 {
			break
		}
		if state.Session.Status == models.SessionStatusComplete ||
			state.Session.Status == models.SessionStatusError {
			delete(m.sessions, id)
			toFree--
			fmt.Printf("[Manager] Cleaned up old session %s to free memory\n", shortID(id))
		}
	}
}

// CleanupOldSessions removes finished sessions older than maxAge, keeping
// sessions touched within SessionKeepAliveWindow.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-SessionKeepAliveWindow)

	for id, state := range m.sessions {
		if state.Session.Status != models.SessionStatusComplete &&
			state.Session.Status != models.SessionStatusError {
			continue
		}
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			fmt.Printf("[Manager] Cleaned up aged session %s (last accessed %s ago)\n",
				shortID(id), time.Since(state.LastAccessed).Round(time.Second))
		}
	}
}

// GetSession returns a session by ID.
func (m *Manager) GetSession(id string) (*models.CompactionSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Session, true
}

// TouchSession updates the LastAccessed timestamp for a session so active
// viewers are not cleaned up.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// GetResult returns the completed result for a session.
func (m *Manager) GetResult(id string) (*models.CompactionResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok || state.Result == nil {
		return nil, false
	}
	return state.Result, true
}

// collectNotes surfaces note metadata with the first text found in each
// note's subtree.
func collectNotes(notes []*models.DesignNode) []models.NoteInfo {
	infos := make([]models.NoteInfo, 0, len(notes))
	for _, n := range notes {
		infos = append(infos, models.NoteInfo{
			ID:   n.ID,
			Name: n.Name,
			Text: firstText(n),
		})
	}
	return infos
}

func firstText(n *models.DesignNode) string {
	if n == nil {
		return ""
	}
	if n.Type == models.NodeTypeText && n.Characters != "" {
		return n.Characters
	}
	for _, child := range n.Children {
		if t := firstText(child); t != "" {
			return t
		}
	}
	return ""
}

func countNodes(n *models.DesignNode) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += countNodes(child)
	}
	return count
}

// shortID safely truncates an ID for logging.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

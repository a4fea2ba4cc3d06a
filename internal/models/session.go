package models

// SessionStatus represents the status of a compaction session.
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusExpanding  SessionStatus = "expanding"
	SessionStatusCompacting SessionStatus = "compacting"
	SessionStatusComplete   SessionStatus = "complete"
	SessionStatusError      SessionStatus = "error"
)

// CompactionSession represents one document compaction run.
type CompactionSession struct {
	ID               string            `json:"id"`
	FileID           string            `json:"fileId"`
	Status           SessionStatus     `json:"status"`
	Progress         float64           `json:"progress"` // 0-100
	ScreenCount      int               `json:"screenCount,omitempty"`
	NoteCount        int               `json:"noteCount,omitempty"`
	RawBytes         int64             `json:"rawBytes,omitempty"`
	CompactBytes     int64             `json:"compactBytes,omitempty"`
	ProcessingTimeMs int64             `json:"processingTimeMs,omitempty"`
	Errors           []CompactionError `json:"errors,omitempty"`
}

// CompactionError records a per-screen or session-level failure.
type CompactionError struct {
	ScreenID   string `json:"screenId,omitempty"`
	ScreenName string `json:"screenName,omitempty"`
	Reason     string `json:"reason"`
}

// NewCompactionSession creates a new session in pending status.
func NewCompactionSession(id, fileID string) *CompactionSession {
	return &CompactionSession{
		ID:       id,
		FileID:   fileID,
		Status:   SessionStatusPending,
		Progress: 0,
		Errors:   make([]CompactionError, 0),
	}
}

// ScreenOutput is one compacted screen document.
type ScreenOutput struct {
	ID       string `json:"id" msgpack:"id"`
	Name     string `json:"name" msgpack:"name"`
	Text     string `json:"text" msgpack:"text"`
	RawNodes int    `json:"rawNodes" msgpack:"rawNodes"`
}

// NoteInfo is the surfaced metadata of an annotation note.
type NoteInfo struct {
	ID   string `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
	Text string `json:"text,omitempty" msgpack:"text,omitempty"`
}

// CompactionResult is the persisted outcome of a completed session.
type CompactionResult struct {
	FileID       string         `json:"fileId" msgpack:"fileId"`
	DocumentName string         `json:"documentName,omitempty" msgpack:"documentName,omitempty"`
	Screens      []ScreenOutput `json:"screens" msgpack:"screens"`
	Notes        []NoteInfo     `json:"notes" msgpack:"notes"`
	RawBytes     int64          `json:"rawBytes" msgpack:"rawBytes"`
	CompactBytes int64          `json:"compactBytes" msgpack:"compactBytes"`
}

// Screen returns the output for a screen ID, or nil.
func (r *CompactionResult) Screen(id string) *ScreenOutput {
	for i := range r.Screens {
		if r.Screens[i].ID == id {
			return &r.Screens[i]
		}
	}
	return nil
}

package entry

import "time"

// Risk grades how safe a folder is to delete.
type Risk string

const (
	RiskSafe     Risk = "safe"
	RiskModerate Risk = "moderate"
	RiskCaution  Risk = "caution"
)

// Valid reports whether r is one of the known tiers.
func (r Risk) Valid() bool {
	switch r {
	case RiskSafe, RiskModerate, RiskCaution:
		return true
	}
	return false
}

// Label is a classification result: what a folder is and how risky
// deleting it would be.
type Label struct {
	Description string `json:"description"`
	Risk        Risk   `json:"risk"`
}

// ScanRoot is one of the fixed top-level directories a scan always
// checks. The set is immutable after process start.
type ScanRoot struct {
	ID    string
	Path  string
	Label string
}

// FolderEntry is a sized, classified folder produced by a scan or
// drill-down. Entries are transient: owned by the request that
// produced them and never shared between concurrent operations.
type FolderEntry struct {
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	Size        int64         `json:"size"`
	SizeHuman   string        `json:"size_formatted"`
	Items       int64         `json:"items"`
	IsDir       bool          `json:"is_dir"`
	HasChildren bool          `json:"has_children"`
	Partial     bool          `json:"partial"`
	Label       Label         `json:"label"`
	Children    []FolderEntry `json:"children,omitempty"`
	Err         string        `json:"error,omitempty"`
}

// Outcome is the recorded result of one deletion attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomePartial Outcome = "partial"
)

// Privilege records which privilege level performed a deletion.
type Privilege string

const (
	PrivilegeNormal   Privilege = "normal"
	PrivilegeElevated Privilege = "elevated"
)

// DeletionRecord is one entry in the append-only deletion history.
// Failed attempts are recorded too; the history is a complete audit
// trail, not a success log.
type DeletionRecord struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Outcome   Outcome   `json:"outcome"`
	Privilege Privilege `json:"privilege"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

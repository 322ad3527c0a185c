package typcheck

import "context"

// Severity classifies a backend finding.
type Severity string

// Severity levels.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Match is a single rule violation reported by a backend. Start and End
// are byte offsets into the text submitted with the Check call; they are
// chunk-local until the diagnostic mapper translates them.
type Match struct {
	RuleID          string   `json:"ruleId"`
	RuleDescription string   `json:"ruleDescription,omitempty"`
	Message         string   `json:"message"`
	Start           int      `json:"start"`
	End             int      `json:"end"`
	Replacements    []string `json:"replacements,omitempty"`
	Severity        Severity `json:"severity,omitempty"`
}

// BackendConfig carries the settings a backend must apply before its next
// Check call. Applying config never requires the caller to restart the
// backend.
type BackendConfig struct {
	// Dictionary lists additional allowed words.
	Dictionary []string

	// DisabledRules lists rule IDs the backend should not report.
	DisabledRules []string
}

// Backend is the uniform interface over grammar-checking backend variants:
// an in-process engine, an externally launched local server, or a remote
// network server. Implementations own their process or connection
// lifecycle; a start or connection failure surfaces as EUNAVAILABLE, a
// deadline overrun as ETIMEOUT.
//
// Backends are shared across documents and must be safe for concurrent
// Check calls.
type Backend interface {
	// Check submits text and returns rule-violation matches with byte
	// offsets into text.
	Check(ctx context.Context, lang string, text string) ([]Match, error)

	// Configure applies config; it takes effect before the next Check.
	Configure(ctx context.Context, cfg BackendConfig) error

	// Shutdown releases the backend's process or connection resources.
	Shutdown(ctx context.Context) error
}

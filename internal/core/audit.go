package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionSessionCreate AuditAction = "session_create"
	ActionSessionDelete AuditAction = "session_delete"
	ActionSessionEvict  AuditAction = "session_evict"
	ActionSessionResume AuditAction = "session_resume"
	ActionSessionReset  AuditAction = "session_reset"
	ActionQuickInput    AuditAction = "quick_input"
	ActionTransform     AuditAction = "transform"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID        string        `json:"id"`
	Action    AuditAction   `json:"action"`
	Severity  AuditSeverity `json:"severity"`
	SessionID string        `json:"sessionId"`
	Detail    string        `json:"detail,omitempty"`
	IPAddress string        `json:"ipAddress,omitempty"`
	UserAgent string        `json:"userAgent,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DefaultAuditCapacity is how many entries the audit log keeps.
const DefaultAuditCapacity = 1000

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionSessionDelete, ActionSessionReset:
		return SeverityHigh
	case ActionQuickInput, ActionTransform:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AuditLog is a bounded in-memory record of session activity. When full,
// the oldest entry is overwritten.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	next    int
	full    bool
}

// NewAuditLog creates a log holding up to capacity entries.
func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &AuditLog{entries: make([]AuditEntry, capacity)}
}

func (l *AuditLog) append(e AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[l.next] = e
	l.next++
	if l.next == len(l.entries) {
		l.next = 0
		l.full = true
	}
}

// AuditLogFilter contains filtering options for querying audit logs.
type AuditLogFilter struct {
	SessionID string
	Action    AuditAction
	Limit     int
}

// List returns matching entries, newest first.
func (l *AuditLog) List(filter AuditLogFilter) []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.next
	if l.full {
		n = len(l.entries)
	}

	out := []AuditEntry{}
	for i := 0; i < n; i++ {
		idx := (l.next - 1 - i + len(l.entries)) % len(l.entries)
		e := l.entries[idx]
		if filter.SessionID != "" && e.SessionID != filter.SessionID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// LogAudit records action on a session. Client details come from ctx.
func (s *Service) LogAudit(ctx context.Context, action AuditAction, sessionID, detail string) AuditEntry {
	e := AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Severity:  determineSeverity(action),
		SessionID: sessionID,
		Detail:    detail,
		IPAddress: GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
		CreatedAt: s.now(),
	}
	s.audit.append(e)
	return e
}

// GetAuditLog returns audit entries matching filter, newest first.
func (s *Service) GetAuditLog(filter AuditLogFilter) []AuditEntry {
	return s.audit.List(filter)
}

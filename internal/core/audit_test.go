package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_Wraps(t *testing.T) {
	l := NewAuditLog(3)
	for i, a := range []AuditAction{ActionSessionCreate, ActionQuickInput, ActionTransform, ActionSessionDelete} {
		l.append(AuditEntry{Action: a, SessionID: string(rune('a' + i))})
	}

	got := l.List(AuditLogFilter{})
	require.Len(t, got, 3)
	assert.Equal(t, ActionSessionDelete, got[0].Action)
	assert.Equal(t, ActionTransform, got[1].Action)
	assert.Equal(t, ActionQuickInput, got[2].Action)
}

func TestAuditLog_Filter(t *testing.T) {
	l := NewAuditLog(10)
	l.append(AuditEntry{Action: ActionSessionCreate, SessionID: "a"})
	l.append(AuditEntry{Action: ActionSessionCreate, SessionID: "b"})
	l.append(AuditEntry{Action: ActionTransform, SessionID: "a"})
	l.append(AuditEntry{Action: ActionTransform, SessionID: "a"})

	tests := []struct {
		name   string
		filter AuditLogFilter
		want   int
	}{
		{"all", AuditLogFilter{}, 4},
		{"by session", AuditLogFilter{SessionID: "a"}, 3},
		{"by action", AuditLogFilter{Action: ActionSessionCreate}, 2},
		{"both", AuditLogFilter{SessionID: "a", Action: ActionTransform}, 2},
		{"limited", AuditLogFilter{Limit: 1}, 1},
		{"no match", AuditLogFilter{SessionID: "z"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.List(tt.filter)
			assert.Len(t, got, tt.want)
			assert.NotNil(t, got)
		})
	}
}

func TestDetermineSeverity(t *testing.T) {
	assert.Equal(t, SeverityHigh, determineSeverity(ActionSessionDelete))
	assert.Equal(t, SeverityHigh, determineSeverity(ActionSessionReset))
	assert.Equal(t, SeverityMedium, determineSeverity(ActionTransform))
	assert.Equal(t, SeverityLow, determineSeverity(ActionSessionEvict))
}

func TestService_AuditTrail(t *testing.T) {
	t.Parallel()
	svc, _, c := newTestService(t, Options{IdleTTL: time.Minute})
	ctx := ContextWithIPAddress(context.Background(), "203.0.113.9")

	view, err := svc.Create(ctx)
	require.NoError(t, err)
	id := view.ID

	_, err = svc.QuickInput(ctx, id, "[[1, 2], [3, 4]]")
	require.NoError(t, err)
	_, err = svc.Transform(ctx, id, "r2", "r1", "3", "-")
	require.NoError(t, err)
	_, err = svc.Transform(ctx, id, "r1", "", "x", "*")
	require.Error(t, err)

	c.Advance(2 * time.Minute)
	assert.Equal(t, 1, svc.ReapIdle(ctx))
	_, err = svc.Get(ctx, id)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))

	got := svc.GetAuditLog(AuditLogFilter{SessionID: id})
	actions := make([]AuditAction, len(got))
	for i, e := range got {
		actions[i] = e.Action
	}
	assert.Equal(t, []AuditAction{
		ActionSessionDelete,
		ActionSessionResume,
		ActionSessionEvict,
		ActionTransform,
		ActionQuickInput,
		ActionSessionCreate,
	}, actions)

	transform := got[3]
	assert.Equal(t, "r2 − 3×r1", transform.Detail)
	assert.Equal(t, "203.0.113.9", transform.IPAddress)
	assert.Equal(t, "2×2", got[4].Detail)
	assert.NotEmpty(t, transform.ID)
}

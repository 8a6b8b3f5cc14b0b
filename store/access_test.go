package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldops/opsreport/model"
)

func appendLogin(l *AccessLog, email string, outcome model.AccessOutcome) {
	l.Append(model.AccessEvent{
		Timestamp: time.Now(),
		Email:     email,
		Name:      "Operator",
		SourceIP:  "203.0.113.9",
		Outcome:   outcome,
	})
}

func TestListNewestFirst(t *testing.T) {
	l := NewAccessLog(100)
	for i := 0; i < 3; i++ {
		l.Append(model.AccessEvent{Email: fmt.Sprintf("u%d@x.mil", i), Outcome: model.AccessOK})
	}

	events := l.List(true, "")
	assert.Len(t, events, 3)
	assert.Equal(t, "u2@x.mil", events[0].Email)
	assert.Equal(t, "u0@x.mil", events[2].Email)
}

func TestListScopedToOwnEmail(t *testing.T) {
	l := NewAccessLog(100)
	appendLogin(l, "a@x.mil", model.AccessOK)
	appendLogin(l, "b@x.mil", model.AccessOK)
	appendLogin(l, "a@x.mil", model.AccessDenied)

	own := l.List(false, "A@X.MIL")
	assert.Len(t, own, 2)
	for _, e := range own {
		assert.Equal(t, "a@x.mil", e.Email)
	}
}

func TestAdminListCap(t *testing.T) {
	l := NewAccessLog(3)
	for i := 0; i < 5; i++ {
		l.Append(model.AccessEvent{Email: fmt.Sprintf("u%d@x.mil", i), Outcome: model.AccessOK})
	}

	events := l.List(true, "")
	assert.Len(t, events, 3)
	// Newest rows survive the cap.
	assert.Equal(t, "u4@x.mil", events[0].Email)
	assert.Equal(t, "u2@x.mil", events[2].Email)
}

func TestBlockAnnotatesHistoryAndBlocks(t *testing.T) {
	l := NewAccessLog(100)
	appendLogin(l, "user@x.mil", model.AccessOK)
	appendLogin(l, "other@x.mil", model.AccessOK)
	appendLogin(l, "user@x.mil", model.AccessOK)

	updated := l.Block("USER@x.mil")
	assert.Equal(t, 2, updated)
	assert.True(t, l.IsBlocked("user@x.mil"))
	assert.False(t, l.IsBlocked("other@x.mil"))

	for _, e := range l.List(false, "user@x.mil") {
		assert.Equal(t, model.AccessBlocked, e.Outcome)
	}
	assert.Equal(t, model.AccessOK, l.List(false, "other@x.mil")[0].Outcome)
}

func TestUnblockLiftsBlockKeepsAnnotations(t *testing.T) {
	l := NewAccessLog(100)
	appendLogin(l, "user@x.mil", model.AccessOK)
	l.Block("user@x.mil")

	assert.True(t, l.Unblock("user@x.mil"))
	assert.False(t, l.IsBlocked("user@x.mil"))

	// The audit trail is not rewritten when the block is lifted.
	assert.Equal(t, model.AccessBlocked, l.List(false, "user@x.mil")[0].Outcome)

	assert.False(t, l.Unblock("user@x.mil"))
}

func TestPurgeRemovesRowsButKeepsBlock(t *testing.T) {
	l := NewAccessLog(100)
	appendLogin(l, "user@x.mil", model.AccessOK)
	appendLogin(l, "user@x.mil", model.AccessDenied)
	appendLogin(l, "other@x.mil", model.AccessOK)
	l.Block("user@x.mil")

	removed := l.Purge("user@x.mil")
	assert.Equal(t, 2, removed)
	assert.Empty(t, l.List(false, "user@x.mil"))
	assert.Len(t, l.List(true, ""), 1)

	// Deleting history must not lift the block.
	assert.True(t, l.IsBlocked("user@x.mil"))
}

package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/mind-engage/permah/internal/db"
	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPurgeLoopDeletesExpiredAndStops(t *testing.T) {
	ctx := context.Background()
	h, err := db.Open(ctx, db.DriverSQLite, "file:purge_loop_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer h.Close()
	h.SetMaxOpenConns(1)

	// Expiry is stored in whole seconds, so a sub-second TTL is due at once.
	store := session.NewSQLStore(h, time.Millisecond)
	require.NoError(t, store.Create(ctx, session.Session{
		ID:        "stale",
		Answers:   scoring.DefaultAnswers(),
		UpdatedAt: time.Now(),
	}))

	rows := func() int {
		var n int
		if err := h.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
			return -1
		}
		return n
	}
	require.Equal(t, 1, rows())

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		purgeLoop(loopCtx, store, 5*time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return rows() == 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("purge loop did not stop after cancel")
	}
}

func TestPurgeLoopDisabled(t *testing.T) {
	done := make(chan struct{})
	go func() {
		purgeLoop(context.Background(), nil, 0, zap.NewNop())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purge loop with no interval should return immediately")
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/permah/internal/db"
	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/survey"
)

var dsnSeq atomic.Int64

func newSQLiteStore(t *testing.T, ttl time.Duration) *SQLStore {
	t.Helper()
	dsn := fmt.Sprintf("file:sessions_test_%d?mode=memory&cache=shared", dsnSeq.Add(1))
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return NewSQLStore(h, ttl)
}

// storeCases runs the same behaviour against every Store implementation.
func storeCases(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore(16, time.Hour) },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t, time.Hour) },
	}
}

func seqIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("s-%d", n.Add(1)) }
}

func TestServiceLifecycle(t *testing.T) {
	for name, mk := range storeCases(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewService(mk(t), WithIDs(seqIDs()))

			sess, err := svc.Start(ctx)
			require.NoError(t, err)
			assert.Equal(t, "s-1", sess.ID)
			assert.Equal(t, 0, sess.Revision)
			assert.True(t, sess.Answers.Equal(scoring.DefaultAnswers()))

			edited, err := svc.SetAnswer(ctx, sess.ID, 5, 9)
			require.NoError(t, err)
			assert.Equal(t, 1, edited.Revision)
			v, _ := edited.Answers.Get(5)
			assert.Equal(t, 9, v)

			// The earlier value is untouched.
			v, _ = sess.Answers.Get(5)
			assert.Equal(t, 5, v)

			_, scores, err := svc.Scores(ctx, sess.ID)
			require.NoError(t, err)
			assert.InDelta(t, 19.0/3.0, scores[survey.Engagement].Average, 1e-12)
			assert.Equal(t, 5.0, scores[survey.Health].Average)

			reset, err := svc.Reset(ctx, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, reset.Revision)
			assert.True(t, reset.Answers.Equal(scoring.DefaultAnswers()))

			require.NoError(t, svc.End(ctx, sess.ID))
			_, err = svc.Current(ctx, sess.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	for name, mk := range storeCases(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewService(mk(t), WithIDs(seqIDs()))
			a, err := svc.Start(ctx)
			require.NoError(t, err)
			b, err := svc.Start(ctx)
			require.NoError(t, err)

			_, err = svc.SetAnswer(ctx, a.ID, 1, 10)
			require.NoError(t, err)

			got, err := svc.Current(ctx, b.ID)
			require.NoError(t, err)
			v, _ := got.Answers.Get(1)
			assert.Equal(t, 5, v)
		})
	}
}

func TestSetAnswerRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(4, 0))
	sess, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SetAnswer(ctx, sess.ID, 5, 11)
	assert.True(t, errors.Is(err, scoring.ErrOutOfRange))

	cur, err := svc.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cur.Revision)
}

func TestReplaceRequiresCompleteSet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(4, 0))
	sess, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.Replace(ctx, sess.ID, scoring.DefaultAnswers().Without(5))
	assert.True(t, errors.Is(err, scoring.ErrIncompleteInput))

	next, err := svc.Replace(ctx, sess.ID, scoring.Uniform(8))
	require.NoError(t, err)
	assert.True(t, next.Answers.Equal(scoring.Uniform(8)))
}

func TestUpdateConflict(t *testing.T) {
	for name, mk := range storeCases(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st := mk(t)
			now := time.Now()
			require.NoError(t, st.Create(ctx, Session{ID: "x", Answers: scoring.DefaultAnswers(), UpdatedAt: now}))

			next := Session{ID: "x", Answers: scoring.Uniform(2), Revision: 1, UpdatedAt: now}
			require.NoError(t, st.Update(ctx, next, 0))
			assert.ErrorIs(t, st.Update(ctx, next, 0), ErrConflict)
			assert.ErrorIs(t, st.Update(ctx, Session{ID: "missing"}, 0), ErrNotFound)
		})
	}
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(4, 0), WithIDs(seqIDs()))

	first, created, err := svc.Resume(ctx, "")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.Resume(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	other, created, err := svc.Resume(ctx, "gone")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestSQLStorePurgeExpired(t *testing.T) {
	ctx := context.Background()
	st := newSQLiteStore(t, time.Minute)
	clock := time.Unix(1_700_000_000, 0)
	st.now = func() time.Time { return clock }

	require.NoError(t, st.Create(ctx, Session{ID: "old", Answers: scoring.DefaultAnswers(), UpdatedAt: clock}))
	clock = clock.Add(2 * time.Minute)
	require.NoError(t, st.Create(ctx, Session{ID: "new", Answers: scoring.DefaultAnswers(), UpdatedAt: clock}))

	_, err := st.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := st.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = st.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(2, 0)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, st.Create(ctx, Session{ID: id, Answers: scoring.DefaultAnswers()}))
	}
	assert.Equal(t, 2, st.Len())
	_, err := st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mind-engage/permah/internal/scoring"
)

// SQLStore keeps live sessions in a shared database so several replicas can
// serve the same respondent. Rows carry an expiry and are purged, never
// archived.
type SQLStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLStore(db *sql.DB, ttl time.Duration) *SQLStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SQLStore{db: db, ttl: ttl, now: time.Now}
}

func (s *SQLStore) Create(ctx context.Context, sess Session) error {
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return err
	}
	now := s.now()
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions (id,answers_json,revision,updated_at,expires_at)
		VALUES ($1,$2,$3,$4,$5)`,
		sess.ID, string(aj), sess.Revision, sess.UpdatedAt.UnixMilli(), now.Add(s.ttl).Unix())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,answers_json,revision,updated_at FROM sessions
		WHERE id=$1 AND expires_at > $2`, id, s.now().Unix())
	var sess Session
	var ajson string
	var updated int64
	if err := row.Scan(&sess.ID, &ajson, &sess.Revision, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var answers scoring.AnswerSet
	if err := json.Unmarshal([]byte(ajson), &answers); err != nil {
		return Session{}, fmt.Errorf("decode answers for session %s: %w", id, err)
	}
	sess.Answers = answers
	sess.UpdatedAt = time.UnixMilli(updated)
	return sess, nil
}

func (s *SQLStore) Update(ctx context.Context, sess Session, prevRevision int) error {
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return err
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET answers_json=$1, revision=$2, updated_at=$3, expires_at=$4
		WHERE id=$5 AND revision=$6 AND expires_at > $7`,
		string(aj), sess.Revision, sess.UpdatedAt.UnixMilli(), now.Add(s.ttl).Unix(), sess.ID, prevRevision, now.Unix())
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.Get(ctx, sess.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired deletes sessions whose TTL has lapsed and reports how many went.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, s.now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

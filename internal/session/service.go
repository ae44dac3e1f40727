package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/survey"
)

// Service is the only writer of sessions. It hands out immutable answer
// sets and produces a new one for every edit.
type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option       { return func(s *Service) { s.log = l } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }
func WithIDs(gen func() string) Option      { return func(s *Service) { s.newID = gen } }

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start creates a session holding the default answers.
func (s *Service) Start(ctx context.Context) (Session, error) {
	sess := Session{
		ID:        s.newID(),
		Answers:   scoring.DefaultAnswers(),
		UpdatedAt: s.now(),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	s.log.Debug("session started", zap.String("session", sess.ID))
	return sess, nil
}

// Current returns the session, or ErrNotFound once it has expired.
func (s *Service) Current(ctx context.Context, id string) (Session, error) {
	return s.store.Get(ctx, id)
}

// Resume returns the session for id, starting a fresh one when id is empty
// or unknown.
func (s *Service) Resume(ctx context.Context, id string) (Session, bool, error) {
	if id != "" {
		sess, err := s.store.Get(ctx, id)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Session{}, false, err
		}
	}
	sess, err := s.Start(ctx)
	return sess, err == nil, err
}

// SetAnswer applies one edit. Invalid values are rejected before anything
// is stored.
func (s *Service) SetAnswer(ctx context.Context, id string, q survey.QuestionID, v int) (Session, error) {
	if err := scoring.CheckValue(q, v); err != nil {
		return Session{}, err
	}
	return s.apply(ctx, id, func(a scoring.AnswerSet) scoring.AnswerSet { return a.With(q, v) })
}

// Replace swaps in a whole answer set, e.g. from a full form submit. The
// set must already be complete and in range.
func (s *Service) Replace(ctx context.Context, id string, answers scoring.AnswerSet) (Session, error) {
	if err := scoring.Validate(answers); err != nil {
		return Session{}, err
	}
	return s.apply(ctx, id, func(scoring.AnswerSet) scoring.AnswerSet { return answers })
}

// Reset returns every answer to its default.
func (s *Service) Reset(ctx context.Context, id string) (Session, error) {
	return s.apply(ctx, id, func(scoring.AnswerSet) scoring.AnswerSet { return scoring.DefaultAnswers() })
}

// Scores aggregates the session's current answers.
func (s *Service) Scores(ctx context.Context, id string) (Session, []scoring.CategoryScore, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return Session{}, nil, err
	}
	scores, err := scoring.Aggregate(sess.Answers)
	if err != nil {
		return sess, nil, err
	}
	return sess, scores, nil
}

func (s *Service) End(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// apply retries once on a lost revision race; edits from one respondent are
// sequential, so a second conflict means something else is writing.
func (s *Service) apply(ctx context.Context, id string, edit func(scoring.AnswerSet) scoring.AnswerSet) (Session, error) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var cur Session
		cur, err = s.store.Get(ctx, id)
		if err != nil {
			return Session{}, err
		}
		next := Session{
			ID:        cur.ID,
			Answers:   edit(cur.Answers),
			Revision:  cur.Revision + 1,
			UpdatedAt: s.now(),
		}
		err = s.store.Update(ctx, next, cur.Revision)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrConflict) {
			return Session{}, err
		}
		s.log.Warn("session revision conflict", zap.String("session", id), zap.Int("revision", cur.Revision))
	}
	return Session{}, err
}

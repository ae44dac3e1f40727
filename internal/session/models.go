package session

import (
	"context"
	"errors"
	"time"

	"github.com/mind-engage/permah/internal/scoring"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrConflict = errors.New("session changed concurrently")
)

// Session owns one respondent's live answers. Every edit replaces Answers
// with a new AnswerSet and bumps Revision.
type Session struct {
	ID        string            `json:"id"`
	Answers   scoring.AnswerSet `json:"answers"`
	Revision  int               `json:"revision"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	// Update replaces the stored session if its revision still equals
	// prevRevision; otherwise it returns ErrConflict.
	Update(ctx context.Context, s Session, prevRevision int) error
	Delete(ctx context.Context, id string) error
}

package repo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("not found")
)

// NotesRepo is the storage collaborator for notes. Each call is a single
// storage operation; there is no cross-call atomicity, so a check-then-write
// sequence can lose a race with a concurrent delete and surface ErrNotFound
// from the second call.
type NotesRepo interface {
	FindByOwner(ctx context.Context, userID string) ([]Note, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Note, error)
	Insert(ctx context.Context, note Note) (Note, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch NotePatch) (Note, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

package repo

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemRepo is an in-memory NotesRepo used in tests. It keeps insertion order
// so listings are stable for a given state, like a natural-order collection
// scan.
type MemRepo struct {
	mu    sync.RWMutex
	notes map[primitive.ObjectID]Note
	order []primitive.ObjectID
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		notes: map[primitive.ObjectID]Note{},
	}
}

func (r *MemRepo) FindByOwner(_ context.Context, userID string) ([]Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := []Note{}
	for _, id := range r.order {
		if note, ok := r.notes[id]; ok && note.User == userID {
			notes = append(notes, note)
		}
	}

	return notes, nil
}

func (r *MemRepo) FindByID(_ context.Context, id primitive.ObjectID) (Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}

	return note, nil
}

func (r *MemRepo) Insert(_ context.Context, note Note) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note.ID = primitive.NewObjectID()
	note.CreatedAt = time.Now().UTC()
	r.notes[note.ID] = note
	r.order = append(r.order, note.ID)

	return note, nil
}

func (r *MemRepo) UpdateByID(_ context.Context, id primitive.ObjectID, patch NotePatch) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, ok := r.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Description != nil {
		note.Description = *patch.Description
	}
	if patch.Tag != nil {
		note.Tag = *patch.Tag
	}
	r.notes[id] = note

	return note, nil
}

func (r *MemRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return ErrNotFound
	}
	delete(r.notes, id)

	return nil
}

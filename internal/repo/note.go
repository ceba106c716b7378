package repo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Note struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User        string             `bson:"user" json:"user"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Tag         string             `bson:"tag,omitempty" json:"tag,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// NotePatch carries a partial update. A nil field means "keep the stored
// value"; a non-nil field is applied as-is, even when it points at "".
type NotePatch struct {
	Title       *string
	Description *string
	Tag         *string
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Tag == nil
}

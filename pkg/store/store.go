// Package store archives generated pages so they can be listed and
// re-rendered later.
//
// A record keeps both the content description and the computed layout:
// the content is the source of truth for re-layout under new settings,
// the layout is what was actually served. The in-memory backend covers
// tests and single-shot CLI runs; the Mongo backend persists across
// serve restarts.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/layout"
)

// Record is one archived page.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Title     string           `json:"title" bson:"title"`
	Content   content.Document `json:"content" bson:"content"`
	Layout    layout.Layout    `json:"layout" bson:"layout"`
}

// Store archives page records.
type Store interface {
	// Save stores a record, assigning an id and creation time when
	// absent, and returns the stored record.
	Save(ctx context.Context, rec Record) (Record, error)

	// Get fetches a record by id. Unknown ids return a LAYOUT_NOT_FOUND
	// error.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first. A non-positive
	// limit returns all records.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. Unknown ids return a LAYOUT_NOT_FOUND
	// error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// stamp fills in the id and creation time when the caller left them
// empty.
func stamp(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Title == "" {
		rec.Title = rec.Content.Title
	}
	return rec
}

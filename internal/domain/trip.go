// Package domain contains the core data types for the Trip Explorer API.
// This package has minimal external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a destination a user saved as a favorite, plus their notes.
// Owner is the identity of the user who created it. It is never
// serialised to clients and every store operation filters on it.
type Trip struct {
	ID        uuid.UUID
	Owner     string
	Name      string
	Capital   string
	Region    string
	Flag      string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

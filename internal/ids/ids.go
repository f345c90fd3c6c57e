// Package ids generates identifiers: sortable ksuids for request
// correlation and uuids for opaque one-time codes.
package ids

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

func New() string {
	return ksuid.New().String()
}

// NewOpaque returns a random code suitable for token values and
// email-verification links.
func NewOpaque() string {
	return uuid.NewString()
}

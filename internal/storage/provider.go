// Package storage talks to the external object-storage provider holding
// uploaded media files. The provider is a collaborator, not part of the
// relational store: uploads are sequenced before the referencing row commits,
// and delete failures are non-fatal to callers.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound reports a delete against an object the provider no longer holds.
var ErrNotFound = errors.New("object not found")

// Object is a file handed to the provider for upload.
type Object struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Stored describes the provider's record of an uploaded object.
type Stored struct {
	URL        string
	ExternalID string
	SizeBytes  int64
	Width      int
	Height     int
}

// Provider uploads and deletes media objects.
type Provider interface {
	Upload(ctx context.Context, obj Object) (*Stored, error)
	Delete(ctx context.Context, externalID string) error
}

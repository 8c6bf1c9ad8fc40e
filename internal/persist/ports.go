// Package persist defines the persistence collaborator contract. The core
// treats storage as a pure key→document store: keys are (owner, stream)
// pairs, values are whole JSON-encoded record lists. Saves always replace the
// entire document, so a failed write never leaves a stream half-updated.
package persist

import "context"

// Record streams. Each logged-in user owns their own copy of every stream, so
// data never leaks between accounts.
const (
	StreamClients      = "clients"
	StreamAppointments = "appointments"
)

type Documents interface {
	// Load returns the stored document for (owner, stream), with ok=false
	// when nothing has been saved yet.
	Load(ctx context.Context, owner, stream string) (data []byte, ok bool, err error)

	// Save replaces the document for (owner, stream).
	Save(ctx context.Context, owner, stream string, data []byte) error
}

// Package ports defines the interfaces the interaction layer is wired
// through: the synchronization channel to the statistical service and the
// typed view-models replacing direct screen access.
package ports

import (
	"context"
	"io"
)

// RemoteError is an application-level rejection: the server answered the
// round trip but set status "error". Its message is surfaced verbatim.
// Transport and parse failures stay ordinary errors.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// FileDownload is one fetched binary stream plus the name the server chose
// for it.
type FileDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SyncPort performs request/response cycles against the statistical and
// storage service. Implementations decode the shared JSON envelope into out
// and return a *RemoteError when the envelope carries status "error". There
// is no retry, no timeout and no cancellation beyond the context.
type SyncPort interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, payload, out interface{}) error
	Upload(ctx context.Context, path, field, filename string, file io.Reader, out interface{}) error
	Download(ctx context.Context, path string) (*FileDownload, error)
}

package app

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"outlierlab/ports"
)

// mockSync scripts the synchronization port. Response payloads are written
// through the out argument inside a Run callback, mirroring how the real
// client decodes envelopes.
type mockSync struct {
	mock.Mock
}

func (m *mockSync) Get(ctx context.Context, path string, out interface{}) error {
	args := m.Called(ctx, path, out)
	return args.Error(0)
}

func (m *mockSync) Post(ctx context.Context, path string, payload, out interface{}) error {
	args := m.Called(ctx, path, payload, out)
	return args.Error(0)
}

func (m *mockSync) Upload(ctx context.Context, path, field, filename string, file io.Reader, out interface{}) error {
	args := m.Called(ctx, path, field, filename, file, out)
	return args.Error(0)
}

func (m *mockSync) Download(ctx context.Context, path string) (*ports.FileDownload, error) {
	args := m.Called(ctx, path)
	download, _ := args.Get(0).(*ports.FileDownload)
	return download, args.Error(1)
}

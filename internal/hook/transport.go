package hook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ResponseFolderName is the temp subfolder holding response artifacts.
const ResponseFolderName = "hook_responses"

// Channel carries one hook response back to the caller. The caller that
// opened it reads it at most once and closes it.
type Channel interface {
	// Location is what the hook is told to write to
	Location() string

	// Read returns the full response document
	Read() ([]byte, error)

	// Close releases the channel and any artifact behind it
	Close() error
}

// Transport opens one response channel per invocation.
// Implementations must be safe for concurrent use.
type Transport interface {
	Open(ctx context.Context) (Channel, error)
}

// FileTransport correlates responses through files named by a random UUID.
type FileTransport struct {
	// Dir is the folder the response files are created in
	Dir string
}

// NewFileTransport returns a transport rooted at <tempDir>/hook_responses.
func NewFileTransport(tempDir string) *FileTransport {
	return &FileTransport{Dir: filepath.Join(tempDir, ResponseFolderName)}
}

// Open creates an empty response file with a collision-resistant name.
func (t *FileTransport) Open(ctx context.Context) (Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create response dir: %w", err)
	}

	path := filepath.Join(t.Dir, uuid.NewString()+".json")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("create response file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("create response file: %w", err)
	}

	return &fileChannel{path: path}, nil
}

type fileChannel struct {
	path string
}

func (c *fileChannel) Location() string {
	return c.path
}

func (c *fileChannel) Read() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewProtocolError(c.path, ErrResponseMissing)
		}
		return nil, NewProtocolError(c.path, err)
	}
	return data, nil
}

// Close removes the response file. A file the hook already removed is
// not an error.
func (c *fileChannel) Close() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove response file: %w", err)
	}
	return nil
}

// Verify FileTransport implements Transport interface
var _ Transport = (*FileTransport)(nil)

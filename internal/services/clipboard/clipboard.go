// Package clipboard places exported documents on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility exists on the host.
var ErrUnavailable = errors.New("system clipboard is not available")

const errorCopyFormat = "copy %d bytes to clipboard: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// WriteFunc writes text to a clipboard backend.
type WriteFunc func(text string) error

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	write       WriteFunc
	unsupported func() bool
}

// NewService constructs a Service backed by the system clipboard.
func NewService() *Service {
	return &Service{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// NewServiceWithWriter constructs a Service that sends text to write.
func NewServiceWithWriter(write WriteFunc) *Service {
	return &Service{write: write, unsupported: func() bool { return false }}
}

// Copy writes text to the clipboard.
func (service *Service) Copy(text string) error {
	if service.unsupported() {
		return ErrUnavailable
	}
	if writeError := service.write(text); writeError != nil {
		return fmt.Errorf(errorCopyFormat, len(text), writeError)
	}
	return nil
}

var _ Copier = (*Service)(nil)

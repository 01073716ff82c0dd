package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported reports a missing capability, such as a texture format
	// that cannot be used as a colour attachment.
	ErrUnsupported = errors.New("gpu: unsupported")
	// ErrNoAttachment is returned when a framebuffer is used with nothing attached.
	ErrNoAttachment = errors.New("gpu: framebuffer has no attachment")
	// ErrPixelCount is returned when a pixel buffer does not match the texture size.
	ErrPixelCount = errors.New("gpu: pixel buffer length mismatch")
	// ErrFeedbackLoop is returned when a draw would sample the texture it writes.
	ErrFeedbackLoop = errors.New("gpu: draw reads and writes the same texture")
	// ErrForeignResource is returned when a resource from another Context is passed in.
	ErrForeignResource = errors.New("gpu: resource belongs to a different context")
	// ErrDisposed is returned when a disposed resource is used.
	ErrDisposed = errors.New("gpu: resource disposed")
)

// CompileError carries the diagnostic produced while compiling a program.
type CompileError struct {
	Program string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gpu: compile %s: %v", e.Program, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// CheckPixels verifies rgba holds exactly one RGBA quad per texel of size.
func CheckPixels(rgba []byte, s Surface) error {
	sz := s.Size()
	if want := 4 * sz.X * sz.Y; len(rgba) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrPixelCount, len(rgba), want)
	}
	return nil
}

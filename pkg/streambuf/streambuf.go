package streambuf

import (
	"errors"
	"fmt"
	"io"
)

// Sentinel errors.
var (
	// ErrWriteOnly is returned by buffers that do not support reading.
	ErrWriteOnly = errors.New("streambuf: write only")

	// ErrNotSeekable is returned by buffers that have no position.
	ErrNotSeekable = errors.New("streambuf: not seekable")

	// ErrInvalidOrigin is returned for an Origin outside Start, Current
	// and End.
	ErrInvalidOrigin = errors.New("streambuf: invalid seek origin")

	// ErrInvalidChar is returned when a rune that is not a valid Unicode
	// code point is put to a buffer that encodes UTF-8.
	ErrInvalidChar = errors.New("streambuf: invalid character")

	// ErrNegativePosition is returned when a seek would move before the
	// start of the data.
	ErrNegativePosition = errors.New("streambuf: negative position")

	// ErrPositionRange is returned when a position does not fit in an int.
	ErrPositionRange = errors.New("streambuf: position out of range")
)

// Char is the character unit a StreamBuffer transfers. Byte buffers move
// single bytes; rune buffers move Unicode code points.
type Char interface {
	~byte | ~rune
}

// StreamBuffer is the capability a stream front-end calls against.
//
// Put writes one character and returns it on success. Get returns the next
// character, or io.EOF when no more data is available. Sync pushes anything
// held by the buffer to its destination. The seek methods move the buffer
// position and return the resulting absolute position; buffers without a
// position return -1 and ErrNotSeekable.
type StreamBuffer[C Char] interface {
	Put(c C) (C, error)
	Get() (C, error)
	Sync() error
	SeekRelative(offset int64, origin Origin) (int64, error)
	SeekAbsolute(pos int64) (int64, error)
}

// Origin selects the reference point of SeekRelative.
type Origin int

const (
	// Start seeks relative to the beginning of the data.
	Start Origin = iota
	// Current seeks relative to the current position.
	Current
	// End seeks relative to the end of the data.
	End
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case Start:
		return "start"
	case Current:
		return "current"
	case End:
		return "end"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// whence maps o to the io.Seeker constant.
func (o Origin) whence() (int, error) {
	switch o {
	case Start:
		return io.SeekStart, nil
	case Current:
		return io.SeekCurrent, nil
	case End:
		return io.SeekEnd, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidOrigin, o)
	}
}

// isWide reports whether C is a rune-sized character.
func isWide[C Char]() bool {
	var zero C
	return ^zero != C(0xff)
}

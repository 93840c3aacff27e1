package streambuf

import "io"

// Null is a StreamBuffer that accepts and drops every character and never
// produces any. The zero value is ready to use and all values behave the
// same, so a Null may be shared freely.
type Null[C Char] struct{}

var (
	_ StreamBuffer[byte] = Null[byte]{}
	_ StreamBuffer[rune] = Null[rune]{}
)

// Discard is a shared byte Null.
var Discard StreamBuffer[byte] = Null[byte]{}

// Put drops c and reports success.
func (Null[C]) Put(c C) (C, error) {
	return c, nil
}

// Get always returns io.EOF.
func (Null[C]) Get() (C, error) {
	return 0, io.EOF
}

// Sync has nothing to flush and always succeeds.
func (Null[C]) Sync() error {
	return nil
}

// SeekRelative is not supported and returns -1 with ErrNotSeekable.
func (Null[C]) SeekRelative(int64, Origin) (int64, error) {
	return -1, ErrNotSeekable
}

// SeekAbsolute is not supported and returns -1 with ErrNotSeekable.
func (Null[C]) SeekAbsolute(int64) (int64, error) {
	return -1, ErrNotSeekable
}

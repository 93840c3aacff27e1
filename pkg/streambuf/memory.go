package streambuf

import (
	"fmt"
	"io"
	"math"
	"sync"
)

// Memory is a seekable in-memory StreamBuffer that behaves like a file:
// one position is shared by reads and writes, Put overwrites at the
// position and grows the data at the end, and Get returns io.EOF once the
// position reaches the end.
//
// The zero value is an empty buffer ready to use. Memory is safe for
// concurrent use.
type Memory[C Char] struct {
	mu  sync.Mutex
	buf []C
	pos int
}

var (
	_ StreamBuffer[byte] = (*Memory[byte])(nil)
	_ StreamBuffer[rune] = (*Memory[rune])(nil)
)

// NewMemory returns a Memory holding a copy of initial, positioned at the
// start.
func NewMemory[C Char](initial []C) *Memory[C] {
	return &Memory[C]{buf: append([]C(nil), initial...)}
}

// Put stores c at the current position and advances it.
func (m *Memory[C]) Put(c C) (C, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos == math.MaxInt {
		return 0, fmt.Errorf("streambuf: put: %w", ErrPositionRange)
	}
	if gap := m.pos - len(m.buf); gap > 0 {
		m.buf = append(m.buf, make([]C, gap)...)
	}
	if m.pos == len(m.buf) {
		m.buf = append(m.buf, c)
	} else {
		m.buf[m.pos] = c
	}
	m.pos++
	return c, nil
}

// Get returns the character at the current position and advances it.
func (m *Memory[C]) Get() (C, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pos >= len(m.buf) {
		return 0, io.EOF
	}
	c := m.buf[m.pos]
	m.pos++
	return c, nil
}

// Sync is a no-op.
func (m *Memory[C]) Sync() error {
	return nil
}

// SeekRelative moves the position, counted in characters. Seeking past
// the end is allowed; a later Put fills the gap with zero characters.
func (m *Memory[C]) SeekRelative(offset int64, origin Origin) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var base int64
	switch origin {
	case Start:
	case Current:
		base = int64(m.pos)
	case End:
		base = int64(len(m.buf))
	default:
		_, err := origin.whence()
		return -1, err
	}
	if offset > 0 && base > math.MaxInt64-offset {
		return -1, ErrPositionRange
	}
	pos := base + offset
	if pos < 0 {
		return -1, ErrNegativePosition
	}
	if pos > math.MaxInt {
		return -1, ErrPositionRange
	}
	m.pos = int(pos)
	return pos, nil
}

// SeekAbsolute moves the position to pos.
func (m *Memory[C]) SeekAbsolute(pos int64) (int64, error) {
	return m.SeekRelative(pos, Start)
}

// Contents returns a copy of everything stored.
func (m *Memory[C]) Contents() []C {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]C(nil), m.buf...)
}

// String returns the stored characters as a string. Byte data is copied
// as is; runes are UTF-8 encoded.
func (m *Memory[C]) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !isWide[C]() {
		b := make([]byte, len(m.buf))
		for i, c := range m.buf {
			b[i] = byte(c)
		}
		return string(b)
	}
	r := make([]rune, len(m.buf))
	for i, c := range m.buf {
		r[i] = rune(c)
	}
	return string(r)
}

// Len returns the number of characters stored.
func (m *Memory[C]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buf)
}

// Reset discards all data and rewinds to the start.
func (m *Memory[C]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buf = m.buf[:0]
	m.pos = 0
}

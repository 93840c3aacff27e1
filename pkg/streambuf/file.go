package streambuf

import (
	"errors"
	"fmt"
	"io"
	"syscall"
	"unicode/utf8"
)

// Handle is an open file handle a File reads from and writes to.
// *os.File satisfies it.
//
// If the handle also has a Flush() error method (for example because it
// wraps a bufio.Writer) File.Sync flushes it, and if it has a Sync() error
// method File.Sync calls that as well.
type Handle interface {
	io.Reader
	io.Writer
	io.Seeker
}

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// File is a StreamBuffer over an already-open Handle.
//
// File does not own the handle: it never opens or closes it, and the handle
// must stay open for as long as the File is used. The handle's position is
// shared with anything else using it.
//
// Positions reported by the seek methods are byte offsets for every
// character width.
type File[C Char] struct {
	h    Handle
	wide bool

	// Bytes read past the end of the last rune, returned by the next Get.
	pend  [utf8.UTFMax]byte
	npend int
}

var (
	_ StreamBuffer[byte] = (*File[byte])(nil)
	_ StreamBuffer[rune] = (*File[rune])(nil)
)

// NewFile returns a File that reads and writes through h.
func NewFile[C Char](h Handle) *File[C] {
	return &File[C]{h: h, wide: isWide[C]()}
}

// Handle returns the wrapped handle.
func (f *File[C]) Handle() Handle {
	return f.h
}

// Put writes c to the handle. Runes are written UTF-8 encoded; a value
// that is not a valid Unicode code point is rejected with ErrInvalidChar.
func (f *File[C]) Put(c C) (C, error) {
	var buf [utf8.UTFMax]byte
	p := buf[:1]
	if f.wide {
		r := rune(c)
		if !utf8.ValidRune(r) {
			return 0, fmt.Errorf("streambuf: put: %w: %#x", ErrInvalidChar, int64(r))
		}
		p = utf8.AppendRune(buf[:0], r)
		f.realign()
	} else {
		buf[0] = byte(c)
	}
	n, err := f.h.Write(p)
	if err != nil {
		return 0, fmt.Errorf("streambuf: put: %w", err)
	}
	if n != len(p) {
		return 0, fmt.Errorf("streambuf: put: %w", io.ErrShortWrite)
	}
	return c, nil
}

// realign moves the handle back over bytes read ahead by Get, so a write
// lands right after the last rune returned. Handles that cannot seek keep
// the bytes for the next Get.
func (f *File[C]) realign() {
	if f.npend == 0 {
		return
	}
	if _, err := f.h.Seek(-int64(f.npend), io.SeekCurrent); err == nil {
		f.npend = 0
	}
}

// Get reads the next character from the handle.
//
// It returns io.EOF when the handle has no more data and a wrapped error
// for any other read failure. Runes are decoded like bufio.Reader.ReadRune:
// an invalid UTF-8 sequence yields utf8.RuneError with a nil error and
// consumes one byte. A rune cut short by the end of data is
// io.ErrUnexpectedEOF.
func (f *File[C]) Get() (C, error) {
	if !f.wide {
		var b [1]byte
		if err := f.readByte(b[:]); err != nil {
			return 0, err
		}
		return C(b[0]), nil
	}

	var buf [utf8.UTFMax]byte
	n := copy(buf[:], f.pend[:f.npend])
	f.npend = 0
	for n == 0 || !utf8.FullRune(buf[:n]) {
		err := f.readByte(buf[n : n+1])
		if err == io.EOF && n > 0 {
			return 0, io.ErrUnexpectedEOF
		}
		if err != nil {
			f.npend = copy(f.pend[:], buf[:n])
			return 0, err
		}
		n++
	}
	r, width := utf8.DecodeRune(buf[:n])
	f.npend = copy(f.pend[:], buf[width:n])
	return C(r), nil
}

// maxEmptyReads bounds how often a handle may return no data and no error
// before Get gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// readByte fills p, which has length 1.
func (f *File[C]) readByte(p []byte) error {
	for range maxEmptyReads {
		n, err := f.h.Read(p)
		if n == 1 {
			return nil
		}
		if err == io.EOF {
			return io.EOF
		}
		if err != nil {
			return fmt.Errorf("streambuf: get: %w", err)
		}
	}
	return fmt.Errorf("streambuf: get: %w", io.ErrNoProgress)
}

// Sync flushes the handle if it buffers writes and then syncs it to
// storage. A descriptor that does not support syncing, such as a pipe or a
// terminal, has nothing pending and reports success.
func (f *File[C]) Sync() error {
	if fl, ok := f.h.(flusher); ok {
		if err := fl.Flush(); err != nil {
			return fmt.Errorf("streambuf: sync: %w", err)
		}
	}
	if s, ok := f.h.(syncer); ok {
		if err := s.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
			return fmt.Errorf("streambuf: sync: %w", err)
		}
	}
	return nil
}

// SeekRelative moves the handle by offset from origin and returns the new
// absolute position. If the move fails it returns -1 and the error.
func (f *File[C]) SeekRelative(offset int64, origin Origin) (int64, error) {
	whence, err := origin.whence()
	if err != nil {
		return -1, err
	}
	if whence == io.SeekCurrent {
		offset -= int64(f.npend)
	}
	pos, err := f.h.Seek(offset, whence)
	if err != nil {
		return -1, fmt.Errorf("streambuf: seek: %w", err)
	}
	f.npend = 0
	return pos, nil
}

// SeekAbsolute moves the handle to pos.
func (f *File[C]) SeekAbsolute(pos int64) (int64, error) {
	return f.SeekRelative(pos, Start)
}

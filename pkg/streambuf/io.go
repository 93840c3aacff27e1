package streambuf

import "io"

// Writer exposes a byte StreamBuffer as an io.Writer.
type Writer struct {
	sb StreamBuffer[byte]
}

var (
	_ io.Writer       = (*Writer)(nil)
	_ io.ByteWriter   = (*Writer)(nil)
	_ io.StringWriter = (*Writer)(nil)
)

// NewWriter returns a Writer that puts through sb.
func NewWriter(sb StreamBuffer[byte]) *Writer {
	return &Writer{sb: sb}
}

// Write puts each byte of p in order and stops at the first failure,
// returning the number of bytes accepted before it.
func (w *Writer) Write(p []byte) (int, error) {
	for i, c := range p {
		if _, err := w.sb.Put(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteByte puts c.
func (w *Writer) WriteByte(c byte) error {
	_, err := w.sb.Put(c)
	return err
}

// WriteString puts each byte of s.
func (w *Writer) WriteString(s string) (int, error) {
	return PutString(w.sb, s)
}

// Flush syncs the underlying buffer.
func (w *Writer) Flush() error {
	return w.sb.Sync()
}

// Reader exposes a byte StreamBuffer as an io.Reader.
type Reader struct {
	sb StreamBuffer[byte]
}

var (
	_ io.Reader     = (*Reader)(nil)
	_ io.ByteReader = (*Reader)(nil)
)

// NewReader returns a Reader that gets from sb.
func NewReader(sb StreamBuffer[byte]) *Reader {
	return &Reader{sb: sb}
}

// Read gets bytes until p is full or the buffer stops producing. Bytes
// already read are returned with a nil error; the failure is reported by
// the next call.
func (r *Reader) Read(p []byte) (int, error) {
	for i := range p {
		c, err := r.sb.Get()
		if err != nil {
			if i > 0 {
				return i, nil
			}
			return 0, err
		}
		p[i] = c
	}
	return len(p), nil
}

// ReadByte gets one byte.
func (r *Reader) ReadByte() (byte, error) {
	return r.sb.Get()
}

// PutString puts s through sb one character at a time: bytes for a byte
// buffer, runes for a rune buffer. It returns the number of characters
// accepted before the first failure.
func PutString[C Char](sb StreamBuffer[C], s string) (int, error) {
	n := 0
	if !isWide[C]() {
		for i := 0; i < len(s); i++ {
			if _, err := sb.Put(C(s[i])); err != nil {
				return n, err
			}
			n++
		}
		return n, nil
	}
	for _, r := range s {
		if _, err := sb.Put(C(r)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

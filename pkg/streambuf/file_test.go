package streambuf

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "filebuf_test_")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFile_WriteRewindRead(t *testing.T) {
	f := tempFile(t)
	buf := NewFile[byte](f)

	for _, c := range []byte("abc") {
		got, err := buf.Put(c)
		if err != nil {
			t.Fatalf("Put(%q) error: %v", c, err)
		}
		if got != c {
			t.Fatalf("Put(%q) = %q", c, got)
		}
	}

	pos, err := buf.SeekAbsolute(0)
	if err != nil {
		t.Fatalf("SeekAbsolute error: %v", err)
	}
	if pos != 0 {
		t.Fatalf("SeekAbsolute = %d, want 0", pos)
	}

	var got []byte
	for range 3 {
		c, err := buf.Get()
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		got = append(got, c)
	}
	if string(got) != "abc" {
		t.Fatalf("read back %q, want %q", got, "abc")
	}

	if _, err := buf.Get(); err != io.EOF {
		t.Fatalf("Get at end: expected io.EOF, got %v", err)
	}
}

func TestFile_AllByteValues(t *testing.T) {
	f := tempFile(t)
	buf := NewFile[byte](f)

	for i := range 256 {
		c := byte(i)
		got, err := buf.Put(c)
		if err != nil || got != c {
			t.Fatalf("Put(%d) = %d, %v", c, got, err)
		}
	}
	if _, err := buf.SeekRelative(0, Start); err != nil {
		t.Fatal(err)
	}
	for i := range 256 {
		c, err := buf.Get()
		if err != nil {
			t.Fatalf("Get #%d error: %v", i, err)
		}
		if c != byte(i) {
			t.Fatalf("Get #%d = %d, want %d", i, c, i)
		}
	}
}

func TestFile_RoundTrip(t *testing.T) {
	seqs := []string{
		"",
		"x",
		"abcdefghijklmnopqrstuvwxyz0123456789",
		"line one\nline two\r\n\x00\xff",
	}
	for _, s := range seqs {
		f := tempFile(t)
		buf := NewFile[byte](f)
		if n, err := PutString[byte](buf, s); err != nil || n != len(s) {
			t.Fatalf("PutString(%q) = %d, %v", s, n, err)
		}
		if _, err := buf.SeekAbsolute(0); err != nil {
			t.Fatal(err)
		}
		got := make([]byte, 0, len(s))
		for range len(s) {
			c, err := buf.Get()
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			got = append(got, c)
		}
		if string(got) != s {
			t.Fatalf("round trip = %q, want %q", got, s)
		}
	}
}

func TestFile_Runes(t *testing.T) {
	f := tempFile(t)
	buf := NewFile[rune](f)

	const s = "héllo, 世界 🎉"
	if n, err := PutString[rune](buf, s); err != nil || n != len([]rune(s)) {
		t.Fatalf("PutString = %d, %v", n, err)
	}
	if _, err := buf.SeekAbsolute(0); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != s {
		t.Fatalf("file holds %q, want UTF-8 %q", data, s)
	}

	var got []rune
	for {
		r, err := buf.Get()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		got = append(got, r)
	}
	if string(got) != s {
		t.Fatalf("read back %q, want %q", string(got), s)
	}
}

func TestFile_RuneTruncated(t *testing.T) {
	f := tempFile(t)
	if _, err := f.Write([]byte("a\xe4\xb8")); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	buf := NewFile[rune](f)

	if r, err := buf.Get(); err != nil || r != 'a' {
		t.Fatalf("Get = %q, %v", r, err)
	}
	if _, err := buf.Get(); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestFile_RuneInvalid(t *testing.T) {
	f := tempFile(t)
	if _, err := f.Write([]byte{0x80, 'z'}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	buf := NewFile[rune](f)

	if r, err := buf.Get(); err != nil || r != '�' {
		t.Fatalf("Get = %q, %v, want RuneError", r, err)
	}
	if r, err := buf.Get(); err != nil || r != 'z' {
		t.Fatalf("Get = %q, %v, want 'z'", r, err)
	}
}

func runeFile(t *testing.T, data string) (*os.File, *File[rune]) {
	t.Helper()
	f := tempFile(t)
	if _, err := f.WriteString(data); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	return f, NewFile[rune](f)
}

func getAllRunes(t *testing.T, buf StreamBuffer[rune]) string {
	t.Helper()
	var got []rune
	for {
		r, err := buf.Get()
		if err == io.EOF {
			return string(got)
		}
		if err != nil {
			t.Fatalf("Get after %q: %v", string(got), err)
		}
		got = append(got, r)
	}
}

func TestFile_RuneInvalidKeepsFollowing(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"\xc0A\xe2BC", "\uFFFDA\uFFFDBC"},
		{"\xe2\x82Z", "\uFFFD\uFFFDZ"},
		{"\xf0\x9f\x8e!", "\uFFFD\uFFFD\uFFFD!"},
		{"\xed\xa0\x80x", "\uFFFD\uFFFD\uFFFDx"},
		{"ok\xffé", "ok\uFFFDé"},
	}
	for _, tt := range tests {
		_, buf := runeFile(t, tt.in)
		if got := getAllRunes(t, buf); got != tt.want {
			t.Errorf("decode %q = %q, want %q", tt.in, got, tt.want)
		}
		// Same result as bufio.Reader.ReadRune.
		br := bufio.NewReader(bytes.NewReader([]byte(tt.in)))
		var ref []rune
		for {
			r, _, err := br.ReadRune()
			if err != nil {
				break
			}
			ref = append(ref, r)
		}
		if string(ref) != tt.want {
			t.Errorf("bufio decodes %q as %q, table says %q", tt.in, string(ref), tt.want)
		}
	}
}

func TestFile_RuneReadAheadThenPut(t *testing.T) {
	_, buf := runeFile(t, "\xe2BC")

	if r, err := buf.Get(); err != nil || r != utf8.RuneError {
		t.Fatalf("Get = %q, %v", r, err)
	}
	if pos, err := buf.SeekRelative(0, Current); err != nil || pos != 1 {
		t.Fatalf("position after Get = %d, %v, want 1", pos, err)
	}
	if r, err := buf.Get(); err != nil || r != 'B' {
		t.Fatalf("Get = %q, %v, want 'B'", r, err)
	}

	// Put lands right after the last rune returned.
	f, buf := runeFile(t, "\xe2BC")
	if _, err := buf.Get(); err != nil {
		t.Fatal(err)
	}
	if _, err := buf.Put('x'); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\xe2xC" {
		t.Fatalf("file = %q, want %q", data, "\xe2xC")
	}
}

// pipeHandle reads from r and writes to w and cannot seek.
type pipeHandle struct {
	r io.Reader
	w bytes.Buffer
}

func (h *pipeHandle) Read(p []byte) (int, error)      { return h.r.Read(p) }
func (h *pipeHandle) Write(p []byte) (int, error)     { return h.w.Write(p) }
func (h *pipeHandle) Seek(int64, int) (int64, error)  { return 0, errors.ErrUnsupported }

func TestFile_RuneReadAheadUnseekable(t *testing.T) {
	h := &pipeHandle{r: bytes.NewReader([]byte("\xe2BC"))}
	buf := NewFile[rune](h)

	if r, err := buf.Get(); err != nil || r != utf8.RuneError {
		t.Fatalf("Get = %q, %v", r, err)
	}
	if _, err := buf.Put('x'); err != nil {
		t.Fatal(err)
	}
	if got := getAllRunes(t, buf); got != "BC" {
		t.Fatalf("rest = %q, want %q", got, "BC")
	}
	if h.w.String() != "x" {
		t.Fatalf("written %q", h.w.String())
	}
}

func TestFile_PutInvalidRune(t *testing.T) {
	f := tempFile(t)
	buf := NewFile[rune](f)
	for _, r := range []rune{0xd800, 0xdfff, 0x110000, -1} {
		if _, err := buf.Put(r); !errors.Is(err, ErrInvalidChar) {
			t.Fatalf("Put(%#x): expected ErrInvalidChar, got %v", r, err)
		}
	}
	if _, err := buf.Put(0x10ffff); err != nil {
		t.Fatalf("Put(U+10FFFF): %v", err)
	}
	st, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != 4 {
		t.Fatalf("file size = %d, want 4 (only the valid rune)", st.Size())
	}
}

func TestFile_PutNotWritable(t *testing.T) {
	name := filepath.Join(t.TempDir(), "readonly")
	if err := os.WriteFile(name, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf := NewFile[byte](f)
	if _, err := buf.Put('x'); err == nil {
		t.Fatal("expected Put on read-only handle to fail")
	}

	// Reading still works.
	if c, err := buf.Get(); err != nil || c != 'd' {
		t.Fatalf("Get = %q, %v", c, err)
	}
}

func TestFile_ClosedHandle(t *testing.T) {
	f := tempFile(t)
	f.Close()
	buf := NewFile[byte](f)

	if _, err := buf.Put('x'); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("Put: expected os.ErrClosed, got %v", err)
	}
	_, err := buf.Get()
	if err == nil || err == io.EOF {
		t.Fatalf("Get: expected a read error distinct from EOF, got %v", err)
	}
	if !errors.Is(err, os.ErrClosed) {
		t.Fatalf("Get: expected os.ErrClosed, got %v", err)
	}
	if err := buf.Sync(); err == nil {
		t.Fatal("Sync: expected error on closed handle")
	}
	pos, err := buf.SeekAbsolute(0)
	if err == nil {
		t.Fatal("SeekAbsolute: expected error on closed handle")
	}
	if pos != -1 {
		t.Fatalf("SeekAbsolute = %d, want -1", pos)
	}
}

func TestFile_Seek(t *testing.T) {
	f := tempFile(t)
	buf := NewFile[byte](f)
	if _, err := PutString[byte](buf, "0123456789"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		offset int64
		origin Origin
		want   int64
		next   byte
	}{
		{2, Start, 2, '2'},
		{3, Current, 6, '6'},
		{-1, End, 9, '9'},
		{-4, Current, 6, '6'},
	}
	for _, tt := range tests {
		pos, err := buf.SeekRelative(tt.offset, tt.origin)
		if err != nil {
			t.Fatalf("SeekRelative(%d, %v) error: %v", tt.offset, tt.origin, err)
		}
		if pos != tt.want {
			t.Fatalf("SeekRelative(%d, %v) = %d, want %d", tt.offset, tt.origin, pos, tt.want)
		}
		c, err := buf.Get()
		if err != nil {
			t.Fatal(err)
		}
		if c != tt.next {
			t.Fatalf("after seek to %d got %q, want %q", pos, c, tt.next)
		}
	}

	if pos, err := buf.SeekRelative(-100, Start); err == nil || pos != -1 {
		t.Fatalf("negative seek = %d, %v; want -1 and error", pos, err)
	}
	if _, err := buf.SeekRelative(0, Origin(7)); !errors.Is(err, ErrInvalidOrigin) {
		t.Fatalf("expected ErrInvalidOrigin, got %v", err)
	}
}

func TestFile_Sync(t *testing.T) {
	f := tempFile(t)
	buf := NewFile[byte](f)
	if _, err := buf.Put('s'); err != nil {
		t.Fatal(err)
	}
	if err := buf.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
}

// bufferedHandle buffers writes in a bufio.Writer until Flush.
type bufferedHandle struct {
	*bytes.Reader
	w *bufio.Writer
}

func (h *bufferedHandle) Write(p []byte) (int, error) { return h.w.Write(p) }
func (h *bufferedHandle) Flush() error                { return h.w.Flush() }

func TestFile_SyncFlushes(t *testing.T) {
	var out bytes.Buffer
	h := &bufferedHandle{Reader: bytes.NewReader(nil), w: bufio.NewWriter(&out)}
	buf := NewFile[byte](h)

	if _, err := PutString[byte](buf, "pending"); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("data reached sink before Sync: %q", out.String())
	}
	if err := buf.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if out.String() != "pending" {
		t.Fatalf("after Sync sink holds %q", out.String())
	}
}

// stallHandle never produces data nor an error.
type stallHandle struct {
	bytes.Buffer
}

func (*stallHandle) Read([]byte) (int, error)       { return 0, nil }
func (*stallHandle) Seek(int64, int) (int64, error) { return 0, nil }

func TestFile_GetNoProgress(t *testing.T) {
	buf := NewFile[byte](&stallHandle{})
	if _, err := buf.Get(); !errors.Is(err, io.ErrNoProgress) {
		t.Fatalf("expected io.ErrNoProgress, got %v", err)
	}
}

func TestFile_DoesNotCloseHandle(t *testing.T) {
	f := tempFile(t)
	buf := NewFile[byte](f)
	if _, err := buf.Put('a'); err != nil {
		t.Fatal(err)
	}
	if buf.Handle() != f {
		t.Fatal("Handle() returned a different handle")
	}
	if _, err := f.Write([]byte("b")); err != nil {
		t.Fatalf("handle unusable after buffer use: %v", err)
	}
}

package streambuf

import "fmt"

// Tee is a write-only StreamBuffer that repeats every Put and Sync on two
// other buffers, primary first.
//
// The secondary buffer is always called, even when the primary has already
// failed, so neither side falls behind the other. There is no rollback: if
// one side fails, the other still holds the character.
//
// Tee does not own its buffers. Both must stay usable for as long as the Tee
// is, and the caller closes whatever they wrap.
type Tee[C Char] struct {
	primary   StreamBuffer[C]
	secondary StreamBuffer[C]
}

var _ StreamBuffer[byte] = (*Tee[byte])(nil)

// NewTee returns a Tee over primary and secondary. It panics if either is
// nil.
func NewTee[C Char](primary, secondary StreamBuffer[C]) *Tee[C] {
	if primary == nil || secondary == nil {
		panic("streambuf: NewTee with nil buffer")
	}
	return &Tee[C]{primary: primary, secondary: secondary}
}

// Fanout returns a buffer that writes to every one of bufs. A single buffer
// is returned as is; more are chained as Tee(bufs[0], Tee(bufs[1], ...)).
// It panics if bufs is empty.
func Fanout[C Char](bufs ...StreamBuffer[C]) StreamBuffer[C] {
	switch len(bufs) {
	case 0:
		panic("streambuf: Fanout with no buffers")
	case 1:
		return bufs[0]
	}
	return NewTee(bufs[0], Fanout(bufs[1:]...))
}

// Primary returns the buffer written first.
func (t *Tee[C]) Primary() StreamBuffer[C] {
	return t.primary
}

// Secondary returns the buffer written second.
func (t *Tee[C]) Secondary() StreamBuffer[C] {
	return t.secondary
}

// Put writes c to both buffers. It returns c only if both accepted it;
// otherwise the error is a *TeeError naming the side that failed.
func (t *Tee[C]) Put(c C) (C, error) {
	_, perr := t.primary.Put(c)
	_, serr := t.secondary.Put(c)
	if perr != nil || serr != nil {
		return 0, &TeeError{Op: "put", Primary: perr, Secondary: serr}
	}
	return c, nil
}

// Get is not supported; a Tee has no single source to read from.
func (t *Tee[C]) Get() (C, error) {
	return 0, ErrWriteOnly
}

// Sync syncs both buffers and succeeds only if both did.
func (t *Tee[C]) Sync() error {
	perr := t.primary.Sync()
	serr := t.secondary.Sync()
	if perr != nil || serr != nil {
		return &TeeError{Op: "sync", Primary: perr, Secondary: serr}
	}
	return nil
}

// SeekRelative is not supported; the two sides have independent positions.
func (t *Tee[C]) SeekRelative(int64, Origin) (int64, error) {
	return -1, ErrNotSeekable
}

// SeekAbsolute is not supported and returns -1 with ErrNotSeekable.
func (t *Tee[C]) SeekAbsolute(int64) (int64, error) {
	return -1, ErrNotSeekable
}

// TeeError reports an operation that failed on at least one side of a Tee.
// A nil field means that side succeeded.
type TeeError struct {
	Op        string
	Primary   error
	Secondary error
}

// Error names the operation and every side that failed.
func (e *TeeError) Error() string {
	switch {
	case e.Primary != nil && e.Secondary != nil:
		return fmt.Sprintf("streambuf: tee %s: primary: %v; secondary: %v", e.Op, e.Primary, e.Secondary)
	case e.Primary != nil:
		return fmt.Sprintf("streambuf: tee %s: primary: %v", e.Op, e.Primary)
	default:
		return fmt.Sprintf("streambuf: tee %s: secondary: %v", e.Op, e.Secondary)
	}
}

// Unwrap returns the non-nil side errors for errors.Is and errors.As.
func (e *TeeError) Unwrap() []error {
	var errs []error
	for _, err := range []error{e.Primary, e.Secondary} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

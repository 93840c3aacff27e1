// Package streambuf provides low-level stream buffers that adapt byte sinks
// and sources to a single character-at-a-time capability, StreamBuffer.
//
// A formatted-stream front-end (anything that turns numbers or text into a
// sequence of puts, or needs more input characters) talks to a StreamBuffer
// and never to the sink itself. The package offers three adapters:
//
//   - File: wraps an already-open handle such as an *os.File.
//   - Null: discards every write and never yields data.
//   - Tee: repeats every write and sync on two other buffers.
//
// Memory is an in-memory, seekable buffer mainly used to observe what the
// adapters produce. Writer and Reader expose a byte StreamBuffer through the
// io interfaces.
//
// None of the adapters own what they wrap. A File never closes its handle
// and a Tee never releases its buffers; the caller keeps them alive for as
// long as the adapter is in use and cleans them up afterwards.
//
// Every operation reports its outcome as an explicit (value, error) pair.
// End of data is io.EOF. The adapters do no locking; concurrent use of one
// adapter must be serialized by the caller.
//
// Example usage:
//
//	f, _ := os.CreateTemp("", "out")
//	defer f.Close()
//
//	var mem streambuf.Memory[byte]
//	tee := streambuf.NewTee[byte](streambuf.NewFile[byte](f), &mem)
//	streambuf.PutString[byte](tee, "hello")
//	if err := tee.Sync(); err != nil {
//	    // at least one side failed to sync; both were attempted
//	}
package streambuf

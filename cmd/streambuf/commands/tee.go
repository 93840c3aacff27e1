package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Deadbeetle/helper-streambufs/pkg/storage"
	"github.com/Deadbeetle/helper-streambufs/pkg/storebuf"
	"github.com/Deadbeetle/helper-streambufs/pkg/streambuf"
	"github.com/Deadbeetle/helper-streambufs/pkg/streambuf/metered"
)

const storePrefix = "store:"

var (
	teeQuiet bool
	teeStats bool
)

var teeCmd = &cobra.Command{
	Use:   "tee [target...]",
	Short: "Copy standard input to standard output and every target",
	Long: `Copy standard input to standard output and every target.

Each byte is put to every target in order. A failing target does not stop
delivery to the others; the command exits non-zero once input is exhausted
if any put or sync failed.

Examples:
  streambuf tee out.log
  streambuf tee --quiet a.log store:runs/a.log
  streambuf tee --stats --format json null`,
	RunE: runTee,
}

func init() {
	teeCmd.Flags().BoolVarP(&teeQuiet, "quiet", "q", false, "do not copy to standard output")
	teeCmd.Flags().BoolVar(&teeStats, "stats", false, "print per-target operation counts to stderr when done")
	rootCmd.AddCommand(teeCmd)
}

// target is one opened tee destination.
type target struct {
	name  string
	buf   streambuf.StreamBuffer[byte]
	close func() error
}

func runTee(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	targetArgs := args
	if !teeQuiet {
		targetArgs = append([]string{"-"}, args...)
	}
	if len(targetArgs) == 0 {
		return errors.New("no targets: give a target or drop --quiet")
	}

	reg := prometheus.NewRegistry()
	m, err := metered.NewMetrics(reg)
	if err != nil {
		return err
	}

	var (
		store   storage.FileStore
		targets []target
	)
	defer func() {
		for i := len(targets) - 1; i >= 0; i-- {
			t := targets[i]
			if t.close == nil {
				continue
			}
			if err := t.close(); err != nil {
				slog.Warn("close target", "target", t.name, "error", err)
			}
		}
	}()

	for _, arg := range targetArgs {
		if strings.HasPrefix(arg, storePrefix) && store == nil {
			s, closer, err := storeFromConfig()
			if err != nil {
				return err
			}
			store = s
			targets = append(targets, target{name: "store", close: closer.Close})
		}
		t, err := openTarget(ctx, cmd, store, arg)
		if err != nil {
			return err
		}
		t.buf = metered.New(t.buf, t.name, m)
		targets = append(targets, t)
	}

	var bufs []streambuf.StreamBuffer[byte]
	for _, t := range targets {
		if t.buf != nil {
			bufs = append(bufs, t.buf)
		}
	}
	fan := streambuf.Fanout(bufs...)

	n, putErrs, err := feed(cmd.InOrStdin(), fan)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	syncErr := fan.Sync()
	if syncErr != nil {
		slog.Warn("sync failed", "error", syncErr)
	}
	slog.Debug("tee done", "bytes", n, "put_errors", putErrs)

	if teeStats {
		samples, err := metered.Snapshot(reg)
		if err != nil {
			return err
		}
		if err := outputStats(cmd.ErrOrStderr(), samples); err != nil {
			return err
		}
	}

	switch {
	case putErrs > 0 && syncErr != nil:
		return fmt.Errorf("%d of %d puts failed; %w", putErrs, n, syncErr)
	case putErrs > 0:
		return fmt.Errorf("%d of %d puts failed", putErrs, n)
	case syncErr != nil:
		return syncErr
	}
	return nil
}

// feed puts every byte of in to sb and counts failed puts. Only a read
// error from in stops it early.
func feed(in io.Reader, sb streambuf.StreamBuffer[byte]) (n, failed int, err error) {
	br := bufio.NewReader(in)
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return n, failed, nil
		}
		if err != nil {
			return n, failed, err
		}
		n++
		if _, perr := sb.Put(c); perr != nil {
			if failed == 0 {
				slog.Warn("put failed", "offset", n-1, "error", perr)
			}
			failed++
		}
	}
}

func openTarget(ctx context.Context, cmd *cobra.Command, store storage.FileStore, arg string) (target, error) {
	switch {
	case arg == "-":
		h := newBuffered(outputHandle(cmd.OutOrStdout()))
		return target{name: "stdout", buf: streambuf.NewFile[byte](h), close: h.Flush}, nil
	case arg == "null":
		return target{name: "null", buf: streambuf.Null[byte]{}}, nil
	case strings.HasPrefix(arg, storePrefix):
		path := strings.TrimPrefix(arg, storePrefix)
		if path == "" {
			path = uuid.NewString() + ".log"
			slog.Info("writing to generated object", "path", path)
		}
		b := storebuf.New(ctx, store, path)
		return target{name: arg, buf: b, close: b.Close}, nil
	default:
		path := strings.TrimPrefix(arg, "file:")
		f, err := os.Create(path)
		if err != nil {
			return target{}, fmt.Errorf("open target: %w", err)
		}
		h := newBuffered(f)
		return target{name: path, buf: streambuf.NewFile[byte](h), close: func() error {
			return errors.Join(h.Flush(), f.Close())
		}}, nil
	}
}

func storeFromConfig() (storage.FileStore, io.Closer, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, nil, err
	}
	return openStore(cfg)
}

type statsOutput struct {
	Targets []metered.Sample `json:"targets" yaml:"targets"`
}

func outputStats(w io.Writer, samples []metered.Sample) error {
	return outputTo(w, statsOutput{Targets: samples})
}

// outputHandle turns w into a write-only Handle. Files are used as-is.
func outputHandle(w io.Writer) streambuf.Handle {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return writeOnly{w}
}

type writeOnly struct{ io.Writer }

func (writeOnly) Read([]byte) (int, error) { return 0, errors.ErrUnsupported }

func (writeOnly) Seek(int64, int) (int64, error) { return 0, errors.ErrUnsupported }

// buffered batches writes to an underlying Handle. Read and Seek flush
// pending writes first so the handle position stays consistent.
type buffered struct {
	h streambuf.Handle
	w *bufio.Writer
}

func newBuffered(h streambuf.Handle) *buffered {
	return &buffered{h: h, w: bufio.NewWriter(h)}
}

func (b *buffered) Write(p []byte) (int, error) { return b.w.Write(p) }

func (b *buffered) Read(p []byte) (int, error) {
	if err := b.w.Flush(); err != nil {
		return 0, err
	}
	return b.h.Read(p)
}

func (b *buffered) Seek(offset int64, whence int) (int64, error) {
	if err := b.w.Flush(); err != nil {
		return 0, err
	}
	return b.h.Seek(offset, whence)
}

// Flush writes any buffered bytes to the underlying handle.
func (b *buffered) Flush() error { return b.w.Flush() }

// Sync syncs the underlying handle if it supports it. File.Sync calls Flush
// before Sync.
func (b *buffered) Sync() error {
	if s, ok := b.h.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Deadbeetle/helper-streambufs/pkg/storebuf"
	"github.com/Deadbeetle/helper-streambufs/pkg/streambuf"
)

var catCmd = &cobra.Command{
	Use:   "cat <source>",
	Short: "Write a file or stored object to standard output",
	Long: `Write a file or stored object to standard output.

A missing object reads as empty.

Examples:
  streambuf cat build.log
  streambuf cat store:builds/latest.log`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	src := args[0]

	var sb streambuf.StreamBuffer[byte]
	if path, ok := strings.CutPrefix(src, storePrefix); ok {
		store, closer, err := storeFromConfig()
		if err != nil {
			return err
		}
		defer closer.Close()
		b := storebuf.New(cmd.Context(), store, path)
		defer b.Close()
		sb = b
	} else {
		f, err := os.Open(strings.TrimPrefix(src, "file:"))
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer f.Close()
		sb = streambuf.NewFile[byte](f)
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	if _, err := io.Copy(w, streambuf.NewReader(sb)); err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	return w.Flush()
}

package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Deadbeetle/helper-streambufs/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	formatOutput string
	configPath   string
)

var rootCmd = &cobra.Command{
	Use:   "streambuf",
	Short: "Copy streams through file, null and tee stream buffers",
	Long: `streambuf - copy byte streams through stream buffer adapters.

Every target receives every byte, even when another target fails; the
command reports failures only after the whole input has been delivered.

Targets:
  -              standard output
  null           discard everything
  store:<path>   object in the configured store (local, s3, badger)
  <path>         local file (use file:<path> for names like "null")

Configuration is read from $STREAMBUF_CONFIG or the OS config directory:
  Linux:   ~/.config/streambuf/config.yaml
  macOS:   ~/Library/Application Support/streambuf/config.yaml

Examples:
  # Log a build to a file and S3 while watching it
  make 2>&1 | streambuf tee build.log store:builds/latest.log

  # Read a stored object back
  streambuf cat store:builds/latest.log`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "", "structured output format (yaml, json)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $STREAMBUF_CONFIG or the OS config dir)")
}

func setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// GetConfig loads the configuration named by --config or the default path.
func GetConfig() (*cli.Config, error) {
	if configPath != "" {
		return cli.LoadConfigFrom(configPath)
	}
	return cli.LoadConfig()
}

// outputFormat returns the --format value, defaulting to YAML.
func outputFormat() cli.OutputFormat {
	if formatOutput == "" {
		return cli.FormatYAML
	}
	return cli.OutputFormat(formatOutput)
}

func outputTo(w io.Writer, v any) error {
	return cli.Output(w, v, outputFormat())
}

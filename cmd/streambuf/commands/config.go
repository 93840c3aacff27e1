package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deadbeetle/helper-streambufs/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the streambuf configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with S3 keys masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		shown := *cfg
		shown.Store = cfg.Store.Masked()
		return outputTo(cmd.OutOrStdout(), &shown)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
		return nil
	},
}

var setStore cli.StoreConfig

var configSetStoreCmd = &cobra.Command{
	Use:   "set-store <kind>",
	Short: "Select and configure the object store",
	Long: `Select and configure the object store used by store: targets.

Kinds: local, s3, badger, memory.

Examples:
  streambuf config set-store local --dir ~/streams
  streambuf config set-store s3 --bucket logs --prefix runs --region us-east-1
  streambuf config set-store badger --dir /var/lib/streambuf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		sc := setStore
		sc.Kind = args[0]
		cfg.Store = sc
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Store set to %s in %s\n", sc.Kind, cfg.Path())
		return nil
	},
}

func init() {
	f := configSetStoreCmd.Flags()
	f.StringVar(&setStore.Dir, "dir", "", "root directory (local) or data directory (badger)")
	f.StringVar(&setStore.Bucket, "bucket", "", "S3 bucket")
	f.StringVar(&setStore.Prefix, "prefix", "", "S3 key prefix")
	f.StringVar(&setStore.Region, "region", "", "S3 region")
	f.StringVar(&setStore.Endpoint, "endpoint", "", "S3-compatible endpoint URL")
	f.StringVar(&setStore.AccessKey, "access-key", "", "S3 access key")
	f.StringVar(&setStore.SecretKey, "secret-key", "", "S3 secret key")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetStoreCmd)
	rootCmd.AddCommand(configCmd)
}

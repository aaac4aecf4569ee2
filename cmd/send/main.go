package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailrelay/mailrelay/internal/app"
	"github.com/mailrelay/mailrelay/internal/config"
	"github.com/mailrelay/mailrelay/internal/logger"
	"github.com/mailrelay/mailrelay/internal/source"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "send",
	Short:        "Send an email whose body comes from a message source",
	SilenceUsage: true,
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Store a message body for the stored and redis sources",
}

var storeDBCmd = &cobra.Command{
	Use:   "stored [name] [body]",
	Short: "Store a named body in PostgreSQL",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreDB,
}

var storeRedisCmd = &cobra.Command{
	Use:   "redis [key] [body]",
	Short: "Store a body under a Redis key",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreRedis,
}

// sourceCommands describes one send subcommand per source kind.
var sourceCommands = []struct {
	kind  string
	use   string
	short string
	args  cobra.PositionalArgs
}{
	{source.KindFile, "file [path]", "Send the contents of a text file", cobra.ExactArgs(1)},
	{source.KindXML, "xml [path]", "Send the contents of an XML file verbatim", cobra.ExactArgs(1)},
	{source.KindAuto, "auto [path]", "Send <email><body> of an XML file, or the whole file otherwise", cobra.ExactArgs(1)},
	{source.KindDatabase, "database [connection-string]", "Send the placeholder database body", cobra.MaximumNArgs(1)},
	{source.KindStored, "stored [name]", "Send a named body stored in PostgreSQL", cobra.ExactArgs(1)},
	{source.KindRedis, "redis [key]", "Send a body stored under a Redis key", cobra.ExactArgs(1)},
	{source.KindStatic, "static [body]", "Send the given body", cobra.ExactArgs(1)},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default searches ./config.yaml)")

	for _, sc := range sourceCommands {
		kind := sc.kind
		rootCmd.AddCommand(&cobra.Command{
			Use:   sc.use,
			Short: sc.short,
			Args:  sc.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				ref := ""
				if len(args) > 0 {
					ref = args[0]
				}
				return runSend(cmd, kind, ref)
			},
		})
	}

	storeCmd.AddCommand(storeDBCmd)
	storeCmd.AddCommand(storeRedisCmd)
	rootCmd.AddCommand(storeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	return app.New(ctx, cfg, log)
}

func runSend(cmd *cobra.Command, kind, ref string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	status, err := a.Send(ctx, kind, ref)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), status)
	return nil
}

func runStoreDB(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Messages == nil {
		return fmt.Errorf("%w: database is not enabled", source.ErrConnectionFailure)
	}

	msg, err := a.Messages.Upsert(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored message %q (%s)\n", msg.Name, msg.ID)
	return nil
}

func runStoreRedis(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Redis == nil {
		return fmt.Errorf("%w: redis is not enabled", source.ErrConnectionFailure)
	}

	key := a.Config.Source.RedisPrefix + args[0]
	if err := a.Redis.SetWithTTL(ctx, key, args[1], 0); err != nil {
		return fmt.Errorf("failed to store body: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored body under %q\n", key)
	return nil
}

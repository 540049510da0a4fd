package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/apm"
	"github.com/Mohsinsiddi/cdico/internal/config"
	"github.com/Mohsinsiddi/cdico/internal/logging"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/cdico/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir      string
	cfg         *config.Config
	logger      *log.Logger
	verbose     bool
	networkFlag string
	walletFlag  string

	stopTracing apm.ShutdownFunc
)

// rootCmd is the top-level command. Without a sub-command it opens the page.
var rootCmd = &cobra.Command{
	Use:   "cdico",
	Short: "Crypto Dev Token ICO in your terminal",
	Long: `cdico: mint and claim Crypto Dev Tokens from the terminal.

  Connect a wallet, see how many tokens you and everyone else have minted,
  mint more by paying ether, or claim free tokens for your Crypto Dev NFTs.

Run without arguments for the interactive page, or use the one-shot verbs
(connect, status, mint, claim) in scripts.`,
	Version:       Version,
	SilenceUsage:  true,
	RunE:          runApp,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if networkFlag != "" {
			cfg.Network = networkFlag
		}
		logger = logging.New(os.Stderr, logLevel())

		stopTracing, err = apm.Setup(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("starting tracing: %w", err)
		}
		return nil
	},
}

func logLevel() string {
	if verbose {
		return "debug"
	}
	return cfg.LogLevel
}

// Execute runs the root command. Ctrl+C cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and flushes tracing on success and failure
// alike; cobra skips post-run hooks when a command fails.
func execute(ctx context.Context) error {
	stopTracing = nil
	err := rootCmd.ExecuteContext(ctx)
	if stopTracing != nil {
		if serr := stopTracing(context.Background()); serr != nil && err == nil {
			err = fmt.Errorf("flushing traces: %w", serr)
		}
	}
	return err
}

func init() {
	// CDICO_CONFIG_DIR env var is the default for --config.
	cfgDir = os.Getenv(config.EnvConfigDir)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.cdico)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network for this invocation (default: configured network)")
	rootCmd.PersistentFlags().StringVarP(&walletFlag, "wallet", "w", "", "wallet to connect (default: last connected or default wallet)")

	// Register all sub-commands.
	rootCmd.AddCommand(
		appCmd,
		connectCmd,
		statusCmd,
		mintCmd,
		claimCmd,
		walletCmd,
		contractsCmd,
		networkCmd,
		configCmd,
		rpcCmd,
	)
}

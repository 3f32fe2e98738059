package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// SkipSetup is the command annotation that keeps the root from building the
// App before the command runs.
const SkipSetup = "lifecycles/skip-setup"

// Options are the global flags.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// SetupFunc builds the App for a command run. The returned func releases
// whatever the App holds and may be nil.
type SetupFunc func(ctx context.Context, opts Options) (*App, func(), error)

var (
	opts      Options
	setup     SetupFunc
	release   func()
	startedAt time.Time
	logger    = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "lifecycles",
	Short: "Ticket lifecycle registry",
	Long: `lifecycles manages the named status workflows tickets move through:
their statuses, allowed transitions, rights, actions and the maps
that translate statuses between lifecycles.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := observability.WithCorrelationID(cmd.Context(), "")
		cmd.SetContext(ctx)
		startedAt = time.Now()

		if app == nil && setup != nil && cmd.Annotations[SkipSetup] == "" {
			a, closeFn, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			app, release = a, closeFn
		}
		logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.DebugContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(startedAt).Milliseconds(),
		)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "lifecycle configuration file (overrides LIFECYCLES_CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
}

// Execute runs the command line with s building the App on demand and
// returns the process exit code.
func Execute(ctx context.Context, s SetupFunc) int {
	setup = s
	defer func() {
		if release != nil {
			release()
			release = nil
		}
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gravitrone/libris/internal/config"
	"github.com/gravitrone/libris/internal/devserver"
	"github.com/gravitrone/libris/internal/observe"
)

const defaultDevAddr = "localhost:8080"

// DevserverCmd returns the `libris devserver` command, an in-memory backend
// for local runs. It stops on interrupt.
func DevserverCmd() *cobra.Command {
	var (
		addr     string
		seed     bool
		wrapList bool
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory library backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			lib := devserver.NewLibrary()
			if seed {
				if err := devserver.Seed(lib); err != nil {
					return fmt.Errorf("seed library: %w", err)
				}
			}
			opts := []devserver.Option{
				devserver.WithLogger(observe.NewLogger(cmd.ErrOrStderr(), cfg.Level(), cfg.Telemetry)),
			}
			if wrapList {
				opts = append(opts, devserver.WithWrappedBookList())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "serving http://%s/api/v1 (ctrl+c to stop)\n", addr)
			if err := devserver.ListenAndServe(ctx, addr, devserver.New(lib, opts...)); err != nil {
				return fmt.Errorf("devserver: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultDevAddr, "listen address")
	cmd.Flags().BoolVar(&seed, "seed", true, "start with a sample catalogue")
	cmd.Flags().BoolVar(&wrapList, "wrap-book-list", false, `answer GET /books with {"bookList": [...]}`)
	return cmd
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mfaller/shadetemp/internal/store"
	"github.com/mfaller/shadetemp/internal/uiapi"
)

func main() {
	var port int
	var dbPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "shadetempd",
		Short: "Shadetemp HTTP server exposing run history and previews as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var logger *zap.Logger
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			log := logger.Sugar()
			defer log.Sync()

			if dbPath == "" {
				home, _ := os.UserHomeDir()
				dbPath = filepath.Join(home, ".shadetemp", "shadetemp.db")
			}

			st, err := store.NewStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			srv := uiapi.NewServer(st, log)

			addr := fmt.Sprintf(":%d", port)
			log.Infow("shadetemp API server starting", "addr", addr, "db", dbPath)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	rootCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "history database path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

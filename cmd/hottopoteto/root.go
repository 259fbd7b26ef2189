package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/muunkky/hottopoteto"
	"github.com/muunkky/hottopoteto/internal/logging"
	"github.com/muunkky/hottopoteto/pkg/adapters/file"
	"github.com/muunkky/hottopoteto/pkg/adapters/postgres"
	"github.com/muunkky/hottopoteto/pkg/adapters/redis"
	"github.com/muunkky/hottopoteto/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "hottopoteto",
	Short: "Hottopoteto is a declarative recipe execution engine",
	Long:  `Hottopoteto runs declarative workflows ("recipes") written in YAML: ordered typed steps wired together with template expressions and validated by schemas.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("recipes", "./recipes", "Directory containing recipe files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("store", "memory", "Entry store backend: memory, file, redis or postgres")
	rootCmd.PersistentFlags().String("store-path", "", "Base directory for the file store")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address for the redis store")
	rootCmd.PersistentFlags().String("db-url", "", "Postgres DSN for the postgres store")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

// newEngine builds an Engine from the persistent flags.
func newEngine(cmd *cobra.Command, extra ...hottopoteto.Option) (*hottopoteto.Engine, error) {
	recipes, _ := cmd.Flags().GetString("recipes")

	store, err := newStore(cmd)
	if err != nil {
		return nil, err
	}

	opts := []hottopoteto.Option{
		hottopoteto.WithLogger(newLogger(cmd)),
	}
	if store != nil {
		opts = append(opts, hottopoteto.WithEntryStore(store))
	}
	opts = append(opts, extra...)
	return hottopoteto.New(recipes, opts...)
}

func newStore(cmd *cobra.Command) (ports.EntryStore, error) {
	backend, _ := cmd.Flags().GetString("store")
	switch backend {
	case "", "memory":
		return nil, nil // engine default
	case "file":
		path, _ := cmd.Flags().GetString("store-path")
		if path == "" {
			path = "./data"
		}
		return file.NewStore(path), nil
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		return redis.New(addr, "", 0), nil
	case "postgres":
		dsn, _ := cmd.Flags().GetString("db-url")
		if dsn == "" {
			return nil, fmt.Errorf("--db-url is required for the postgres store")
		}
		return postgres.New(context.Background(), dsn)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

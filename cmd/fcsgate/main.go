// Package main provides the fcsgate CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/zxpress/fcsgate/internal/config"
	dbRedis "github.com/zxpress/fcsgate/internal/db/redis"
	"github.com/zxpress/fcsgate/internal/domain/search/request"
	"github.com/zxpress/fcsgate/internal/domain/sru"
	logpkg "github.com/zxpress/fcsgate/internal/logger"
	"github.com/zxpress/fcsgate/internal/query"
	"github.com/zxpress/fcsgate/internal/repository/corpus"
	"github.com/zxpress/fcsgate/internal/version"
)

// Global flags
var configPath string

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "fcsgate",
		Short: "SRU/FCS search endpoint over the ZX Press magazine corpus",
		Long: `fcsgate answers CLARIN FCS federated-search requests (SRU explain and
searchRetrieve) from a Redis full-text index of magazine articles.

Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: config/<FCSGATE_ENV>.yaml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ensureIndexCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the SRU/FCS HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func ensureIndexCmd() *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:   "ensure-index",
		Short: "Create the corpus full-text index if it does not exist",
		Long: `Ensure-index creates the FT index over the article hashes from the built-in
schema. With --recreate an existing index is dropped first; the hashes stay
and are re-indexed in the background by the engine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if def, err := corpus.Schema(cfg.Index.Name, cfg.Index.KeyPrefix); err == nil {
				logger.Debug("Corpus schema", zap.Stringer("ft_create", def))
			}

			repo := corpus.New(store, cfg.Index.Name, cfg.Index.KeyPrefix)
			if recreate {
				if err := repo.RecreateIndex(cmd.Context()); err != nil {
					return fmt.Errorf("recreate index: %w", err)
				}
				logger.Info("Corpus index recreated", zap.String("index", repo.IndexName()))
				return nil
			}

			created, err := repo.EnsureIndex(cmd.Context())
			if err != nil {
				return fmt.Errorf("ensure index: %w", err)
			}
			logger.Info("Corpus index ready",
				zap.String("index", repo.IndexName()),
				zap.Bool("created", created),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false, "Drop and recreate the index")

	return cmd
}

func recordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <article-id>",
		Short: "Print the stored fields of one indexed article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := corpus.New(store, cfg.Index.Name, cfg.Index.KeyPrefix)
			a, err := repo.Article(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer func() { _ = enc.Close() }()
			return enc.Encode(map[string]any{"key": a.Key, "fields": a.Fields})
		},
	}
}

func translateCmd() *cobra.Command {
	var f request.Filters
	var yearFrom, yearTo int

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Print the engine query built for free text and filters",
		Long: `Translate runs the query translator offline and prints the FT.SEARCH
expression the server would send. A cql.serverChoice="..." wrapper is removed
first, as the server does.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := query.Config{}
			if cfg, _, err := loadConfig(); err == nil {
				tables = query.Config{Forms: cfg.Query.Forms, Languages: cfg.Query.Languages}
			} else {
				fmt.Fprintf(os.Stderr, "Warning: using built-in tables: %v\n", err)
			}

			if cmd.Flags().Changed("year-from") {
				f.YearFrom = &yearFrom
			}
			if cmd.Flags().Changed("year-to") {
				f.YearTo = &yearTo
			}

			text := ""
			if len(args) > 0 {
				text = args[0]
			}
			tq, err := query.New(tables).Translate(sru.UnwrapServerChoice(text), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "strategy: %s\n", tq.Strategy)
			fmt.Fprintf(out, "query:    %s\n", dbRedis.BuildQuery(tq.Text, tq.Filters))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Publication, "magazine", "", "Publication name filter")
	cmd.Flags().StringVar(&f.Form, "form", "", "Publication form filter")
	cmd.Flags().StringVar(&f.Language, "language", "", "Language filter")
	cmd.Flags().IntVar(&yearFrom, "year-from", 0, "First issue year")
	cmd.Flags().IntVar(&yearTo, "year-to", 0, "Last issue year")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig reads --config when given, otherwise config/<env>.yaml.
func loadConfig() (config.Config, string, error) {
	env := config.GetEnv()
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, env, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, env, nil
}

// openStore connects to the engine and waits until it answers.
func openStore(ctx context.Context, cfg config.Config) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create database store: %w", err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

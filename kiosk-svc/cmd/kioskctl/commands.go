package main

import (
	"database/sql"
	"os"

	"ai-kiosk/config"
	"ai-kiosk/kiosk-svc/internal/app"
	"ai-kiosk/kiosk-svc/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type env struct {
	settings app.Settings
	logger   *zap.SugaredLogger
	db       *sql.DB
}

// open connects to Postgres; commands call it so that help and usage work offline.
func (e *env) open() {
	config.LoadEnv()
	e.settings = app.LoadSettings()
	e.logger = config.NewLogger(e.settings.Env)
	e.db = config.MustInitPostgres(e.logger)
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
	if e.logger != nil {
		e.logger.Sync()
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:          "kioskctl",
		Short:        "Operate the AI kiosk: schema, demo catalog and a terminal chat",
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCmd(e), newSeedCmd(e), newChatCmd(e))
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the kiosk tables when they are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			e.open()
			defer e.close()

			if err := storage.NewPostgresRepository(e.db).EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("schema ready")
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo stores and menus",
		RunE: func(cmd *cobra.Command, args []string) error {
			e.open()
			defer e.close()

			svc, err := app.Build(cmd.Context(), noModel(e.settings), e.db, nil, nil, e.logger)
			if err != nil {
				return err
			}
			created, err := seedCatalog(cmd.Context(), svc.Catalog, demoCatalog)
			if err != nil {
				return err
			}
			cmd.Printf("seeded %d stores\n", created)
			return nil
		},
	}
}

func newChatCmd(e *env) *cobra.Command {
	var withRedis bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the kiosk from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			e.open()
			defer e.close()

			var rdb *redis.Client
			if withRedis {
				rdb = config.MustInitRedis(e.logger)
				defer rdb.Close()
			}
			svc, err := app.Build(cmd.Context(), e.settings, e.db, rdb, nil, e.logger)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), svc.Dialogue, os.Stdin, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&withRedis, "redis", false, "use the Redis catalog cache and popularity counters")
	return cmd
}

// noModel keeps seeding independent of LLM credentials.
func noModel(s app.Settings) app.Settings {
	s.LLMProvider = app.ProviderNone
	return s
}

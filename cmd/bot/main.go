// Package main is the bot entrypoint.
// "run" starts the bot and shuts it down gracefully on SIGINT/SIGTERM;
// "migrate" and "inspect" are maintenance commands against the database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"p2e.club/discord-bot/internal/app"
	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/config"
	"p2e.club/discord-bot/internal/db/postgres"
)

func init() {
	// A missing .env is fine: docker-compose passes the environment directly.
	//nolint:errcheck
	godotenv.Load()
}

func main() {
	setupLogging()

	cliApp := &cli.App{
		Name:  "p2e-bot",
		Usage: "Discord points-economy bot",
		Commands: []*cli.Command{
			commandRun(),
			commandMigrate(),
			commandInspect(),
		},
		DefaultCommand: "run",
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.WithError(err).Fatal("exit")
	}
}

// setupLogging configures the log format; the level comes from config later.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return cfg, nil
}

func commandRun() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "connect to Discord and serve commands",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info("=== Bot starting ===")

			// Cancelled on Ctrl+C or docker stop; every goroutine winds down from here.
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init application: %w", err)
			}
			if err := application.Run(ctx); err != nil {
				return err
			}
			log.Info("=== Bot stopped ===")
			return nil
		},
	}
}

func withPool(c *cli.Context, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(c.Context, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(c.Context, pool)
}

func commandMigrate() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return withPool(c, postgres.Migrate)
				},
			},
			{
				Name:  "down",
				Usage: "roll back the latest migration",
				Action: func(c *cli.Context) error {
					return withPool(c, postgres.MigrateDown)
				},
			},
			{
				Name:  "status",
				Usage: "show applied migrations",
				Action: func(c *cli.Context) error {
					return withPool(c, postgres.MigrationStatus)
				},
			},
		},
	}
}

func commandInspect() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "print table counts, top users, rewards and recent activity",
		Action: func(c *cli.Context) error {
			return withPool(c, func(ctx context.Context, pool *pgxpool.Pool) error {
				rep, err := postgres.Inspect(ctx, pool)
				if err != nil {
					return err
				}
				return printReport(c.App.Writer, rep)
			})
		},
	}
}

func printReport(out io.Writer, rep *postgres.Report) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "TABLE\tROWS")
	for _, t := range rep.Tables {
		fmt.Fprintf(w, "%s\t%s\n", t.Table, common.FormatNumber(t.Rows))
	}

	fmt.Fprintln(w, "\nTOP USERS\tPOINTS")
	for _, u := range rep.TopUsers {
		fmt.Fprintf(w, "%s\t%s\n", u.UserID, common.FormatNumber(u.Points))
	}

	fmt.Fprintln(w, "\nREWARD\tCOST")
	for _, r := range rep.Rewards {
		fmt.Fprintf(w, "#%d %s\t%s\n", r.ID, r.Name, common.FormatNumber(r.Cost))
	}

	fmt.Fprintln(w, "\nRECENT ACTIVITY\tPOINTS")
	for _, a := range rep.RecentActivity {
		fmt.Fprintf(w, "%s %s: %s\t%+d\n", common.FormatDateTime(a.Timestamp, nil), a.UserID, a.Action, a.Points)
	}

	fmt.Fprintf(w, "\nSuspicious activities:\t%s\n", common.FormatNumber(rep.SuspiciousTotal))
	return w.Flush()
}

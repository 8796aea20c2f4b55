package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sportclub/internal/client/api"
	"github.com/dmitrijs2005/sportclub/internal/client/cli"
	"github.com/dmitrijs2005/sportclub/internal/client/config"
	"github.com/dmitrijs2005/sportclub/internal/client/credentials"
	"github.com/dmitrijs2005/sportclub/internal/client/i18n"
	"github.com/dmitrijs2005/sportclub/internal/client/navigation"
	"github.com/dmitrijs2005/sportclub/internal/client/notify"
	"github.com/dmitrijs2005/sportclub/internal/client/orchestrator"
	"github.com/dmitrijs2005/sportclub/internal/client/repositories/kv"
	"github.com/dmitrijs2005/sportclub/internal/client/routes"
	"github.com/dmitrijs2005/sportclub/internal/client/scheduler"
	"github.com/dmitrijs2005/sportclub/internal/client/session"
	"github.com/dmitrijs2005/sportclub/internal/client/storage"
	"github.com/dmitrijs2005/sportclub/internal/logging"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {
	fmt.Printf("Build version: %s\nBuild date: %s\n", buildVersion, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level, _ := cfg.SlogLevel()
	logger := logging.New(os.Stderr, level)

	dsn := cfg.DatabasePath
	if cfg.Ephemeral {
		dsn = storage.MemoryDSN
	}
	db, err := storage.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := kv.NewSQLiteRepository(db)
	creds := credentials.NewStore(repo)

	langs, err := i18n.NewLocalizer(ctx, repo, cfg.Language)
	if err != nil {
		return err
	}

	client, err := api.NewClient(cfg.APIBaseURL, creds,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	router := navigation.NewRouter(routes.Fallback)
	table := routes.NewTable()
	printer := notify.NewWriterNotifier(out)
	notifier := notify.Func(func(n notify.Notification) {
		n.Duration = cfg.NotificationDuration
		printer.Notify(n)
	})

	orch, err := orchestrator.New(orchestrator.Deps{
		Session:      session.NewStore(),
		Credentials:  creds,
		Gateway:      client,
		Router:       router,
		Transport:    client.Transport(),
		Routes:       table,
		Notifier:     notifier,
		Texts:        langs,
		Clock:        scheduler.RealClock{},
		Logger:       logger.With("component", "orchestrator"),
		PollInterval: cfg.PollInterval,
	})
	if err != nil {
		return err
	}
	if err := orch.Start(ctx); err != nil {
		return err
	}
	defer orch.Stop()

	app := cli.NewApp(cli.Deps{
		Session:     orch,
		Users:       client,
		Router:      router,
		Routes:      table,
		Languages:   langs,
		Credentials: creds,
		Logger:      logger.With("component", "cli"),
		In:          in,
		Out:         out,
	})
	app.Run(ctx)
	return nil
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/juju/clock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/tradejournal/internal/buildinfo"
	"github.com/dmitrijs2005/tradejournal/internal/client/attachments"
	"github.com/dmitrijs2005/tradejournal/internal/client/auth"
	"github.com/dmitrijs2005/tradejournal/internal/client/cli"
	"github.com/dmitrijs2005/tradejournal/internal/client/config"
	"github.com/dmitrijs2005/tradejournal/internal/client/metrics"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/challenges"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/partialexits"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/trades"
	"github.com/dmitrijs2005/tradejournal/internal/client/retry"
	"github.com/dmitrijs2005/tradejournal/internal/client/services"
	"github.com/dmitrijs2005/tradejournal/internal/client/session"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/client/statusserver"
	"github.com/dmitrijs2005/tradejournal/internal/client/store"
	"github.com/dmitrijs2005/tradejournal/internal/filex"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "journal stopped", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	if cfg.SecretKey == "" {
		return errors.New("secret key is not set (JOURNAL_SECRET_KEY)")
	}

	dir, err := filex.EnsureDataDir(cfg.DataDir)
	if err != nil {
		return err
	}

	local, err := store.OpenLocal(ctx, filepath.Join(dir, "prefs.db"))
	if err != nil {
		return err
	}
	defer local.Close()

	prefsRepo := prefs.NewSQLiteRepository(local)
	if n, err := prefsRepo.Clean(ctx); err != nil {
		log.Warn(ctx, "could not clean local data", "error", err)
	} else if n > 0 {
		log.Info(ctx, "removed stale local data", "keys", n)
	}

	remoteDB, err := store.OpenRemote(ctx, cfg.DatabaseDSN, cfg.MigrateRemote)
	if err != nil {
		return err
	}
	defer remoteDB.Close()

	clk := clock.WallClock

	provider := auth.NewPostgresProvider(remoteDB, auth.Options{
		SecretKey:       []byte(cfg.SecretKey),
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		Clock:           clk,
	}, log)
	account := services.NewAuthService(provider, profiles.NewPostgresRepository(remoteDB), cfg.CallTimeout, log)

	term := cli.NewTerminal(os.Stdout)
	tracker := status.NewTracker(clk, term)
	notifier := status.Notifiers{term, status.LogNotifier{Log: log}}
	m := metrics.New(true)

	var files attachments.Store
	if cfg.S3.Endpoint != "" && cfg.S3.Bucket != "" {
		s3, err := attachments.NewS3Store(ctx, attachments.Options{
			Endpoint:      cfg.S3.Endpoint,
			Region:        cfg.S3.Region,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Bucket:        cfg.S3.Bucket,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		files = s3
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	data := services.NewDataStore(services.Repositories{
		Trades:       trades.NewPostgresRepository(remoteDB),
		Ledger:       ledger.NewPostgresRepository(remoteDB),
		Challenges:   challenges.NewPostgresRepository(remoteDB),
		PartialExits: partialexits.NewPostgresRepository(remoteDB),
		Attachments:  files,
	}, account, tracker, notifier, log, services.Options{
		CallTimeout:        cfg.CallTimeout,
		PartialExitTimeout: cfg.PartialExitTimeout,
		Policy:             retry.Policy{MaxAttempts: cfg.RetryAttempts, BaseDelay: cfg.RetryBaseDelay, Clock: clk},
		Limiter:            limiter,
		Clock:              clk,
		Metrics:            m,
	})

	bridge := session.NewBridge(term, account, data, prefsRepo, notifier, clk, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bridge.Run(gctx, provider.Current())
		return nil
	})
	g.Go(func() error {
		auth.RunRefresher(gctx, provider, clk, cfg.RefreshInterval, log)
		return nil
	})
	if cfg.StatusAddr != "" {
		srv := statusserver.New(cfg.StatusAddr, tracker, account, m.Handler(), log)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	app := cli.NewApp(cli.Deps{
		Accounts:     account,
		Session:      bridge,
		Trades:       data.Trades,
		Ledger:       data.Ledger,
		Challenges:   data.Challenges,
		PartialExits: data.PartialExits,
		Attachments:  data.Attachments,
		Status:       tracker,
	}, term, os.Stdin, os.Stdout, clk, log)

	// The REPL blocks on stdin, so it is not part of the group.
	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Run(gctx)
	}()

	select {
	case <-done:
	case <-gctx.Done():
	}
	cancel()

	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/clock"
	"auction-engine/internal/config"
	"auction-engine/internal/notification"
	"auction-engine/internal/payment"
	"auction-engine/internal/ratelimit"
	"auction-engine/internal/repository"
	"auction-engine/internal/scheduler"
	"auction-engine/internal/server"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// store is the full persistence surface every driver provides
type store interface {
	repository.AuctionDB
	repository.NotificationDB
	repository.WishlistDB
}

type application struct {
	config     *config.Config
	store      store
	closeStore func()
	redis      *redis.Client
	service    *bidding.BiddingService
	dispatcher *notification.Dispatcher
	scheduler  *scheduler.Scheduler
	server     *http.Server
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
		utils.Warn("invalid log level, keeping info", map[string]any{"error": err.Error()})
	}

	app := &application{config: cfg}

	app.store, app.closeStore, err = openStore(cfg)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.StoreDriver, "error": err.Error()})
	}

	if cfg.RedisAddr != "" {
		app.redis, err = connectRedis(cfg)
		if err != nil {
			utils.Fatal("failed to connect to redis", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
		}
	}

	var publisher notification.Publisher = notification.LogPublisher{}
	if app.redis != nil {
		publisher = notification.NewRedisPublisher(app.redis, "auction-engine:")
	}

	var clk clock.Clock = clock.System{}
	var ntpClock *clock.NTPClock
	if len(cfg.NTPServers) > 0 {
		ntpClock = clock.NewNTPClock(cfg.NTPServers, 5*time.Second)
		clk = ntpClock
	}

	app.dispatcher = notification.NewDispatcher(app.store, publisher,
		notification.WithClock(clk),
		notification.WithPushTimeout(cfg.PushTimeout))

	opts := []bidding.Option{bidding.WithClock(clk)}
	if cfg.PaymentsEnabled() {
		gateway := payment.NewCashfree(payment.CashfreeConfig{
			BaseURL:      cfg.CashfreeBaseURL,
			ClientID:     cfg.CashfreeClientID,
			ClientSecret: cfg.CashfreeClientSecret,
			APIVersion:   cfg.CashfreeAPIVersion,
			ReturnURL:    cfg.PaymentReturnURL,
			Timeout:      cfg.PaymentTimeout,
		})
		opts = append(opts, bidding.WithGateway(gateway, bidding.PaymentOptions{
			Currency: cfg.PaymentCurrency,
			LinkTTL:  cfg.PaymentLinkTTL,
			Timeout:  cfg.PaymentTimeout,
		}))
	} else {
		utils.Warn("payment gateway not configured, payment links disabled", nil)
	}
	app.service = bidding.NewBiddingService(app.store, app.store, app.dispatcher, opts...)

	app.scheduler = scheduler.New(app.jobs(ntpClock)...)
	app.scheduler.Start()

	var limiter ratelimit.Limiter = ratelimit.Unlimited{}
	if app.redis != nil && cfg.RateLimitRate > 0 {
		rl, err := ratelimit.NewRedisLimiter(app.redis, cfg.RateLimitRate, cfg.RateLimitBurst, "auction-engine:ratelimit:")
		if err != nil {
			utils.Fatal("failed to create rate limiter", map[string]any{"error": err.Error()})
		}
		limiter = rl
	} else {
		utils.Warn("rate limiting disabled", map[string]any{"redis": app.redis != nil, "rate": cfg.RateLimitRate})
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.SetupRouter(app.service, app.dispatcher, limiter)

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	app.serve()
}

// jobs returns the periodic work: settlement, notification purge and, when
// configured, NTP resync
func (app *application) jobs(ntpClock *clock.NTPClock) []scheduler.Job {
	jobs := []scheduler.Job{
		{
			Name:     "settlement",
			Interval: app.config.SettlementInterval,
			Run: func(ctx context.Context) error {
				_, err := app.service.SweepExpired(ctx)
				return err
			},
		},
		{
			Name:     "notification-purge",
			Interval: app.config.NotificationPurgeInterval,
			Run: func(ctx context.Context) error {
				_, err := app.dispatcher.Purge(ctx, app.config.NotificationRetention)
				return err
			},
		},
	}
	if ntpClock != nil {
		jobs = append(jobs, scheduler.Job{
			Name:     "ntp-sync",
			Interval: app.config.NTPSyncInterval,
			Run: func(context.Context) error {
				return ntpClock.Sync()
			},
		})
	}
	return jobs
}

func (app *application) serve() {
	utils.Info("starting auction server", map[string]any{"addr": app.server.Addr, "store": app.config.StoreDriver})

	errChan := make(chan error, 1)
	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		utils.Error("server error", map[string]any{"error": err.Error()})
	case sig := <-quit:
		utils.Info("shutting down server", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		utils.Error("graceful server shutdown failed", map[string]any{"error": err.Error()})
	}

	stopCtx, stopCancel := context.WithTimeout(ctx, 10*time.Second)
	if !app.scheduler.Stop(stopCtx) {
		utils.Warn("scheduler did not stop in time", nil)
	}
	stopCancel()

	app.service.Wait()
	app.dispatcher.Wait()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			utils.Warn("error closing redis client", map[string]any{"error": err.Error()})
		}
	}
	app.closeStore()

	utils.Info("application shut down complete", nil)
}

// openStore connects the configured driver and returns it with its closer
func openStore(cfg *config.Config) (store, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := repository.ConnectPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.RunMigrations(db, cfg.MigrationsDir); err != nil {
			db.Close()
			return nil, nil, err
		}
		repo := repository.NewPostgresRepo(db)
		return repo, func() {
			if err := repo.Close(); err != nil {
				utils.Warn("error closing database", map[string]any{"error": err.Error()})
			}
		}, nil

	case config.StoreMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := repository.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMongoRepo(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx, cfg.NotificationRetention); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				utils.Warn("error disconnecting mongo", map[string]any{"error": err.Error()})
			}
		}, nil

	default:
		utils.Warn("using in-memory store, data is lost on restart", nil)
		return repository.NewMemoryRepo(), func() {}, nil
	}
}

func connectRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/mta-bustime/api/handlers"
	"github.com/jusunglee/mta-bustime/internal/config"
	"github.com/jusunglee/mta-bustime/internal/logging"
	"github.com/jusunglee/mta-bustime/pkg/mta"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "mta-bustime",
		Usage: "Serves nearby MTA bus arrivals over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file", EnvVars: []string{"BUSTIME_CONFIG"}},
			&cli.StringFlag{Name: "port", Usage: "Server port", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "api-key", Usage: "MTA Bus Time API key", EnvVars: []string{"MTA_API_KEY"}},
			&cli.StringFlag{Name: "log-format", Usage: "console or json", EnvVars: []string{"BUSTIME_LOG_FORMAT"}},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", EnvVars: []string{"BUSTIME_DEBUG"}},
			&cli.Float64Flag{Name: "lat-span", Usage: "Search rectangle latitude span"},
			&cli.Float64Flag{Name: "lon-span", Usage: "Search rectangle longitude span"},
			&cli.IntFlag{Name: "max-concurrency", Usage: "Parallel stop-monitoring requests"},
			&cli.IntFlag{Name: "max-stops", Usage: "Nearest stops to query (0 = all)"},
			&cli.IntFlag{Name: "arrivals", Usage: "Arrivals kept per line and destination"},
			&cli.DurationFlag{Name: "request-timeout", Usage: "Timeout for each upstream request"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("api-key") {
		cfg.APIKey = c.String("api-key")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("lat-span") {
		cfg.BusTime.LatSpan = c.Float64("lat-span")
	}
	if c.IsSet("lon-span") {
		cfg.BusTime.LonSpan = c.Float64("lon-span")
	}
	if c.IsSet("max-concurrency") {
		cfg.BusTime.MaxConcurrency = c.Int("max-concurrency")
	}
	if c.IsSet("max-stops") {
		cfg.BusTime.MaxStops = c.Int("max-stops")
	}
	if c.IsSet("arrivals") {
		cfg.BusTime.ArrivalsPerDestination = c.Int("arrivals")
	}
	if c.IsSet("request-timeout") {
		cfg.BusTime.RequestTimeout = c.Duration("request-timeout")
	}

	return cfg, cfg.Validate()
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logging.Setup(cfg.LogFormat, cfg.Debug)

	if cfg.APIKey == "" {
		log.Warn().Msg("MTA API key not set (use --api-key or MTA_API_KEY); lookups will fail")
	}

	// every stop-monitoring call goes to the same host
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cfg.BusTime.MaxConcurrency

	client, err := mta.New(cfg.BusTime, mta.WithHTTPClient(&http.Client{Transport: transport}))
	if err != nil {
		return err
	}

	r := mux.NewRouter()
	h := handlers.NewHandler(client, cfg.APIKey)
	h.RegisterRoutes(r)

	r.Use(handlers.LoggingMiddleware)
	r.Use(handlers.CORSMiddleware)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server stopped")
	return nil
}

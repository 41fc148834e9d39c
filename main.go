// Sports news API.
//
// Boot the server:
// ----------------
// $ JWT_SECRET=change-me FOOTBALL_DATA_KEY=... go run .
//
// Print the route docs instead of serving:
// ----------------
// $ JWT_SECRET=change-me go run . -routes
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/
// API is running...
//
// $ curl http://localhost:3333/api/v1/article?page=1&limit=5
// {"status":"success","results":5,"total":12,"currentPage":1,"totalPages":3,"data":[...]}
//
// $ curl -c jar -X POST -d '{"username":"alice","password":"secret123"}' http://localhost:3333/api/v1/auth/login
// {"status":"success","token":"...","data":{"admin":{...}}}
//
// $ curl http://localhost:3333/api/v1/matches/today
// [{"matchId":537785,"league":"PL","homeTeam":"Arsenal FC",...}]
//
// Metrics are exposed on the diagnostics address:
// $ curl http://localhost:9999/metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/docgen"
	"golang.org/x/sync/errgroup"

	"github.com/SergeyParamoshkin/sportsnews/internal/config"
	"github.com/SergeyParamoshkin/sportsnews/internal/di"
	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/SergeyParamoshkin/sportsnews/internal/metrics"
)

const ServiceName = "SPORTSNEWS"

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		routes   = flag.Bool("routes", config.GetEnvBool(ServiceName+"_ROUTES", false), "Generate router documentation")
		addr     = flag.String("addr", config.GetEnv(ServiceName+"_ADDR", ":3333"), "application port")
		diagPort = flag.String("diag_addr", config.GetEnv(ServiceName+"_DIAG_ADDR", ":9999"), "diag port")
	)

	flag.Parse()

	if err := run(*routes, *addr, *diagPort); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(routes bool, addr, diagAddr string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	sugar := logger.Sugar()

	exporter, err := metrics.NewExporter()
	if err != nil {
		sugar.Errorw("metrics exporter", "error", err)

		return err
	}

	app, cleanup, err := di.InitializeApp(cfg, sugar, metrics.Default())
	if err != nil {
		sugar.Errorw("initialize application", "error", err)

		return err
	}
	defer cleanup()

	// Passing -routes prints the docs for the router and exits.
	if routes {
		fmt.Println(docgen.MarkdownRoutesDoc(app.Router, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/sportsnews",
			Intro:       "Sports news API generated docs.",
		}))

		return nil
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Start()

	servers := []*http.Server{
		{Addr: addr, Handler: app.Router, ReadHeaderTimeout: 10 * time.Second},
		{Addr: diagAddr, Handler: diagRouter, ReadHeaderTimeout: 10 * time.Second},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			sugar.Infow("listening", "addr", srv.Addr, "env", cfg.Env)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sugar.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		app.Stop(shutdownCtx)
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				sugar.Errorw("shutdown", "addr", srv.Addr, "error", err)
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Errorw("server stopped", "error", err)

		return err
	}

	return nil
}

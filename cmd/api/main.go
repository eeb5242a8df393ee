package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investory/internal/auth"
	"investory/internal/config"
	"investory/internal/db"
	"investory/internal/health"
	"investory/internal/holdings"
	"investory/internal/httpserver"
	"investory/internal/orders"
	"investory/internal/portfolio"
	"investory/internal/rewards"
	"investory/internal/stocks"
	"investory/internal/wmti"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	startedAt := time.Now().UTC()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	if cfg.SeedStocks {
		if err := stocks.Seed(ctx, pool); err != nil {
			log.Fatal(err)
		}
	}

	bus := stocks.NewBus()
	stockStore := stocks.NewStore(pool)
	holdingStore := holdings.NewStore(pool)
	orderStore := orders.NewStore(pool)
	rewardSvc := rewards.NewService(pool, rewards.NewStore(pool))
	orderSvc := orders.NewService(pool, orderStore, holdingStore, stockStore, rewardSvc)
	portfolioSvc := portfolio.NewService(holdingStore)
	authSvc := auth.NewService(pool, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL)
	watchlistStore := stocks.NewWatchlistStore(pool, stockStore)
	wmtiSvc := wmti.NewService(pool, rewardSvc)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:      auth.NewHandler(authSvc),
		StockHandler:     stocks.NewHandler(stockStore),
		WatchlistHandler: stocks.NewWatchlistHandler(watchlistStore),
		WmtiHandler:      wmti.NewHandler(wmtiSvc),
		OrderHandler:     orders.NewHandler(orderSvc),
		PortfolioHandler: portfolio.NewHandler(portfolioSvc),
		RewardHandler:    rewards.NewHandler(rewardSvc),
		HealthHandler:    health.NewHandler(pool, startedAt, cfg.HTTPAddr, cfg.AppEnv, cfg.QuoteInterval, cfg.InternalToken),
		AuthService:      authSvc,
		InternalToken:    cfg.InternalToken,
		QuoteWS:          stocks.NewQuoteWS(bus, cfg.WebSocketOrigin),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	stocks.StartSimulator(ctx, stockStore, bus, cfg.QuoteInterval)

	log.Printf("server listening on %s", cfg.HTTPAddr)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"aniview/api"
	"aniview/config"
	"aniview/handlers"
	"aniview/services/episodes"
	"aniview/services/fetch"
	"aniview/services/metadata"
	"aniview/utils"
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	fc := fetch.NewClient(
		&http.Client{Timeout: cfg.RequestTimeout},
		cfg.FetchAttempts,
		cfg.FetchBaseDelay,
		cfg.FetchCapDelay,
	)
	eps := episodes.NewClient(fc, cfg.EpisodeBaseURL)
	meta := metadata.NewService(fc, cfg.MetadataBaseURL, eps, cfg.PageLimit, cfg.ScheduleDayDelay)

	catalogHandler := handlers.NewCatalogHandler(meta)
	homeHandler := handlers.NewHomeHandler(meta)
	scheduleHandler := handlers.NewScheduleHandler(meta)
	detailsHandler := handlers.NewDetailsHandler(meta)
	serversHandler := handlers.NewServersHandler(eps)
	searchHandler := handlers.NewSearchHandler(meta)

	// The search box fires on every debounced keystroke, so it gets its own
	// per-IP budget in front of the metadata API.
	searchThrottle := api.NewThrottle(rate.Every(6*time.Second), 10)

	r := utils.NewRouter(cfg.AllowedOrigins)
	r.Use(api.RequestIDMiddleware(), api.LoggingMiddleware())

	r.HandleFunc("/api/home", homeHandler.GetHome).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog", catalogHandler.GetCatalog).Methods(http.MethodGet)
	r.HandleFunc("/api/schedule", scheduleHandler.GetWeek).Methods(http.MethodGet)
	r.HandleFunc("/api/schedule/{day}", scheduleHandler.GetDay).Methods(http.MethodGet)
	r.HandleFunc("/api/random", detailsHandler.GetRandom).Methods(http.MethodGet)
	r.HandleFunc("/api/anime/{id}", detailsHandler.GetDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/anime/{id}/reviews", detailsHandler.GetReviews).Methods(http.MethodGet)
	r.HandleFunc("/api/episodes/{episodeId}/servers", serversHandler.GetServers).Methods(http.MethodGet)
	r.HandleFunc("/api/search", searchThrottle.Limit(searchHandler.Proxy)).Methods(http.MethodGet)
	r.HandleFunc("/api/search/full", searchThrottle.Limit(searchHandler.FullSearch)).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
}

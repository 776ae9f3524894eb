package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Hungryfoodies/WordSquare/internal/config"
	"github.com/Hungryfoodies/WordSquare/internal/history"
	"github.com/Hungryfoodies/WordSquare/internal/httpserver"
	"github.com/Hungryfoodies/WordSquare/internal/puzzle"
	"github.com/Hungryfoodies/WordSquare/internal/store"
	"github.com/Hungryfoodies/WordSquare/internal/words"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// A missing word list is not fatal: every check simply scores 0.
	var (
		dict    *words.Dictionary
		dictErr error
	)
	if cfg.DictionaryFile != "" {
		dict, dictErr = words.LoadFile(cfg.DictionaryFile)
	} else {
		dict, dictErr = words.Default()
	}
	if dictErr != nil {
		log.Error().Err(dictErr).Msg("dictionary unavailable, continuing with an empty word list")
	}
	log.Info().Int("words", dict.Len()).Msg("dictionary loaded")

	var (
		presets *puzzle.Set
		err     error
	)
	if cfg.PresetsFile != "" {
		presets, err = puzzle.LoadFile(cfg.PresetsFile)
	} else {
		presets, err = puzzle.Default()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load presets")
	}

	var hist *history.Store
	if cfg.DBPath != "" {
		hist, err = history.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open history db")
		}
		defer hist.Close()
	} else {
		log.Warn().Msg("DB_PATH not set, accounts and history disabled")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, httpserver.Options{
		Dictionary:    dict,
		DictionaryErr: dictErr,
		Presets:       presets,
		DefaultPreset: cfg.DefaultPreset,
		History:       hist,
		ClientOrigin:  cfg.ClientOrigin,
		JWTSecret:     cfg.JWTSecret,
		JWTExpiry:     cfg.JWTExpiry,
		CookieName:    cfg.CookieName,
		DailySalt:     cfg.DailySalt,
		Production:    cfg.Production,
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Int("presets", presets.Len()).Msg("starting wordsquare server")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("got quit signal...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})
	g.Go(func() error {
		t := time.NewTicker(cfg.SweepInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-t.C:
				if n := mem.Sweep(ctx, now.Add(-cfg.SessionTTL)); n > 0 {
					log.Debug().Int("dropped", n).Int("live", mem.Len()).Msg("swept idle sessions")
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server gracefully shut down")
}

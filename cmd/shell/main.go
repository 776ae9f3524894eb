package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hungryfoodies/WordSquare/internal/config"
	"github.com/Hungryfoodies/WordSquare/internal/puzzle"
	"github.com/Hungryfoodies/WordSquare/internal/shell"
	"github.com/Hungryfoodies/WordSquare/internal/words"
)

func main() {
	cfg := config.Load()

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		level = lvl
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	var (
		dict *words.Dictionary
		err  error
	)
	if cfg.DictionaryFile != "" {
		dict, err = words.LoadFile(cfg.DictionaryFile)
	} else {
		dict, err = words.Default()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (every word will score 0)\n", err)
	}

	var presets *puzzle.Set
	if cfg.PresetsFile != "" {
		presets, err = puzzle.LoadFile(cfg.PresetsFile)
	} else {
		presets, err = puzzle.Default()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load presets")
	}

	preset := cfg.DefaultPreset
	if len(os.Args) > 1 {
		preset = os.Args[1]
	}

	sc, err := shell.NewController(dict, presets, preset)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start shell")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go sc.Loop(sig)

	<-sig
	log.Debug().Msg("bye")
}

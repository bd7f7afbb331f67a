// File: cmd/reactor-echo/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process bootstrap for the echo service: flags, optional YAML config,
// logger, then the reactor loop on the main goroutine. There is no
// graceful shutdown path; the process is stopped externally.

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/momentics/reactor-echo/api"
	"github.com/momentics/reactor-echo/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		addr       = flag.String("addr", "", "listen address override")
		workers    = flag.Int("workers", 0, "worker pool size override")
		queueCap   = flag.Int("queue", 0, "hand-off queue capacity override")
		chunkSize  = flag.Int("chunk", 0, "max read chunk size override")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("service", "reactor-echo").Logger().
		Level(level)

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config load failed")
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *queueCap > 0 {
		cfg.QueueCapacity = *queueCap
	}
	if *chunkSize > 0 {
		cfg.ChunkSize = *chunkSize
	}

	srv, err := server.New(cfg, server.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}

	if err := srv.Run(); err != nil && !errors.Is(err, api.ErrClosed) {
		log.Fatal().Err(err).Msg("reactor loop failed")
	}
}

// File: server/options.go
// Package server defines functional options for the Server facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import "github.com/rs/zerolog"

// Option customizes server initialization.
type Option func(*Server)

// WithLogger attaches a structured logger; the default discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithWorkers overrides the configured worker pool size.
func WithWorkers(n int) Option {
	return func(s *Server) {
		s.cfg.Workers = n
	}
}

// WithQueueCapacity overrides the configured hand-off queue capacity.
func WithQueueCapacity(c int) Option {
	return func(s *Server) {
		s.cfg.QueueCapacity = c
	}
}

// WithChunkSize overrides the configured maximum read chunk size.
func WithChunkSize(n int) Option {
	return func(s *Server) {
		s.cfg.ChunkSize = n
	}
}

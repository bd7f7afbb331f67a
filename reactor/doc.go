// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the single-threaded initiation dispatcher: a
// registry of descriptor-to-handler bindings, a blocking demultiplexing
// loop, and the epoll-backed readiness poller it runs on.
package reactor

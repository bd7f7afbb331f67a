// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package transport implements the raw socket collaborator consumed by the
// reactor core: non-blocking listen/accept/read over x/sys, a synchronous
// write path with per-connection locking, and idempotent close.
package transport

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/reactor-echo/api"
)

func TestEventKindString(t *testing.T) {
	require.Equal(t, "acceptable", api.EventAcceptable.String())
	require.Equal(t, "readable", api.EventReadable.String())
	require.Equal(t, "unknown", api.EventKind(99).String())
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "ok", api.StatusOK.String())
	require.Equal(t, "wrong-event", api.StatusWrongEvent.String())
	require.Equal(t, "disconnected", api.StatusDisconnected.String())
	require.Equal(t, "unknown", api.Status(99).String())
}

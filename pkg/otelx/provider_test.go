package otelx_test

import (
	"context"
	"testing"

	"github.com/bookeez/accounts/pkg/otelx"
	"github.com/stretchr/testify/require"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := otelx.Setup(context.Background(), otelx.Config{ServiceName: "test"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx))
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address; nothing is exported before shutdown.
	shutdown, err := otelx.Setup(context.Background(), otelx.Config{
		ServiceName: "test",
		Version:     "dev",
		Endpoint:    "http://192.0.2.1:4318",
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestTracer_StartsSpan(t *testing.T) {
	_, span := otelx.Tracer("otelx-test").Start(context.Background(), "op")
	require.NotNil(t, span)
	span.End()
}

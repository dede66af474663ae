package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumac/alumac-api/pkg/config"
)

func TestSetupTracing_SinEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), config.OtelConfig{ServiceName: "alumac-api"}, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupTracing_ConEndpoint(t *testing.T) {
	// el exportador HTTP no conecta hasta el primer envío
	shutdown, err := SetupTracing(context.Background(), config.OtelConfig{
		Endpoint: "localhost:4318", ServiceName: "alumac-api", Insecure: true,
	}, "test")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

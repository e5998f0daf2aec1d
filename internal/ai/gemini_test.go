package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestratorConfigAnchorsTheLoop(t *testing.T) {
	cfg := orchestratorConfig()

	require.NotNil(t, cfg.ToolConfig)
	require.NotNil(t, cfg.ToolConfig.RetrievalConfig)
	latLng := cfg.ToolConfig.RetrievalConfig.LatLng
	require.NotNil(t, latLng)
	require.NotNil(t, latLng.Latitude)
	require.NotNil(t, latLng.Longitude)
	assert.Equal(t, 41.8786, *latLng.Latitude)
	assert.Equal(t, -87.6251, *latLng.Longitude)

	require.Len(t, cfg.Tools, 2)
	assert.NotNil(t, cfg.Tools[0].GoogleMaps)
	assert.NotNil(t, cfg.Tools[1].GoogleSearch)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, float64(*cfg.Temperature), 1e-6)
}

func TestDegradedGatewaySoftFails(t *testing.T) {
	g := &Gateway{}

	resp := g.Orchestrate(context.Background(), "how safe is the Loop at night?")
	assert.Equal(t, unstableLinkMessage, resp.Text)
	assert.Empty(t, resp.Grounding)

	assert.Equal(t, CityCore, g.Classify(context.Background(), "find me an apartment"))
}

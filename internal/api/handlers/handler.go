// Package handlers implements the HTTP surface of the twin-city backend.
// Dependencies are injected once at construction instead of living in
// package globals, so tests can swap any collaborator.
package handlers

import (
	"github.com/rebeccawang123/twincity/internal/ai"
	"github.com/rebeccawang123/twincity/internal/chain"
	"github.com/rebeccawang123/twincity/internal/geo"
	"github.com/rebeccawang123/twincity/internal/vault"
)

type Handler struct {
	Vault *vault.Vault
	Chain *chain.Client
	AI    *ai.Gateway
	Geo   *geo.Geocoder
}

func New(v *vault.Vault, c *chain.Client, g *ai.Gateway, geocoder *geo.Geocoder) *Handler {
	return &Handler{Vault: v, Chain: c, AI: g, Geo: geocoder}
}

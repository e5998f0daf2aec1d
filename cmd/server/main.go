package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rebeccawang123/twincity/internal/ai"
	"github.com/rebeccawang123/twincity/internal/api"
	"github.com/rebeccawang123/twincity/internal/api/handlers"
	"github.com/rebeccawang123/twincity/internal/chain"
	"github.com/rebeccawang123/twincity/internal/config"
	"github.com/rebeccawang123/twincity/internal/geo"
	"github.com/rebeccawang123/twincity/internal/logging"
	"github.com/rebeccawang123/twincity/internal/repositories"
	"github.com/rebeccawang123/twincity/internal/vault"
)

// @title Twin City API
// @version 1.0
// @description Identity vault, on-chain agent registry and AI agent fleet for the Neo-Chicago digital twin
// @BasePath /
func main() {
	cfg := config.Envs

	if err := logging.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logging.Sync()

	repositories.ConnectDatabase()
	if err := repositories.InitR2(
		cfg.R2.AccessKeyID, cfg.R2.SecretAccessKey, cfg.R2.AccountID,
		cfg.R2.BucketName, cfg.R2.Region, cfg.R2.PublicBaseURL,
	); err != nil {
		logging.L.Warnw("R2 unavailable, agent profiles will use DID URIs", "error", err)
	}

	v := vault.New(vault.NewGormStore(repositories.DB))
	v.Initialize()

	ctx := context.Background()
	dify := ai.NewDifyClient(cfg.Dify)
	gateway := ai.NewGateway(ctx, cfg.GeminiAPIKey, dify)

	h := handlers.New(
		v,
		chain.NewClient(cfg.Chain, v),
		gateway,
		geo.NewGeocoder(cfg.MapsAPIKey),
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(h),
		// Write stays generous: blocking Dify calls and streamed agent
		// replies can run for minutes.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	logging.L.Infow("Starting Twin City server", "port", cfg.Port, "chainId", cfg.Chain.ChainID)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.L.Fatalw("Could not start server", "port", cfg.Port, "error", err)
	}
}

package api

import (
	"fmt"
	"net/http"

	_ "github.com/rebeccawang123/twincity/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rebeccawang123/twincity/internal/api/handlers"
	"github.com/rebeccawang123/twincity/internal/api/middleware"
	"github.com/rebeccawang123/twincity/internal/config"
	"github.com/rebeccawang123/twincity/internal/logging"
	"github.com/rs/cors"
)

func SetupRouter(h *handlers.Handler) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("/sign-up", h.RegisterUser)
	authMux.HandleFunc("/login", h.LoginUser)
	authMux.HandleFunc("/google/login", h.HandleGoogleLogin)
	authMux.HandleFunc("/google/callback", h.HandleGoogleCallback)

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	identityMux := http.NewServeMux()
	identityMux.HandleFunc("GET /", h.ListIdentities)
	identityMux.HandleFunc("POST /", h.SaveIdentity)
	identityMux.HandleFunc("POST /reset", h.ResetVault)
	identityMux.HandleFunc("GET /{email}", h.GetIdentity)
	identityMux.HandleFunc("DELETE /{email}", h.DeleteIdentity)
	identityMux.HandleFunc("PATCH /{email}/metadata", h.PatchIdentityMetadata)
	identityMux.HandleFunc("GET /{email}/balances", h.GetBalances)
	identityMux.HandleFunc("GET /{email}/status", h.GetRegistrationStatus)
	identityMux.HandleFunc("POST /{email}/register", h.RegisterOnChain)

	chatMux := http.NewServeMux()
	chatMux.HandleFunc("POST /messages", h.SendMessage)
	chatMux.HandleFunc("GET /messages", h.GetMessages)
	chatMux.HandleFunc("POST /points/details", h.PointDetails)

	reputationMux := http.NewServeMux()
	reputationMux.HandleFunc("GET /has-rated", h.HasRated)
	reputationMux.HandleFunc("GET /by-email/{email}", h.GetReputationByEmail)
	reputationMux.HandleFunc("GET /{address}", h.GetReputation)
	reputationMux.HandleFunc("POST /feedback", h.SubmitFeedback)

	protectedMux.Handle("/identities/",
		http.StripPrefix("/identities", identityMux),
	)
	protectedMux.Handle("/chat/",
		http.StripPrefix("/chat", chatMux),
	)
	protectedMux.Handle("/reputation/",
		http.StripPrefix("/reputation", reputationMux),
	)
	protectedMux.HandleFunc("POST /transfers", h.Transfer)

	protectedMux.HandleFunc("/auth/logout", h.Logout)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	logging.L.Info("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}

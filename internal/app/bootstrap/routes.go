// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/hustler3848/devbook/internal/app/ai"
	assistfeature "github.com/hustler3848/devbook/internal/app/features/assist"
	authfeature "github.com/hustler3848/devbook/internal/app/features/auth"
	authgooglefeature "github.com/hustler3848/devbook/internal/app/features/authgoogle"
	healthfeature "github.com/hustler3848/devbook/internal/app/features/health"
	interactionsfeature "github.com/hustler3848/devbook/internal/app/features/interactions"
	profilefeature "github.com/hustler3848/devbook/internal/app/features/profile"
	snippetsfeature "github.com/hustler3848/devbook/internal/app/features/snippets"
	interactionstore "github.com/hustler3848/devbook/internal/app/store/interactions"
	"github.com/hustler3848/devbook/internal/app/store/oauthstate"
	snippetstore "github.com/hustler3848/devbook/internal/app/store/snippets"
	userstore "github.com/hustler3848/devbook/internal/app/store/users"
	"github.com/hustler3848/devbook/internal/app/system/auth"
	"github.com/hustler3848/devbook/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. DevBook's surface is a JSON API for the
// SPA frontend: password and Google sign-in, profiles, snippets, the
// star/save interactions, and the Gemini assist endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.DevBookMongoDatabase
	users := userstore.New(db)
	snippets := snippetstore.New(db)
	interactions := interactionstore.New(db)
	oauthStates := oauthstate.New(db)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	// This makes the acting user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.DevBookMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication: password endpoints plus the Google OAuth flow under
	// /auth/google.
	authHandler := authfeature.NewHandler(users, sessionMgr, ratelimit.NewSignInLimiter(), logger)
	authRouter := authfeature.Routes(authHandler)

	googleHandler := authgooglefeature.NewHandler(
		users, sessionMgr, oauthStates,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.FrontendURL, logger)
	authRouter.Mount("/google", authgooglefeature.Routes(googleHandler))
	r.Mount("/auth", authRouter)

	// Snippets: public feed and CRUD, with the star/save toggles attached to
	// the same /snippets tree.
	snippetHandler := snippetsfeature.NewHandler(snippets, users, interactions, logger)
	interactionHandler := interactionsfeature.NewHandler(db, snippets, interactions, logger)
	snippetRouter := snippetsfeature.Routes(snippetHandler, sessionMgr)
	interactionHandler.MountSnippetRoutes(snippetRouter, sessionMgr)
	r.Mount("/snippets", snippetRouter)

	// Public profile pages and per-user snippet lists.
	profileHandler := profilefeature.NewHandler(users, sessionMgr, logger)
	r.Route("/users", func(ur chi.Router) {
		profileHandler.MountUserRoutes(ur)
		snippetHandler.MountUserRoutes(ur)
	})

	// The signed-in user's own corner: profile, password, starred, saved.
	r.Route("/me", func(mr chi.Router) {
		mr.Use(sessionMgr.RequireSignedIn)
		profileHandler.MountMeRoutes(mr)
		authHandler.MountMeRoutes(mr)
		interactionHandler.MountMeRoutes(mr)
	})

	// Gemini assist endpoints, only when a key is configured.
	if appCfg.GeminiAPIKey != "" {
		assistant, err := ai.NewGemini(context.Background(), appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			logger.Error("gemini client init failed", zap.Error(err))
			return nil, err
		}
		assistHandler := assistfeature.NewHandler(assistant, logger)
		r.Mount("/assist", assistfeature.Routes(assistHandler, sessionMgr))
	} else {
		logger.Warn("gemini_api_key not set; assist endpoints disabled")
	}

	return r, nil
}

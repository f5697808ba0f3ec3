package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/accounts/register", handler.Register)
	mux.HandleFunc("POST /v1/accounts/auth", handler.Authenticate)
	// The addon carries the contest token in the report body, so event
	// submission authenticates inside the pipeline rather than in middleware.
	mux.HandleFunc("POST /v1/characters/events", handler.SubmitEvent)
	mux.HandleFunc("GET /v1/characters/{characterName}", handler.GetCharacter)
	mux.HandleFunc("GET /v1/leaderboard", handler.Leaderboard)
	mux.HandleFunc("GET /v1/catalog/event-types", handler.ListEventTypes)
	mux.HandleFunc("GET /v1/catalog/forbidden-zones", handler.ListForbiddenZones)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/accounts/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/catalog/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RefreshCatalog)))
}

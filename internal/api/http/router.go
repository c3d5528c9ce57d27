package http

import (
	"net/http"

	"nestio-backend/internal/security"
	"nestio-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires all handlers. Search and property detail are open to
// anonymous callers; everything mutating requires a token, except public
// application submission which accepts both.
func NewRouter(
	authSvc service.AuthService,
	propSvc service.PropertyService,
	appSvc service.ApplicationService,
	tokens security.TokenManager,
) *mux.Router {
	authHandler := NewAuthHandler(authSvc)
	propHandler := NewPropertyHandler(propSvc)
	appHandler := NewApplicationHandler(appSvc)

	r := mux.NewRouter()
	r.Use(Authenticate(tokens))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	api.HandleFunc("/properties", propHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/properties", RequireAuth(propHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/properties/{slug}", propHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/properties/{slug}", RequireAuth(propHandler.Update)).Methods(http.MethodPatch)
	api.HandleFunc("/properties/{slug}", RequireAuth(propHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/properties/{slug}/price-history", RequireAuth(propHandler.PriceHistory)).Methods(http.MethodGet)

	api.HandleFunc("/properties/{slug}/applications", appHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/properties/{slug}/applications", RequireAuth(appHandler.ListForProperty)).Methods(http.MethodGet)
	api.HandleFunc("/applications", RequireAuth(appHandler.ListMine)).Methods(http.MethodGet)
	api.HandleFunc("/applications/{slug}/status", RequireAuth(appHandler.Transition)).Methods(http.MethodPost)
	api.HandleFunc("/applications/{slug}/withdraw", RequireAuth(appHandler.Withdraw)).Methods(http.MethodPost)
	api.HandleFunc("/applications/{slug}", RequireAuth(appHandler.Update)).Methods(http.MethodPatch)

	return r
}

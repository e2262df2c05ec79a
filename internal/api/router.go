package api

import (
	"net/http"

	"github.com/erazemk/wastewise/internal/auth"
	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/store"
	"github.com/erazemk/wastewise/internal/telemetry"
)

// Deps holds everything the handlers need.
type Deps struct {
	Market      *market.Market
	Images      store.Images
	Revocations store.Revocations
	Sessions    *auth.Sessions
	JWTSecret   string
}

// NewRouter creates the API router with all endpoints registered. The
// returned handler logs and traces every request.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authn := &Authenticator{
		Market:      d.Market,
		Sessions:    d.Sessions,
		Revocations: d.Revocations,
		JWTSecret:   d.JWTSecret,
	}
	authHandler := &AuthHandler{
		Market:      d.Market,
		Sessions:    d.Sessions,
		Revocations: d.Revocations,
		JWTSecret:   d.JWTSecret,
	}
	usersHandler := &UsersHandler{Market: d.Market}
	itemsHandler := &ItemsHandler{Market: d.Market}
	chatsHandler := &ChatsHandler{Market: d.Market}
	centersHandler := &CentersHandler{Market: d.Market}
	eventsHandler := &EventsHandler{Market: d.Market}
	imagesHandler := &ImagesHandler{Images: d.Images}

	requireAuth := func(h http.HandlerFunc) http.Handler { return authn.Require(h) }

	// Accounts.
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/token", authHandler.Token)
	mux.Handle("POST /api/logout", requireAuth(authHandler.Logout))
	mux.Handle("GET /api/user", requireAuth(usersHandler.Me))
	mux.Handle("PATCH /api/user", requireAuth(usersHandler.UpdateMe))
	mux.HandleFunc("GET /api/users/{id}", usersHandler.Get)

	// Items.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.Handle("POST /api/items", requireAuth(itemsHandler.Create))
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.Handle("PATCH /api/items/{id}", requireAuth(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", requireAuth(itemsHandler.Delete))
	mux.HandleFunc("GET /api/users/{id}/items", itemsHandler.ListByUser)

	// Chats and messages.
	mux.Handle("POST /api/chats", requireAuth(chatsHandler.Create))
	mux.Handle("GET /api/users/{id}/chats", requireAuth(chatsHandler.ListByUser))
	mux.Handle("POST /api/messages", requireAuth(chatsHandler.CreateMessage))
	mux.Handle("GET /api/chats/{id}/messages", requireAuth(chatsHandler.Messages))

	// Disposal centers and events.
	mux.HandleFunc("GET /api/disposal-centers", centersHandler.List)
	mux.HandleFunc("GET /api/disposal-centers/{id}", centersHandler.Get)
	mux.HandleFunc("GET /api/events", eventsHandler.List)
	mux.HandleFunc("GET /api/events/{id}", eventsHandler.Get)

	// Listing photos.
	mux.Handle("POST /api/images", requireAuth(imagesHandler.Upload))
	mux.HandleFunc("GET /api/images/{id}", imagesHandler.Get)

	return telemetry.Middleware(LoggingMiddleware(mux))
}

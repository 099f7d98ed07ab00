package api

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sangeeta2003/BillBuddy/database"
	"github.com/sangeeta2003/BillBuddy/jwt"
	"github.com/sangeeta2003/BillBuddy/ledger"
	"github.com/sangeeta2003/BillBuddy/notify"
)

const jwtCookieName = "jwt-token"

type handler func(w http.ResponseWriter, r *http.Request)
type authenticatedHandler func(w http.ResponseWriter, r *http.Request, userID string)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// API holds the config and functionality for the HTTP REST/JSON API for
// the application
type API struct {
	db   database.Database // The authoritative data store
	sink notify.Sink       // Real-time notification fanout, best-effort
}

// serverPort is the TCP port the API listens on
var serverPort = flag.Int("server-port", 8080, "web server port")

// NewAPI creates a new instance of the HTTP REST/JSON API for the application
func NewAPI(db database.Database, sink notify.Sink) *API {
	return &API{db: db, sink: sink}
}

// writeJSON marshalls data into a response with content-type application/json
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes a status code plus a machine-readable kind and a
// human-readable message
func writeError(w http.ResponseWriter, code int, kind, message string) {
	writeJSON(w, code, errorResponse{Error: message, Kind: kind})
}

// respondError translates an error from the ledger or the database into an
// HTTP status and a taxonomy kind. Anything outside the taxonomy is logged
// and reported as a bare internal error, without leaking detail.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrSplitMismatch),
		errors.Is(err, ledger.ErrInvalidIdentifier):
		writeError(w, http.StatusBadRequest, ledger.Kind(err), err.Error())
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledger.ErrConflict), errors.Is(err, database.ErrDuplicate):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// parseID validates an opaque identifier before it reaches the storage
// layer. Identifiers are UUIDs.
func parseID(raw string) (string, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("%w: %q", ledger.ErrInvalidIdentifier, raw)
	}
	return raw, nil
}

// parseIDs validates a list of opaque identifiers and rejects duplicates
func parseIDs(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate user %s", ledger.ErrValidation, id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// lookupRefs resolves ids against the users table, failing with a
// not-found error when any id is unknown
func lookupRefs(dbh database.Handle, ids []string) ([]ledger.UserRef, error) {
	refs := make([]ledger.UserRef, len(ids))
	for i, id := range ids {
		user, err := dbh.GetUser(id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", ledger.ErrNotFound, id)
			}
			return nil, err
		}
		refs[i] = user.Ref()
	}
	return refs, nil
}

// requireAuth is a handler wrapper that ensures a user is authenticated.
// The userID is passed on to the next handler in the chain.
func (api *API) requireAuth(pass authenticatedHandler) handler {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(jwtCookieName)
		if err != nil {
			slog.Debug("Missing jwt cookie", "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "unauthorized", "authorization failed")
			return
		}

		userID, ok := jwt.VerifyToken(c.Value)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authorization failed")
			return
		}

		pass(w, r, userID)
	}
}

// requestLogger logs every request with its duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Handler returns the routed handler for the API
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signup", api.signup)
	mux.HandleFunc("POST /signin", api.signin)
	mux.HandleFunc("GET /users", api.requireAuth(api.getUsers))

	mux.HandleFunc("POST /expenses", api.requireAuth(api.postExpenses))
	mux.HandleFunc("GET /expenses", api.requireAuth(api.getExpenses))
	mux.HandleFunc("GET /expenses/{id}", api.requireAuth(api.getExpense))
	mux.HandleFunc("DELETE /expenses/{id}", api.requireAuth(api.deleteExpense))
	mux.HandleFunc("PATCH /expenses/{id}/status", api.requireAuth(api.updateSplitStatus))

	mux.HandleFunc("GET /balance", api.requireAuth(api.getBalance))
	mux.HandleFunc("GET /activity", api.requireAuth(api.getActivity))

	mux.HandleFunc("POST /settlements", api.requireAuth(api.postSettlements))
	mux.HandleFunc("GET /settlements", api.requireAuth(api.getSettlements))

	mux.HandleFunc("POST /groups", api.requireAuth(api.postGroups))
	mux.HandleFunc("GET /groups", api.requireAuth(api.getGroups))
	mux.HandleFunc("POST /groups/{id}/members", api.requireAuth(api.addGroupMembers))
	mux.HandleFunc("GET /groups/{id}/summary", api.requireAuth(api.getGroupSummary))
	mux.HandleFunc("GET /groups/{id}/settlements", api.requireAuth(api.getGroupSettlements))
	mux.HandleFunc("GET /groups/{id}/activity", api.requireAuth(api.getGroupActivity))
	mux.HandleFunc("POST /groups/{id}/chat", api.requireAuth(api.postChatMessage))
	mux.HandleFunc("GET /groups/{id}/chat", api.requireAuth(api.getChatMessages))

	mux.HandleFunc("GET /notifications", api.requireAuth(api.getNotifications))
	mux.HandleFunc("POST /notifications/{id}/read", api.requireAuth(api.markNotificationRead))

	return requestLogger(mux)
}

// Serve starts up the API on serverPort
func (api *API) Serve() {
	addr := fmt.Sprintf(":%d", *serverPort)
	slog.Info("Listening", "address", addr)
	if err := http.ListenAndServe(addr, api.Handler()); err != nil {
		slog.Error("Server failed", "error", err)
	}
}

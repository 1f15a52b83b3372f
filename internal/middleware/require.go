package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rohan/teamhub/internal/models"
	"github.com/rohan/teamhub/internal/policy"
	"github.com/rohan/teamhub/internal/store"
)

// RequireCapability gates a route on the capability table: the resolved
// actor is loaded from the store and policy.Authorize decides. No actor
// yields 401, a role without the capability yields 403. The loaded actor is
// placed in the request context for the handler.
func RequireCapability(st store.Store, op policy.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var actor *models.User
			if id := ActorID(r.Context()); id != "" {
				if u, err := st.FindUser(id); err == nil {
					actor = u
				}
			}

			if err := policy.Authorize(actor, op); err != nil {
				if errors.Is(err, policy.ErrUnauthorized) {
					writeDenied(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				writeDenied(w, http.StatusForbidden, "Forbidden: insufficient role")
				return
			}

			ctx := context.WithValue(r.Context(), ActorContextUserKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Actor returns the actor record loaded by RequireCapability, or nil on
// routes without a role gate.
func Actor(ctx context.Context) *models.User {
	if u, ok := ctx.Value(ActorContextUserKey).(*models.User); ok {
		return u
	}
	return nil
}

func writeDenied(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tenderdesk/tenderdesk/internal/common"
	"github.com/tenderdesk/tenderdesk/internal/proposal"
	"github.com/tenderdesk/tenderdesk/internal/sqlite"
)

type actorContextKey struct{}

// requireActor resolves the bearer token to an account and stashes the actor
// on the request context. Token issuance and session management live outside
// this service; the middleware only verifies ownership of a known token.
func (s *Server) requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Kind: "unauthorized", Error: errUnauthorized.Error()})
			return
		}
		user, err := s.store.UserByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, sqlite.ErrUnknownToken) {
				writeJSON(w, http.StatusUnauthorized, errorBody{Kind: "unauthorized", Error: errUnauthorized.Error()})
				return
			}
			common.Logger().Error("auth: token lookup failed", "error", err)
			writeError(w, err)
			return
		}
		actor := proposal.Actor{ID: user.ID, CompanyID: user.CompanyID}
		ctx := context.WithValue(r.Context(), actorContextKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) proposal.Actor {
	actor, _ := r.Context().Value(actorContextKey{}).(proposal.Actor)
	return actor
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

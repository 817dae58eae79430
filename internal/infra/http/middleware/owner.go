package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const OwnerHeader = "X-User-ID"

type ownerKey struct{}

// RequireOwner rejects requests without a valid owner id and stores the
// normalised id in the request context.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(OwnerHeader))
		id, err := uuid.Parse(raw)
		if raw == "" || err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "UNAUTHORIZED",
				"message": OwnerHeader + " header must be a valid UUID",
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), id.String())))
	})
}

func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

func OwnerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerKey{}).(string)
	return id, ok && id != ""
}

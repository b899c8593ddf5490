package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// lastActiveToucher is the slice of the user service the activity middleware
// needs.
type lastActiveToucher interface {
	TouchLastActive(ctx context.Context, id int64) error
}

// ActivityMiddleware refreshes the authenticated user's last-active stamp
// after each request. It must run inside AuthMiddleware.
func ActivityMiddleware(users lastActiveToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			userID := GetUserID(r.Context())
			if userID == 0 {
				return
			}
			// The response has already been written; the stamp update rides
			// on its own context.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := users.TouchLastActive(ctx, userID); err != nil {
					log.Error().Err(err).Int64("user_id", userID).Msg("Failed to update last active")
				}
			}()
		})
	}
}

package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const (
	ctxKeyAdmin ctxKey = iota
	ctxKeyChat
)

// chatMiddleware parses the {chatID} URL parameter.
func chatMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "chat id must be an integer")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyChat, chatID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminAuthMiddleware(admin AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			sess, err := admin.AdminFromSession(r.Context(), cookie.Value)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func chatFrom(r *http.Request) int64 {
	return r.Context().Value(ctxKeyChat).(int64)
}

func adminFrom(r *http.Request) adminSession {
	return r.Context().Value(ctxKeyAdmin).(adminSession)
}

package server

import (
	"errors"
	"net/http"
	"time"
)

var ErrNotFound = errors.New("not found")

var errNoAdminSession = errors.New("no valid admin session")

// adminSession identifies the admin behind a request.
type adminSession struct {
	AdminID string
	Email   string
}

const (
	adminCookieName = "admin_session"
	adminSessionTTL = 7 * 24 * time.Hour
)

// setAdminCookie stores sessionID in the admin cookie. An empty sessionID
// expires the cookie.
func setAdminCookie(w http.ResponseWriter, sessionID string) {
	maxAge := int(adminSessionTTL.Seconds())
	if sessionID == "" {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the one cookie name used for both setting and
// clearing the sealed session. JavaScript must never read it, so it is
// always HttpOnly; SameSite=Lax keeps cross-site POSTs from carrying it
// while still allowing top-level navigation.
const SessionCookieName = "remitwise_session"

func setSessionCookie(c *gin.Context, sealed string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, sealed, maxAge, "/", "", secure, true)
}

// clearSessionCookie instructs the client to delete the session cookie.
// gin writes MaxAge=0 for a -1 argument, which browsers treat as an
// immediate expiry.
func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

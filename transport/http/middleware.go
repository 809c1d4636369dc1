package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/remitwise/authgate/config"
	"github.com/remitwise/authgate/core"
	"github.com/remitwise/authgate/service"
)

// TrustedIdentityHeader carries a pre-authenticated wallet address from an
// upstream gateway. Only honored when TrustedHeaderAuth is enabled.
const TrustedIdentityHeader = "X-Wallet-Address"

const identityKey = "identity"

// Identity returns the authenticated identity set by AuthMiddleware, or ""
// on unwrapped routes.
func Identity(c *gin.Context) string {
	return c.GetString(identityKey)
}

// AuthMiddleware establishes the caller's identity before the wrapped
// handler runs. Credentials are tried in order: service bearer token,
// session cookie, trusted identity header. A request matching none of them
// is rejected with 401 and the handler never executes; failed auth mutates
// no session state.
func AuthMiddleware(cfg *config.Config, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AuthSecret != "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
				if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.AuthSecret)) == 1 {
					c.Set(identityKey, core.ServiceIdentity)
					c.Next()
					return
				}
			}
		}

		if sealed, err := c.Cookie(SessionCookieName); err == nil && sealed != "" {
			if session, err := authService.SessionFromToken(sealed); err == nil {
				c.Set(identityKey, session.Address)
				c.Next()
				return
			}
		}

		if cfg.TrustedHeaderAuth {
			if addr := c.GetHeader(TrustedIdentityHeader); common.IsHexAddress(addr) {
				c.Set(identityKey, addr)
				c.Next()
				return
			}
		}

		writeError(c, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
	}
}

// RecoveryMiddleware converts panics from wrapped handlers into HTTP
// responses. A *core.APIError keeps its own status and message, which lets
// downstream handlers abort a request with a caller-facing error without
// threading a return path through the middleware chain. Everything else
// becomes a generic 500 with detail going to the log only, never to the
// client.
func RecoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if err, ok := recovered.(error); ok {
			var apiErr *core.APIError
			if errors.As(err, &apiErr) {
				writeError(c, apiErr.Status, http.StatusText(apiErr.Status), apiErr.Message)
				return
			}
		}
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("handler panic")
		writeError(c, http.StatusInternalServerError, "Internal server error", "Internal server error")
	})
}

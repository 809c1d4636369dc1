package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/remitwise/authgate/config"
	"github.com/remitwise/authgate/core"
	"github.com/remitwise/authgate/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	cfg         *config.Config
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(cfg *config.Config, authService *service.AuthService, log zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		cfg:         cfg,
		authService: authService,
		log:         log,
	}
}

// Nonce issues a fresh challenge for an address. The address comes from the
// query string on GET and from the JSON body on POST; the body accepts both
// "address" and the legacy "publicKey" field name.
func (h *AuthHandlers) Nonce(c *gin.Context) {
	var address string

	if c.Request.Method == http.MethodGet {
		address = c.Query("address")
	} else {
		var req struct {
			Address   string `json:"address"`
			PublicKey string `json:"publicKey"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "Bad request", "address is required")
			return
		}
		address = req.Address
		if address == "" {
			address = req.PublicKey
		}
	}

	if address == "" {
		writeError(c, http.StatusBadRequest, "Bad request", "address is required")
		return
	}

	nonce, expiresAt, err := h.authService.IssueNonce(c.Request.Context(), address)
	if err != nil {
		h.respondError(c, err)
		return
	}

	noncesIssued.Inc()
	c.JSON(http.StatusOK, gin.H{
		"nonce":     nonce,
		"address":   address,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

// Login verifies a signed challenge and sets the session cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Bad request", "address, message, and signature are required")
		return
	}

	sealed, session, err := h.authService.Login(c.Request.Context(), req.Address, req.Message, req.Signature)
	if err != nil {
		loginsFailed.Inc()
		h.respondError(c, err)
		return
	}

	loginsSucceeded.Inc()
	setSessionCookie(c, sealed, int(h.authService.SessionTTL().Seconds()), h.cfg.Production)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"address": session.Address,
	})
}

// Logout clears the session cookie. It succeeds whether or not a valid
// session was presented.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if sealed, err := c.Cookie(SessionCookieName); err == nil {
		h.authService.Logout(c.Request.Context(), sealed)
	}

	logouts.Inc()
	clearSessionCookie(c, h.cfg.Production)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the identity established by the auth middleware.
func (h *AuthHandlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"address": Identity(c)})
}

// Authorize confirms the caller passed authentication.
func (h *AuthHandlers) Authorize(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"address":    Identity(c),
	})
}

// respondError maps service errors onto HTTP responses. Authentication
// failures stay deliberately generic so a caller cannot distinguish a
// missing nonce from a bad signature beyond what the flow already reveals.
func (h *AuthHandlers) respondError(c *gin.Context, err error) {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		writeError(c, apiErr.Status, http.StatusText(apiErr.Status), apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, core.ErrInvalidAddress):
		writeError(c, http.StatusBadRequest, "Bad request", "invalid account address")
	case errors.Is(err, core.ErrInvalidNonce):
		writeError(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired nonce")
	case errors.Is(err, core.ErrInvalidSignature):
		writeError(c, http.StatusUnauthorized, "Unauthorized", "Invalid signature")
	case errors.Is(err, core.ErrInvalidSession):
		writeError(c, http.StatusUnauthorized, "Unauthorized", "Not authenticated")
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		writeError(c, http.StatusInternalServerError, "Internal server error", "Internal server error")
	}
}

func writeError(c *gin.Context, status int, errLabel, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errLabel, "message": message})
}

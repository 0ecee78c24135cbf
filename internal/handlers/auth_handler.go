package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/estatehub/internal/auth"
	apierrors "github.com/stwalsh4118/estatehub/internal/errors"
	"github.com/stwalsh4118/estatehub/internal/models"
	"github.com/stwalsh4118/estatehub/internal/services"
)

// TokenSigner issues bearer tokens for an actor.
type TokenSigner interface {
	Sign(actor models.Actor) (string, time.Time, error)
}

// AssertionVerifier checks identity provider assertions.
type AssertionVerifier interface {
	Verify(assertion string) (*auth.IdentityClaims, error)
}

// AuthHandler exchanges identity provider assertions for bearer tokens.
type AuthHandler struct {
	profiles services.ProfileService
	verifier AssertionVerifier
	signer   TokenSigner
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(profiles services.ProfileService, verifier AssertionVerifier, signer TokenSigner) *AuthHandler {
	return &AuthHandler{
		profiles: profiles,
		verifier: verifier,
		signer:   signer,
	}
}

// SessionRequest is the signed identity assertion plus the role the user picked.
type SessionRequest struct {
	Assertion string      `json:"assertion" binding:"required"`
	Role      models.Role `json:"role" binding:"required"`
}

// SessionResponse carries the issued token and the signed-in profile.
type SessionResponse struct {
	ExpiresAt time.Time           `json:"expiresAt"`
	User      *models.UserProfile `json:"user"`
	Token     string              `json:"token"`
}

// CreateSession handles POST /api/v1/auth/session.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindError(c, err, "Invalid session request")
		return
	}

	claims, err := h.verifier.Verify(req.Assertion)
	if err != nil {
		apierrors.Unauthorized(c, "Identity assertion is invalid")
		return
	}

	identity := services.Identity{
		ID:       claims.Subject,
		Name:     claims.Name,
		Avatar:   claims.Avatar,
		Phone:    claims.Phone,
		Verified: claims.Verified,
		Roles:    claims.Roles,
	}
	profile, err := h.profiles.SignIn(c.Request.Context(), identity, req.Role)
	if err != nil {
		apierrors.FromDomain(c, err, "Failed to sign in")
		return
	}

	token, expiresAt, err := h.signer.Sign(profile.Actor())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      profile,
	})
}

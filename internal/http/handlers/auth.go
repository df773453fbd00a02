package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/rsvp-backend/internal/http/response"
	"github.com/yungbote/rsvp-backend/internal/services/auth"
)

type AuthHandler struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tok, err := ah.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		response.RespondDomainError(c, err, "invalid_credentials")
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": tok.AccessToken,
		"token_type":   tok.TokenType,
		"expires_at":   tok.ExpiresAt,
		"expires_in":   int(ah.authService.TokenTTL().Seconds()),
	})
}

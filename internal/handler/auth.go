package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oms-support/ticketdesk/internal/auth"
)

type AuthHandler struct {
	verifier *auth.Verifier
	jwtm     *auth.JWTManager
}

func NewAuthHandler(verifier *auth.Verifier, jwtm *auth.JWTManager) *AuthHandler {
	return &AuthHandler{verifier: verifier, jwtm: jwtm}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges the admin credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	if err := h.verifier.Verify(req.Username, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	token, err := h.jwtm.GenerateToken(req.Username, auth.RoleAdmin)
	if err != nil {
		log.Printf("handler: sign token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": auth.RoleAdmin})
}

// Me returns the claims behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": claims.Username, "role": claims.Role})
}

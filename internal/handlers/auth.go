package handlers

import (
	"net/http"

	"github.com/devmatch-hq/devmatch/internal/auth"
	"github.com/devmatch-hq/devmatch/internal/middlewares"
	"github.com/devmatch-hq/devmatch/internal/services"
	"github.com/gin-gonic/gin"
)

// Signup registers a new user and returns a bearer token.
func (h *Handlers) Signup(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken([]byte(h.cfg.JWTSecret), user.ID, h.cfg.TokenDuration)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *Handlers) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken([]byte(h.cfg.JWTSecret), user.ID, h.cfg.TokenDuration)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Logout exists for API symmetry. Tokens are stateless, so the client
// discards its copy; nothing is revoked server-side.
func (h *Handlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user.
func (h *Handlers) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middlewares.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

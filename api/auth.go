package api

import (
	"net/http"

	"github.com/alizada/flightbook/internal/auth"
	"github.com/alizada/flightbook/internal/domain"
	"github.com/alizada/flightbook/internal/service/users"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service users.UserUseCase
	tokens  *auth.Manager
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func NewAuthHandler(service users.UserUseCase, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
	router.GET("/me", RequireAuth(h.tokens), h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), users.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.sendToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, user)
}

func (h *AuthHandler) logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	respondMessage(c, http.StatusOK, "logged out")
}

func (h *AuthHandler) me(c *gin.Context) {
	actor := currentActor(c)
	user, err := h.service.GetByID(c.Request.Context(), actor.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

// sendToken issues the JWT as an httpOnly cookie and echoes it in the body
// for non-browser clients.
func (h *AuthHandler) sendToken(c *gin.Context, status int, user *domain.User) {
	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie("token", token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	respondData(c, status, authResponse{Token: token, User: user})
}

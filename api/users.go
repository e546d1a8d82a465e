package api

import (
	"net/http"
	"strconv"

	"github.com/alizada/flightbook/internal/auth"
	"github.com/alizada/flightbook/internal/domain"
	"github.com/alizada/flightbook/internal/service/users"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service users.UserUseCase
	tokens  *auth.Manager
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func NewUserHandler(service users.UserUseCase, tokens *auth.Manager) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.Use(RequireAuth(h.tokens))
	router.GET("/profile", h.profile)
	router.PUT("/profile", h.updateProfile)

	admin := router.Group("/", RequireRole(domain.RoleAdmin))
	admin.GET("/", h.list)
	admin.POST("/", h.create)
	admin.GET("/:id", h.get)
	admin.DELETE("/:id", h.delete)
	admin.PUT("/:id/role", h.updateRole)
}

func (h *UserHandler) profile(c *gin.Context) {
	actor := currentActor(c)
	user, err := h.service.GetByID(c.Request.Context(), actor.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	actor := currentActor(c)
	user, err := h.service.UpdateProfile(c.Request.Context(), actor.AccountID, users.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) list(c *gin.Context) {
	found, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, found, len(found))
}

func (h *UserHandler) create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	role := domain.Role(req.Role)
	if req.Role == "" {
		role = domain.RoleUser
	}
	user, err := h.service.CreateUser(c.Request.Context(), users.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, user)
}

func (h *UserHandler) get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "user deleted")
}

func (h *UserHandler) updateRole(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdateRole(c.Request.Context(), id, domain.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid user id")
		return 0, false
	}
	return id, true
}

package public

import (
	"errors"
	"strings"

	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
	CEP      string `json:"cep"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	Name string `json:"name"`
	CEP  string `json:"cep"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAuthService.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		CEP:      req.CEP,
	})
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrEmailTaken, code: response.CodeBadRequest, key: "error.email_taken"},
			{target: service.ErrInvalidCEP, code: response.CodeBadRequest, key: "error.invalid_cep"},
			{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.bad_request"},
		}, response.CodeInternal, "error.internal")
		return
	}

	token, expiresAt, err := h.UserAuthService.GenerateJWT(user)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("user_registered", "user_id", user.ID, "role", user.Role)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrLoginFailed) {
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// GetCurrentUser 当前登录用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserRepo.GetByID(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
		return
	}
	response.Success(c, user)
}

// UpdateUserProfile 更新用户资料
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserAuthService.UpdateProfile(uid, service.UpdateProfileInput{
		Name: req.Name,
		CEP:  req.CEP,
	})
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrInvalidCEP, code: response.CodeBadRequest, key: "error.invalid_cep"},
			{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
		}, response.CodeInternal, "error.profile_update_failed")
		return
	}
	response.Success(c, user)
}

package service

import (
	"strings"
	"time"

	"github.com/feira-next/internal/config"
	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// UserAuthService 购物端用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{cfg: cfg, userRepo: userRepo}
}

// UserClaims 购物端 JWT 声明
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	CEP      string
}

// Register 注册用户
func (s *UserAuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" || len(input.Password) < 8 {
		return nil, ErrInvalidInput
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = constants.UserRoleConsumer
	}
	if role != constants.UserRoleConsumer && role != constants.UserRoleProfessional {
		return nil, ErrInvalidInput
	}

	cep := ""
	if raw := strings.TrimSpace(input.CEP); raw != "" {
		normalized, err := NormalizeCEP(raw)
		if err != nil {
			return nil, err
		}
		cep = normalized
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CEP:          cep,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 用户登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil || !user.IsActive {
		return nil, "", time.Time{}, ErrLoginFailed
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrLoginFailed
	}
	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// GenerateJWT 生成购物端 Token
func (s *UserAuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.UserJWT.ExpireHours) * time.Hour)
	claims := UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT 解析购物端 Token
func (s *UserAuthService) ParseJWT(tokenString string) (*UserClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrLoginFailed
}

// UpdateProfileInput 资料更新输入
type UpdateProfileInput struct {
	Name string
	CEP  string
}

// UpdateProfile 更新资料
func (s *UserAuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if raw := strings.TrimSpace(input.CEP); raw != "" {
		cep, err := NormalizeCEP(raw)
		if err != nil {
			return nil, err
		}
		user.CEP = cep
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

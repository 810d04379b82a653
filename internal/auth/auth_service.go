package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "lms/internal/auth/errors"
	"lms/internal/shared/apperror"
	"lms/internal/shared/sanitize"
)

const (
	tokenTTL         = 7 * 24 * time.Hour
	minPasswordChars = 6

	pgUniqueViolation = "23505"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (UserResponse, error)
	Logout(ctx context.Context, rawToken string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	req.Name = sanitize.Clean(req.Name)
	req.Email = sanitize.Clean(req.Email)
	req.Department = sanitize.Clean(req.Department)
	req.Position = sanitize.Clean(req.Position)
	req.EmployeeCode = sanitize.Clean(req.EmployeeCode)
	req.Phone = sanitize.CleanPtr(req.Phone)

	if err := apperror.MissingRequired(
		apperror.Field{Name: "name", Value: req.Name},
		apperror.Field{Name: "email", Value: req.Email},
		apperror.Field{Name: "password", Value: req.Password},
		apperror.Field{Name: "department", Value: req.Department},
		apperror.Field{Name: "position", Value: req.Position},
		apperror.Field{Name: "employee_id", Value: req.EmployeeCode},
	); err != nil {
		s.logger.Warn("register validation failed", zap.Error(err))
		return AuthResponse{}, err
	}

	if len(req.Password) < minPasswordChars {
		return AuthResponse{}, autherrors.ErrPasswordTooShort
	}

	role := RoleOrDefault(req.Role)

	joiningDate := time.Now().UTC()
	if req.JoiningDate != "" {
		parsed, err := time.Parse("2006-01-02", req.JoiningDate)
		if err != nil {
			return AuthResponse{}, autherrors.ErrInvalidJoiningDate
		}
		joiningDate = parsed
	}

	exists, err := s.repo.EmailOrCodeExists(ctx, req.Email, req.EmployeeCode)
	if err != nil {
		s.logger.Error("register exists check failed", zap.Error(err))
		return AuthResponse{}, err
	}
	if exists {
		return AuthResponse{}, autherrors.ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	user := &User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         role,
		Department:   req.Department,
		Position:     req.Position,
		EmployeeCode: req.EmployeeCode,
		Phone:        req.Phone,
		JoiningDate:  joiningDate,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The exists pre-check races with concurrent registrations; the
		// unique indexes are the real guard.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return AuthResponse{}, autherrors.ErrUserAlreadyExists
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return AuthResponse{User: mapToUserResponse(*user), Token: token}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, sanitize.Clean(email))
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("user_id", user.ID.String()))
	return AuthResponse{User: mapToUserResponse(*user), Token: token}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToUserResponse(*user), nil
}

// Logout denylists the presented token until its natural expiry. Without a
// redis client (tests, minimal deployments) logout degrades to a no-op and
// the token simply ages out.
func (s *service) Logout(ctx context.Context, rawToken string) error {
	if s.rdb == nil || rawToken == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return autherrors.ErrInvalidToken
	}

	ttl := tokenTTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		return nil
	}

	return s.rdb.Set(ctx, DenylistKey(rawToken), "1", ttl).Err()
}

// DenylistKey is the redis key a revoked token is stored under. Hashing keeps
// key length bounded and avoids storing raw credentials in redis.
func DenylistKey(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return "auth:denylist:" + hex.EncodeToString(sum[:])
}

// RoleOrDefault normalizes the registration role, defaulting blank to
// employee. Unknown values are caught by the dto binding before this runs.
func RoleOrDefault(role string) string {
	if role == "" {
		return "employee"
	}
	return role
}

func (s *service) generateToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToUserResponse(u User) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Department:   u.Department,
		Position:     u.Position,
		EmployeeCode: u.EmployeeCode,
		Phone:        u.Phone,
		JoiningDate:  u.JoiningDate.Format("2006-01-02"),
	}
}

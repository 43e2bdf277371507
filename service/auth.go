package service

import (
	"context"
	"fmt"
	"strings"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/authz"
	"food-delivery-orders/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	log    *zap.Logger
	cost   int
}

func NewAuthService(users UserRepository, tokens TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account. Admin accounts cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(in.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "is required"})
	}
	if !strings.Contains(email, "@") {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "must be a valid email address"})
	}
	if len(in.Password) < minPasswordLength {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)})
	}
	role, ok := models.ParseRole(in.Role)
	if !ok || role == models.RoleAdmin {
		details = append(details, apperrors.ValidationDetail{Field: "role", Message: "must be one of customer, restaurant, driver"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", details...)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.NewConflictError("email already registered")
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}
	user := &models.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        in.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("userId", user.ID), zap.String("role", string(user.Role)))
	return s.session(user)
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	return s.session(user)
}

func (s *AuthService) Profile(ctx context.Context, actor authz.Actor) (*models.User, error) {
	return s.users.Get(ctx, actor.ID)
}

// Users lists accounts, optionally filtered by role. Admin only.
func (s *AuthService) Users(ctx context.Context, actor authz.Actor, role string) ([]models.User, error) {
	if err := authz.Can(actor, authz.ActionAdminView, authz.Resource{}); err != nil {
		return nil, err
	}
	var filter models.UserRole
	if role != "" {
		parsed, ok := models.ParseRole(role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid filter", apperrors.ValidationDetail{
				Field: "role", Message: fmt.Sprintf("unknown role %q", role),
			})
		}
		filter = parsed
	}
	return s.users.List(ctx, filter)
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	return &Session{Token: token, User: user}, nil
}

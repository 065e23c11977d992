package services

import (
	"errors"
	"strings"

	"swapboard/internal/auth"
	"swapboard/internal/domain"
	"swapboard/internal/repos"
	"swapboard/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.JWTService
}

func NewAuthService(users *repos.UserRepo, tokens *auth.JWTService) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Login checks credentials, opens a session and returns a bearer token bound
// to it.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	sid := uuid.NewString()
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return "", nil, err
	}
	tok, err := s.Tokens.GenerateToken(u.ID, sid)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Name     string `json:"name" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Register(in RegisterInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if !validate.Password(in.Password) {
		return nil, &domain.Error{
			Kind:   domain.ErrValidation,
			Msg:    "invalid input",
			Fields: map[string]string{"password": "must be 8-64 characters with upper, lower, digit and symbol"},
		}
	}
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := domain.User{ID: uuid.NewString(), Email: in.Email, Name: in.Name, Hash: string(h), Role: domain.RoleUser}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Profile returns the stored user record for id.
func (s *AuthService) Profile(id string) (*domain.User, error) {
	return s.Users.ByID(id)
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// Authenticate resolves a bearer token to its user and session id. Tokens of
// closed sessions are rejected.
func (s *AuthService) Authenticate(token string) (*domain.User, string, error) {
	claims, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return nil, "", err
	}
	u, err := s.Users.SessionUser(claims.SessionID)
	if err != nil {
		return nil, "", auth.ErrInvalidToken
	}
	if u.ID != claims.Subject {
		return nil, "", auth.ErrInvalidToken
	}
	return u, claims.SessionID, nil
}

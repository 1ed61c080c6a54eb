package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/larder/internal/auth"
)

// AuthService serves /api/login and /api/register.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Register handles POST /api/register.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	s.logger.Info("Register request", "email", req.Email)

	// Validate input
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	// Register user
	user, err := s.authenticator.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			s.logger.Warn("Registration rejected", "email", req.Email, "error", err)
			writeError(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		default:
			writeInternalError(w, r, s.logger, "Registration failed", err)
		}
		return
	}

	// Generate JWT token
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeInternalError(w, r, s.logger, "Failed to generate token", err)
		return
	}

	s.logger.Info("User registered successfully", "user_id", user.UserID, "email", user.Email)
	writeJSON(w, http.StatusCreated, authResponse{UserID: user.UserID, Email: user.Email, Token: token})
}

// Login handles POST /api/login. Unknown email and wrong password produce
// the same 401 body.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	s.logger.Info("Login request", "email", req.Email)

	// Validate input
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	// Authenticate user
	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("Login failed", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		writeInternalError(w, r, s.logger, "Login failed", err)
		return
	}

	// Generate JWT token
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		writeInternalError(w, r, s.logger, "Failed to generate token", err)
		return
	}

	s.logger.Info("User logged in successfully", "user_id", user.UserID, "email", user.Email)
	writeJSON(w, http.StatusOK, authResponse{UserID: user.UserID, Email: user.Email, Token: token})
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/pkg/password"
	"github.com/golang-jwt/jwt/v5"
)

// Service is the main auth service with dependencies
type Service struct {
	store          EmployeeStore
	tokenGenerator TokenGeneratorAPI
	hasher         password.Hasher
	logger         *slog.Logger
}

func NewService(store EmployeeStore, tokenGen TokenGeneratorAPI, hasher password.Hasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          store,
		tokenGenerator: tokenGen,
		hasher:         hasher,
		logger:         logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
		Issuer: "hr-core",
		Now:    time.Now,
	}
}

// Authenticate checks credentials, opens the store session for the employee
// and returns a signed access token.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (Session, error) {
	if err := dto.Validate(); err != nil {
		return Session{}, err
	}

	emp, ok := s.store.FindEmployeeByEmail(dto.Email)
	if !ok || emp.PasswordHash == "" {
		s.logger.Warn("login rejected", "reason", "unknown email")
		return Session{}, internal.ErrInvalidCredentials
	}
	if err := s.hasher.Verify(emp.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login rejected", "employee_id", emp.ID, "reason", "password mismatch")
		return Session{}, internal.ErrInvalidCredentials
	}
	if !emp.Active() {
		s.logger.Warn("login rejected", "employee_id", emp.ID, "reason", "inactive")
		return Session{}, internal.ErrUserInactive
	}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return Session{}, internal.NewInternalError("Failed to issue token", err)
	}
	if err := s.store.Login(ctx, emp.ID); err != nil {
		return Session{}, err
	}

	s.logger.Info("employee logged in", "employee_id", emp.ID, "role", emp.Role)
	return Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Employee:    emp.Principal(),
	}, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.store.Logout(ctx)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ResolvePrincipal reloads the employee so role and status changes apply to
// tokens issued before them.
func (s *Service) ResolvePrincipal(employeeID int64) (*user.Principal, error) {
	emp, err := s.store.GetEmployee(employeeID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if !emp.Active() {
		return nil, internal.ErrUserInactive
	}
	return emp.Principal(), nil
}

func (j *JWTTokenGenerator) now() time.Time {
	if j.Now == nil {
		return time.Now()
	}
	return j.Now()
}

func (j *JWTTokenGenerator) GenerateAccessToken(employeeID int64, email string, role user.Role) (string, time.Time, error) {
	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.TTL)

	claims := &Claims{
		EmployeeID: employeeID,
		Email:      email,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   strconv.FormatInt(employeeID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithIssuer(j.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.EmployeeID > 0 {
		return claims, nil
	}
	return nil, internal.ErrInvalidToken
}

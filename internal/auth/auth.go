package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/golang-jwt/jwt/v5"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (Session, error)
	Logout(ctx context.Context) error
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolvePrincipal(employeeID int64) (*user.Principal, error)
}

// EmployeeStore is the slice of the state store authentication needs.
type EmployeeStore interface {
	FindEmployeeByEmail(email string) (employee.Employee, bool)
	GetEmployee(id int64) (employee.Employee, error)
	Login(ctx context.Context, userID int64) error
	Logout(ctx context.Context) error
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(employeeID int64, email string, role user.Role) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Session is returned to a client after a successful login.
type Session struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Employee    *user.Principal `json:"employee"`
}

type Claims struct {
	EmployeeID int64     `json:"employee_id"`
	Email      string    `json:"email"`
	Role       user.Role `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Now    func() time.Time
}

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role distinguishes customer tokens from admin panel tokens.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether the role is one the platform issues.
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// AccessTokenClaims is the JWT payload for both customer and admin tokens.
type AccessTokenClaims struct {
	SubjectID uuid.UUID `json:"sub_id"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenPayload carries the values minted into a token.
type AccessTokenPayload struct {
	SubjectID uuid.UUID
	Role      Role
	Phone     string
}

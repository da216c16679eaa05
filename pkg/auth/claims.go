package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/mesaqr/mesaqr-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID  uint
	Username string
	Role     enums.AdminRole
}

// AccessTokenClaims represents the typed JWT issued to staff clients.
type AccessTokenClaims struct {
	AdminID  uint            `json:"admin_id"`
	Username string          `json:"username"`
	Role     enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"

	RolRecepcion     = "recepcion"
	RolSupervisor    = "supervisor"
	RolAdministrador = "administrador"
)

// JWTClaims are the custom claims embedded in every access token. Tokens are
// issued by the identity service; this API only verifies them.
type JWTClaims struct {
	UserID        string `json:"user_id"`
	InstitucionID string `json:"institucion_id"`
	Rol           string `json:"rol"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		if _, err := uuid.Parse(claims.InstitucionID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token sin institucion"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// GetInstitucionID returns the tenant of the request. JWTAuth has already
// validated the claim, so the parse cannot fail behind it.
func GetInstitucionID(c *gin.Context) uuid.UUID {
	id, _ := uuid.Parse(GetClaims(c).InstitucionID)
	return id
}

// SignToken mints an HS256 token. Used by cmd/gentoken and tests.
func SignToken(secret string, claims JWTClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

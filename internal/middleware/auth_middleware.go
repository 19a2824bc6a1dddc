package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/auth/errors"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// bearerToken pulls the JWT from the Authorization header, falling back to
// the access_token cookie set at login.
func bearerToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
		return token
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	response.Error(c, http.StatusUnauthorized, code, message, nil)
	c.Abort()
}

// AuthMiddleware validates the JWT and seeds the request context with the
// identity claims every downstream handler relies on.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid token claims")
			return
		}

		// Every API token carries these three. A token missing any of them
		// was not minted by our login path.
		for _, key := range []string{"user_id", "company_id", "employee_id"} {
			v, ok := claims[key].(string)
			if !ok || v == "" {
				abortUnauthorized(c, "INVALID_TOKEN", "Missing "+key+" claim")
				return
			}
			c.Set(key, v)
		}

		role, _ := claims["role"].(string)
		c.Set("role", role)

		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
	userRepo "github.com/tindev/tindev-app/internal/repository/user"
	"github.com/tindev/tindev-app/pkg/jwt"
)

// JWTMiddleware authenticates the request and stores the resolved user
// profile under "userProfile" for downstream handlers.
func JWTMiddleware(userRepo userRepo.IUserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "missing token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token format"})
			}

			claims, err := jwt.ValidateToken(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			userProfile, err := userRepo.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			c.Set("claims", claims)
			c.Set("userProfile", userProfile)

			return next(c)
		}
	}
}

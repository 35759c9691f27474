package serverutils

import (
	"errors"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errInvalidToken = errors.New("invalid token")

// ParseUserToken validates an HS256 token signed with JWT_SECRET and returns
// its user_id claim.
func ParseUserToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errInvalidToken
	}
	raw, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errInvalidToken
	}
	return userId, nil
}

func bearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(authHeader[7:]), true
}

func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr, ok := bearerToken(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("unauthorized", "Missing token"))
	}

	userId, err := ParseUserToken(tokenStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("unauthorized", "Invalid token"))
	}

	ctx.Locals("user_id", userId.String())
	return ctx.Next()
}

// OptionalJwtMiddleware sets user_id when a valid token is present and lets
// anonymous requests through. A malformed token is still rejected.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr, ok := bearerToken(ctx)
	if !ok {
		return ctx.Next()
	}

	userId, err := ParseUserToken(tokenStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("unauthorized", "Invalid token"))
	}

	ctx.Locals("user_id", userId.String())
	return ctx.Next()
}

// UserID reads the id stored by the JWT middlewares.
func UserID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, false
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return userId, true
}

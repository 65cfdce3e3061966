package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the token payload minted by the external identity
// provider. Only the subject user id is consumed here.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTMiddleware validates bearer tokens and stores user_id in locals.
// Token issuance lives with the identity provider; this service only
// verifies the shared-secret signature.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		parsed, err := parseClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid")
		}

		userID := claims.UserID
		if userID == "" {
			userID = claims.Subject
		}
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token missing subject")
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

var parseClaimsFn = jwt.ParseWithClaims

// PublisherMiddleware guards the delivery worker's surface (outcome
// callbacks, due listing). The worker authenticates with its own shared
// token; user JWTs do not pass here.
func PublisherMiddleware(token string) fiber.Handler {
	expected := []byte(token)
	return func(c *fiber.Ctx) error {
		presented := bearerFromHeader(c.Get("Authorization"))
		if token == "" || subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "publisher token required")
		}
		return c.Next()
	}
}

// OwnerID returns the authenticated user id set by JWTMiddleware.
func OwnerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"errors"
	"time"

	"gymflow-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"

	LocalOwnerId  = "owner_id"
	LocalMemberId = "member_id"
	LocalRole     = "role"
)

// Claims identify the caller. OwnerId is always set; MemberId only for member tokens.
type Claims struct {
	OwnerId  string `json:"owner_id"`
	MemberId string `json:"member_id,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token valid for ttl.
func IssueToken(secret string, ttl time.Duration, claims Claims) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// NewJwtMiddleware accepts a bearer token (or ?token= on websocket upgrades) and rejects
// roles outside the allowed set. No roles means any authenticated caller.
func NewJwtMiddleware(secret string, roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var tokenStr string
		authHeader := ctx.Get("Authorization")
		if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		} else if websocket.IsWebSocketUpgrade(ctx) {
			tokenStr = ctx.Query("token")
		}
		if tokenStr == "" {
			return HandleError(ctx, apperror.Unauthorized("Missing token"))
		}

		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			return HandleError(ctx, apperror.Unauthorized("Invalid token"))
		}

		if len(roles) > 0 && !contains(roles, claims.Role) {
			return HandleError(ctx, apperror.Forbidden("Not allowed for this account type"))
		}

		ctx.Locals(LocalOwnerId, claims.OwnerId)
		ctx.Locals(LocalMemberId, claims.MemberId)
		ctx.Locals(LocalRole, claims.Role)
		return ctx.Next()
	}
}

func OwnerIdFromCtx(ctx *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(ctx, LocalOwnerId)
}

func MemberIdFromCtx(ctx *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(ctx, LocalMemberId)
}

func uuidLocal(ctx *fiber.Ctx, key string) (uuid.UUID, error) {
	raw, ok := ctx.Locals(key).(string)
	if !ok || raw == "" {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}
	return id, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

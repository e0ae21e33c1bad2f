package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/auth"
	"github.com/gradglobe/counsel-api/utils/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuthMiddleware verifies identity-provider bearer tokens and attaches
// the resolved local user record to the request context.
type AuthMiddleware struct {
	verifier *auth.TokenVerifier
	db       *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier *auth.TokenVerifier, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		db:       db,
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Required is middleware that requires a valid identity-provider token.
// The local user record is provisioned from the token claims on first
// sight of the subject and updated on email conflict.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing or malformed authorization token")
		}

		claims, err := m.verifier.Verify(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		user, err := m.resolveUser(claims)
		if err != nil {
			return response.InternalServerError(c, "Failed to load user")
		}

		// Store user info and full user object in context
		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("claims", claims)
		c.Locals("user", user)

		return c.Next()
	}
}

// RequireAdmin requires a valid token AND the admin flag on the stored
// user record. The record is re-loaded fresh on every request so a
// revoked flag takes effect immediately; non-admins get 403 before any
// underlying query runs.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing or malformed authorization token")
		}

		claims, err := m.verifier.Verify(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		user, err := m.resolveUser(claims)
		if err != nil {
			return response.InternalServerError(c, "Failed to load user")
		}

		if !user.IsAdmin {
			return response.Forbidden(c, "Admin access required")
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("claims", claims)
		c.Locals("user", user)

		return c.Next()
	}
}

// resolveUser loads the local user row for a verified subject, creating
// it from the provider profile claims when absent.
func (m *AuthMiddleware) resolveUser(claims *auth.IdentityClaims) (*model.User, error) {
	var user model.User
	err := m.db.First(&user, "id = ?", claims.Subject).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	firstName, lastName := auth.SplitFullName(claims.FullName)
	user = model.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: firstName,
		LastName:  lastName,
	}

	err = m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name"}),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (string, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetClaims extracts identity claims from context
func GetClaims(c *fiber.Ctx) (*auth.IdentityClaims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.IdentityClaims)
	return claimsData, ok
}

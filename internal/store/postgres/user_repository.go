package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/model"
	"github.com/yourorg/trading-dashboard/internal/store"
)

// UserRepository handles database operations for users
type UserRepository struct {
	*Repository[model.User]
	jwtSecret []byte
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB, jwtSecret string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		Repository: &Repository[model.User]{
			db:       db,
			table:    "users",
			columns:  []string{"id", "full_name", "email", "role"},
			sortable: map[string]bool{"created_date": true, "email": true, "full_name": true},
			setID:    func(u *model.User, id string) { u.ID = id },
			logger:   logger,
		},
		jwtSecret: []byte(jwtSecret),
	}
}

// Me resolves the access token to a stored user
func (r *UserRepository) Me(ctx context.Context, token string) (*model.User, error) {
	userID, err := ParseAccessToken(r.jwtSecret, token)
	if err != nil {
		r.logger.Debug("token validation failed", zap.Error(err))
		return nil, store.ErrUnauthenticated
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUnauthenticated
		}
		r.logger.Error("failed to get user by ID", zap.Error(err), zap.String("id", userID))
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// ParseAccessToken validates an HS256 access token and returns its subject
func ParseAccessToken(secret []byte, tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	// Refresh tokens carry type "refresh"; tokens without a type are accepted
	if tokenType, _ := claims["type"].(string); tokenType != "" && tokenType != "access" {
		return "", errors.New("not an access token")
	}

	var subject string
	switch sub := claims["sub"].(type) {
	case string:
		subject = sub
	case float64:
		subject = fmt.Sprintf("%d", int64(sub))
	}
	if subject == "" {
		return "", errors.New("token has no subject")
	}

	return subject, nil
}

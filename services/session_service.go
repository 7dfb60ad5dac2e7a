package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourism-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultSessionTTL = 2 * time.Hour

// SessionClaims is what a session token proves about its bearer.
type SessionClaims struct {
	AccountID uint   `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (c SessionClaims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// SessionService issues and verifies HS256 session tokens. Logout is
// recorded in revoked_sessions so a stolen cookie stops working early.
type SessionService struct {
	DB      *gorm.DB
	Timeout time.Duration

	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(db *gorm.DB, secret []byte, ttl, timeout time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{DB: db, Timeout: timeout, secret: secret, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; used by tests to produce expired tokens.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Issue signs a token for account. It returns the token and its expiry.
func (s *SessionService) Issue(account *models.Account) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := SessionClaims{
		AccountID: account.ID,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(account.ID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w: %v", ErrInternal, err)
	}
	return token, expiresAt, nil
}

// Verify checks signature, algorithm, expiry and revocation, then reloads
// the account. A deleted account invalidates the token and the returned
// Role is the account's current one, not the role the token was issued with.
func (s *SessionService) Verify(ctx context.Context, tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || !models.ValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.RevokedSession{}).
		Where("jti = ?", claims.ID).
		Count(&count).Error; err != nil {
		return nil, dbError("check revoked session", err)
	}
	if count > 0 {
		return nil, ErrInvalidToken
	}

	var account models.Account
	err = s.DB.WithContext(ctx).Select("id", "role").First(&account, claims.AccountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, dbError("load session account", err)
	}
	claims.Role = account.Role
	return claims, nil
}

// Revoke invalidates the token identified by claims and prunes revocations
// whose tokens have expired on their own.
func (s *SessionService) Revoke(ctx context.Context, claims *SessionClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expires_at < ?", s.now().UTC()).Delete(&models.RevokedSession{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.RevokedSession{
			JTI:       claims.ID,
			ExpiresAt: claims.ExpiresAt.Time.UTC(),
		}).Error
	})
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return dbError("revoke session", err)
	}
	return nil
}

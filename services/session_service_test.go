package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tourism-backend/models"
	"tourism-backend/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func seedAccount(t *testing.T, db *gorm.DB, email, role string) *models.Account {
	t.Helper()
	account := &models.Account{Name: "Test", Surname: "User", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(account).Error)
	return account
}

func TestSessionIssueAndVerify(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionService(db, testSecret, time.Hour, time.Second)
	admin := seedAccount(t, db, "admin@example.com", models.RoleAdmin)

	token, expiresAt, err := sessions.Issue(admin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := sessions.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AccountID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, fmt.Sprint(admin.ID), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestSessionDefaultTTL(t *testing.T) {
	sessions := NewSessionService(nil, testSecret, 0, time.Second)
	assert.Equal(t, 2*time.Hour, sessions.ttl)
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	db := testutil.NewDB(t)
	issuedAt := time.Now().Add(-3 * time.Hour)
	old := NewSessionService(db, testSecret, 2*time.Hour, time.Second).WithClock(func() time.Time { return issuedAt })
	guest := seedAccount(t, db, "guest@example.com", models.RoleGuest)

	token, _, err := old.Issue(guest)
	require.NoError(t, err)

	sessions := NewSessionService(db, testSecret, 2*time.Hour, time.Second)
	_, err = sessions.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionRejectsForgedTokens(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionService(db, testSecret, time.Hour, time.Second)
	ctx := context.Background()

	token, _, err := sessions.Issue(&models.Account{ID: 1, Role: models.RoleGuest})
	require.NoError(t, err)

	otherKey := NewSessionService(db, []byte("another-secret-another-secret-xx"), time.Hour, time.Second)
	foreign, _, err := otherKey.Issue(&models.Account{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		AccountID: 1,
		Role:      models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, SessionClaims{
		AccountID: 1,
		Role:      models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "y",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		AccountID:        1,
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ID: "z"},
	}).SignedString(testSecret)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"tampered":       token[:len(token)-2] + "xx",
		"other secret":   foreign,
		"alg none":       unsigned,
		"other alg":      hs512,
		"without expiry": noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := sessions.Verify(ctx, tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSessionRevoke(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionService(db, testSecret, time.Hour, time.Second)
	ctx := context.Background()
	guest := seedAccount(t, db, "guest@example.com", models.RoleGuest)

	token, _, err := sessions.Issue(guest)
	require.NoError(t, err)
	other, _, err := sessions.Issue(guest)
	require.NoError(t, err)

	claims, err := sessions.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, sessions.Revoke(ctx, claims))
	require.NoError(t, sessions.Revoke(ctx, claims), "revoking twice is harmless")

	_, err = sessions.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = sessions.Verify(ctx, other)
	assert.NoError(t, err, "other sessions of the same account stay valid")
}

func TestSessionRevokePrunesExpired(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionService(db, testSecret, time.Hour, time.Second)
	require.NoError(t, db.Create(&models.RevokedSession{JTI: "stale", ExpiresAt: time.Now().Add(-time.Minute).UTC()}).Error)
	guest := seedAccount(t, db, "guest@example.com", models.RoleGuest)

	token, _, err := sessions.Issue(guest)
	require.NoError(t, err)
	claims, err := sessions.Verify(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, sessions.Revoke(context.Background(), claims))

	var jtis []string
	require.NoError(t, db.Model(&models.RevokedSession{}).Pluck("jti", &jtis).Error)
	assert.Equal(t, []string{claims.ID}, jtis)
}

func TestSessionFollowsAccountChanges(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionService(db, testSecret, time.Hour, time.Second)
	ctx := context.Background()
	admin := seedAccount(t, db, "admin@example.com", models.RoleAdmin)

	token, _, err := sessions.Issue(admin)
	require.NoError(t, err)

	require.NoError(t, db.Model(admin).Update("role", models.RoleGuest).Error)
	claims, err := sessions.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, claims.Role)
	assert.False(t, claims.IsAdmin(), "a demoted admin loses admin rights on the old token")

	require.NoError(t, db.Delete(&models.Account{}, admin.ID).Error)
	_, err = sessions.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionRejectsUnknownAccount(t *testing.T) {
	db := testutil.NewDB(t)
	sessions := NewSessionService(db, testSecret, time.Hour, time.Second)

	token, _, err := sessions.Issue(&models.Account{ID: 404, Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = sessions.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

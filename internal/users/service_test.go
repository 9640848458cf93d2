package users

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"naomitex/internal/apperrors"
	mydb "naomitex/internal/db"
	"naomitex/internal/mail"
	"naomitex/internal/models"
)

const baseURL = "http://localhost:8080"

func newTestService(t *testing.T) (*Service, *gorm.DB, *mail.Recorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mydb.Migrate(db))

	recorder := &mail.Recorder{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewService(db, recorder, baseURL, logger), db, recorder
}

func register(t *testing.T, svc *Service, email string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{Email: email, Password: "correct-horse"})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesInactiveUser(t *testing.T) {
	svc, _, recorder := newTestService(t)

	user := register(t, svc, "new@example.com")
	assert.False(t, user.IsActive)
	assert.Len(t, user.Token, 32)
	assert.Equal(t, user.Email, user.NewEmail)

	messages := recorder.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, []string{"new@example.com"}, messages[0].To)
	assert.Contains(t, messages[0].Body, baseURL+"/email_confirm/"+user.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{Email: "dup@example.com", Password: "correct-horse"})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestVerifyEmailActivates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "new@example.com")

	verified, err := svc.VerifyEmail(ctx, user.Token)
	require.NoError(t, err)
	assert.True(t, verified.IsActive)

	_, err = svc.Authenticate(ctx, "new@example.com", "correct-horse")
	assert.NoError(t, err)
}

func TestVerifyEmailWrongToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "new@example.com")

	_, err := svc.VerifyEmail(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = svc.VerifyEmail(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestAuthenticateGates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "new@example.com")

	// Inactive account cannot log in even with the right password.
	_, err := svc.Authenticate(ctx, "new@example.com", "correct-horse")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.VerifyEmail(ctx, user.Token)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "new@example.com", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestResetPassword(t *testing.T) {
	svc, _, recorder := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "new@example.com")
	_, err := svc.VerifyEmail(ctx, user.Token)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "new@example.com"))

	messages := recorder.Messages()
	require.Len(t, messages, 2) // confirmation + reset
	resetMail := messages[1]
	assert.Equal(t, "Password recovery", resetMail.Subject)

	// The mailed password is the new credential.
	password := extractPassword(t, resetMail.Body)
	_, err = svc.Authenticate(ctx, "new@example.com", password)
	assert.NoError(t, err)

	// The old one no longer works.
	_, err = svc.Authenticate(ctx, "new@example.com", "correct-horse")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

// extractPassword pulls the generated password out of the reset mail body:
// "Hello! Your access password has been changed: <pw>. Naomitex ..."
func extractPassword(t *testing.T, body string) string {
	t.Helper()
	_, rest, ok := strings.Cut(body, "changed: ")
	require.True(t, ok)
	require.GreaterOrEqual(t, len(rest), passwordLength)
	return rest[:passwordLength]
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.ResetPassword(context.Background(), "nobody@example.com")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestEmailChangeFlow(t *testing.T) {
	svc, _, recorder := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "old@example.com")
	_, err := svc.VerifyEmail(ctx, user.Token)
	require.NoError(t, err)

	pending, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{
		NewEmail: "next@example.com",
		Phone:    "+79990000000",
		Country:  "Russia",
	})
	require.NoError(t, err)
	assert.False(t, pending.IsActive, "a pending email change deactivates the account")
	assert.Equal(t, "old@example.com", pending.Email, "swap must not commit yet")
	assert.Equal(t, "next@example.com", pending.NewEmail)
	require.NotEmpty(t, pending.NewToken)

	messages := recorder.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, []string{"next@example.com"}, messages[1].To, "confirmation goes to the new address")

	confirmed, err := svc.ConfirmEmailChange(ctx, pending.NewToken)
	require.NoError(t, err)
	assert.True(t, confirmed.IsActive)
	assert.Equal(t, "next@example.com", confirmed.Email)
	assert.Empty(t, confirmed.NewToken)

	_, err = svc.Authenticate(ctx, "next@example.com", "correct-horse")
	assert.NoError(t, err)
}

func TestEmailChangeUnchangedEmailIsNoOp(t *testing.T) {
	svc, _, recorder := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "same@example.com")
	_, err := svc.VerifyEmail(ctx, user.Token)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{NewEmail: "same@example.com", Country: "Russia"})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "Russia", updated.Country)
	assert.Len(t, recorder.Messages(), 1, "no extra confirmation mail")
}

func TestConfirmEmailChangeWrongToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ConfirmEmailChange(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}
	for range 32 {
		password, err := GeneratePassword()
		require.NoError(t, err)
		assert.Len(t, password, passwordLength)
		for _, r := range password {
			assert.Contains(t, passwordAlphabet, string(r))
		}
		seen[password] = true
	}
	assert.Greater(t, len(seen), 1, "consecutive passwords must differ")
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

package jwt

import (
	"testing"
	"time"

	"campuscollab/internal/domain"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)
	token, err := svc.GenerateToken(42, domain.RoleTutor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleTutor, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestGenerate_RejectsUnknownRole(t *testing.T) {
	_, err := New("secret", time.Hour).GenerateToken(1, domain.UserRole("owner"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = New("secret", time.Hour).GenerateToken(0, domain.RoleStudent)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecretOrExpired(t *testing.T) {
	token, err := New("secret", time.Hour).GenerateToken(1, domain.RoleStudent)
	require.NoError(t, err)
	_, err = New("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := New("secret", -time.Minute).GenerateToken(1, domain.RoleStudent)
	require.NoError(t, err)
	_, err = New("secret", time.Hour).ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_ForeignClaims(t *testing.T) {
	sign := func(c Claims) string {
		s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}
	exp := jwtlib.NewNumericDate(time.Now().Add(time.Hour))
	svc := New("secret", time.Hour)

	cases := map[string]Claims{
		"other issuer": {UserID: 1, Role: domain.RoleStudent, RegisteredClaims: jwtlib.RegisteredClaims{Issuer: "elsewhere", ExpiresAt: exp}},
		"unknown role": {UserID: 1, Role: "owner", RegisteredClaims: jwtlib.RegisteredClaims{Issuer: issuer, ExpiresAt: exp}},
		"no expiry":    {UserID: 1, Role: domain.RoleStudent, RegisteredClaims: jwtlib.RegisteredClaims{Issuer: issuer}},
	}
	for name, c := range cases {
		_, err := svc.ValidateToken(sign(c))
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

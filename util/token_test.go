package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldops/opsreport/model"
)

func TestIssueAndVerifySessionToken(t *testing.T) {
	SetJWTSecret("test-secret-123")

	id := model.Identity{
		Email:   "admin@x.mil",
		Name:    "First Admin",
		IsAdmin: true,
	}

	token, err := IssueSessionToken(id, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := VerifySessionToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "admin@x.mil", claims.Email)
	assert.Equal(t, "First Admin", claims.Name)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "admin@x.mil", claims.Subject)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyExpiredSessionToken(t *testing.T) {
	SetJWTSecret("test-secret-123")

	token, err := IssueSessionToken(model.Identity{Email: "op@x.mil"}, -time.Minute)
	assert.NoError(t, err)

	_, err = VerifySessionToken(token)
	assert.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	SetJWTSecret("secret-one")
	token, err := IssueSessionToken(model.Identity{Email: "op@x.mil"}, time.Hour)
	assert.NoError(t, err)

	SetJWTSecret("secret-two")
	_, err = VerifySessionToken(token)
	assert.Error(t, err)
}

func TestVerifyMalformedToken(t *testing.T) {
	SetJWTSecret("test-secret-123")

	_, err := VerifySessionToken("not-a-token")
	assert.Error(t, err)

	_, err = VerifySessionToken("")
	assert.Error(t, err)
}

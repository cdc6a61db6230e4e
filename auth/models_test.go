package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "person@example.com", NormalizeEmail("  Person@Example.COM "))
	assert.Equal(t, "person@example.com", NormalizeEmail("person@example.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestUserLocked(t *testing.T) {
	user := &User{}
	assert.False(t, user.Locked())

	future := time.Now().Add(time.Minute)
	user.LockUntil = &future
	assert.True(t, user.Locked())

	past := time.Now().Add(-time.Minute)
	user.LockUntil = &past
	assert.False(t, user.Locked(), "an elapsed lock no longer counts")
}

func TestTokenExpired(t *testing.T) {
	token := &Token{ExpiresAt: time.Now().Add(time.Minute)}
	assert.False(t, token.Expired())

	token.ExpiresAt = time.Now().Add(-time.Minute)
	assert.True(t, token.Expired())
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty stays empty", in: "", want: ""},
		{name: "US number to E164", in: "(650) 253-0000", want: "+16502530000"},
		{name: "already E164", in: "+16502530000", want: "+16502530000"},
		{name: "unparseable kept as given", in: "not a phone", want: "not a phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePhone(tt.in))
		})
	}
}

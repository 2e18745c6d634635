package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationKeyLength(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32, 100} {
		assert.Len(t, NotificationKey(n), n)
	}
}

func TestNotificationKeyAlphabet(t *testing.T) {
	key := NotificationKey(256)
	for _, r := range key {
		assert.True(t, strings.ContainsRune(keyAlphabet, r), "unexpected character %q", r)
	}
}

func TestNotificationKeyVaries(t *testing.T) {
	assert.NotEqual(t, NotificationKey(32), NotificationKey(32))
}

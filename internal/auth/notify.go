package auth

import "math/rand"

const keyAlphabet = "abcdef0123456789"

// DefaultKeyLength matches the notification key length the mobile apps
// send.
const DefaultKeyLength = 32

// NotificationKey returns n characters drawn uniformly from the hex
// alphabet. The value is an opaque client-correlation token echoed back
// by the server during login; it is NOT a security credential, so a
// non-cryptographic source is deliberate here.
func NotificationKey(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = keyAlphabet[rand.Intn(len(keyAlphabet))]
	}
	return string(b)
}

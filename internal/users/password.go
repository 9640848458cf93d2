package users

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const passwordLength = 10

// passwordAlphabet mirrors letters + digits + the fixed punctuation set the
// reset flow draws from.
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// GeneratePassword returns a random 10-character password drawn from
// letters, digits and punctuation.
func GeneratePassword() (string, error) {
	out := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// NewToken returns an opaque 32-character hex token for email
// verification links.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

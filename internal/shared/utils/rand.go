package utils

import (
	"crypto/rand"
	"math/big"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandSeq returns n random alphanumerics.
func RandSeq(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	limit := big.NewInt(int64(len(letters)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b[i] = letters[i%len(letters)]
			continue
		}
		b[i] = letters[v.Int64()]
	}
	return string(b)
}

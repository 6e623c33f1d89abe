package security

import (
	"errors"

	"github.com/go-think/openssl"
)

var ErrBadKey = errors.New("aes key must be 16, 24 or 32 bytes")

func checkKey(key []byte) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	}
	return ErrBadKey
}

// AesCBCEncrypt encrypts src with AES-CBC. The ws handshake key doubles as the iv.
func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return openssl.AesCBCEncrypt(src, key, iv, padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	out, err := openssl.AesCBCDecrypt(src, key, iv, padding)
	if err != nil {
		return nil, err
	}
	if padding == openssl.ZEROS_PADDING {
		out = trimZeros(out)
	}
	return out, nil
}

func trimZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

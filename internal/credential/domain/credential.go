package domain

import (
	"image"
)

// Credential is an issued visitor pass: the packed token and its rendered QR image.
type Credential struct {
	Token string
	Image image.Image
}

// RedeemedCredential is the plaintext content recovered from a token.
type RedeemedCredential struct {
	ID      int64
	Phone   string
	Purpose string
}

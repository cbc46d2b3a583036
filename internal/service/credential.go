package service

import (
	"crypto/rand"
	"math/big"
)

// Unambiguous characters only: no 0/O, 1/l/I.
const credentialAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

const temporaryCredentialLength = 10

// CredentialGenerator issues the temporary password handed to new members.
type CredentialGenerator func() (string, error)

func generateTemporaryCredential() (string, error) {
	max := big.NewInt(int64(len(credentialAlphabet)))
	buf := make([]byte, temporaryCredentialLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = credentialAlphabet[n.Int64()]
	}
	return string(buf), nil
}

package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SharedSecretVerifier accepts one fixed secret for every account.
//
// Stub credential scheme: there are no per-user credentials. Replace it with
// a real identity provider before exposing the service outside a demo
// environment.
type SharedSecretVerifier struct {
	hash []byte
}

// NewSharedSecretVerifier hashes secret once so the plain value is not kept
// in memory. cost <= 0 selects bcrypt.DefaultCost.
func NewSharedSecretVerifier(secret string, cost int) (*SharedSecretVerifier, error) {
	if secret == "" {
		return nil, errors.New("shared secret must not be empty")
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return nil, fmt.Errorf("hash shared secret: %w", err)
	}
	return &SharedSecretVerifier{hash: hash}, nil
}

func (v *SharedSecretVerifier) Verify(secret string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(secret)) == nil
}

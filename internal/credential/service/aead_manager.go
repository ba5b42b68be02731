package service

import (
	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// Returns ErrInvalidKeySize if key is not 32 bytes or ErrUnsupportedAlgorithm if algorithm is unknown.
func (am *AEADManagerService) CreateCipher(key []byte, alg credentialDomain.Algorithm) (AEAD, error) {
	// Validate key size
	if len(key) != credentialDomain.KeySize {
		return nil, credentialDomain.ErrInvalidKeySize
	}

	// Create cipher based on algorithm
	switch alg {
	case credentialDomain.AESGCM:
		return NewAESGCM(key)
	case credentialDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, credentialDomain.ErrUnsupportedAlgorithm
	}
}

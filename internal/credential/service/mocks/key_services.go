// Package mocks provides mock implementations for testing credential services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
)

// MockKeyDeriver is a mock implementation of KeyDeriver for testing.
type MockKeyDeriver struct {
	mock.Mock
}

// Derive mocks the Derive method of KeyDeriver.
func (m *MockKeyDeriver) Derive(
	accountID credentialDomain.AccountID,
	factors credentialDomain.FactorDigestSet,
) ([]byte, error) {
	args := m.Called(accountID, factors)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Verify mocks the Verify method of KeyDeriver.
func (m *MockKeyDeriver) Verify(
	accountID credentialDomain.AccountID,
	factors credentialDomain.FactorDigestSet,
	expected []byte,
) bool {
	args := m.Called(accountID, factors, expected)
	return args.Bool(0)
}

// MockKeyWrapper is a mock implementation of KeyWrapper for testing.
type MockKeyWrapper struct {
	mock.Mock
}

// Wrap mocks the Wrap method of KeyWrapper.
func (m *MockKeyWrapper) Wrap(
	ctx context.Context,
	key []byte,
	ec credentialDomain.EncryptionContext,
) ([]byte, error) {
	args := m.Called(ctx, key, ec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Unwrap mocks the Unwrap method of KeyWrapper.
func (m *MockKeyWrapper) Unwrap(
	ctx context.Context,
	blob []byte,
	ec credentialDomain.EncryptionContext,
) ([]byte, error) {
	args := m.Called(ctx, blob, ec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Name mocks the Name method of KeyWrapper.
func (m *MockKeyWrapper) Name() string {
	args := m.Called()
	return args.String(0)
}

// Algorithm mocks the Algorithm method of KeyWrapper.
func (m *MockKeyWrapper) Algorithm() credentialDomain.Algorithm {
	args := m.Called()
	return args.Get(0).(credentialDomain.Algorithm)
}

// Close mocks the Close method of KeyWrapper.
func (m *MockKeyWrapper) Close() error {
	args := m.Called()
	return args.Error(0)
}

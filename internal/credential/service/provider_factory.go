package service

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	apperrors "github.com/allisson/credvault/internal/errors"
	"github.com/allisson/credvault/internal/securemem"
)

// WrapperOptions selects and configures the key wrapping provider.
type WrapperOptions struct {
	// KMSProvider labels the remote backend in logs (aws, gcp, azure, hashivault).
	KMSProvider string
	// KMSKeyURI selects the remote provider when non-empty.
	KMSKeyURI string
	// Timeout bounds each KMS round trip; zero disables the per-call deadline.
	Timeout time.Duration
	// LocalMasterKey is a standard-base64 encoded 32-byte key for the local
	// provider. Ignored when KMSKeyURI is set.
	LocalMasterKey string
	// Algorithm is the AEAD algorithm for envelope sealing.
	Algorithm credentialDomain.Algorithm
	// Identity is the provider identity context merged into every remote wrap.
	Identity credentialDomain.EncryptionContext
}

// NewKeyWrapper constructs the wrapping provider for the given options.
//
// Selection order: a KMS key URI wins, then an explicit local master key,
// then an ephemeral local key. The ephemeral fallback keeps development
// environments working with zero configuration.
func NewKeyWrapper(
	ctx context.Context,
	opts WrapperOptions,
	keeperService KeeperService,
	aeadManager AEADManager,
	logger *slog.Logger,
) (KeyWrapper, error) {
	if opts.KMSKeyURI != "" {
		keeper, err := keeperService.OpenKeeper(ctx, opts.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		wrapper, err := NewRemoteEnvelopeProvider(keeper, aeadManager, opts.Algorithm, opts.Identity, opts.Timeout, logger)
		if err != nil {
			_ = keeper.Close()
			return nil, err
		}
		logger.Info("remote key wrapping configured",
			slog.String("kms_provider", opts.KMSProvider),
			slog.String("algorithm", string(opts.Algorithm)))
		return wrapper, nil
	}

	if opts.LocalMasterKey != "" {
		masterKey, err := base64.StdEncoding.DecodeString(opts.LocalMasterKey)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "local master key must be standard base64")
		}
		wrapper, err := NewLocalEnvelopeProvider(masterKey, aeadManager, opts.Algorithm, logger)
		if err != nil {
			securemem.Wipe(masterKey)
			return nil, err
		}
		return wrapper, nil
	}

	return NewEphemeralLocalEnvelopeProvider(aeadManager, opts.Algorithm, logger)
}

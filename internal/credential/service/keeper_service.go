package service

import (
	"context"

	"gocloud.dev/secrets"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	apperrors "github.com/allisson/credvault/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// keeperService implements KeeperService using gocloud.dev/secrets.
type keeperService struct{}

// NewKeeperService creates a new keeper service instance.
func NewKeeperService() KeeperService {
	return &keeperService{}
}

// OpenKeeper opens a keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
// Returns a KMSKeeper which *secrets.Keeper implements. Open failures are
// classified as ErrProviderUnavailable so callers can distinguish reachability
// problems from cryptographic rejections.
func (k *keeperService) OpenKeeper(ctx context.Context, keyURI string) (credentialDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(credentialDomain.ErrProviderUnavailable, err.Error())
	}
	return keeper, nil
}

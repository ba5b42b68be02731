package app

import (
	"context"
	"fmt"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	credentialService "github.com/allisson/credvault/internal/credential/service"
	credentialUsecase "github.com/allisson/credvault/internal/credential/usecase"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() credentialService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = c.initAEADManager()
	})
	return c.aeadManager
}

// KeeperService returns the KMS keeper service.
func (c *Container) KeeperService() credentialService.KeeperService {
	c.keeperServiceInit.Do(func() {
		c.keeperService = c.initKeeperService()
	})
	return c.keeperService
}

// KeyDeriver returns the key derivation engine.
func (c *Container) KeyDeriver() (credentialService.KeyDeriver, error) {
	var err error
	c.keyDeriverInit.Do(func() {
		c.keyDeriver, err = c.initKeyDeriver()
		if err != nil {
			c.initErrors["keyDeriver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyDeriver"]; exists {
		return nil, storedErr
	}
	return c.keyDeriver, nil
}

// KeyWrapper returns the key wrapping provider selected by configuration.
func (c *Container) KeyWrapper() (credentialService.KeyWrapper, error) {
	var err error
	c.keyWrapperInit.Do(func() {
		c.keyWrapper, err = c.initKeyWrapper()
		if err != nil {
			c.initErrors["keyWrapper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyWrapper"]; exists {
		return nil, storedErr
	}
	return c.keyWrapper, nil
}

// CredentialUsecase returns the credential use case.
func (c *Container) CredentialUsecase() (credentialUsecase.CredentialUsecase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUsecase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// initAEADManager creates the AEAD manager service.
func (c *Container) initAEADManager() credentialService.AEADManager {
	return credentialService.NewAEADManager()
}

// initKeeperService creates the KMS keeper service.
func (c *Container) initKeeperService() credentialService.KeeperService {
	return credentialService.NewKeeperService()
}

// initKeyDeriver creates the key derivation engine from configuration.
func (c *Container) initKeyDeriver() (credentialService.KeyDeriver, error) {
	kdfAlgorithm, err := credentialDomain.ParseKDFAlgorithm(c.config.KDFAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kdf algorithm: %w", err)
	}

	params := credentialService.DefaultKDFParams()
	params.Algorithm = kdfAlgorithm
	params.Iterations = c.config.KDFIterations

	keyDeriver, err := credentialService.NewKDFService(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create kdf service: %w", err)
	}
	return keyDeriver, nil
}

// initKeyWrapper creates the key wrapping provider from configuration.
// Production environments must configure a remote KMS; the local provider is
// refused so a misconfigured deployment fails at startup instead of wrapping
// real credentials under a process-local key.
func (c *Container) initKeyWrapper() (credentialService.KeyWrapper, error) {
	if c.config.IsProduction() && c.config.KMSKeyURI == "" {
		return nil, credentialDomain.ErrLocalProviderInProduction
	}

	algorithm, err := credentialDomain.ParseAlgorithm(c.config.WrapAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wrap algorithm: %w", err)
	}

	opts := credentialService.WrapperOptions{
		KMSProvider:    c.config.KMSProvider,
		KMSKeyURI:      c.config.KMSKeyURI,
		Timeout:        c.config.ProviderTimeout,
		LocalMasterKey: c.config.LocalMasterKey,
		Algorithm:      algorithm,
		Identity: credentialDomain.EncryptionContext{
			credentialDomain.ContextKeyApplication: c.config.AppName,
			credentialDomain.ContextKeyVersion:     c.config.AppVersion,
			credentialDomain.ContextKeyPurpose:     credentialDomain.WrapPurpose,
		},
	}

	keyWrapper, err := credentialService.NewKeyWrapper(
		context.Background(),
		opts,
		c.KeeperService(),
		c.AEADManager(),
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create key wrapper: %w", err)
	}
	return keyWrapper, nil
}

// initCredentialUsecase creates the credential use case with all its dependencies.
func (c *Container) initCredentialUsecase() (credentialUsecase.CredentialUsecase, error) {
	keyDeriver, err := c.KeyDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key deriver for credential use case: %w", err)
	}

	keyWrapper, err := c.KeyWrapper()
	if err != nil {
		return nil, fmt.Errorf("failed to get key wrapper for credential use case: %w", err)
	}

	useCase := credentialUsecase.NewCredentialUsecase(keyDeriver, keyWrapper, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
		}
		useCase = credentialUsecase.NewCredentialUsecaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

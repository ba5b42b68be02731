package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	credentialUsecase "github.com/allisson/credvault/internal/credential/usecase"
)

// RunCheck exercises the full enroll/verify/update/delete cycle against the
// configured wrapping provider with random credential material. Rounds run
// concurrently so provider misbehavior under parallel load surfaces here
// rather than in production.
func RunCheck(
	ctx context.Context,
	useCase credentialUsecase.CredentialUsecase,
	logger *slog.Logger,
	w io.Writer,
	rounds, workers int,
) error {
	if rounds <= 0 {
		return fmt.Errorf("rounds must be greater than 0, got: %d", rounds)
	}
	if workers <= 0 {
		return fmt.Errorf("workers must be greater than 0, got: %d", workers)
	}

	logger.Info("starting self-check",
		slog.Int("rounds", rounds),
		slog.Int("workers", workers),
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < rounds; i++ {
		round := i + 1
		g.Go(func() error {
			if err := runCheckRound(groupCtx, useCase); err != nil {
				return fmt.Errorf("round %d: %w", round, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("self-check failed: %w", err)
	}

	fmt.Fprintf(w, "self-check passed: %d round(s) with %d concurrent worker(s)\n", rounds, workers)
	logger.Info("self-check completed", slog.Int("rounds", rounds))
	return nil
}

// runCheckRound runs one full credential lifecycle and verifies both the
// positive and the negative paths.
func runCheckRound(ctx context.Context, useCase credentialUsecase.CredentialUsecase) error {
	accountID := uuid.NewString()

	factors, err := randomFactorSet()
	if err != nil {
		return err
	}

	ec := credentialDomain.EncryptionContext{"purpose": "self-check"}

	enrollment, err := useCase.Enroll(ctx, accountID, factors, ec)
	if err != nil {
		return fmt.Errorf("enroll: %w", err)
	}

	if result := useCase.Verify(ctx, accountID, factors, enrollment.WrappedKey, enrollment.Context); !result.Success {
		return fmt.Errorf("expected verification to succeed with correct factors")
	}

	wrongFactors := credentialDomain.FactorDigestSet{}
	maps.Copy(wrongFactors, factors)
	wrongDigest, err := randomDigest()
	if err != nil {
		return err
	}
	wrongFactors["PIN"] = wrongDigest
	if result := useCase.Verify(ctx, accountID, wrongFactors, enrollment.WrappedKey, enrollment.Context); result.Success {
		return fmt.Errorf("expected verification to fail with wrong factors")
	}

	newFactors, err := randomFactorSet()
	if err != nil {
		return err
	}

	updated, err := useCase.Update(ctx, accountID, factors, newFactors, enrollment.WrappedKey, enrollment.Context)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if result := useCase.Verify(ctx, accountID, newFactors, updated.WrappedKey, updated.Context); !result.Success {
		return fmt.Errorf("expected verification to succeed with updated factors")
	}

	if result := useCase.Verify(ctx, accountID, factors, updated.WrappedKey, updated.Context); result.Success {
		return fmt.Errorf("expected old factors to fail against the updated blob")
	}

	if _, err := useCase.Delete(ctx, accountID, "self-check"); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}

// randomFactorSet builds a two-factor set with random digests.
func randomFactorSet() (credentialDomain.FactorDigestSet, error) {
	pin, err := randomDigest()
	if err != nil {
		return nil, err
	}
	pattern, err := randomDigest()
	if err != nil {
		return nil, err
	}
	return credentialDomain.FactorDigestSet{"PIN": pin, "PATTERN": pattern}, nil
}

// randomDigest returns a hex-encoded random 32-byte digest.
func randomDigest() (string, error) {
	digest := make([]byte, credentialDomain.KeySize)
	if _, err := rand.Read(digest); err != nil {
		return "", fmt.Errorf("failed to generate random digest: %w", err)
	}
	return hex.EncodeToString(digest), nil
}

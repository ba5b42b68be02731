package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	credentialUsecase "github.com/allisson/credvault/internal/credential/usecase"
)

// RunUpdate replaces enrolled factors after proving the current ones and
// prints the new enrollment. The previous wrapped key blob must be discarded
// by the caller once the new one is persisted.
func RunUpdate(
	ctx context.Context,
	useCase credentialUsecase.CredentialUsecase,
	logger *slog.Logger,
	w io.Writer,
	accountID string,
	oldFactorArgs, oldDigestArgs []string,
	newFactorArgs, newDigestArgs []string,
	wrappedKey string,
	contextArgs []string,
	format string,
) error {
	oldFactors, err := parseFactorArgs(oldFactorArgs, oldDigestArgs)
	if err != nil {
		return err
	}

	newFactors, err := parseFactorArgs(newFactorArgs, newDigestArgs)
	if err != nil {
		return err
	}

	ec, err := parseContextArgs(contextArgs)
	if err != nil {
		return err
	}

	enrollment, err := useCase.Update(ctx, accountID, oldFactors, newFactors, wrappedKey, ec)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	logger.Info("credential factors updated",
		slog.String("account_id", accountID),
		slog.Int("factor_count", enrollment.FactorCount),
	)

	if format == "json" {
		return writeJSON(w, enrollment)
	}

	fmt.Fprintf(w, "Account ID:   %s\n", enrollment.AccountID)
	fmt.Fprintf(w, "Wrapped key:  %s\n", enrollment.WrappedKey)
	fmt.Fprintf(w, "Factor count: %d\n", enrollment.FactorCount)
	fmt.Fprintln(w, "Replace the previously stored wrapped key with this one.")
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	credentialUsecase "github.com/allisson/credvault/internal/credential/usecase"
)

// ErrVerificationFailed reports a negative verification so the process exits
// non-zero. The printed result carries the same information.
var ErrVerificationFailed = errors.New("verification failed")

// RunVerify checks presented factor digests against a wrapped key blob and
// prints the uniform verification result.
func RunVerify(
	ctx context.Context,
	useCase credentialUsecase.CredentialUsecase,
	logger *slog.Logger,
	w io.Writer,
	accountID string,
	factorArgs, digestArgs []string,
	wrappedKey string,
	contextArgs []string,
	format string,
) error {
	factors, err := parseFactorArgs(factorArgs, digestArgs)
	if err != nil {
		return err
	}

	ec, err := parseContextArgs(contextArgs)
	if err != nil {
		return err
	}

	result := useCase.Verify(ctx, accountID, factors, wrappedKey, ec)

	logger.Info("verification completed",
		slog.String("account_id", accountID),
		slog.Bool("success", result.Success),
	)

	if format == "json" {
		if err := writeJSON(w, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, result.Message)
	}

	if !result.Success {
		return ErrVerificationFailed
	}
	return nil
}

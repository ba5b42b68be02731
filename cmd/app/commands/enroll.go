package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	credentialUsecase "github.com/allisson/credvault/internal/credential/usecase"
)

// RunEnroll derives and wraps a credential key from the given factor digests
// and prints the enrollment. The caller must persist the wrapped key blob and
// the printed context; the service keeps nothing.
func RunEnroll(
	ctx context.Context,
	useCase credentialUsecase.CredentialUsecase,
	logger *slog.Logger,
	w io.Writer,
	accountID string,
	factorArgs, digestArgs, contextArgs []string,
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

	enrollment, err := useCase.Enroll(ctx, accountID, factors, ec)
	if err != nil {
		return fmt.Errorf("failed to enroll credential: %w", err)
	}

	logger.Info("credential enrolled",
		slog.String("account_id", accountID),
		slog.Int("factor_count", enrollment.FactorCount),
		slog.String("provider", enrollment.Provider),
	)

	if format == "json" {
		return writeJSON(w, enrollment)
	}

	fmt.Fprintf(w, "Account ID:   %s\n", enrollment.AccountID)
	fmt.Fprintf(w, "Wrapped key:  %s\n", enrollment.WrappedKey)
	fmt.Fprintf(w, "Factor count: %d\n", enrollment.FactorCount)
	fmt.Fprintf(w, "Algorithm:    %s\n", enrollment.Algorithm)
	fmt.Fprintf(w, "Provider:     %s\n", enrollment.Provider)
	fmt.Fprintf(w, "Created at:   %s\n", enrollment.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w, "Context:")
	for _, key := range slices.Sorted(maps.Keys(enrollment.Context)) {
		fmt.Fprintf(w, "  %s=%s\n", key, enrollment.Context[key])
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	credentialUsecase "github.com/allisson/credvault/internal/credential/usecase"
)

// RunDelete acknowledges a credential deletion and prints the receipt. The
// service holds no state; the caller destroys the persisted wrapped key blob,
// which is what makes the credential key unrecoverable.
func RunDelete(
	ctx context.Context,
	useCase credentialUsecase.CredentialUsecase,
	logger *slog.Logger,
	w io.Writer,
	accountID string,
	reason string,
	format string,
) error {
	receipt, err := useCase.Delete(ctx, accountID, reason)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	logger.Info("credential deletion acknowledged",
		slog.String("account_id", accountID),
	)

	if format == "json" {
		return writeJSON(w, receipt)
	}

	fmt.Fprintf(w, "Account ID: %s\n", receipt.AccountID)
	if receipt.Reason != "" {
		fmt.Fprintf(w, "Reason:     %s\n", receipt.Reason)
	}
	fmt.Fprintf(w, "Deleted at: %s\n", receipt.DeletedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Note:       %s\n", receipt.Note)
	return nil
}

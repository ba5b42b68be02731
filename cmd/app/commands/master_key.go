package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	"github.com/allisson/credvault/internal/securemem"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for the local wrapping provider and prints it as an environment variable.
// Key material is wiped from memory after encoding.
//
// The local provider is for development only. Production deployments must
// configure a remote KMS through KMS_PROVIDER and KMS_KEY_URI instead.
func RunCreateMasterKey(w io.Writer) error {
	masterKey := make([]byte, credentialDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(masterKey)
	securemem.Wipe(masterKey)

	fmt.Fprintln(w, "# Local Master Key Configuration")
	fmt.Fprintln(w, "# Copy this environment variable to your .env file or secrets manager")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "LOCAL_MASTER_KEY=\"%s\"\n", encodedKey)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# The local provider is for development only.")
	fmt.Fprintln(w, "# Production deployments must configure a remote KMS:")
	fmt.Fprintln(w, "#   KMS_PROVIDER=\"gcpkms\" KMS_KEY_URI=\"gcpkms://projects/.../cryptoKeys/...\"")
	fmt.Fprintln(w, "#   KMS_PROVIDER=\"awskms\" KMS_KEY_URI=\"awskms:///alias/...\"")
	fmt.Fprintln(w, "#   KMS_PROVIDER=\"azurekeyvault\" KMS_KEY_URI=\"azurekeyvault://...\"")

	return nil
}

// Package commands contains CLI command implementations for the application.
package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// splitPair splits a NAME=VALUE argument on the first equals sign.
func splitPair(arg string) (string, string, error) {
	name, value, found := strings.Cut(arg, "=")
	if !found || name == "" {
		return "", "", fmt.Errorf("invalid argument %q, expected NAME=VALUE", arg)
	}
	return name, value, nil
}

// parseFactorArgs builds a factor digest set from --factor NAME=HEX pairs and
// --digest-from NAME=VALUE pairs. The latter hashes the raw value with SHA-256
// as a development convenience; production clients digest factors themselves.
func parseFactorArgs(factorArgs, digestArgs []string) (credentialDomain.FactorDigestSet, error) {
	factors := credentialDomain.FactorDigestSet{}

	for _, arg := range factorArgs {
		name, digest, err := splitPair(arg)
		if err != nil {
			return nil, err
		}
		if _, exists := factors[name]; exists {
			return nil, fmt.Errorf("duplicate factor %q", name)
		}
		factors[name] = digest
	}

	for _, arg := range digestArgs {
		name, value, err := splitPair(arg)
		if err != nil {
			return nil, err
		}
		if _, exists := factors[name]; exists {
			return nil, fmt.Errorf("duplicate factor %q", name)
		}
		sum := sha256.Sum256([]byte(value))
		factors[name] = hex.EncodeToString(sum[:])
	}

	return factors, nil
}

// parseContextArgs builds an encryption context from KEY=VALUE pairs.
// Returns nil for an empty list so callers can distinguish "no context".
func parseContextArgs(entries []string) (credentialDomain.EncryptionContext, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	ec := credentialDomain.EncryptionContext{}
	for _, entry := range entries {
		key, value, err := splitPair(entry)
		if err != nil {
			return nil, err
		}
		if _, exists := ec[key]; exists {
			return nil, fmt.Errorf("duplicate context key %q", key)
		}
		ec[key] = value
	}

	return ec, nil
}

// writeJSON writes the value as indented JSON for machine consumption.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

package gtm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadBody returns the JSON request body named by a --file flag value.
// "-" reads stdin so bodies can be piped straight from a previous get.
func ReadBody(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no request body: provide one with --file")
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return data, nil
}

// LoadResource reads a request body per ReadBody and unmarshals it into a
// fresh T, typically one of the generated Tag Manager resource types.
func LoadResource[T any](path string, stdin io.Reader) (*T, error) {
	data, err := ReadBody(path, stdin)
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("failed to parse request body %s: %w", bodySource(path), err)
	}
	return v, nil
}

func bodySource(path string) string {
	if path == "-" {
		return "from stdin"
	}
	return path
}

// PickFingerprint chooses the optimistic-concurrency fingerprint for an
// update call: an explicit --fingerprint flag wins over the fingerprint
// carried in the request body.
func PickFingerprint(flagValue, bodyValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return bodyValue
}

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestAPIErrorFlattensGoogleAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with server message",
			err:  &googleapi.Error{Code: 404, Message: "container not found"},
			want: "failed to get container: container not found (HTTP 404)",
		},
		{
			name: "without server message",
			err:  &googleapi.Error{Code: 403},
			want: "failed to get container: HTTP 403",
		},
		{
			name: "wrapped googleapi error",
			err:  fmt.Errorf("request: %w", &googleapi.Error{Code: 400, Message: "bad fingerprint"}),
			want: "failed to get container: bad fingerprint (HTTP 400)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apiError("failed to get container", tt.err)
			if got.Error() != tt.want {
				t.Errorf("apiError() = %q, want %q", got.Error(), tt.want)
			}
		})
	}
}

func TestAPIErrorWrapsOtherErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := apiError("failed to list accounts", cause)
	if !errors.Is(err, cause) {
		t.Error("apiError() should wrap the cause for errors.Is")
	}
	if !strings.Contains(err.Error(), "failed to list accounts") {
		t.Errorf("apiError() = %q, should contain the operation", err.Error())
	}
}

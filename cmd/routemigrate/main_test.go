package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"routemigrate/internal/services"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		want       int
		wantStderr bool
	}{
		{name: "success", err: nil, want: exitOK},
		{name: "failure", err: errors.New("boom"), want: exitFailure, wantStderr: true},
		{name: "configuration", err: fmt.Errorf("%w: bad", services.ErrConfiguration), want: exitConfiguration, wantStderr: true},
		{name: "canceled", err: fmt.Errorf("run: %w", context.Canceled), want: exitFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := exitCode(tc.err, &stderr); got != tc.want {
				t.Fatalf("exitCode = %d, want %d", got, tc.want)
			}
			if (stderr.Len() > 0) != tc.wantStderr {
				t.Fatalf("stderr = %q, wantStderr %v", stderr.String(), tc.wantStderr)
			}
		})
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading config: %w", ErrInvalidConfig), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap_PreservesSentinel(t *testing.T) {
	err := Wrapf(ErrUnknownAgent, "resolving %q", "bogus")
	if !Is(err, ErrUnknownAgent) {
		t.Fatalf("Is(%v, ErrUnknownAgent) = false", err)
	}
	if got, want := err.Error(), `resolving "bogus": unknown agent`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if Wrap(nil, "noop") != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestMalformed(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := Malformed(cause, "parsing .mcp.json")
	if !Is(err, ErrMalformedData) {
		t.Errorf("Malformed() should be marked ErrMalformedData")
	}
	if Malformed(nil, "x") != nil {
		t.Error("Malformed(nil) should be nil")
	}
}

func TestIOError(t *testing.T) {
	err := NewIOError("/tmp/x", os.ErrPermission)
	var ioErr *IOError
	if !As(err, &ioErr) {
		t.Fatal("expected *IOError")
	}
	if ioErr.Path != "/tmp/x" {
		t.Errorf("Path = %q", ioErr.Path)
	}
	if !Is(err, os.ErrPermission) {
		t.Error("IOError should unwrap to its cause")
	}
	if NewIOError("/tmp/x", nil) != nil {
		t.Error("NewIOError(nil) should be nil")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantHint bool
	}{
		{"directory missing", Wrap(ErrDirectoryMissing, "sync demo"), ExitUser, true},
		{"unknown agent", ErrUnknownAgent, ExitUser, true},
		{"invalid name", ErrInvalidName, ExitUser, false},
		{"io failure", NewIOError("/x", os.ErrPermission), ExitSystem, false},
		{"hint carried", WithHint(New("boom"), "try again"), ExitSystem, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", got.Code, tt.wantCode)
			}
			if (got.Suggestion != "") != tt.wantHint {
				t.Errorf("Suggestion = %q, wantHint %v", got.Suggestion, tt.wantHint)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}

	exit := NewUserError(ErrNotFound, "look elsewhere")
	if Classify(exit) != exit {
		t.Error("Classify should pass an ExitError through unchanged")
	}
}

package apperrors

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "doc_ids",
				Message: "cannot be empty",
			},
			want: "validation error on field doc_ids: cannot be empty",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissingConfig(t *testing.T) {
	err := MissingConfig("SLACK_WEBHOOK_URL")
	if !errors.Is(err, ErrConfig) {
		t.Errorf("MissingConfig() should wrap ErrConfig, got %v", err)
	}
	if err.Error() != "configuration error: SLACK_WEBHOOK_URL is not set" {
		t.Errorf("MissingConfig() message = %q", err.Error())
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrapped error",
			err:     errors.New("original error"),
			msg:     "context",
			wantMsg: "context: original error",
		},
		{
			name:    "wrapped sentinel",
			err:     ErrRetrieval,
			msg:     "open document",
			wantMsg: "open document: retrieval error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapError(tt.err, tt.msg)
			if tt.wantNil {
				if got != nil {
					t.Errorf("WrapError() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("WrapError() = %v, want %v", got.Error(), tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Error("WrapError() should preserve the wrapped error")
			}
		})
	}
}

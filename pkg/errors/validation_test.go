package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "title", false},
		{"dashes", "ok-button_2", false},
		{"unicode", "título", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
		{"space", "ok button", true},
		{"tab", "ok\tbutton", true},
		{"control char", "ok\x01", true},
		{"dot", "ok.left", true},
		{"quote", `ok"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize("a", "width", 0); err != nil {
		t.Errorf("ValidateSize(0) = %v", err)
	}
	if err := ValidateSize("a", "width", -1); !Is(err, ErrCodeInvalidDocument) {
		t.Errorf("ValidateSize(-1) = %v, want INVALID_DOCUMENT", err)
	}
}

func TestValidateFraction(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1} {
		if err := ValidateFraction("a", "bias", v); err != nil {
			t.Errorf("ValidateFraction(%g) = %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.5} {
		if err := ValidateFraction("a", "bias", v); err == nil {
			t.Errorf("ValidateFraction(%g) = nil, want error", v)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidDocument,
		ErrCodeInvalidAnchor,
		ErrCodeInvalidID,
		ErrCodeInvalidFormat,
		ErrCodeUnknownWidget,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{"pretty", false},
		{"csv", false},
		{"json", false},
		{"", true},
		{"JSON", true},
		{" csv ", true},
		{"yaml", true},
		{"prettyprint", true},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateOutputFormat(%q) expected error but got none", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateOutputFormat(%q) unexpected error: %v", tt.format, err)
			}
		})
	}
}

func TestValidateOutputFormatMessageListsChoices(t *testing.T) {
	err := ValidateOutputFormat("yaml")
	if err == nil {
		t.Fatal("ValidateOutputFormat(yaml) expected error but got none")
	}
	for _, choice := range []string{"pretty", "csv", "json", "yaml"} {
		if !strings.Contains(err.Error(), choice) {
			t.Errorf("error %q should mention %s", err.Error(), choice)
		}
	}
}

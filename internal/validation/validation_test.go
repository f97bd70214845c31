package validation

import (
	"strings"
	"testing"
)

func TestValidateStruct(t *testing.T) {
	type Input struct {
		Port     int `env:"SERVER_PORT" validate:"gte=1,lte=65535"`
		Quality  int `env:"JPEG_QUALITY" validate:"gte=30,lte=100"`
		Untagged int `validate:"gte=0"`
	}

	tests := []struct {
		name      string
		in        Input
		wantErr   bool
		wantParts []string
	}{
		{
			name:    "success",
			in:      Input{Port: 8080, Quality: 82},
			wantErr: false,
		},
		{
			name:      "one violation named by env key",
			in:        Input{Port: 0, Quality: 82},
			wantErr:   true,
			wantParts: []string{`SERVER_PORT violates "gte=1"`},
		},
		{
			name:    "multiple violations all reported",
			in:      Input{Port: 99999, Quality: 5},
			wantErr: true,
			wantParts: []string{
				`JPEG_QUALITY violates "gte=30"`,
				`SERVER_PORT violates "lte=65535"`,
			},
		},
		{
			name:      "untagged field falls back to its Go name",
			in:        Input{Port: 8080, Quality: 82, Untagged: -1},
			wantErr:   true,
			wantParts: []string{`Untagged violates "gte=0"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, part := range tt.wantParts {
				if !strings.Contains(err.Error(), part) {
					t.Errorf("error %q should contain %q", err.Error(), part)
				}
			}
		})
	}
}

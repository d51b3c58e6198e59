package semver

import "testing"

func TestIsMajorOnly(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"10", true},
		{"0", true},
		{"1.0.0", false},
		{"^1.0.0", false},
		{"~1.2.0", false},
		{"", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := IsMajorOnly(tt.input)
			if got != tt.want {
				t.Errorf("IsMajorOnly(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsExactVersion(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1.0.0", true},
		{"0.0.0", true},
		{"1.2.3-alpha.1", true},
		{"1.2.3+build.123", true},
		{"1", false},
		{"1.2", false},
		{"^1.2.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := IsExactVersion(tt.input)
			if got != tt.want {
				t.Errorf("IsExactVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractMajor(t *testing.T) {
	if got := ExtractMajor("2"); got != 2 {
		t.Errorf("ExtractMajor(2) = %d", got)
	}
	if got := ExtractMajor("^2.0.0"); got != -1 {
		t.Errorf("ExtractMajor(^2.0.0) = %d, want -1", got)
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1", false},
		{"^1.0.0", false},
		{">=1.0.0 <2.0.0", false},
		{"1.x", false},
		{"", true},
		{"not a range", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	if err := ValidateVersion("1.0.0"); err != nil {
		t.Errorf("ValidateVersion(1.0.0) = %v", err)
	}
	if err := ValidateVersion("1"); err == nil {
		t.Error("expected error for major-only version")
	}
}

package db

import "testing"

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "deploy", want: "deploy"},
		{in: "100%", want: `100\%`},
		{in: "snake_case", want: `snake\_case`},
		{in: `C:\tmp`, want: `C:\\tmp`},
		{in: `%_\`, want: `\%\_\\`},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("db:repository_test - escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

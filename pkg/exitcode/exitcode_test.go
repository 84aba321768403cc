package exitcode

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{PlanError, "Migration plan error"},
		{ValidationFailed, "Scaffold validation failed"},
		{ConflictError, "Merge conflict detected"},
		{FileSystemError, "File system error"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		if got := String(tt.code); got != tt.want {
			t.Errorf("String(%d) = %q, expected %q", tt.code, got, tt.want)
		}
	}
}

func TestCodesAreDistinct(t *testing.T) {
	codes := []int{Success, GeneralError, ConfigError, PlanError, ValidationFailed, ConflictError, FileSystemError}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
	}
}

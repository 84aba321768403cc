// Package exitcode provides standardized exit codes for remold
package exitcode

// Exit codes for the remold CLI
const (
	Success          = 0
	GeneralError     = 1
	ConfigError      = 2
	PlanError        = 3
	ValidationFailed = 4
	ConflictError    = 5
	FileSystemError  = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case PlanError:
		return "Migration plan error"
	case ValidationFailed:
		return "Scaffold validation failed"
	case ConflictError:
		return "Merge conflict detected"
	case FileSystemError:
		return "File system error"
	default:
		return "Unknown error"
	}
}

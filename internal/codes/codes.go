package codes

// Exit codes shared by compiler errors and the spvc process
const (
	Success       = 0
	GeneralError  = 100
	LoadError     = 101
	WriteError    = 102
	UsageError    = 103
	ManifestError = 104
	CompileErrors = 106
)

// ErrorCodes maps spvc exit codes to their descriptions
var ErrorCodes = map[int]string{
	Success:       "Success",
	GeneralError:  "General failure",
	LoadError:     "Cannot open source file",
	WriteError:    "Cannot write SPIR-V artifact",
	UsageError:    "Invalid arguments",
	ManifestError: "Invalid shader manifest",
	CompileErrors: "Compile errors",
}

// IsSuccess returns true if the exit code indicates successful compilation
func IsSuccess(code int) bool {
	return code == Success
}

// GetErrorMessage returns the error message for a given exit code, or a generic message if unknown
func GetErrorMessage(code int) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}

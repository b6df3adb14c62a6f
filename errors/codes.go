package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E2xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Closing bracket with no matching open
	E2002 ErrorCode = "E2002" // Open bracket never closed

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Data pointer underflow
	E3002 ErrorCode = "E3002" // Data pointer overflow
	E3003 ErrorCode = "E3003" // Input read without an input source
	E3004 ErrorCode = "E3004" // Input or output stream failure
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E2001: "bracket mismatch",
	E2002: "unmatched opening bracket",

	E3001: "pointer underflow",
	E3002: "pointer overflow",
	E3003: "input not implemented",
	E3004: "i/o error",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '2':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}

// Sentinel returns the sentinel error matched by errors.Is for the code.
func (c ErrorCode) Sentinel() error {
	switch c {
	case E2001:
		return ErrBracketMismatch
	case E2002:
		return ErrUnmatchedOpen
	case E3001:
		return ErrPointerUnderflow
	case E3002:
		return ErrPointerOverflow
	case E3003:
		return ErrUnimplementedInput
	case E3004:
		return ErrIO
	default:
		return nil
	}
}

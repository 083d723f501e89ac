package traffic

import "fmt"

// UnreadableFileError indicates the uploaded bytes could not be decoded by
// any supported encoding, or did not parse as tabular data afterwards.
type UnreadableFileError struct {
	Err error
}

func (e *UnreadableFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable file: %v", e.Err)
	}
	return "unreadable file"
}

func (e *UnreadableFileError) Unwrap() error { return e.Err }

// MissingColumnError indicates a required column is absent after header
// names have been whitespace-trimmed. Matching is exact, no case folding.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found", e.Column)
}

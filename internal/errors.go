package internal

import "fmt"

// Error codes. Keep stable; they show up in the fatal error line.
const (
	ErrCodeProfileNotFound      = "eventpush.profile_not_found"
	ErrCodeProfileNotAssumable  = "eventpush.profile_not_assumable"
	ErrCodeAuthenticationFailed = "eventpush.authentication_failed"
	ErrCodeDirectoryUnavailable = "eventpush.directory_unavailable"
	ErrCodeFileRead             = "eventpush.file_read"
	ErrCodeMalformedEvent       = "eventpush.malformed_event"
	ErrCodeTransport            = "eventpush.transport"
)

// Code returns an error value that carries only a code string.
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrProfileNotFound      = Code(ErrCodeProfileNotFound)
	ErrProfileNotAssumable  = Code(ErrCodeProfileNotAssumable)
	ErrAuthenticationFailed = Code(ErrCodeAuthenticationFailed)
	ErrDirectoryUnavailable = Code(ErrCodeDirectoryUnavailable)
	ErrFileRead             = Code(ErrCodeFileRead)
	ErrMalformedEvent       = Code(ErrCodeMalformedEvent)
	ErrTransport            = Code(ErrCodeTransport)
)

// ProfileNotFoundError is returned when no AWS profile with the given name exists.
type ProfileNotFoundError struct {
	Profile string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("could not find AWS profile, no profile named '%s'", e.Profile)
}

func (e *ProfileNotFoundError) Unwrap() error { return ErrProfileNotFound }

// FileReadError identifies the event file that could not be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read event file '%s': %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() []error { return []error{ErrFileRead, e.Err} }

// MalformedEventError describes why a single event document was rejected.
type MalformedEventError struct {
	Path   string
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event '%s': %s", e.Path, e.Reason)
}

func (e *MalformedEventError) Unwrap() error { return ErrMalformedEvent }

package audio

import "fmt"

// ErrorName identifies a failure class on the command surface.
type ErrorName string

const (
	InvalidArguments ErrorName = "org.bluez.audio.Error.InvalidArguments"
	AlreadyConnected ErrorName = "org.bluez.audio.Error.AlreadyConnected"
	NotConnected     ErrorName = "org.bluez.audio.Error.NotConnected"
	NotSupported     ErrorName = "org.bluez.audio.Error.NotSupported"
	ConnectFailed    ErrorName = "org.bluez.audio.Error.ConnectFailed"
	DoesNotExist     ErrorName = "org.bluez.audio.Error.DoesNotExist"
	Failed           ErrorName = "org.bluez.audio.Error.Failed"
)

// Error is a named command-surface error. Callers match the class with
// errors.Is against the sentinel values below; Msg carries the diagnostic.
type Error struct {
	Name ErrorName
	Msg  string
	Err  error // underlying cause, if any
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Msg)
}

// Is compares errors by name so sentinels match regardless of message.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Name == t.Name
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Sentinel errors for the command surface. Connection-state conflicts are
// raised by the profile handlers, not from here.
var (
	ErrInvalidArguments = &Error{Name: InvalidArguments, Msg: "Invalid arguments in method call"}
	ErrNotConnected     = &Error{Name: NotConnected, Msg: "Not connected to any device"}
	ErrNotSupported     = &Error{Name: NotSupported, Msg: "The service is not supported by the remote device"}
	ErrDoesNotExist     = &Error{Name: DoesNotExist, Msg: "Does not exist"}
)

func invalidArgs(err error) *Error {
	return &Error{Name: InvalidArguments, Msg: err.Error(), Err: err}
}

func connectFailed(msg string, err error) *Error {
	return &Error{Name: ConnectFailed, Msg: msg, Err: err}
}

func failedf(format string, args ...any) *Error {
	e := &Error{Name: Failed, Msg: fmt.Sprintf(format, args...)}
	for _, a := range args {
		if err, ok := a.(error); ok {
			e.Err = err
		}
	}
	return e
}

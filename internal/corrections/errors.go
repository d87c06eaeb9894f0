package corrections

import (
	"errors"
	"fmt"
)

// ErrMalformedDictionary is the sentinel wrapped by MalformedDictionaryError.
var ErrMalformedDictionary = errors.New("malformed corrections dictionary")

// MalformedDictionaryError reports a corrections source that cannot be used.
type MalformedDictionaryError struct {
	Source string
	Reason string
	Err    error
}

func (e *MalformedDictionaryError) Error() string {
	msg := ErrMalformedDictionary.Error()
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MalformedDictionaryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedDictionary}
	}
	return []error{ErrMalformedDictionary, e.Err}
}

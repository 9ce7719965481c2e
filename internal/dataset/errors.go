package dataset

import (
	"errors"
	"fmt"
)

// ErrDataLoad matches every *DataLoadError through errors.Is.
var ErrDataLoad = errors.New("data load error")

// DataLoadError reports a dataset that cannot back a catalog: a missing or
// unreadable file, a table without the required columns, or a collection
// that yields nothing to vectorize.
type DataLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = "dataset unusable"
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is reports ErrDataLoad as a match so callers need not know the concrete type.
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

func newLoadError(path, reason string, err error) *DataLoadError {
	return &DataLoadError{Path: path, Reason: reason, Err: err}
}

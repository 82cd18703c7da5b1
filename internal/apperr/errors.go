// Package apperr holds the error taxonomy shared by the importer, the index
// and the transports.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
)

// Code classifies import failures.
type Code string

// Import error codes.
const (
	CodeInvalidContent  Code = "INVALID_CONTENT"
	CodeBatchItemFailed Code = "BATCH_ITEM_FAILED"
)

// Sentinels for errors.Is. They match any ImportError with the same code.
var (
	ErrInvalidContent  = &ImportError{Code: CodeInvalidContent, Message: "content is empty"}
	ErrBatchItemFailed = &ImportError{Code: CodeBatchItemFailed, Message: "batch item failed"}
)

// ImportError is a classified import failure. ItemID is set for batch item
// failures and Err holds the underlying cause.
type ImportError struct {
	Code    Code
	Message string
	ItemID  string
	Err     error
}

// InvalidContent returns an INVALID_CONTENT error.
func InvalidContent(msg string) *ImportError {
	return &ImportError{Code: CodeInvalidContent, Message: msg}
}

// BatchItemFailed wraps the failure of the batch item id.
func BatchItemFailed(id string, err error) *ImportError {
	return &ImportError{Code: CodeBatchItemFailed, Message: "import failed", ItemID: id, Err: err}
}

func (e *ImportError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.ItemID != "" {
		fmt.Fprintf(&b, ": item %q", e.ItemID)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ImportError) Unwrap() error { return e.Err }

// Is matches any ImportError carrying the same code.
func (e *ImportError) Is(target error) bool {
	t, ok := target.(*ImportError)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the outermost ImportError in err's chain.
func CodeOf(err error) (Code, bool) {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Code, true
	}
	return "", false
}

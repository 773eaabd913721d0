package utils

import (
	"github.com/Gobusters/ectoerror/httperror"
)

// ErrorWithMeta returns an HTTP error whose response carries meta alongside
// the message.
func ErrorWithMeta(status int, message string, meta map[string]any) error {
	herr := httperror.ToHTTPError(httperror.NewHTTPError(status, message))
	herr.Meta = meta
	return herr
}

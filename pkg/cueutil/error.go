// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ValidationError is a CUE error pinned to a file and, when known, to the
// JSON path of the offending value.
type ValidationError struct {
	FilePath string

	// CUEPath is the path of the first offending value, e.g.
	// `exports["./utils"].types`.
	CUEPath string

	Message string

	// Details holds one "<path>: <message>" line per CUE error when there
	// was more than one.
	Details []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Details) > 1 {
		return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(e.Details, "\n  "))
	}
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// FormatError converts err into a *ValidationError carrying JSON-path
// prefixes. Errors that are not CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	out := &ValidationError{FilePath: filePath}
	for i, e := range cueErrs {
		path := formatPath(e.Path())
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)

		if i == 0 {
			out.CUEPath = path
			out.Message = msg
		}
		if path != "" {
			out.Details = append(out.Details, path+": "+msg)
		} else {
			out.Details = append(out.Details, msg)
		}
	}
	return out
}

// ErrorPath returns the JSON path of the first offending value in err, or
// "" when err carries none.
func ErrorPath(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.CUEPath
	}
	return ""
}

// formatPath renders CUE path selectors as a JSON path: numeric elements
// become indices, quoted labels become ["key"], definitions are dropped.
func formatPath(path []string) string {
	var b strings.Builder
	for _, part := range path {
		switch {
		case part == "" || strings.HasPrefix(part, "#"):
			continue
		case isIndex(part) && b.Len() > 0:
			b.WriteString("[" + part + "]")
		case strings.HasPrefix(part, `"`):
			label, err := strconv.Unquote(part)
			if err != nil {
				label = strings.Trim(part, `"`)
			}
			b.WriteString("[" + strconv.Quote(label) + "]")
		default:
			if b.Len() > 0 {
				b.WriteString(".")
			}
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// CheckFileSize returns an error when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}

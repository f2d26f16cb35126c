package vudials

import "fmt"

// UploadFileError reports that a background image could not be read. It is
// returned before any request is sent.
type UploadFileError struct {
	Path string
	Err  error
}

func (e *UploadFileError) Error() string {
	return fmt.Sprintf("read image file %q: %v", e.Path, e.Err)
}

func (e *UploadFileError) Unwrap() error { return e.Err }

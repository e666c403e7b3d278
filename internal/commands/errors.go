package commands

import (
	"errors"
	"fmt"
)

const errorAccessRootFormat = "cannot access %s: %v"

// ErrNotDirectory is wrapped by AccessError when the root is a regular file.
var ErrNotDirectory = errors.New("not a directory")

// AccessError reports that the scan root cannot be listed as a directory.
type AccessError struct {
	Path string
	Err  error
}

func (accessError *AccessError) Error() string {
	return fmt.Sprintf(errorAccessRootFormat, accessError.Path, accessError.Err)
}

func (accessError *AccessError) Unwrap() error {
	return accessError.Err
}

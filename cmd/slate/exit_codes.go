package main

import (
	"errors"

	slateerrors "github.com/odvcencio/slate/pkg/errors"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitBackend = 3
)

type exitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// exitCodeForError maps configuration and input problems to the usage
// code and terminal setup failures to the backend code.
func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	switch slateerrors.GetCode(err) {
	case slateerrors.ErrCodeConfigLoad, slateerrors.ErrCodeConfigParse,
		slateerrors.ErrCodeConfigInvalid, slateerrors.ErrCodeInvalidInput:
		return exitUsage
	case slateerrors.ErrCodeBackendInit:
		return exitBackend
	}
	return exitFailure
}

/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package errkind classifies errors surfaced by the session engine so the caller can decide whether
// to abort a run or to skip the offending group.
package errkind

import (
	"errors"
	"fmt"
)

// ErrKind represents if the error is retryable
type ErrKind int16

const (
	Retryable    ErrKind = iota // The error is retryable
	NonRetryable                // The error is non-retryable
	Unknown                     // Unknown err kind
)

func (ek ErrKind) String() string {
	switch ek {
	case Retryable:
		return "Retryable"
	case NonRetryable:
		return "NonRetryable"
	default:
		return "Unknown"
	}
}

// Classified is implemented by every error kind of the session engine.
type Classified interface {
	error
	ErrorKind() ErrKind
	ErrorMessage() string
}

// Error is a generic classified error.
type Error struct {
	errKind    ErrKind
	errMessage string
}

func New(kind ErrKind, msg string) *Error {
	return &Error{
		errKind:    kind,
		errMessage: msg,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.errKind, e.errMessage)
}

func (e *Error) ErrorKind() ErrKind {
	return e.errKind
}

func (e *Error) ErrorMessage() string {
	return e.errMessage
}

// FromError gets error information from a classified error anywhere in the chain of err.
// ok is false when err carries no classification, in which case the kind is Unknown.
func FromError(err error) (kindErr *Error, ok bool) {
	if err == nil {
		return nil, true
	}
	var c Classified
	if errors.As(err, &c) {
		return &Error{c.ErrorKind(), c.ErrorMessage()}, true
	}
	return &Error{Unknown, err.Error()}, false
}

// KindOf returns the ErrKind of err, Unknown if it is not classified.
func KindOf(err error) ErrKind {
	e, _ := FromError(err)
	if e == nil {
		return Unknown
	}
	return e.errKind
}

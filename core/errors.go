// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"errors"
	"fmt"
)

// Error codes for failures crossing the public matching boundary.
const (
	// CodeValidation marks bad input rejected before any gateway call.
	CodeValidation = "VALIDATION_ERROR"
	// CodeGateway marks a failed reference-data lookup.
	CodeGateway = "GATEWAY_ERROR"
	// CodeCache marks a cache failure. Cache errors are logged and
	// swallowed, never surfaced to callers.
	CodeCache = "CACHE_ERROR"
	// CodeConfig marks missing or invalid configuration.
	CodeConfig = "CONFIG_ERROR"
)

// Error is the uniform error value returned by the public matching
// contract. Internal failures are converted at the orchestrator boundary
// rather than propagated as bare errors.
type Error struct {
	Code    string
	Message string
	Context map[string]any
	cause   error
}

// NewError creates an Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates an Error with the given code wrapping an underlying
// cause.
func WrapError(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: err.Error(), cause: err}
}

// WithContext attaches a key/value pair to the error and returns it.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// AsError converts err to *Error, wrapping unrecognized errors under the
// given fallback code.
func AsError(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr
	}
	return WrapError(fallbackCode, err)
}

// Domain validation errors
var (
	// ErrEmptyEntity indicates a match was requested for an empty entity.
	ErrEmptyEntity = errors.New("entity cannot be empty")

	// ErrInvalidConfidence indicates a confidence score outside [0,1].
	ErrInvalidConfidence = errors.New("confidence score must be in [0,1]")

	// ErrEmptyOrganizationName indicates a match without an organization name.
	ErrEmptyOrganizationName = errors.New("organization name cannot be empty")

	// ErrEmptyDatasetName indicates a match without a dataset name.
	ErrEmptyDatasetName = errors.New("dataset name cannot be empty")
)

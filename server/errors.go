package server

import (
	"errors"
	"net/http"

	"github.com/queryweave/queryweave/engine/compiler"
	"github.com/queryweave/queryweave/engine/schema"
	"github.com/queryweave/queryweave/engine/workflow"
)

// Stable error codes exposed by the API.
const (
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeMalformedMarkup       = "MALFORMED_MARKUP"
	ErrCodeUnknownColumn         = "UNKNOWN_COLUMN"
	ErrCodeEmptyPipeline         = "EMPTY_PIPELINE"
	ErrCodeEmptyFilterExpression = "EMPTY_FILTER_EXPRESSION"
	ErrCodeTranslationExhausted  = "TRANSLATION_EXHAUSTED"
	ErrCodeUnresolvedSource      = "UNRESOLVED_SOURCE_TABLE"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// Error is the JSON error envelope returned by the API.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// classify maps a compilation error to its HTTP status and envelope. Input
// errors are the caller's fault; translation exhaustion is an upstream
// failure; an unresolved source table is a deployment problem.
func classify(err error) (int, Error) {
	switch {
	case errors.Is(err, workflow.ErrMalformedMarkup):
		return http.StatusBadRequest, Error{Code: ErrCodeMalformedMarkup, Message: "workflow markup could not be parsed", Details: err.Error()}
	case errors.Is(err, schema.ErrUnknownColumn):
		return http.StatusBadRequest, Error{Code: ErrCodeUnknownColumn, Message: "workflow references a column missing from its input schema", Details: err.Error()}
	case errors.Is(err, compiler.ErrEmptyPipeline):
		return http.StatusBadRequest, Error{Code: ErrCodeEmptyPipeline, Message: "workflow contains no compilable tools", Details: err.Error()}
	case errors.Is(err, compiler.ErrEmptyFilterExpression):
		return http.StatusBadRequest, Error{Code: ErrCodeEmptyFilterExpression, Message: "a filter tool has an empty expression", Details: err.Error()}
	case errors.Is(err, compiler.ErrTranslationExhausted):
		return http.StatusBadGateway, Error{Code: ErrCodeTranslationExhausted, Message: "translation service failed past the retry ceiling", Details: err.Error()}
	case errors.Is(err, compiler.ErrUnresolvedSourceTable):
		return http.StatusInternalServerError, Error{Code: ErrCodeUnresolvedSource, Message: "no source table is configured", Details: err.Error()}
	default:
		return http.StatusInternalServerError, Error{Code: ErrCodeInternal, Message: "compilation failed", Details: err.Error()}
	}
}

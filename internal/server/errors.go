// Package server provides the HTTP surface of the proposal generator: the form page and its JSON API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/opinity/proposal-generator/internal/audio"
	"github.com/opinity/proposal-generator/internal/export"
	"github.com/opinity/proposal-generator/internal/proposal"
	"github.com/opinity/proposal-generator/internal/session"
	"github.com/opinity/proposal-generator/internal/types"
)

// ErrNoProposal is returned by exports before a proposal was generated
var ErrNoProposal = errors.New("no proposal has been generated")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Generation errors are checked first because a malformed response wraps the validation error that rejected it.
func HTTPStatus(err error) int {
	if status, ok := generationStatus(err); ok {
		return status
	}

	var (
		reqErr        *ErrValidation
		validationErr *types.ValidationError
		transitionErr *session.TransitionError
	)

	switch {
	case errors.Is(err, audio.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, session.ErrEmptyNotes), errors.Is(err, session.ErrUnknownDemo),
		errors.Is(err, audio.ErrNoAudio),
		errors.As(err, &reqErr), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrTranscriptionBusy),
		errors.Is(err, ErrNoProposal), errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.Is(err, export.ErrExtendedOnly):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// generationStatus maps the errors of the proposal generator and the transcriber.
func generationStatus(err error) (int, bool) {
	var (
		cfgErr       *proposal.ConfigurationError
		inputErr     *proposal.InputError
		serviceErr   *proposal.ServiceError
		emptyErr     *proposal.EmptyResponseError
		malformedErr *proposal.MalformedResponseError
	)

	switch {
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, true
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, true
	case errors.As(err, &serviceErr), errors.As(err, &emptyErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway, true
	default:
		return 0, false
	}
}

// isSubmitError reports whether err was raised by the submit that precedes a generation.
// Such errors leave the session state untouched; any other error moved it to Error.
func isSubmitError(err error) bool {
	if _, ok := generationStatus(err); ok {
		return false
	}
	var (
		validationErr *types.ValidationError
		transitionErr *session.TransitionError
	)
	return errors.Is(err, session.ErrEmptyNotes) || errors.Is(err, session.ErrBusy) ||
		errors.As(err, &validationErr) || errors.As(err, &transitionErr)
}

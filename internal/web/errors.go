package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/minutes-flow/internal/failure"
	"github.com/nguyentantai21042004/minutes-flow/internal/session"
)

var errMissingFile = fmt.Errorf("%w: missing multipart field \"file\"", failure.ErrInvalidArgument)

type errorBody struct {
	Stage   string `json:"stage,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, failure.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, failure.ErrUnsupportedExtension):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, failure.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, failure.ErrMediaDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, failure.ErrTranscription), errors.Is(err, failure.ErrSummaryGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newErrorBody(err error) *errorBody {
	if err == nil {
		return nil
	}
	return &errorBody{
		Stage:   string(session.FailedStage(err)),
		Kind:    failure.Kind(err),
		Message: err.Error(),
	}
}

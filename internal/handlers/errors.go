package handlers

import (
	"errors"
	"log"
	"net/http"

	"gamepal/internal/service"
	"gamepal/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

// respondWithServiceError maps service sentinel errors onto HTTP statuses:
// validation problems are 400, ownership failures 403, missing rows 404,
// and lost state-machine races 409. Anything else is a 500.
func respondWithServiceError(w http.ResponseWriter, err error, logMsg string) {
	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
	case errors.Is(err, service.ErrUnknownAttribute),
		errors.Is(err, service.ErrSameGuardian),
		errors.Is(err, service.ErrInvalidMeetingDay),
		errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrNotChildGuardian),
		errors.Is(err, service.ErrNotApprovedMatch):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	case errors.Is(err, service.ErrChildNotFound),
		errors.Is(err, service.ErrLikeNotFound),
		errors.Is(err, service.ErrMeetingNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrLikeConflict):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

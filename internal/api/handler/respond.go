package handler

import (
	"errors"
	"net/http"

	"judge_client/internal/app/service"
	"judge_client/internal/common"
)

func statusFor(err error) int {
	if errors.Is(err, service.ErrJudgeUnavailable) {
		return http.StatusServiceUnavailable
	}
	return common.HTTPStatusFromError(err)
}

// respondWithMessage writes {"message": ...}, the body auth endpoints use.
func respondWithMessage(w http.ResponseWriter, err error) {
	common.RespondWithMessage(w, statusFor(err), common.PublicMessage(err))
}

// respondWithError writes {"error": ...}.
func respondWithError(w http.ResponseWriter, err error) {
	common.RespondWithError(w, statusFor(err), common.PublicMessage(err))
}

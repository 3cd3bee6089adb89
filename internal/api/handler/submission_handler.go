package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"judge_client/internal/api/middleware"
	"judge_client/internal/app/service"
	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.OptionalAuthenticator).Post("/submit", h.submit)

	r.Route("/submissions", func(r chi.Router) {
		r.Use(middleware.Authenticator) // History is per user
		r.Get("/me", h.mySubmissions)
		r.Get("/me/problem/{problemID}", h.mySubmissions)
		r.Get("/{submissionID}", h.getSubmission)
	})
}

// submit answers failures with a SubmissionResult body carrying verdict
// Error and the message in "error".
func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithJSON(w, http.StatusBadRequest, model.SubmissionResult{Verdict: model.VerdictError, Error: "Invalid request payload: " + err.Error()})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context()) // zero when anonymous
	result, err := h.submissionService.Submit(r.Context(), userID, req)
	if err != nil {
		common.RespondWithJSON(w, statusFor(err), model.SubmissionResult{
			ProblemID: req.ProblemID,
			Language:  req.Language,
			Verdict:   model.VerdictError,
			Error:     common.PublicMessage(err),
		})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SubmissionHandler) mySubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))

	result, err := h.submissionService.MySubmissions(r.Context(), userID, chi.URLParam(r, "problemID"), page, size)
	if err != nil {
		respondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "submissionID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid submission id")
		return
	}

	item, err := h.submissionService.GetSubmission(r.Context(), userID, id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, item)
}

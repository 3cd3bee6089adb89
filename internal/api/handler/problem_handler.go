package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"judge_client/internal/app/service"
	"judge_client/internal/common"
	"judge_client/internal/domain/repository"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/problems", h.listProblems)           // GET /api/problems?category=&difficulty=&search=
	r.Get("/problems/{problemID}", h.getProblem) // GET /api/problems/two-sum
	r.Get("/categories", h.listCategories)
	r.Get("/tags", h.listTags)
	r.Get("/stats", h.stats)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.ProblemFilter{
		Category:   query.Get("category"),
		Difficulty: query.Get("difficulty"),
		Search:     query.Get("search"),
	}

	problems, err := h.problemService.ListProblems(r.Context(), filter)
	if err != nil {
		respondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.GetProblem(r.Context(), chi.URLParam(r, "problemID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.problemService.Categories(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *ProblemHandler) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.problemService.Tags(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tags)
}

func (h *ProblemHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.problemService.Stats(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

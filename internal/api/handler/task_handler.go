package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"codequiz/internal/api/view"
	"codequiz/internal/app/service"
	"codequiz/internal/common"

	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	catalogService    *service.CatalogService
	evaluationService *service.EvaluationService
	renderer          *view.Renderer
	logger            *slog.Logger
}

func NewTaskHandler(
	catalogService *service.CatalogService,
	evaluationService *service.EvaluationService,
	renderer *view.Renderer,
	logger *slog.Logger,
) *TaskHandler {
	return &TaskHandler{
		catalogService:    catalogService,
		evaluationService: evaluationService,
		renderer:          renderer,
		logger:            logger,
	}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/question", h.question)
}

// RegisterProtectedRoutes mounts the routes that need a live session.
func (h *TaskHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/answer", h.answer)
}

func (h *TaskHandler) home(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}
	h.renderer.Render(w, http.StatusOK, "index.html", map[string]any{
		"Categories": categories,
	})
}

func (h *TaskHandler) question(w http.ResponseWriter, r *http.Request) {
	categoryID, taskNumber := taskParams(r)

	question, err := h.catalogService.GetQuestion(r.Context(), categoryID, taskNumber)
	if err != nil {
		h.renderError(w, err)
		return
	}

	startingCode := ""
	if question.Task.StartingCode != nil {
		startingCode = *question.Task.StartingCode
	}
	h.renderer.Render(w, http.StatusOK, "question.html", map[string]any{
		"Title":       question.CategoryName,
		"Description": question.Task.Description,
		"Code":        startingCode,
		"TaskID":      taskNumber,
		"Category":    categoryID,
	})
}

func (h *TaskHandler) answer(w http.ResponseWriter, r *http.Request) {
	categoryID, taskNumber := taskParams(r)

	if err := r.ParseForm(); err != nil {
		h.renderError(w, common.ErrBadRequest)
		return
	}
	userCode := r.PostFormValue("user_code")

	question, err := h.catalogService.GetQuestion(r.Context(), categoryID, taskNumber)
	if err != nil {
		h.renderError(w, err)
		return
	}

	evaluation, normalizedCode, err := h.evaluationService.Evaluate(r.Context(), question.Task, userCode)
	if err != nil {
		h.renderError(w, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "answer.html", map[string]any{
		"Title":       question.CategoryName,
		"Score":       evaluation.Score,
		"Comment":     evaluation.Comment,
		"UserCode":    normalizedCode,
		"CorrectCode": question.Task.CorrectAnswer,
		"NextID":      taskNumber + 1,
		"Category":    categoryID,
	})
}

func (h *TaskHandler) renderError(w http.ResponseWriter, err error) {
	status := common.HTTPStatusFromError(err)
	message := "Something went wrong"
	switch {
	case errors.Is(err, common.ErrNotFound):
		message = "Page not found"
	case errors.Is(err, common.ErrServiceUnavailable):
		message = "Evaluation service is unavailable, try again later"
	case errors.Is(err, common.ErrBadRequest):
		message = "Invalid request"
	default:
		h.logger.Error("request failed", "err", err)
	}
	h.renderer.Render(w, status, "error.html", map[string]any{
		"Status":  status,
		"Message": message,
	})
}

// taskParams reads category and task_id from the query string, defaulting
// both to 1 like the browsing flow expects.
func taskParams(r *http.Request) (categoryID, taskNumber int) {
	categoryID = 1
	taskNumber = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("category")); err == nil && v > 0 {
		categoryID = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("task_id")); err == nil && v > 0 {
		taskNumber = v
	}
	return categoryID, taskNumber
}

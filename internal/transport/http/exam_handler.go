package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"exam-grading-service/internal/app"
	"exam-grading-service/internal/domain"
)

// ExamHandler exposes exam submission over REST.
type ExamHandler struct {
	service *app.ExamService
}

func NewExamHandler(service *app.ExamService) *ExamHandler {
	return &ExamHandler{service: service}
}

type apiError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// ServeSubmit handles POST /api/v1/exam/submit.
func (h *ExamHandler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req app.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.QuizID == "" {
		writeError(w, r, http.StatusBadRequest, "userId and quizId are required")
		return
	}

	receipt, err := h.service.Submit(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("submit failed: %v", err)
		}
		writeError(w, r, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// statusFor maps the error taxonomy onto HTTP statuses: missing aggregates
// are 404, ungradable submissions are 400, persistence failures and anything
// unexpected are 500.
func statusFor(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, apiError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

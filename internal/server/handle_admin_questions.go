package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/triviachat/internal/bank"
	"github.com/playperu/triviachat/internal/trivia"
)

type QuestionStore interface {
	List(ctx context.Context) ([]trivia.Question, error)
	Get(ctx context.Context, id string) (trivia.Question, error)
	Add(ctx context.Context, q trivia.Question) (trivia.Question, error)
	Delete(ctx context.Context, id string) error
}

// QuestionRequest is the request body for POST /api/admin/questions.
type QuestionRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func handleAdminListQuestions(questions QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := questions.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if list == nil {
			list = []trivia.Question{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleAdminCreateQuestion(questions QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestionRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		q, err := questions.Add(r.Context(), trivia.Question{Question: req.Question, Answer: req.Answer})
		if errors.Is(err, bank.ErrInvalidQuestion) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func handleAdminGetQuestion(questions QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := questions.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, bank.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleAdminDeleteQuestion(questions QuestionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := questions.Delete(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, bank.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
	}
}

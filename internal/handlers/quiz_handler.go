package handlers

import (
	"errors"
	"net/http"

	"codeforge/internal/logger"
	"codeforge/internal/models"
	"codeforge/internal/quiz"
	"codeforge/internal/validation"
)

// TopicLister lists the topics a quiz can be generated for
type TopicLister interface {
	Topics() []string
}

// QuizHandler exposes the caller's quiz controller over HTTP
type QuizHandler struct {
	registry *quiz.Registry
	topics   TopicLister
	log      *logger.Logger
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(registry *quiz.Registry, topics TopicLister, log *logger.Logger) *QuizHandler {
	return &QuizHandler{
		registry: registry,
		topics:   topics,
		log:      log,
	}
}

type startQuizRequest struct {
	Topic string `json:"topic"`
}

type answerRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type answerResponse struct {
	IsCorrect     bool         `json:"isCorrect"`
	Explanation   string       `json:"explanation,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	Score         models.Score `json:"score"`
}

// controller returns the caller's controller, creating it. Only Start may
// create one; the other routes use lookup.
func (h *QuizHandler) controller(r *http.Request) *quiz.Controller {
	identity := GetIdentityFromContext(r.Context())
	return h.registry.Get(identity.Key(), identity.UserID())
}

func (h *QuizHandler) lookup(r *http.Request) (*quiz.Controller, bool) {
	return h.registry.Lookup(GetIdentityFromContext(r.Context()).Key())
}

// Topics lists the recognized quiz topics
func (h *QuizHandler) Topics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, h.log, http.StatusOK, map[string][]string{"topics": h.topics.Topics()})
}

// State returns a snapshot of the caller's quiz
func (h *QuizHandler) State(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(r)
	if !ok {
		respondWithJSON(w, h.log, http.StatusOK, quiz.State{Phase: quiz.PhaseAbsent})
		return
	}
	respondWithJSON(w, h.log, http.StatusOK, c.Snapshot())
}

// Start generates a new quiz for the requested topic
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if err := validation.ValidateTopic(req.Topic); err != nil {
		var ve validation.ValidationError
		errors.As(err, &ve)
		respondWithError(w, h.log, http.StatusBadRequest, ve.Message, "", nil)
		return
	}

	c := h.controller(r)
	if _, err := c.StartQuiz(r.Context(), req.Topic); err != nil {
		switch {
		case errors.Is(err, quiz.ErrGenerationInProgress):
			respondWithError(w, h.log, http.StatusConflict, ErrQuizInProgress, "", nil)
		case errors.Is(err, quiz.ErrGeneration):
			respondWithError(w, h.log, http.StatusBadGateway, ErrStartQuizFailed, "Error generating quiz", err)
		default:
			respondWithError(w, h.log, http.StatusInternalServerError, ErrStartQuizFailed, "Error starting quiz", err)
		}
		return
	}

	respondWithJSON(w, h.log, http.StatusCreated, c.Snapshot())
}

// Answer records an answer to one question of the active quiz
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	c, ok := h.lookup(r)
	if !ok {
		respondWithError(w, h.log, http.StatusConflict, ErrNoActiveQuiz, "", nil)
		return
	}

	result := c.Answer(r.Context(), req.QuestionID, req.Answer)
	switch result.Outcome {
	case quiz.OutcomeNoActiveQuiz:
		respondWithError(w, h.log, http.StatusConflict, ErrNoActiveQuiz, "", nil)
	case quiz.OutcomeUnknownQuestion:
		respondWithError(w, h.log, http.StatusNotFound, ErrQuestionNotFound, "", nil)
	case quiz.OutcomeAlreadyAnswered:
		respondWithError(w, h.log, http.StatusConflict, ErrAlreadyAnswered, "", nil)
	default:
		respondWithJSON(w, h.log, http.StatusOK, answerResponse{
			IsCorrect:     result.IsCorrect,
			Explanation:   result.Question.Explanation,
			CorrectAnswer: result.Question.CorrectOption,
			Score:         result.Score,
		})
	}
}

// Reset discards the caller's quiz
func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(r)
	if !ok {
		respondWithJSON(w, h.log, http.StatusOK, quiz.State{Phase: quiz.PhaseAbsent})
		return
	}
	c.ResetQuiz()
	respondWithJSON(w, h.log, http.StatusOK, c.Snapshot())
}

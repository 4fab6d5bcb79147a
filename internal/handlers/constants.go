package handlers

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

const (
	ErrInvalidJSON         = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests. Please try again later."

	ErrEmailInUse       = "Email already in use. Try logging in instead."
	ErrInvalidLogin     = "Invalid email or password."
	ErrPasswordTooWeak  = "Password is too weak. Use at least 8 characters."
	ErrStartQuizFailed  = "Failed to start quiz"
	ErrQuizInProgress   = "A quiz is already being generated"
	ErrNoActiveQuiz     = "No active quiz"
	ErrQuestionNotFound = "Question not found"
	ErrAlreadyAnswered  = "Question already answered"
	ErrEmptyChatMessage = "Message cannot be empty"
)

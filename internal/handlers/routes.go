package handlers

import (
	"net/http"

	"codeforge/internal/logger"
)

// Router groups the handlers served by the API
type Router struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Quiz       *QuizHandler
	Chat       *ChatHandler
	History    *HistoryHandler
	Health     http.Handler
	Metrics    http.Handler
	Log        *logger.Logger
}

// Handler builds the routing table wrapped in identity resolution and
// request logging
func (rt *Router) Handler() http.Handler {
	m := rt.Middleware
	api := http.NewServeMux()

	// Auth routes
	api.HandleFunc("POST /api/auth/register", m.RateLimit(rt.Auth.Register))
	api.HandleFunc("POST /api/auth/login", m.RateLimit(rt.Auth.Login))
	api.HandleFunc("POST /api/auth/logout", m.CSRFProtect(rt.Auth.Logout))
	api.HandleFunc("GET /api/auth/me", m.RequireAuth(rt.Auth.Me))

	// Quiz routes
	api.HandleFunc("GET /api/quiz/topics", rt.Quiz.Topics)
	api.HandleFunc("GET /api/quiz", rt.Quiz.State)
	api.HandleFunc("POST /api/quiz/start", m.CSRFProtect(rt.Quiz.Start))
	api.HandleFunc("POST /api/quiz/answer", m.CSRFProtect(rt.Quiz.Answer))
	api.HandleFunc("POST /api/quiz/reset", m.CSRFProtect(rt.Quiz.Reset))
	api.HandleFunc("GET /api/quizzes", m.RequireAuth(rt.History.List))

	// Chat routes
	api.HandleFunc("GET /api/chat/messages", rt.Chat.Messages)
	api.HandleFunc("POST /api/chat/messages", m.CSRFProtect(rt.Chat.Send))
	api.HandleFunc("DELETE /api/chat/messages", m.CSRFProtect(rt.Chat.Clear))

	mux := http.NewServeMux()
	mux.Handle("/api/", m.Identify(api))
	if rt.Health != nil {
		mux.Handle("GET /healthz", rt.Health)
	}
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	return Logging(rt.Log, mux)
}

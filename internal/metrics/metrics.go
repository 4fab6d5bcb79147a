package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QuizzesStarted counts StartQuiz outcomes. status: success/failure/rejected
	QuizzesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeforge_quizzes_started_total",
			Help: "Total number of quiz start attempts",
		},
		[]string{"status"},
	)

	// AnswersSubmitted counts SubmitAnswer outcomes. result: correct/incorrect/ignored
	AnswersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeforge_answers_submitted_total",
			Help: "Total number of submitted quiz answers",
		},
		[]string{"result"},
	)

	QuizzesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codeforge_quizzes_completed_total",
			Help: "Total number of quizzes answered in full",
		},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codeforge_quiz_generation_duration_seconds",
			Help:    "Time spent waiting on the question source",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PersistenceFailures counts swallowed best-effort write failures
	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeforge_persistence_failures_total",
			Help: "Total number of failed best-effort persistence writes",
		},
		[]string{"operation"},
	)

	ChatMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeforge_chat_messages_total",
			Help: "Total number of chat messages by sender",
		},
		[]string{"sender"},
	)

	ActiveControllers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codeforge_quiz_controllers_current",
			Help: "Current number of in-memory quiz controllers",
		},
	)
)

// Handler exposes the default registry for scraping
func Handler() http.Handler {
	return promhttp.Handler()
}

package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quizDrawsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trivia",
		Name:      "quiz_draws_total",
		Help:      "Quiz draws by outcome (served or exhausted).",
	}, []string{"outcome"})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trivia",
		Name:      "question_mutations_total",
		Help:      "Committed question mutations by operation.",
	}, []string{"op"})
)

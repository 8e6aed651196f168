package matching

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    questionnaireSubmissions = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "matching_questionnaire_submissions_total",
            Help: "Total number of questionnaire submissions normalized",
        },
    )

    matchesCreated = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "matching_matches_created_total",
            Help: "Total number of matches promoted from candidate lists",
        },
    )

    matchActions = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "matching_match_actions_total",
            Help: "Total number of recorded match actions",
        },
        []string{"action"},
    )

    compatibilityScores = promauto.NewHistogram(
        prometheus.HistogramOpts{
            Name:    "matching_compatibility_scores",
            Help:    "Distribution of computed compatibility scores",
            Buckets: prometheus.LinearBuckets(0, 10, 11),
        },
    )
)

func RecordQuestionnaireSubmission() {
    questionnaireSubmissions.Inc()
}

func RecordMatchCreated() {
    matchesCreated.Inc()
}

func RecordMatchAction(action string) {
    matchActions.WithLabelValues(action).Inc()
}

func RecordCompatibilityScore(score int) {
    compatibilityScores.Observe(float64(score))
}

package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyshakhp/utm-smoke/types"
)

const (
	MetricsNamespace = "utm_smoke"
)

var (
	Debug                bool = true
	validResults              = []types.StepStatus{types.StepStatusPass, types.StepStatusFail, types.StepStatusSkip}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "steps_total",
		Help:      "Count of executed smoke steps",
	}, []string{
		"run_id",
		"step",
		"severity",
		"result",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of smoke runs",
	}, []string{
		"run_id",
		"result",
	})

	runStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_steps_total",
		Help:      "Total number of steps in a smoke run",
	}, []string{
		"run_id",
	})

	runStepsPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_steps_passed",
		Help:      "Number of passed steps in a smoke run",
	}, []string{
		"run_id",
	})

	runStepsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_steps_failed",
		Help:      "Number of failed steps in a smoke run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration",
		Help:      "Duration of smoke runs",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

func RecordStep(runID string, stepID string, severity string, result types.StepStatus) {
	if !isValidResult(result) {
		log.Error("RecordStep - invalid result", "result", result)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "steps_total",
			"run_id", runID,
			"step", stepID,
			"severity", severity,
			"result", result)
	}
	stepsTotal.WithLabelValues(runID, stepID, severity, string(result)).Inc()
}

func RecordRun(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	runResults.WithLabelValues(runID, result).Set(1)
	runStepsTotal.WithLabelValues(runID).Add(float64(total))
	runStepsPassed.WithLabelValues(runID).Add(float64(passed))
	runStepsFailed.WithLabelValues(runID).Add(float64(failed))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidResult(result types.StepStatus) bool {
	return slices.Contains(validResults, result)
}

package domain

import "fmt"

// TaskKind identifies a generation task. Each kind is validated against its own policy subset.
type TaskKind string

const (
	TaskDataAnalysis        TaskKind = "data_analysis"
	TaskFinancialModeling   TaskKind = "financial_modeling"
	TaskRiskAssessment      TaskKind = "risk_assessment"
	TaskFinalRecommendation TaskKind = "final_recommendation"
)

// TaskKinds lists the generation tasks in the order they run.
var TaskKinds = []TaskKind{
	TaskDataAnalysis,
	TaskFinancialModeling,
	TaskRiskAssessment,
	TaskFinalRecommendation,
}

// ParseTaskKind validates a task label. An empty label selects the final recommendation.
func ParseTaskKind(label string) (TaskKind, error) {
	if label == "" {
		return TaskFinalRecommendation, nil
	}
	for _, k := range TaskKinds {
		if string(k) == label {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTask, label)
}

// Verdict is the outcome of one policy check. On acceptance Payload is the
// checked text unchanged; on rejection it is the remediation message.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Payload  string `json:"payload"`
}

// Accept returns an accepting verdict for text.
func Accept(text string) Verdict {
	return Verdict{Accepted: true, Payload: text}
}

// Reject returns a rejecting verdict carrying the remediation message.
func Reject(message string) Verdict {
	return Verdict{Payload: message}
}

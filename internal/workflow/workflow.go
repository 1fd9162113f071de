package workflow

import (
	"fmt"
	"strings"
)

// Variant selects which of the two PDCA training schemas is active.
type Variant string

const (
	// GoalExecution is the goal-setting-to-execution workflow ("A").
	GoalExecution Variant = "A"
	// ProblemResolution is the problem-diagnosis-to-root-cause workflow ("B").
	ProblemResolution Variant = "B"
)

// Variants returns both variants in presentation order.
func Variants() []Variant {
	return []Variant{GoalExecution, ProblemResolution}
}

// ParseVariant converts a wire key ("A"/"B") into a Variant.
func ParseVariant(key string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "A":
		return GoalExecution, nil
	case "B":
		return ProblemResolution, nil
	}
	return "", fmt.Errorf("unknown variant: %q", key)
}

// Key returns the wire identifier for the variant.
func (v Variant) Key() string {
	return string(v)
}

// Label returns the human-readable name used in prompts and the UI.
func (v Variant) Label() string {
	switch v {
	case GoalExecution:
		return "Goal Setting → Execution (OKR/KPI oriented)"
	case ProblemResolution:
		return "Problem Analysis → Root Cause (quality oriented)"
	default:
		return string(v)
	}
}

// Stage is one of the four ordered PDCA phases.
type Stage int

const (
	Plan Stage = iota
	Do
	Check
	Act
)

var stageKeys = [...]string{"p", "d", "c", "a"}
var stageLabels = [...]string{"Plan", "Do", "Check", "Act"}

// Stages returns the four stages in PDCA order.
func Stages() []Stage {
	return []Stage{Plan, Do, Check, Act}
}

// ParseStageKey converts a wire key ("p","d","c","a") into a Stage.
func ParseStageKey(key string) (Stage, error) {
	for i, k := range stageKeys {
		if k == strings.ToLower(strings.TrimSpace(key)) {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage key: %q", key)
}

// Key returns the wire identifier for the stage.
func (s Stage) Key() string {
	if s < Plan || s > Act {
		return ""
	}
	return stageKeys[s]
}

// Label returns the human-readable stage name.
func (s Stage) Label() string {
	if s < Plan || s > Act {
		return ""
	}
	return stageLabels[s]
}

// PromptLabel returns the stage name as embedded in coaching instructions.
func (s Stage) PromptLabel() string {
	if s < Plan || s > Act {
		return ""
	}
	return fmt.Sprintf("%s / %s", strings.ToUpper(stageKeys[s]), stageLabels[s])
}

// Next returns the following stage, clamped at Act.
func (s Stage) Next() Stage {
	if s >= Act {
		return Act
	}
	return s + 1
}

// Prev returns the preceding stage, clamped at Plan.
func (s Stage) Prev() Stage {
	if s <= Plan {
		return Plan
	}
	return s - 1
}

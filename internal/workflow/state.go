package workflow

import (
	"fmt"
	"math"
	"strings"
)

// StageRecord maps a field name to its value. Empty string means unset.
type StageRecord map[string]string

// StageSet holds one StageRecord per stage, keyed by stage key.
type StageSet map[string]StageRecord

// State is the full training record for both variants.
//
// Invariant: every field the schema defines exists in the mapping, even
// when empty. DefaultState, Normalize and SetField all preserve this.
type State struct {
	ModeA StageSet `json:"modeA"`
	ModeB StageSet `json:"modeB"`
}

// DefaultState returns an all-empty state with every schema key present.
func DefaultState() *State {
	return &State{
		ModeA: emptyStageSet(GoalExecution),
		ModeB: emptyStageSet(ProblemResolution),
	}
}

func emptyStageSet(v Variant) StageSet {
	set := make(StageSet, len(Stages()))
	for _, s := range Stages() {
		rec := make(StageRecord, len(Fields(v, s)))
		for _, f := range Fields(v, s) {
			rec[f] = ""
		}
		set[s.Key()] = rec
	}
	return set
}

// StageSet returns the mapping for one variant.
func (st *State) StageSet(v Variant) StageSet {
	if v == ProblemResolution {
		return st.ModeB
	}
	return st.ModeA
}

// Normalize re-imposes the schema on a loaded state: missing stages and
// fields are added empty, unknown fields are dropped. Called after every
// deserialization so parse drift can never break the shape invariant.
func (st *State) Normalize() {
	st.ModeA = normalizeStageSet(GoalExecution, st.ModeA)
	st.ModeB = normalizeStageSet(ProblemResolution, st.ModeB)
}

func normalizeStageSet(v Variant, set StageSet) StageSet {
	normalized := emptyStageSet(v)
	for _, s := range Stages() {
		for _, f := range Fields(v, s) {
			if rec, ok := set[s.Key()]; ok {
				if val, ok := rec[f]; ok {
					normalized[s.Key()][f] = val
				}
			}
		}
	}
	return normalized
}

// SetField replaces exactly one field value. Unknown field names for the
// (variant, stage) pair are rejected so typos cannot widen the schema.
func (st *State) SetField(v Variant, s Stage, field, value string) error {
	rec, ok := st.StageSet(v)[s.Key()]
	if !ok {
		return fmt.Errorf("stage %q missing for variant %s", s.Key(), v.Key())
	}
	if _, ok := rec[field]; !ok {
		return fmt.Errorf("unknown field %q for variant %s stage %s", field, v.Key(), s.Key())
	}
	rec[field] = value
	return nil
}

// Field returns the current value of one field.
func (st *State) Field(v Variant, s Stage, field string) string {
	return st.StageSet(v)[s.Key()][field]
}

// Completion returns the percentage of trimmed-non-empty fields across
// all four stages of a variant, rounded to the nearest integer.
func (st *State) Completion(v Variant) int {
	total := 0
	filled := 0
	for _, s := range Stages() {
		rec := st.StageSet(v)[s.Key()]
		for _, f := range Fields(v, s) {
			total++
			if strings.TrimSpace(rec[f]) != "" {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(filled) / float64(total) * 100))
}

// Reset clears every field of one variant back to empty.
func (st *State) Reset(v Variant) {
	if v == ProblemResolution {
		st.ModeB = emptyStageSet(ProblemResolution)
		return
	}
	st.ModeA = emptyStageSet(GoalExecution)
}

// Clone returns a deep copy of the state.
func (st *State) Clone() *State {
	dup := &State{
		ModeA: cloneStageSet(st.ModeA),
		ModeB: cloneStageSet(st.ModeB),
	}
	return dup
}

func cloneStageSet(set StageSet) StageSet {
	dup := make(StageSet, len(set))
	for key, rec := range set {
		r := make(StageRecord, len(rec))
		for f, v := range rec {
			r[f] = v
		}
		dup[key] = r
	}
	return dup
}

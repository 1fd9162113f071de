package workflow

// Field names are fixed per (variant, stage) pair. The order here is the
// order fields are rendered and exported in.
var schemaA = map[string][]string{
	"p": {"goal", "krs", "milestones", "risks"},
	"d": {"schedule", "dod", "resources"},
	"c": {"progress", "deviations", "analysis"},
	"a": {"optimization", "correction", "standardization"},
}

var schemaB = map[string][]string{
	"p": {"problem", "background", "rootCauses", "hypothesis"},
	"d": {"solutions", "validationPlan", "owner"},
	"c": {"results", "comparison", "unexpected"},
	"a": {"standardization", "legacyIssues", "horizontalSharing"},
}

// Schema returns the ordered field names for every stage of a variant.
func Schema(v Variant) map[string][]string {
	if v == ProblemResolution {
		return schemaB
	}
	return schemaA
}

// Fields returns the ordered field names for one (variant, stage) pair.
func Fields(v Variant, s Stage) []string {
	return Schema(v)[s.Key()]
}

// FieldCount returns the total field count across all four stages.
func FieldCount(v Variant) int {
	n := 0
	for _, fields := range Schema(v) {
		n += len(fields)
	}
	return n
}

package workflow

// Guidance is the per-field hint shown next to an input: why the field
// matters and what a strong answer looks like.
type Guidance struct {
	Purpose string
	Example string
}

var fieldGuidance = map[string]Guidance{
	// Variant A: goal setting
	"goal": {
		Purpose: "State the direction of effort as a SMART goal.",
		Example: "Grow monthly active users 20% by end of Q3 through search ranking improvements.",
	},
	"krs": {
		Purpose: "Break the goal into quantified leading indicators.",
		Example: "Publish 5 in-depth articles per week; lift backlink click-through to 3%.",
	},
	"milestones": {
		Purpose: "Mark the checkpoints that prove the plan is on track.",
		Example: "Research done by Jul 10; proposal approved Jul 15; rollout starts Aug 1.",
	},
	"risks": {
		Purpose: "Identify the internal and external factors that could derail the plan.",
		Example: "Key staff turnover, competitor price cuts, social platform algorithm changes.",
	},
	"schedule": {
		Purpose: "Pin down who does what by when.",
		Example: "Jul 1-10: requirements research (owner: Zhang); Jul 15: proposal review.",
	},
	"dod": {
		Purpose: "Define a shared completion standard so nothing ships half-done.",
		Example: "100% unit tests pass, runbook updated, business sign-off recorded.",
	},
	"resources": {
		Purpose: "List the people, budget and tooling the execution depends on.",
		Example: "Two engineers half-time, $2k ad budget, access to the analytics warehouse.",
	},
	"progress": {
		Purpose: "Report actual results against the planned metrics.",
		Example: "User growth at 12% so far, an 8 point gap against the 20% target.",
	},
	"deviations": {
		Purpose: "Separate execution gaps from planning gaps.",
		Example: "Execution: two articles short of quota. Planning: traffic cost underestimated.",
	},
	"analysis": {
		Purpose: "Explain why the deviations happened, not just that they did.",
		Example: "Content quota slipped because review capacity was not planned for.",
	},
	"optimization": {
		Purpose: "Adjust the plan itself where the check showed it was unrealistic.",
		Example: "Revise the traffic cost model and rebaseline the Q4 target.",
	},
	"correction": {
		Purpose: "Name the immediate corrective actions for each deviation.",
		Example: "Increase publishing density next week and raise the acquisition budget.",
	},
	"standardization": {
		Purpose: "Fold what worked into a standard so the gain survives the project.",
		Example: "Add a biweekly progress audit to the project management handbook.",
	},

	// Variant B: problem solving
	"problem": {
		Purpose: "Quantify the gap between current and desired state.",
		Example: "API latency rose from 50ms to 300ms, cutting checkout conversion by 5%.",
	},
	"background": {
		Purpose: "Capture the context a reviewer needs to judge the problem.",
		Example: "Started after the cache migration on Jun 3; affects the order service only.",
	},
	"rootCauses": {
		Purpose: "Use 5-why analysis to reach the contradiction behind the symptom.",
		Example: "Cache misses -> traffic spike -> undersized memory -> no auto-scaling rule.",
	},
	"hypothesis": {
		Purpose: "State the causal claim your countermeasures will test.",
		Example: "If cache memory scales with traffic, latency stays under 60ms at 10x load.",
	},
	"solutions": {
		Purpose: "Propose three layers of response: stop the bleeding, cure, strengthen.",
		Example: "Stop: manual scale-up. Cure: better cache policy. Strengthen: auto-scaling.",
	},
	"validationPlan": {
		Purpose: "Design a concrete experiment that can prove the countermeasure works.",
		Example: "Replay 10x peak traffic in staging; watch cache hit rate and latency.",
	},
	"owner": {
		Purpose: "Assign one accountable owner per countermeasure.",
		Example: "Cache policy: Li. Auto-scaling rule: platform team, due Jul 20.",
	},
	"results": {
		Purpose: "Record the measured change in the core metrics.",
		Example: "Latency back to 45ms; checkout conversion recovered to baseline.",
	},
	"comparison": {
		Purpose: "Compare outcomes against the hypothesis, not just the baseline.",
		Example: "Predicted <60ms at 10x load; measured 52ms, hypothesis holds.",
	},
	"unexpected": {
		Purpose: "Note side effects, secondary impact and accidental wins.",
		Example: "Lower database load saves about $400/month in server cost.",
	},
	"legacyIssues": {
		Purpose: "List what remains unresolved and who carries it forward.",
		Example: "Cold-start latency still spikes after deploys; tracked as OPS-214.",
	},
	"horizontalSharing": {
		Purpose: "Share the fix with other teams exposed to the same failure mode.",
		Example: "Hand the cache audit script to the payments and billing teams.",
	},
}

// FieldGuidance returns the hint for a field, if one is defined.
func FieldGuidance(field string) (Guidance, bool) {
	g, ok := fieldGuidance[field]
	return g, ok
}

var stageDescriptions = [...]string{
	"Define the goal and the foundation of the plan",
	"Record execution and its key control points",
	"Check results and analyze deviations",
	"Correct course and standardize what worked",
}

// Description returns the one-line editor subtitle for a stage.
func (s Stage) Description() string {
	if s < Plan || s > Act {
		return ""
	}
	return stageDescriptions[s]
}

// FieldLabel returns the display label for a field name.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

var fieldLabels = map[string]string{
	"goal":              "Goal (Outcome)",
	"krs":               "Key Drivers",
	"milestones":        "Milestones",
	"risks":             "Risks & Contingencies",
	"schedule":          "Execution Schedule",
	"dod":               "Definition of Done",
	"resources":         "Resources",
	"progress":          "Actual Progress",
	"deviations":        "Deviation Classification",
	"analysis":          "Deviation Analysis",
	"optimization":      "Plan Optimization",
	"correction":        "Corrective Actions",
	"standardization":   "Standardization",
	"problem":           "Problem Statement",
	"background":        "Background",
	"rootCauses":        "Root Cause Analysis (5-Why)",
	"hypothesis":        "Hypothesis",
	"solutions":         "Countermeasures (Stop/Cure/Strengthen)",
	"validationPlan":    "Validation Plan",
	"owner":             "Owners",
	"results":           "Measured Results",
	"comparison":        "Hypothesis Comparison",
	"unexpected":        "Side Effects & Lessons",
	"legacyIssues":      "Open Issues",
	"horizontalSharing": "Horizontal Sharing",
}

package coach

import "github.com/kaizenlab/pdca-coach/internal/workflow"

// QuickPrompt is one of the canned coaching instructions offered in the
// editor sidebar.
type QuickPrompt struct {
	Title  string
	Prompt string
}

var quickPromptsA = []QuickPrompt{
	{
		Title:  "Rewrite as a verifiable goal",
		Prompt: "Rewrite my current goal as a professional, verifiable SMART version.",
	},
	{
		Title:  "Suggest key drivers",
		Prompt: "Based on my goal, recommend 3-5 key driver metrics and their weights.",
	},
	{
		Title:  "Deep risk assessment",
		Prompt: "Analyze the likely risk points in this plan and suggest contingencies for each.",
	},
	{
		Title:  "Corrective actions",
		Prompt: "Based on the current deviations, suggest concrete corrective actions.",
	},
}

var quickPromptsB = []QuickPrompt{
	{
		Title:  "Sharpen the problem statement",
		Prompt: "Help me write a more convincing, quantified problem statement.",
	},
	{
		Title:  "Root cause hypotheses",
		Prompt: "From my problem description, list 5 plausible root cause hypotheses.",
	},
	{
		Title:  "Three-layer countermeasures",
		Prompt: "Generate a three-layer solution: stop the bleeding, cure the disease, strengthen the system.",
	},
	{
		Title:  "Standardization metrics",
		Prompt: "Given my countermeasures, how do I define quantifiable standardization (SOP) metrics?",
	},
}

// QuickPrompts returns the canned prompts for a variant.
func QuickPrompts(v workflow.Variant) []QuickPrompt {
	if v == workflow.ProblemResolution {
		return quickPromptsB
	}
	return quickPromptsA
}

package prompt

import (
	"strings"
	"testing"
)

func TestBuildSystem(t *testing.T) {
	data := map[string]string{"goal": "increase signups 20%"}
	got := BuildSystem("A", "p", data)

	wantFragments := []string{
		"Goal Setting → Execution (OKR/KPI oriented)",
		"P / Plan",
		`"goal": "increase signups 20%"`,
		"3-6 strengths",
		"measurable with clear boundaries",
		"actions actually support the plan",
		"validate the execution",
		"reusable standard",
		"Never reveal any API key",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(got, frag) {
			t.Errorf("BuildSystem output missing %q", frag)
		}
	}
}

func TestBuildSystemVariantB(t *testing.T) {
	got := BuildSystem("B", "c", map[string]string{"results": "latency 45ms"})
	if !strings.Contains(got, "Problem Analysis → Root Cause (quality oriented)") {
		t.Error("variant B label missing")
	}
	if !strings.Contains(got, "C / Check") {
		t.Error("check stage label missing")
	}
}

func TestBuildSystemUnknownStageFallsBack(t *testing.T) {
	got := BuildSystem("A", AuditStageKey, nil)
	if !strings.Contains(got, "Current stage: audit") {
		t.Errorf("unknown stage key should pass through raw, got:\n%s", got)
	}
	if !strings.Contains(got, "(JSON): {}") {
		t.Error("nil data should serialize as {}")
	}
}

func TestBuildSystemUnknownVariantFallsBack(t *testing.T) {
	got := BuildSystem("Z", "p", nil)
	if !strings.Contains(got, "Workflow: Z") {
		t.Errorf("unknown variant should pass through raw, got:\n%s", got)
	}
}

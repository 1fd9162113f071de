package transcript

import "testing"

func TestAppendAndEntries(t *testing.T) {
	l := New()
	l.Append(RoleUser, "rewrite my goal")
	l.Append(RoleCoach, "")

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Role != RoleUser || entries[0].Content != "rewrite my goal" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Role != RoleCoach {
		t.Errorf("second entry role = %q", entries[1].Role)
	}
}

func TestReplaceLast(t *testing.T) {
	l := New()
	l.ReplaceLast("no-op on empty")
	if l.Len() != 0 {
		t.Error("ReplaceLast on empty log created an entry")
	}

	l.Append(RoleUser, "q")
	l.Append(RoleCoach, "")
	l.ReplaceLast("partial")
	l.ReplaceLast("final answer")

	entries := l.Entries()
	if entries[1].Content != "final answer" {
		t.Errorf("last content = %q, want final answer", entries[1].Content)
	}
	if entries[0].Content != "q" {
		t.Errorf("ReplaceLast touched an earlier entry: %q", entries[0].Content)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := New()
	l.Append(RoleUser, "original")
	entries := l.Entries()
	entries[0].Content = "mutated"
	if l.Entries()[0].Content != "original" {
		t.Error("Entries returned a shared slice")
	}
}

func TestClear(t *testing.T) {
	l := New()
	l.Append(RoleUser, "a")
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("len after Clear = %d", l.Len())
	}
}

func TestAuditLifecycle(t *testing.T) {
	l := New()
	if _, ok := l.Audit(); ok {
		t.Error("new log reports an audit result")
	}

	l.SetAudit("first review")
	l.SetAudit("second review")
	got, ok := l.Audit()
	if !ok || got != "second review" {
		t.Errorf("Audit() = %q, %v; want latest review", got, ok)
	}

	l.ClearAudit()
	if _, ok := l.Audit(); ok {
		t.Error("audit survived ClearAudit")
	}
}

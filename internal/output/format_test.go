package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"careerdash/internal/dashboard"
)

func sampleSnapshot() dashboard.Snapshot {
	tasks := []dashboard.Task{
		{ID: "1", Text: "Mock interview", Category: dashboard.CategoryInterview},
		{ID: "2", Text: "Update CV", Completed: true, Category: dashboard.CategoryPreparation},
		{ID: "3", Text: "Portfolio", Category: dashboard.CategoryPreparation, Sync: dashboard.SyncPending},
	}
	return dashboard.Snapshot{Tasks: tasks, Progress: dashboard.ComputeProgress(tasks)}
}

func TestFormatDashboard(t *testing.T) {
	var buf bytes.Buffer
	FormatDashboard(&buf, sampleSnapshot())

	expected := "Progress: 1/3 (33%)\n" +
		"------------\n" +
		"a  Hazırlık\n" +
		"------------\n" +
		"   1  [x] Update CV\n" +
		"   2  [ ] Portfolio  (pending)\n" +
		"------------\n" +
		"d  Görüşme\n" +
		"------------\n" +
		"   3  [ ] Mock interview\n"
	if buf.String() != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, buf.String())
	}
}

func TestFormatDashboard_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatDashboard(&buf, dashboard.Snapshot{})

	expected := "Progress: 0/0 (0%)\nno tasks\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name     string
		num      int
		task     dashboard.Task
		expected string
	}{
		{"open", 1, dashboard.Task{Text: "Learn Go"}, "   1  [ ] Learn Go\n"},
		{"done", 12, dashboard.Task{Text: "Learn Go", Completed: true}, "  12  [x] Learn Go\n"},
		{"not saved", 3, dashboard.Task{Text: "Learn Go", Sync: dashboard.SyncFailed}, "   3  [ ] Learn Go  (not saved)\n"},
		{"newlines", 1, dashboard.Task{Text: "a\nb"}, "   1  [ ] a b\n"},
		{"blank", 1, dashboard.Task{Text: " "}, "   1  [ ] (untitled)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, buf.String())
			}
		})
	}
}

func TestFormatCategory(t *testing.T) {
	var buf bytes.Buffer
	FormatCategory(&buf, dashboard.CategoryApplication)

	expected := "c  Başvuru (application)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestNewView(t *testing.T) {
	v := NewView(sampleSnapshot())

	if v.Progress.Percent != 33 || v.Progress.Total != 3 {
		t.Errorf("unexpected progress %+v", v.Progress)
	}
	if len(v.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(v.Categories))
	}
	prep := v.Categories[0]
	if prep.Letter != "a" || prep.Alias != "preparation" || len(prep.Tasks) != 2 {
		t.Errorf("unexpected first category %+v", prep)
	}
	if prep.Tasks[1].Ref != "a2" || prep.Tasks[1].Number != 2 || prep.Tasks[1].Sync != "pending" {
		t.Errorf("unexpected task view %+v", prep.Tasks[1])
	}
	interview := v.Categories[1]
	if interview.Tasks[0].Ref != "d1" || interview.Tasks[0].Number != 3 {
		t.Errorf("unexpected task view %+v", interview.Tasks[0])
	}
}

func TestWriteDashboard_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDashboard(&buf, FormatJSON, sampleSnapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v View
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v.Categories[0].Name != "Hazırlık" {
		t.Errorf("expected Hazırlık, got %q", v.Categories[0].Name)
	}
}

func TestWriteDashboard_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDashboard(&buf, FormatYAML, sampleSnapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v View
	if err := yaml.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if v.Progress.Completed != 1 || v.Categories[1].Tasks[0].Text != "Mock interview" {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestWriteDashboard_EmptyJSONHasCategoriesArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDashboard(&buf, FormatJSON, dashboard.Snapshot{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"categories": []`)) {
		t.Errorf("expected empty categories array, got %s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": FormatText, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

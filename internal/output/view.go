package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"careerdash/internal/dashboard"
)

// Format is an output encoding.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want text, json or yaml)", s)
	}
}

// View is the structured form of the dashboard.
type View struct {
	Progress   ProgressView   `json:"progress" yaml:"progress"`
	Categories []CategoryView `json:"categories" yaml:"categories"`
}

// ProgressView is the structured form of dashboard.Progress.
type ProgressView struct {
	Completed int     `json:"completed" yaml:"completed"`
	Total     int     `json:"total" yaml:"total"`
	Ratio     float64 `json:"ratio" yaml:"ratio"`
	Percent   int     `json:"percent" yaml:"percent"`
}

// CategoryView is one non-empty category section.
type CategoryView struct {
	Letter string     `json:"letter" yaml:"letter"`
	Name   string     `json:"name" yaml:"name"`
	Alias  string     `json:"alias" yaml:"alias"`
	Tasks  []TaskView `json:"tasks" yaml:"tasks"`
}

// TaskView is a task with its CLI references.
type TaskView struct {
	// Number is the position in display order, as accepted by "done N".
	Number int `json:"number" yaml:"number"`

	// Ref is the category reference, as accepted by "done c2".
	Ref string `json:"ref" yaml:"ref"`

	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	Sync      string `json:"sync" yaml:"sync"`
}

// NewView builds the structured dashboard from a snapshot.
func NewView(snap dashboard.Snapshot) View {
	v := View{
		Progress: ProgressView{
			Completed: snap.Progress.Completed,
			Total:     snap.Progress.Total,
			Ratio:     snap.Progress.Ratio,
			Percent:   snap.Progress.Percent(),
		},
		Categories: []CategoryView{},
	}

	num := 0
	for cat, group := range snap.ByCategory() {
		cv := CategoryView{
			Letter: string(cat.Letter()),
			Name:   string(cat),
			Alias:  cat.Alias(),
			Tasks:  make([]TaskView, 0, len(group)),
		}
		for i, task := range group {
			num++
			cv.Tasks = append(cv.Tasks, TaskView{
				Number:    num,
				Ref:       fmt.Sprintf("%c%d", cat.Letter(), i+1),
				ID:        task.ID,
				Text:      task.Text,
				Completed: task.Completed,
				Sync:      task.Sync.String(),
			})
		}
		v.Categories = append(v.Categories, cv)
	}
	return v
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteDashboard writes the dashboard in the given format.
func WriteDashboard(w io.Writer, format Format, snap dashboard.Snapshot) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, NewView(snap))
	case FormatYAML:
		return WriteYAML(w, NewView(snap))
	default:
		FormatDashboard(w, snap)
		return nil
	}
}

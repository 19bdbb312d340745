package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"careerdash/internal/dashboard"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Letter    rune // 0 if no letter, 'a'-'z' otherwise
	TaskNum   int  // 1-based task number
	HasLetter bool // true if a category letter was provided
}

func (r TaskRef) String() string {
	if r.HasLetter {
		return fmt.Sprintf("%c%d", r.Letter, r.TaskNum)
	}
	return strconv.Itoa(r.TaskNum)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference in args[0].
//
// Parsing rules:
// 1. All digits → position in dashboard display order (e.g., 3)
// 2. <letter><digits> → position within the category with that letter (e.g., c2)
// 3. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	return parseToken(args[0])
}

// ParseTaskRefs parses every arg as a task reference.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	refs := make([]TaskRef, 0, len(args))
	for _, arg := range args {
		ref, err := parseToken(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func parseToken(token string) (TaskRef, error) {
	if isAllDigits(token) {
		num, err := strconv.Atoi(token)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", token)
		}
		return TaskRef{TaskNum: num}, nil
	}

	if len(token) > 1 && isLetter(rune(token[0])) && isAllDigits(token[1:]) {
		num, err := strconv.Atoi(token[1:])
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", token)
		}
		return TaskRef{Letter: rune(token[0]), TaskNum: num, HasLetter: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", token)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLetter returns true if r is a lowercase letter a-z.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// ResolveTaskRef finds the task a reference points to in snap.
func ResolveTaskRef(snap dashboard.Snapshot, ref TaskRef) (dashboard.Task, error) {
	tasks := snap.DisplayOrder()
	if ref.HasLetter {
		cat, ok := dashboard.CategoryByLetter(ref.Letter)
		if !ok {
			return dashboard.Task{}, fmt.Errorf("category letter not found: %c", ref.Letter)
		}
		tasks = nil
		for c, group := range snap.ByCategory() {
			if c == cat {
				tasks = group
				break
			}
		}
	}

	if ref.TaskNum < 1 || ref.TaskNum > len(tasks) {
		return dashboard.Task{}, fmt.Errorf("task number out of range: %s", ref)
	}
	return tasks[ref.TaskNum-1], nil
}

// resolveTaskRefs resolves refs against one snapshot, dropping repeats of the
// same task.
func resolveTaskRefs(snap dashboard.Snapshot, refs []TaskRef) ([]dashboard.Task, error) {
	seen := make(map[string]bool, len(refs))
	tasks := make([]dashboard.Task, 0, len(refs))
	for _, ref := range refs {
		task, err := ResolveTaskRef(snap, ref)
		if err != nil {
			return nil, err
		}
		if seen[task.ID] {
			continue
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}
	return tasks, nil
}

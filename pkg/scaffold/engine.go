package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/remold/pkg/safeio"
	"github.com/fulmenhq/remold/pkg/textedit"
	"github.com/fulmenhq/remold/pkg/treemerge"
)

// NotFoundError reports an expected input file or directory that is absent.
// Recoverable: the engine skips the target with a warning unless the plan
// marks it required.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("expected path not found: %s", e.Path)
}

// Engine applies migration plans against one project root. It holds no
// state between Apply calls; every run starts from disk and ends on disk.
type Engine struct {
	root          string
	dryRun        bool
	defaultIndent string
}

// Option configures an Engine.
type Option func(*Engine)

// WithDryRun makes Apply compute and report changes without writing any.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// WithDefaultIndent sets the indentation used for list entries inserted
// into a block that has no sibling entry to copy from.
func WithDefaultIndent(indent string) Option {
	return func(e *Engine) { e.defaultIndent = indent }
}

// NewEngine returns an engine rooted at the given project directory.
func NewEngine(root string, opts ...Option) *Engine {
	e := &Engine{
		root:          root,
		defaultIndent: "    ",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Action records the outcome of one plan step.
type Action struct {
	Kind    string `json:"kind"` // merge, create, edit, remove
	Target  string `json:"target"`
	Changed bool   `json:"changed"`
	Skipped bool   `json:"skipped,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report is the structured result of applying a plan. Failures are carried
// per action; the engine never aborts remaining independent steps because
// one target failed.
type Report struct {
	Plan      string               `json:"plan"`
	DryRun    bool                 `json:"dry_run,omitempty"`
	Actions   []Action             `json:"actions"`
	Conflicts []treemerge.Conflict `json:"conflicts,omitempty"`
}

// HasFailures reports whether any action recorded an error.
func (r *Report) HasFailures() bool {
	for _, a := range r.Actions {
		if a.Error != "" {
			return true
		}
	}
	return false
}

// HasConflicts reports whether any merge recorded destination collisions.
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Apply executes the plan's sections in order: merges, creates, file edits,
// removals. Each step is read-entire-file, transform in memory, write back
// atomically. The returned error covers engine-level failures only (bad
// root, plan nil); per-target failures live in the report.
func (e *Engine) Apply(plan *Plan) (*Report, error) {
	if plan == nil {
		return nil, fmt.Errorf("nil plan")
	}
	if info, err := os.Stat(e.root); err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", e.root)
	}

	report := &Report{Plan: plan.Name, DryRun: e.dryRun}

	for _, m := range plan.Merges {
		action, conflicts := e.applyMerge(m)
		report.Actions = append(report.Actions, action)
		report.Conflicts = append(report.Conflicts, conflicts...)
	}
	for _, c := range plan.Creates {
		report.Actions = append(report.Actions, e.applyCreate(c))
	}
	for _, f := range plan.Files {
		report.Actions = append(report.Actions, e.applyFileEdit(f))
	}
	for _, rm := range plan.Removals {
		report.Actions = append(report.Actions, e.applyRemoval(rm))
	}

	return report, nil
}

func (e *Engine) applyMerge(m Merge) (Action, []treemerge.Conflict) {
	action := Action{Kind: "merge", Target: m.Source}

	src, err := safeio.ResolveContained(e.root, m.Source)
	if err != nil {
		action.Error = err.Error()
		return action, nil
	}
	dst, err := safeio.ResolveContained(e.root, m.Destination)
	if err != nil {
		action.Error = err.Error()
		return action, nil
	}

	var result *treemerge.Result
	if e.dryRun {
		result, err = treemerge.Preview(src, dst)
	} else {
		result, err = treemerge.Merge(src, dst)
	}
	if err != nil {
		action.Error = err.Error()
		return action, nil
	}

	if result.NothingToMerge {
		action.Skipped = true
		action.Detail = "nothing to merge"
		return action, nil
	}

	action.Changed = len(result.Moved) > 0
	action.Detail = fmt.Sprintf("moved %d file(s) into %s", len(result.Moved), m.Destination)
	if len(result.Conflicts) > 0 {
		action.Error = result.Err().Error()
	}
	return action, result.Conflicts
}

func (e *Engine) applyCreate(c Create) Action {
	action := Action{Kind: "create", Target: c.Path}

	existing, err := safeio.ReadFileContained(e.root, c.Path)
	if err != nil && !os.IsNotExist(err) {
		action.Error = err.Error()
		return action
	}
	if err == nil && string(existing) == c.Content {
		action.Detail = "already up to date"
		return action
	}

	action.Changed = true
	if err == nil {
		action.Detail = "content updated"
	} else {
		action.Detail = "created"
	}
	if e.dryRun {
		return action
	}
	if writeErr := safeio.WriteFileContained(e.root, c.Path, []byte(c.Content)); writeErr != nil {
		action.Changed = false
		action.Error = writeErr.Error()
	}
	return action
}

func (e *Engine) applyFileEdit(f FileEdit) Action {
	action := Action{Kind: "edit", Target: f.Path}

	data, err := safeio.ReadFileContained(e.root, f.Path)
	if os.IsNotExist(err) {
		notFound := &NotFoundError{Path: f.Path}
		if f.Required {
			action.Error = notFound.Error()
		} else {
			action.Skipped = true
			action.Detail = notFound.Error()
		}
		return action
	}
	if err != nil {
		action.Error = err.Error()
		return action
	}

	doc := textedit.Parse(data)
	changed := false
	var details []string

	if len(f.RemovePatterns) > 0 {
		var filtered bool
		doc, filtered = textedit.FilterLines(doc, f.RemovePatterns)
		if filtered {
			changed = true
			details = append(details, "removed matching lines")
		}
	}

	for _, edit := range f.ListEdits {
		if len(edit.RemoveContaining) > 0 {
			var removed bool
			doc, removed = textedit.RemoveEntriesContainingAny(doc, edit.RemoveContaining)
			if removed {
				changed = true
				details = append(details, "removed stale list entries")
			}
		}
		if len(edit.Entries) == 0 {
			continue
		}
		indent := edit.Indent
		if indent == "" {
			indent = e.defaultIndent
		}
		next, added, editErr := textedit.EnsureEntries(doc, edit.Opener, edit.Entries, indent)
		if editErr != nil {
			action.Error = editErr.Error()
			return action
		}
		doc = next
		if added > 0 {
			changed = true
			details = append(details, fmt.Sprintf("added %d list entr(ies) to %q", added, edit.Opener))
		}
	}

	for _, ins := range f.Inserts {
		block := textedit.SplitBlock(ins.Content)
		if textedit.ContainsBlock(doc, block) {
			continue
		}
		var anchored bool
		doc, anchored = textedit.InsertAfterMarker(doc, ins.Marker, block)
		changed = true
		if anchored {
			details = append(details, fmt.Sprintf("inserted block after %q", ins.Marker))
		} else {
			details = append(details, "appended block at end of file")
		}
	}

	action.Changed = changed
	action.Detail = strings.Join(details, "; ")
	if !changed {
		action.Detail = "no changes needed"
		return action
	}
	if e.dryRun {
		return action
	}
	if writeErr := safeio.WriteFileContained(e.root, f.Path, doc.Bytes()); writeErr != nil {
		action.Changed = false
		action.Error = writeErr.Error()
	}
	return action
}

func (e *Engine) applyRemoval(rm Removal) Action {
	action := Action{Kind: "remove", Target: rm.Path}

	path, err := safeio.ResolveContained(e.root, rm.Path)
	if err != nil {
		action.Error = err.Error()
		return action
	}

	if rm.NameContains != "" {
		entries, readErr := os.ReadDir(path)
		if os.IsNotExist(readErr) {
			action.Skipped = true
			action.Detail = (&NotFoundError{Path: rm.Path}).Error()
			return action
		}
		if readErr != nil {
			action.Error = readErr.Error()
			return action
		}
		removed := 0
		for _, entry := range entries {
			if entry.IsDir() || !strings.Contains(entry.Name(), rm.NameContains) {
				continue
			}
			removed++
			if e.dryRun {
				continue
			}
			if rmErr := os.Remove(filepath.Join(path, entry.Name())); rmErr != nil {
				action.Error = rmErr.Error()
				return action
			}
		}
		action.Changed = removed > 0
		action.Detail = fmt.Sprintf("removed %d file(s) matching %q", removed, rm.NameContains)
		return action
	}

	if _, statErr := os.Lstat(path); os.IsNotExist(statErr) {
		action.Skipped = true
		action.Detail = "already absent"
		return action
	} else if statErr != nil {
		action.Error = statErr.Error()
		return action
	}

	action.Changed = true
	action.Detail = "removed"
	if e.dryRun {
		return action
	}
	if rmErr := os.RemoveAll(path); rmErr != nil {
		action.Changed = false
		action.Error = rmErr.Error()
	}
	return action
}

// Package roster holds the operator-side view of the roster: the committed
// rows loaded from the server (master), the unsaved per-row edits (drafts) and
// the filter that selects which master rows are shown.
package roster

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"roster/internal/model"
)

var (
	// ErrUnknownRow is returned for a PSC that is not in the loaded roster.
	ErrUnknownRow = errors.New("unknown row")
	// ErrSaveInFlight is returned when a save for the same PSC is still outstanding.
	ErrSaveInFlight = errors.New("save already in flight")
)

// RowState is the lifecycle of one row.
type RowState int

const (
	Clean RowState = iota
	Dirty
	Saving
)

func (s RowState) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

// Row is a rendered roster row: master values overlaid with the draft.
type Row struct {
	PSC       string
	TagID     *string
	ProjectID *int64
	State     RowState
}

// Payload is the update sent for one row.
type Payload struct {
	PSC       string
	TagID     *string
	ProjectID *int64

	epoch uint64
}

// Filter is the conjunction of the active predicates. Zero value matches all.
type Filter struct {
	Tag     string
	PSC     string
	Project *int64
}

// draft holds the fields the operator touched; untouched fields fall back to master.
type draft struct {
	tagSet     bool
	tagID      *string
	projectSet bool
	projectID  *int64
}

// Reconciler owns master, drafts and filter. Methods are safe for concurrent
// use; state is keyed by PSC so saves of different rows never interact.
type Reconciler struct {
	mu       sync.RWMutex
	order    []string
	master   map[string]model.Employee
	drafts   map[string]draft
	saving   map[string]bool
	projects []model.Project
	filter   Filter
	// bumped by Load and Reset; saves begun before are stale
	epoch uint64
}

// NewReconciler returns an empty reconciler.
func NewReconciler() *Reconciler {
	r := &Reconciler{}
	r.resetLocked()
	return r
}

// Load replaces master wholesale and discards all drafts and in-flight markers.
func (r *Reconciler) Load(employees []model.Employee, projects []model.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.master = make(map[string]model.Employee, len(employees))
	r.order = make([]string, 0, len(employees))
	for _, e := range employees {
		if _, dup := r.master[e.PSC]; !dup {
			r.order = append(r.order, e.PSC)
		}
		r.master[e.PSC] = cloneEmployee(e)
	}
	sort.Strings(r.order)

	r.projects = append(make([]model.Project, 0, len(projects)), projects...)
	r.drafts = make(map[string]draft)
	r.saving = make(map[string]bool)
	r.epoch++
}

// Reset drops everything, filters included. Used when the session ends.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *Reconciler) resetLocked() {
	r.order = nil
	r.master = make(map[string]model.Employee)
	r.drafts = make(map[string]draft)
	r.saving = make(map[string]bool)
	r.projects = nil
	r.filter = Filter{}
	r.epoch++
}

// EditTag records an unsaved tag value for psc. nil clears the tag.
func (r *Reconciler) EditTag(psc string, tagID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.master[psc]; !ok {
		return ErrUnknownRow
	}
	d := r.drafts[psc]
	d.tagSet = true
	d.tagID = cloneString(tagID)
	r.drafts[psc] = d
	return nil
}

// EditProject records an unsaved project for psc. nil clears the project, and
// so does 0, which the store keeps as NULL.
func (r *Reconciler) EditProject(psc string, projectID *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.master[psc]; !ok {
		return ErrUnknownRow
	}
	if projectID != nil && *projectID == 0 {
		projectID = nil
	}
	d := r.drafts[psc]
	d.projectSet = true
	d.projectID = cloneInt(projectID)
	r.drafts[psc] = d
	return nil
}

// SetTagFilter sets the case-insensitive tag substring. "" matches all.
func (r *Reconciler) SetTagFilter(s string) {
	r.mu.Lock()
	r.filter.Tag = s
	r.mu.Unlock()
}

// SetPSCFilter sets the case-insensitive PSC substring. "" matches all.
func (r *Reconciler) SetPSCFilter(s string) {
	r.mu.Lock()
	r.filter.PSC = s
	r.mu.Unlock()
}

// SetProjectFilter selects rows of one project. A raw value that is empty or
// not an integer means no selection, never project zero.
func (r *Reconciler) SetProjectFilter(raw string) {
	var project *int64
	if v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		project = &v
	}
	r.mu.Lock()
	r.filter.Project = project
	r.mu.Unlock()
}

// ClearFilters makes every master row visible again.
func (r *Reconciler) ClearFilters() {
	r.mu.Lock()
	r.filter = Filter{}
	r.mu.Unlock()
}

// Filter returns the active predicates.
func (r *Reconciler) Filter() Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f := r.filter
	f.Project = cloneInt(f.Project)
	return f
}

// Visible returns the master rows matching the filter, in PSC order, rendered
// with draft values. Membership is decided on master values only.
func (r *Reconciler) Visible() []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]Row, 0, len(r.order))
	for _, psc := range r.order {
		if !r.filter.matches(r.master[psc]) {
			continue
		}
		rows = append(rows, r.rowLocked(psc))
	}
	return rows
}

// Row returns the rendered row for psc.
func (r *Reconciler) Row(psc string) (Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.master[psc]; !ok {
		return Row{}, ErrUnknownRow
	}
	return r.rowLocked(psc), nil
}

// Pending returns the rows holding unsaved edits, in PSC order, whether or not
// they are currently visible.
func (r *Reconciler) Pending() []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]Row, 0, len(r.drafts))
	for _, psc := range r.order {
		if _, ok := r.drafts[psc]; ok {
			rows = append(rows, r.rowLocked(psc))
		}
	}
	return rows
}

// Projects returns the loaded project list.
func (r *Reconciler) Projects() []model.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]model.Project, 0, len(r.projects)), r.projects...)
}

// BeginSave captures the effective values of psc as the payload to send and
// marks the row as saving.
func (r *Reconciler) BeginSave(psc string) (Payload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.master[psc]; !ok {
		return Payload{}, ErrUnknownRow
	}
	if r.saving[psc] {
		return Payload{}, ErrSaveInFlight
	}
	r.saving[psc] = true

	row := r.rowLocked(psc)
	return Payload{PSC: psc, TagID: row.TagID, ProjectID: row.ProjectID, epoch: r.epoch}, nil
}

// CommitSave applies an acknowledged payload to master. The draft is dropped
// only if no newer edit arrived while the save was in flight. Payloads begun
// before the last Load or Reset are ignored; the result reports whether p was applied.
func (r *Reconciler) CommitSave(p Payload) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.epoch != r.epoch {
		return false
	}
	delete(r.saving, p.PSC)
	r.master[p.PSC] = model.Employee{
		PSC:       p.PSC,
		TagID:     cloneString(p.TagID),
		ProjectID: cloneInt(p.ProjectID),
	}
	if d, ok := r.drafts[p.PSC]; ok && r.draftMatchesLocked(p.PSC, d, p) {
		delete(r.drafts, p.PSC)
	}
	return true
}

// FailSave ends a save that was not acknowledged. The draft is kept.
func (r *Reconciler) FailSave(p Payload) {
	r.mu.Lock()
	if p.epoch == r.epoch {
		delete(r.saving, p.PSC)
	}
	r.mu.Unlock()
}

func (r *Reconciler) draftMatchesLocked(psc string, d draft, p Payload) bool {
	eff := r.effectiveLocked(psc, d)
	return equalString(eff.TagID, p.TagID) && equalInt(eff.ProjectID, p.ProjectID)
}

func (r *Reconciler) rowLocked(psc string) Row {
	d, dirty := r.drafts[psc]
	eff := r.effectiveLocked(psc, d)

	state := Clean
	switch {
	case r.saving[psc]:
		state = Saving
	case dirty:
		state = Dirty
	}
	return Row{
		PSC:       psc,
		TagID:     cloneString(eff.TagID),
		ProjectID: cloneInt(eff.ProjectID),
		State:     state,
	}
}

func (r *Reconciler) effectiveLocked(psc string, d draft) model.Employee {
	eff := r.master[psc]
	if d.tagSet {
		eff.TagID = d.tagID
	}
	if d.projectSet {
		eff.ProjectID = d.projectID
	}
	return eff
}

func (f Filter) matches(e model.Employee) bool {
	if f.Tag != "" {
		if e.TagID == nil || !containsFold(*e.TagID, f.Tag) {
			return false
		}
	}
	if f.PSC != "" && !containsFold(e.PSC, f.PSC) {
		return false
	}
	if f.Project != nil {
		if e.ProjectID == nil || *e.ProjectID != *f.Project {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func cloneEmployee(e model.Employee) model.Employee {
	return model.Employee{PSC: e.PSC, TagID: cloneString(e.TagID), ProjectID: cloneInt(e.ProjectID)}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

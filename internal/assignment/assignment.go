// Package assignment maps scanned pages onto logical documents. A page belongs
// to at most one assignment at a time; assigning it elsewhere silently moves it.
package assignment

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/akolanti/scanflow/internal/domain/exportModel"
	"github.com/akolanti/scanflow/internal/schema"
	"github.com/akolanti/scanflow/pkg/logger_i"
	"github.com/google/uuid"
)

const previewExtension = ".pdf"

var (
	ErrNoPages            = errors.New("assignment needs at least one page")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrInvalidPagesPerDoc = errors.New("pages per document must be positive")
)

type PageAssignment struct {
	ID                string            `json:"assignment_id"`
	PageIDs           []string          `json:"page_ids"`
	Values            map[string]string `json:"index_values"`
	FolderPathPreview string            `json:"folder_path_preview"`
	FilenamePreview   string            `json:"filename_preview"`
}

func (a PageAssignment) clone() PageAssignment {
	a.PageIDs = slices.Clone(a.PageIDs)
	a.Values = maps.Clone(a.Values)
	return a
}

type ValidationError struct {
	AssignmentID string   `json:"assignment_id"`
	FieldName    string   `json:"field_name"`
	Message      string   `json:"error_message"`
	PageIDs      []string `json:"page_ids"`
}

type Summary struct {
	TotalAssignments   int            `json:"total_assignments"`
	TotalAssignedPages int            `json:"total_assigned_pages"`
	AveragePagesPerDoc float64        `json:"average_pages_per_document"`
	PagesPerAssignment map[string]int `json:"assignments_by_page_count"`
}

// Change describes one mutation. Evicted lists pages that left another
// assignment because they were claimed by AssignmentID.
type Change struct {
	AssignmentID string
	Evicted      map[string][]string
	Removed      []string
}

type Store struct {
	mu               sync.RWMutex
	assignments      []*PageAssignment
	pageToAssignment map[string]string
	onChange         func(Change)
	newID            func() string
	logger           *logger_i.Logger
}

type Option func(*Store)

// WithOnChange registers a callback invoked after every successful mutation.
// It runs with the store lock released.
func WithOnChange(fn func(Change)) Option {
	return func(s *Store) { s.onChange = fn }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		pageToAssignment: make(map[string]string),
		newID:            uuid.NewString,
		logger:           logger_i.NewLogger("AssignmentStore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAssignment claims pageIDs for a new assignment, evicting them from any
// previous owner. Owners left empty are deleted.
func (s *Store) CreateAssignment(pageIDs []string, values map[string]string) (PageAssignment, error) {
	pageIDs = dedupe(pageIDs)
	if len(pageIDs) == 0 {
		return PageAssignment{}, ErrNoPages
	}

	s.mu.Lock()
	a := &PageAssignment{
		ID:      s.newID(),
		PageIDs: pageIDs,
		Values:  maps.Clone(values),
	}
	if a.Values == nil {
		a.Values = make(map[string]string)
	}
	change := Change{AssignmentID: a.ID}
	change.Evicted, change.Removed = s.claimLocked(a.ID, pageIDs)
	s.assignments = append(s.assignments, a)
	out := a.clone()
	s.mu.Unlock()

	if len(change.Evicted) > 0 {
		s.logger.Debug("pages reassigned", "assignmentId", a.ID, "evictedFrom", len(change.Evicted))
	}
	s.notify(change)
	return out, nil
}

func (s *Store) UpdateAssignment(id string, values map[string]string) bool {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return false
	}
	a.Values = maps.Clone(values)
	if a.Values == nil {
		a.Values = make(map[string]string)
	}
	s.mu.Unlock()

	s.notify(Change{AssignmentID: id})
	return true
}

// AddPagesToAssignment appends pages not already in the assignment, evicting
// them from their previous owners.
func (s *Store) AddPagesToAssignment(id string, pageIDs []string) bool {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return false
	}
	var fresh []string
	for _, pageID := range dedupe(pageIDs) {
		if s.pageToAssignment[pageID] != id {
			fresh = append(fresh, pageID)
		}
	}
	change := Change{AssignmentID: id}
	change.Evicted, change.Removed = s.claimLocked(id, fresh)
	a.PageIDs = append(a.PageIDs, fresh...)
	s.mu.Unlock()

	s.notify(change)
	return true
}

// RemovePagesFromAssignment drops pages from the assignment and deletes the
// assignment when it becomes empty.
func (s *Store) RemovePagesFromAssignment(id string, pageIDs []string) bool {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return false
	}
	for _, pageID := range pageIDs {
		if s.pageToAssignment[pageID] == id {
			delete(s.pageToAssignment, pageID)
		}
	}
	a.PageIDs = slices.DeleteFunc(a.PageIDs, func(p string) bool { return slices.Contains(pageIDs, p) })
	change := Change{AssignmentID: id}
	if len(a.PageIDs) == 0 {
		s.deleteLocked(id)
		change.Removed = []string{id}
	}
	s.mu.Unlock()

	s.notify(change)
	return true
}

func (s *Store) RemoveAssignment(id string) bool {
	s.mu.Lock()
	a := s.findLocked(id)
	if a == nil {
		s.mu.Unlock()
		return false
	}
	for _, pageID := range a.PageIDs {
		delete(s.pageToAssignment, pageID)
	}
	s.deleteLocked(id)
	s.mu.Unlock()

	s.notify(Change{AssignmentID: id, Removed: []string{id}})
	return true
}

// MovePages moves pages owned by sourceID into targetID.
func (s *Store) MovePages(pageIDs []string, sourceID, targetID string) bool {
	s.mu.RLock()
	source, target := s.findLocked(sourceID), s.findLocked(targetID)
	var owned []string
	if source != nil {
		for _, pageID := range pageIDs {
			if slices.Contains(source.PageIDs, pageID) {
				owned = append(owned, pageID)
			}
		}
	}
	s.mu.RUnlock()

	if source == nil || target == nil {
		return false
	}
	return s.AddPagesToAssignment(targetID, owned)
}

func (s *Store) GetUnassignedPages(allPageIDs []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, pageID := range allPageIDs {
		if _, ok := s.pageToAssignment[pageID]; !ok {
			out = append(out, pageID)
		}
	}
	return out
}

func (s *Store) AssignmentForPage(pageID string) (PageAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.pageToAssignment[pageID]
	if !ok {
		return PageAssignment{}, false
	}
	return s.findLocked(id).clone(), true
}

func (s *Store) Assignment(id string) (PageAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a := s.findLocked(id)
	if a == nil {
		return PageAssignment{}, ErrAssignmentNotFound
	}
	return a.clone(), nil
}

// All returns copies of the assignments in insertion order.
func (s *Store) All() []PageAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PageAssignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a.clone())
	}
	return out
}

func (s *Store) Clear() {
	s.mu.Lock()
	removed := make([]string, 0, len(s.assignments))
	for _, a := range s.assignments {
		removed = append(removed, a.ID)
	}
	s.assignments = nil
	clear(s.pageToAssignment)
	s.mu.Unlock()

	s.notify(Change{Removed: removed})
}

func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := Summary{
		TotalAssignments:   len(s.assignments),
		TotalAssignedPages: len(s.pageToAssignment),
		PagesPerAssignment: make(map[string]int, len(s.assignments)),
	}
	for _, a := range s.assignments {
		summary.PagesPerAssignment[a.ID] = len(a.PageIDs)
	}
	if summary.TotalAssignments > 0 {
		summary.AveragePagesPerDoc = float64(summary.TotalAssignedPages) / float64(summary.TotalAssignments)
	}
	return summary
}

// ValidateAssignments reports every schema violation across all assignments,
// in assignment then field order.
func (s *Store) ValidateAssignments(sc *schema.Schema) []ValidationError {
	var out []ValidationError
	for _, a := range s.All() {
		for _, field := range sc.Fields {
			if ok, msg := field.ValidateValue(a.Values[field.Name]); !ok {
				out = append(out, ValidationError{
					AssignmentID: a.ID,
					FieldName:    field.Name,
					Message:      msg,
					PageIDs:      a.PageIDs,
				})
			}
		}
	}
	return out
}

// GenerateDocumentGroups projects every non-empty assignment into an export
// group, in insertion order. Previews are refreshed as a side effect.
func (s *Store) GenerateDocumentGroups(sc *schema.Schema) []exportModel.DocumentGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := make([]exportModel.DocumentGroup, 0, len(s.assignments))
	for _, a := range s.assignments {
		if len(a.PageIDs) == 0 {
			continue
		}
		a.FolderPathPreview = sc.GenerateFolderPath(a.Values)
		a.FilenamePreview = sc.GenerateFilename(a.Values, previewExtension)
		groups = append(groups, exportModel.DocumentGroup{
			AssignmentID: a.ID,
			PageIDs:      slices.Clone(a.PageIDs),
			Values:       maps.Clone(a.Values),
			FolderPath:   a.FolderPathPreview,
			Filename:     a.FilenamePreview,
			PageCount:    len(a.PageIDs),
		})
	}
	return groups
}

// claimLocked points pageIDs at owner and strips them from any other
// assignment. It returns evicted pages per previous owner and the owners that
// became empty and were deleted.
func (s *Store) claimLocked(owner string, pageIDs []string) (map[string][]string, []string) {
	var evicted map[string][]string
	for _, pageID := range pageIDs {
		prev, ok := s.pageToAssignment[pageID]
		if ok && prev != owner {
			if evicted == nil {
				evicted = make(map[string][]string)
			}
			evicted[prev] = append(evicted[prev], pageID)
		}
		s.pageToAssignment[pageID] = owner
	}

	var removed []string
	for prevID, pages := range evicted {
		prev := s.findLocked(prevID)
		if prev == nil {
			continue
		}
		prev.PageIDs = slices.DeleteFunc(prev.PageIDs, func(p string) bool { return slices.Contains(pages, p) })
		if len(prev.PageIDs) == 0 {
			s.deleteLocked(prevID)
			removed = append(removed, prevID)
		}
	}
	slices.Sort(removed)
	return evicted, removed
}

func (s *Store) findLocked(id string) *PageAssignment {
	for _, a := range s.assignments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Store) deleteLocked(id string) {
	s.assignments = slices.DeleteFunc(s.assignments, func(a *PageAssignment) bool { return a.ID == id })
}

func (s *Store) notify(change Change) {
	if s.onChange != nil {
		s.onChange(change)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

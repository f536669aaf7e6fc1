package assignment

import (
	"fmt"
	"maps"

	"github.com/akolanti/scanflow/internal/schema"
)

// AutoAssignSequential replaces all assignments with consecutive chunks of
// pagesPerDoc pages. The first filename field of each chunk gets a _DocNNN
// suffix so generated names stay distinct.
func (s *Store) AutoAssignSequential(pageIDs []string, pagesPerDoc int, baseValues map[string]string, sc *schema.Schema) error {
	if pagesPerDoc <= 0 {
		return ErrInvalidPagesPerDoc
	}
	s.Clear()

	var suffixField string
	if sc != nil {
		if fields := sc.FilenameFields(); len(fields) > 0 {
			suffixField = fields[0].Name
		}
	}

	for start, doc := 0, 1; start < len(pageIDs); start, doc = start+pagesPerDoc, doc+1 {
		end := min(start+pagesPerDoc, len(pageIDs))
		values := maps.Clone(baseValues)
		if values == nil {
			values = make(map[string]string)
		}
		if suffixField != "" {
			if base := values[suffixField]; base != "" {
				values[suffixField] = fmt.Sprintf("%s_Doc%03d", base, doc)
			} else {
				values[suffixField] = fmt.Sprintf("Doc%03d", doc)
			}
		}
		if _, err := s.CreateAssignment(pageIDs[start:end], values); err != nil {
			return fmt.Errorf("auto assign document %d: %w", doc, err)
		}
	}
	return nil
}

// ApplyDefaults fills values missing from each assignment with the field defaults.
func (s *Store) ApplyDefaults(sc *schema.Schema) {
	s.mu.Lock()
	var touched []string
	for _, a := range s.assignments {
		changed := false
		for _, field := range sc.Fields {
			if field.DefaultValue == "" {
				continue
			}
			if _, ok := a.Values[field.Name]; !ok {
				a.Values[field.Name] = field.DefaultValue
				changed = true
			}
		}
		if changed {
			touched = append(touched, a.ID)
		}
	}
	s.mu.Unlock()

	for _, id := range touched {
		s.notify(Change{AssignmentID: id})
	}
}

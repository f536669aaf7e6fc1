// Package schema defines the index fields that place and name exported documents.
package schema

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

const (
	DefaultSeparator = "_"
	fallbackFilename = "document"
	invalidChars     = `<>:"/\|?*`
)

var ErrDuplicateField = errors.New("duplicate field")

// Schema is an ordered list of index fields. Fields stay sorted by Order.
type Schema struct {
	Fields    []IndexField `json:"fields"`
	Separator string       `json:"separator"`
}

func New(separator string) *Schema {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Schema{Separator: separator}
}

func (s *Schema) AddField(field IndexField) error {
	if _, ok := s.FieldByName(field.Name); ok {
		return fmt.Errorf("field with name '%s' already exists: %w", field.Name, ErrDuplicateField)
	}
	s.Fields = append(s.Fields, field)
	s.sortFields()
	return nil
}

func (s *Schema) RemoveField(name string) bool {
	idx := s.indexOf(name)
	if idx < 0 {
		return false
	}
	s.Fields = slices.Delete(s.Fields, idx, idx+1)
	s.sortFields()
	return true
}

// ReorderField moves the field to position and uses position as its new order key.
func (s *Schema) ReorderField(name string, position int) bool {
	idx := s.indexOf(name)
	if idx < 0 {
		return false
	}
	field := s.Fields[idx]
	s.Fields = slices.Delete(s.Fields, idx, idx+1)

	field.Order = position
	insertAt := min(max(position, 0), len(s.Fields))
	s.Fields = slices.Insert(s.Fields, insertAt, field)
	s.sortFields()
	return true
}

func (s *Schema) FieldByName(name string) (IndexField, bool) {
	idx := s.indexOf(name)
	if idx < 0 {
		return IndexField{}, false
	}
	return s.Fields[idx], true
}

func (s *Schema) FolderFields() []IndexField {
	return s.fieldsOfType(FieldFolder)
}

func (s *Schema) FilenameFields() []IndexField {
	return s.fieldsOfType(FieldFilename)
}

func (s *Schema) MetadataFields() []IndexField {
	return s.fieldsOfType(FieldMetadata)
}

// GenerateFolderPath joins the sanitized folder field values. Absent values
// fall back to the field default; empty values are skipped.
func (s *Schema) GenerateFolderPath(values map[string]string) string {
	parts := s.sanitizedValues(s.FolderFields(), values)
	if len(parts) == 0 {
		return ""
	}
	return filepath.Join(parts...)
}

// GenerateFilename joins the sanitized filename field values with the separator
// and appends extension verbatim.
func (s *Schema) GenerateFilename(values map[string]string, extension string) string {
	parts := s.sanitizedValues(s.FilenameFields(), values)
	if len(parts) == 0 {
		parts = []string{fallbackFilename}
	}
	return strings.Join(parts, s.Separator) + extension
}

// ValidateAllValues returns field name -> message for every failing field.
func (s *Schema) ValidateAllValues(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, field := range s.Fields {
		if ok, msg := field.ValidateValue(values[field.Name]); !ok {
			errs[field.Name] = msg
		}
	}
	return errs
}

// Sanitize replaces characters that are invalid in file names and trims
// surrounding spaces and dots.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return '_'
		}
		return r
	}, name)
	return strings.Trim(name, " .")
}

func (s *Schema) sanitizedValues(fields []IndexField, values map[string]string) []string {
	var parts []string
	for _, field := range fields {
		value, ok := values[field.Name]
		if !ok {
			value = field.DefaultValue
		}
		if value == "" {
			continue
		}
		if clean := Sanitize(value); clean != "" {
			parts = append(parts, clean)
		}
	}
	return parts
}

func (s *Schema) fieldsOfType(fieldType FieldType) []IndexField {
	var out []IndexField
	for _, f := range s.Fields {
		if f.Type == fieldType {
			out = append(out, f)
		}
	}
	return out
}

func (s *Schema) indexOf(name string) int {
	return slices.IndexFunc(s.Fields, func(f IndexField) bool { return f.Name == name })
}

func (s *Schema) sortFields() {
	sort.SliceStable(s.Fields, func(i, j int) bool { return s.Fields[i].Order < s.Fields[j].Order })
}

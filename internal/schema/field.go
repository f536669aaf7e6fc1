package schema

import (
	"fmt"
	"slices"
	"unicode/utf8"

	regexpcache "github.com/umisama/go-regexpcache"
)

type FieldType string

const (
	FieldFolder   FieldType = "folder"
	FieldFilename FieldType = "filename"
	FieldMetadata FieldType = "metadata"
)

type ValidationRule struct {
	Pattern       string   `json:"pattern,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
	MinLength     int      `json:"min_length,omitempty"`
	MaxLength     int      `json:"max_length,omitempty"`
	Required      bool     `json:"required"`
}

type IndexField struct {
	Name         string         `json:"name"`
	Type         FieldType      `json:"field_type"`
	Order        int            `json:"order"`
	DefaultValue string         `json:"default_value,omitempty"`
	IsRequired   bool           `json:"is_required"`
	Rules        ValidationRule `json:"validation_rules"`
}

// ValidateValue checks required, pattern, allowed values and length in that
// order and reports the first failure. A zero length bound is unset.
func (f IndexField) ValidateValue(value string) (bool, string) {
	if value == "" {
		if f.IsRequired {
			return false, fmt.Sprintf("Field '%s' is required", f.Name)
		}
		return true, ""
	}

	if f.Rules.Pattern != "" {
		// patterns only anchor at the start of the value
		re, err := regexpcache.Compile(`^(?:` + f.Rules.Pattern + `)`)
		if err != nil {
			return false, fmt.Sprintf("Field '%s' has an invalid pattern", f.Name)
		}
		if !re.MatchString(value) {
			return false, fmt.Sprintf("Value '%s' doesn't match required pattern", value)
		}
	}

	if len(f.Rules.AllowedValues) > 0 && !slices.Contains(f.Rules.AllowedValues, value) {
		return false, fmt.Sprintf("Value '%s' not in allowed values", value)
	}

	length := utf8.RuneCountInString(value)
	if f.Rules.MinLength > 0 && length < f.Rules.MinLength {
		return false, fmt.Sprintf("Value too short (minimum %d characters)", f.Rules.MinLength)
	}
	if f.Rules.MaxLength > 0 && length > f.Rules.MaxLength {
		return false, fmt.Sprintf("Value too long (maximum %d characters)", f.Rules.MaxLength)
	}
	return true, ""
}

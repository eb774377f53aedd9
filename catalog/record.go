// Package catalog implements package records, their storage and query evaluation
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Attributes stored on records
const (
	AttrName      = "name"
	AttrProvide   = "provide"
	AttrDepend    = "depend"
	AttrOptDepend = "optdepend"
	AttrGroup     = "group"
	AttrReplace   = "replace"
	AttrConflict  = "conflict"
	AttrLicense   = "license"
	AttrPackager  = "packager"
	AttrURL       = "url"
	AttrDesc      = "desc"
	AttrRepo      = "repo"
	AttrCategory  = "category"
	AttrTag       = "tag"
)

// AttrFile is synthetic attribute resolved through file index, it is never stored on a record
const AttrFile = "file"

// KnownAttributes lists attributes in display order
var KnownAttributes = []string{
	AttrName, AttrRepo, AttrDesc, AttrURL, AttrPackager, AttrLicense, AttrGroup,
	AttrProvide, AttrDepend, AttrOptDepend, AttrReplace, AttrConflict,
	AttrCategory, AttrTag,
}

// Record is a single catalog entry: attribute name to list of values
//
// Missing attribute is the same as attribute without values.
type Record map[string][]string

// NewRecord creates record with name set
func NewRecord(name string) Record {
	return Record{AttrName: {name}}
}

// Name returns record identity
func (r Record) Name() string {
	if values := r[AttrName]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Add appends values to the attribute
func (r Record) Add(attr string, values ...string) {
	r[attr] = append(r[attr], values...)
}

// Set replaces values of the attribute, empty list removes it
func (r Record) Set(attr string, values []string) {
	if len(values) == 0 {
		delete(r, attr)
		return
	}
	r[attr] = values
}

// Validate checks that record has exactly one non-empty name
func (r Record) Validate() error {
	values := r[AttrName]
	if len(values) != 1 || values[0] == "" {
		return fmt.Errorf("record should have exactly one non-empty name, got %q", values)
	}
	return nil
}

// Attributes returns names of attributes with values: known ones first in display order, then the rest
func (r Record) Attributes() []string {
	result := make([]string, 0, len(r))
	seen := map[string]bool{}
	for _, attr := range KnownAttributes {
		seen[attr] = true
		if len(r[attr]) > 0 {
			result = append(result, attr)
		}
	}

	extra := []string{}
	for attr, values := range r {
		if !seen[attr] && len(values) > 0 {
			extra = append(extra, attr)
		}
	}
	sort.Strings(extra)

	return append(result, extra...)
}

// Clone makes deep copy of the record
func (r Record) Clone() Record {
	result := make(Record, len(r))
	for attr, values := range r {
		result[attr] = append([]string(nil), values...)
	}
	return result
}

// String returns record name
func (r Record) String() string {
	return r.Name()
}

// DependencyName strips version constraint or description from dependency-like value
//
//	"glibc>=2.38" -> "glibc", "python: for scripts" -> "python"
func DependencyName(value string) string {
	if i := strings.IndexAny(value, "<>=:"); i != -1 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

// Package schema reads enumerations of legal values out of a CoLRev settings
// JSON Schema document.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Field names as they appear under ProjectSettings.properties.
const (
	FieldIDPattern    = "id_pattern"
	FieldShareStatReq = "share_stat_req"
)

// Source is a parsed schema document.
//
// A nil *Source is valid and answers every lookup with an empty list.
type Source struct {
	doc gjson.Result
}

// EnumPath returns the fixed lookup path for field's enumeration.
func EnumPath(field string) string {
	return "definitions.ProjectSettings.properties." + gjson.Escape(field) + ".enum"
}

// Parse parses a schema document. JSON is tried first; anything else is
// decoded as YAML and re-encoded as JSON.
func Parse(b []byte) (*Source, error) {
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, errors.New("schema: empty document")
	}
	if gjson.ValidBytes(b) {
		return &Source{doc: gjson.ParseBytes(b)}, nil
	}

	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	j, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("schema: re-encode yaml: %w", err)
	}
	return &Source{doc: gjson.ParseBytes(j)}, nil
}

// Load reads and parses the schema document at path.
func Load(path string) (*Source, error) {
	path = filepath.Clean(strings.TrimSpace(path))
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Enum returns the ordered enumeration for field, duplicates included.
func (s *Source) Enum(field string) []string {
	if s == nil {
		return []string{}
	}
	res := s.doc.Get(EnumPath(field))
	if !res.IsArray() {
		return []string{}
	}
	arr := res.Array()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if v.Type == gjson.String {
			out = append(out, v.Str)
			continue
		}
		out = append(out, v.Raw)
	}
	return out
}

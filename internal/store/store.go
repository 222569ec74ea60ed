package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"colrev-settings/internal/model"
)

const (
	SettingsFileName = "settings.json"
	projectKey       = "project"
	localDirName     = ".colrev-settings"
)

// ErrNoProjectSection is returned when settings.json has no "project" object.
var ErrNoProjectSection = errors.New("settings.json has no project section")

// Store reads and writes the project settings of one CoLRev repository.
type Store struct {
	Dir string
}

// DiscoverDir walks up from start to the first directory holding a
// settings.json.
func DiscoverDir(start string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		candidate := filepath.Join(dir, SettingsFileName)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir returns the enclosing CoLRev repository of the working directory,
// or the working directory itself.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return cwd, nil
}

func (s Store) SettingsPath() string {
	return filepath.Join(filepath.Clean(s.Dir), SettingsFileName)
}

func (s Store) localDir() string {
	return filepath.Join(filepath.Clean(s.Dir), localDirName)
}

func (s Store) readDocument() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.SettingsPath())
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.SettingsPath(), err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

// Load reads the project section of settings.json. Each call returns a new
// value.
func (s Store) Load() (*model.Project, error) {
	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[projectKey]
	if !ok || string(raw) == "null" {
		return nil, ErrNoProjectSection
	}
	var p model.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse %s project: %w", s.SettingsPath(), err)
	}
	return &p, nil
}

// Save writes p into the project section of settings.json. Project keys
// that p does not model and every other top-level section are written back
// unchanged. The previous file is kept as settings.json.bak.
func (s Store) Save(p model.Project) error {
	doc, err := s.readDocument()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		doc = map[string]json.RawMessage{}
	}

	raw, err := mergeProject(doc[projectKey], p)
	if err != nil {
		return fmt.Errorf("parse %s project: %w", s.SettingsPath(), err)
	}
	doc[projectKey] = raw

	b, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	dir := filepath.Clean(s.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := s.SettingsPath()
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		// Best-effort; a failed backup must not block the save.
		_ = atomicWriteFile(dir, SettingsFileName+".bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, SettingsFileName+".*.tmp", path, b, 0o644)
}

// normalizeLists writes absent lists as [] rather than null.
func normalizeLists(p model.Project) model.Project {
	if p.Authors == nil {
		p.Authors = []string{}
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.CuratedFields == nil {
		p.CuratedFields = []string{}
	}
	return p
}

// mergeProject overwrites the modeled keys of the stored project object with
// p and keeps the rest.
func mergeProject(prev json.RawMessage, p model.Project) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(prev) > 0 && string(prev) != "null" {
		if err := json.Unmarshal(prev, &fields); err != nil {
			return nil, err
		}
	}
	known, err := fieldsOf(p)
	if err != nil {
		return nil, err
	}
	for k, v := range known {
		fields[k] = v
	}
	return json.Marshal(fields)
}

// Package docs serves the settings editor's embedded help topics.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one help page.
type Topic struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Markdown string `json:"markdown,omitempty"`
}

// List returns every topic without its body, sorted by name.
func List() []Topic {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []Topic{}
	}
	out := make([]Topic, 0, len(entries))
	for _, p := range entries {
		t, ok := Lookup(strings.TrimSuffix(path.Base(p), ".md"))
		if !ok {
			continue
		}
		t.Markdown = ""
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the topic names, sorted.
func Names() []string {
	topics := List()
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}

// Lookup finds a topic by name, ignoring case.
func Lookup(name string) (Topic, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return Topic{}, false
	}
	b, err := contentFS.ReadFile(path.Join("content", name+".md"))
	if err != nil {
		return Topic{}, false
	}
	body := string(b)
	return Topic{Name: name, Title: heading(body, name), Markdown: body}, true
}

// heading is the text of the page's first "# " line.
func heading(md, fallback string) string {
	for _, line := range strings.Split(md, "\n") {
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return fallback
}

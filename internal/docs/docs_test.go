package docs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestList_NamesAndTitles(t *testing.T) {
	want := []Topic{
		{Name: "fields", Title: "Project fields"},
		{Name: "keys", Title: "Key bindings"},
	}
	if diff := cmp.Diff(want, List()); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fields", "keys"}, Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	topic, ok := Lookup(" KEYS ")
	if !ok || topic.Name != "keys" || !strings.HasPrefix(topic.Markdown, "# Key bindings") {
		t.Fatalf("expected keys topic, got %+v ok=%v", topic, ok)
	}
	for _, name := range []string{"", "nope", "../docs", "keys.md"} {
		if _, ok := Lookup(name); ok {
			t.Fatalf("expected %q to miss", name)
		}
	}
}

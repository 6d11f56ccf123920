// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mdxcite/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func resolved(key, locator string) types.ResolvedCitation {
	return types.ResolvedCitation{
		Citation: types.RawCitation{Kind: types.KindKeyRef, Key: key, Locator: locator},
		Key:      key,
		Method:   types.MethodByKey,
	}
}

func testDoc(path, title string, cites ...types.ResolvedCitation) *types.DocumentContext {
	return &types.DocumentContext{
		Path:     path,
		Meta:     types.FrontMatter{Title: title},
		Resolved: cites,
	}
}

func record(t *testing.T, s *Store, docs ...*types.DocumentContext) RecordSummary {
	t.Helper()
	var buf bytes.Buffer
	sum, err := s.Record(context.Background(), docs, &buf)
	if err != nil {
		t.Fatal(err)
	}
	return sum
}

// --- tests ---

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "ledger")
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(dir, dbFile)); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestRecordAndCitedBy(t *testing.T) {
	s := testStore(t)
	sum := record(t, s,
		testDoc("docs/being.mdx", "Being", resolved("hegel2010logic", "61"), resolved("hegel2010logic", ""), resolved("kant1998critique", "A51")),
		testDoc("docs/nothing.mdx", "Nothing", resolved("hegel2010logic", "82")),
		&types.DocumentContext{Path: "docs/index.mdx", Meta: types.FrontMatter{IsArticle: new(bool)}},
	)
	want := RecordSummary{Recorded: 2, Citations: 4, Skipped: 1}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}

	got, err := s.CitedBy(context.Background(), "hegel2010logic")
	if err != nil {
		t.Fatal(err)
	}
	wantCiting := []Citing{
		{Path: "docs/being.mdx", Title: "Being", Count: 2, Locators: []string{"61"}},
		{Path: "docs/nothing.mdx", Title: "Nothing", Count: 1, Locators: []string{"82"}},
	}
	if !reflect.DeepEqual(got, wantCiting) {
		t.Errorf("CitedBy = %+v, want %+v", got, wantCiting)
	}

	none, err := s.CitedBy(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("CitedBy(missing) = %+v, want empty", none)
	}
}

func TestRecordReplacesDocumentRows(t *testing.T) {
	s := testStore(t)
	record(t, s, testDoc("a.mdx", "A", resolved("k1", ""), resolved("k2", "")))
	record(t, s, testDoc("a.mdx", "A2", resolved("k2", "")))

	got, err := s.CitedBy(context.Background(), "k1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("k1 still cited after re-record: %+v", got)
	}

	got, err = s.CitedBy(context.Background(), "k2")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "A2" || got[0].Count != 1 {
		t.Errorf("CitedBy(k2) = %+v", got)
	}
}

func TestUnused(t *testing.T) {
	s := testStore(t)
	record(t, s, testDoc("a.mdx", "A", resolved("k2", "")))

	got, err := s.Unused(context.Background(), []string{"k3", "k2", "k1"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"k3", "k1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unused = %v, want %v", got, want)
	}
}

func TestRecordCancelled(t *testing.T) {
	s := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Record(ctx, []*types.DocumentContext{testDoc("a.mdx", "A")}, &bytes.Buffer{}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestExport(t *testing.T) {
	s := testStore(t)
	record(t, s,
		testDoc("b.mdx", "B", resolved("kant1998critique", "")),
		testDoc("a.mdx", "A", resolved("hegel2010logic", "61")),
	)
	ctx := context.Background()

	yamlPath, err := s.ExportYAML(ctx)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []ExportEntry
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 2 || fromYAML[0].Key != "hegel2010logic" || fromYAML[1].Key != "kant1998critique" {
		t.Errorf("yaml export = %+v", fromYAML)
	}
	if fromYAML[0].Documents[0].Path != "a.mdx" {
		t.Errorf("yaml export documents = %+v", fromYAML[0].Documents)
	}

	jsonPath, err := s.ExportJSON(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(jsonPath, "ledger.json") {
		t.Errorf("json path = %s", jsonPath)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []ExportEntry
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Errorf("json export %+v differs from yaml export %+v", fromJSON, fromYAML)
	}
}

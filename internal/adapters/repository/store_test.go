package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/types"
)

func sampleGraph() types.Graph {
	return types.Graph{
		Skills: []model.SkillNode{
			{
				ID: "skill.count-to-20", Title: "Count up to 20", Description: "Count up to 20.",
				Verb: "count", Range: &model.Range{Max: model.IntPtr(20)}, Operation: "counting",
				Representations: []string{"abstract-numerals"}, Contexts: []string{},
				GradeSpans: []string{"K-2"}, Domains: []string{"Number"}, Strands: []string{}, Clusters: []string{"Counting"},
				RitBands:  []model.RitBand{{Label: "141+", Min: model.IntPtr(141), MinInclusive: true, SourceID: "k2"}},
				RitAnchor: model.IntPtr(141), RitStretch: model.IntPtr(141),
				UnitID: "numbers-place-value", UnitName: "Numbers & Place Value",
				Sources: []model.Source{{SourceID: "k2", GradeSpan: "K-2", RitLabel: "141+"}},
				Samples: []string{"Count to 20 & back"}, SourceOrder: 3, BaseDescriptor: "count",
			},
			{ID: "skill.count-to-100", Title: "Count up to 100", Verb: "count", UnitID: "numbers-place-value"},
		},
		Relationships: []model.Edge{
			model.NewEdge(model.EdgeTypePrerequisite, "skill.count-to-20", "skill.count-to-100", "Earlier step of the same skill"),
		},
	}
}

func TestJSONStore_Save(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")
	store := NewJSONStore(dir)

	if err := store.Save(ctx, sampleGraph()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	skillsPath, relsPath := store.Paths()
	data, err := os.ReadFile(skillsPath)
	if err != nil {
		t.Fatalf("read skills: %v", err)
	}
	text := string(data)
	if !strings.HasSuffix(text, "]\n") {
		t.Errorf("expected trailing newline after array, got %q", text[len(text)-5:])
	}
	if !strings.Contains(text, "\n  {\n    \"id\": \"skill.count-to-20\"") {
		t.Errorf("expected two-space indentation, got:\n%s", text)
	}
	if strings.Contains(text, "SourceOrder") || strings.Contains(text, "BaseDescriptor") {
		t.Error("internal fields must not be serialized")
	}
	if !strings.Contains(text, "Count to 20 & back") {
		t.Error("expected HTML characters to stay unescaped")
	}

	var skills []map[string]any
	if err := json.Unmarshal(data, &skills); err != nil {
		t.Fatalf("decode skills: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(skills))
	}
	for _, key := range []string{"id", "title", "description", "verb", "focus", "range", "representations", "contexts",
		"operation", "gradeSpans", "domains", "strands", "clusters", "ritBands", "ritAnchor", "ritStretch",
		"unitId", "unitName", "sources", "samples"} {
		if _, ok := skills[0][key]; !ok {
			t.Errorf("skills.json is missing %q", key)
		}
	}

	var rels []model.Edge
	raw, err := os.ReadFile(relsPath)
	if err != nil {
		t.Fatalf("read relationships: %v", err)
	}
	if err := json.Unmarshal(raw, &rels); err != nil {
		t.Fatalf("decode relationships: %v", err)
	}
	if len(rels) != 1 || rels[0].ID != "prerequisite-skill.count-to-20-skill.count-to-100" {
		t.Errorf("unexpected relationships: %+v", rels)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestJSONStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(t.TempDir(), WithFileNames("nodes.json", "edges.json"))

	if err := store.Save(ctx, sampleGraph()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, types.Graph{}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	skillsPath, relsPath := store.Paths()
	if filepath.Base(skillsPath) != "nodes.json" || filepath.Base(relsPath) != "edges.json" {
		t.Errorf("unexpected paths %s %s", skillsPath, relsPath)
	}
	for _, p := range []string{skillsPath, relsPath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if string(data) != "[]\n" {
			t.Errorf("expected empty array in %s, got %q", p, data)
		}
	}
}

func TestJSONStore_Errors(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := NewJSONStore(filepath.Join(blocker, "out")).Save(ctx, sampleGraph())
	if !errors.Is(err, ErrWriteOutput) {
		t.Errorf("expected ErrWriteOutput, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = NewJSONStore(t.TempDir()).Save(cancelled, sampleGraph())
	if !errors.Is(err, ErrWriteOutput) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation wrapped in ErrWriteOutput, got %v", err)
	}
}

func TestSQLiteStore_Save(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "graph.db")
	store, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, sampleGraph()); err != nil {
		t.Fatalf("save: %v", err)
	}
	// A second save must replace, not append.
	if err := store.Save(ctx, sampleGraph()); err != nil {
		t.Fatalf("resave: %v", err)
	}

	var skills, rels int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM skills`).Scan(&skills); err != nil {
		t.Fatal(err)
	}
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&rels); err != nil {
		t.Fatal(err)
	}
	if skills != 2 || rels != 1 {
		t.Errorf("expected 2 skills and 1 relationship, got %d and %d", skills, rels)
	}

	var anchor *int64
	if err := store.DB().QueryRowContext(ctx, `SELECT rit_anchor FROM skills WHERE id = ?`, "skill.count-to-100").Scan(&anchor); err != nil {
		t.Fatal(err)
	}
	if anchor != nil {
		t.Errorf("expected NULL anchor, got %d", *anchor)
	}

	n, err := store.LoadSkill(ctx, "skill.count-to-20")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n.UnitID != "numbers-place-value" || *n.RitAnchor != 141 || len(n.Sources) != 1 {
		t.Errorf("unexpected node: %+v", n)
	}
}

func TestSQLiteStore_Rollback(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, sampleGraph()); err != nil {
		t.Fatalf("save: %v", err)
	}

	dup := sampleGraph()
	dup.Relationships = append(dup.Relationships, dup.Relationships[0])
	if err := store.Save(ctx, dup); !errors.Is(err, ErrWriteOutput) {
		t.Fatalf("expected ErrWriteOutput on duplicate id, got %v", err)
	}

	var rels int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&rels); err != nil {
		t.Fatal(err)
	}
	if rels != 1 {
		t.Errorf("failed save must leave the previous graph, got %d relationships", rels)
	}
}

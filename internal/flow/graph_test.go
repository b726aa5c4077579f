package flow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"therapist-discovery-backend/internal/database"
)

func TestLoadGraphMissingFileUsesDefault(t *testing.T) {
	g := loadGraph(filepath.Join(t.TempDir(), "chatbot_flow.json"))

	node, ok := g.Nodes[database.START]
	if !ok {
		t.Fatalf("default graph has no start node")
	}
	if !strings.Contains(node.Message, "under construction") {
		t.Fatalf("unexpected default message: %q", node.Message)
	}
	if len(g.Nodes) != 1 {
		t.Fatalf("default graph should be a single node, got %d", len(g.Nodes))
	}
}

func TestParseGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatbot_flow.json")
	doc := `{
  "start": {"message": "Hi", "options": [{"label": "Find help", "next": "therapist_search"}]},
  "therapist_search": {"message": "Use the Directory tab.", "options": []}
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	g, err := parseGraph(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("want 2 nodes, got %d", len(g.Nodes))
	}
	start := g.Nodes[database.START]
	if start.Message != "Hi" || len(start.Options) != 1 || start.Options[0].Next != database.THERAPIST_SEARCH {
		t.Fatalf("unexpected start node: %+v", start)
	}
}

func TestParseGraphRequiresStartNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatbot_flow.json")
	if err := os.WriteFile(path, []byte(`{"other": {"message": "x", "options": []}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := parseGraph(path); err == nil {
		t.Fatalf("want error for a graph without start")
	}
}

func TestUpdateGraphKeepsOldOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chatbot_flow.json")
	if err := os.WriteFile(path, []byte(`{"start": {"message": "v1", "options": []}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	g, err := parseGraph(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := g.UpdateGraph(path); err == nil {
		t.Fatalf("want error on broken config")
	}
	if g.Nodes[database.START].Message != "v1" {
		t.Fatalf("old graph was thrown away")
	}

	if err := os.WriteFile(path, []byte(`{"start": {"message": "v2", "options": []}}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := g.UpdateGraph(path); err != nil {
		t.Fatalf("update: %v", err)
	}
	if g.Nodes[database.START].Message != "v2" {
		t.Fatalf("update did not take effect")
	}
}

package hierarchy

import (
	"strings"
	"testing"

	"panchayath_go/models"
)

func uintPtr(v uint) *uint { return &v }

func testAgents() []models.Agent {
	return []models.Agent{
		{BaseModel: models.BaseModel{ID: 1}, Name: "Fousiya", Role: "coordinator", PanchayathID: 1, Phone: "9846012345", Ward: "3"},
		{BaseModel: models.BaseModel{ID: 2}, Name: "Mariya", Role: "supervisor", PanchayathID: 1, SuperiorID: uintPtr(1), Phone: "9846054321"},
		{BaseModel: models.BaseModel{ID: 3}, Name: "Bushra", Role: "group_leader", PanchayathID: 1, SuperiorID: uintPtr(2)},
		{BaseModel: models.BaseModel{ID: 4}, Name: "Anu", Role: "pro", PanchayathID: 1, SuperiorID: uintPtr(3), Ward: "7"},
		{BaseModel: models.BaseModel{ID: 5}, Name: "Noora", Role: "supervisor", PanchayathID: 1, SuperiorID: uintPtr(1)},
		{BaseModel: models.BaseModel{ID: 6}, Name: "Sajna", Role: "pro", PanchayathID: 1, SuperiorID: uintPtr(99)},
	}
}

func TestChildrenOf(t *testing.T) {
	f := NewForest(testAgents())

	tests := []struct {
		name     string
		agentID  uint
		expected []string
	}{
		{name: "coordinator children", agentID: 1, expected: []string{"Mariya", "Noora"}},
		{name: "supervisor children", agentID: 2, expected: []string{"Bushra"}},
		{name: "leaf has no children", agentID: 4, expected: nil},
		{name: "unknown agent", agentID: 42, expected: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := f.ChildrenOf(tc.agentID)
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %d children, got %d", len(tc.expected), len(got))
			}
			for i, name := range tc.expected {
				if got[i].Name != name {
					t.Fatalf("child %d: expected %q, got %q", i, name, got[i].Name)
				}
			}
		})
	}
}

func TestByRole(t *testing.T) {
	f := NewForest(testAgents())

	sups := f.ByRole("supervisor")
	if len(sups) != 2 || sups[0].Name != "Mariya" || sups[1].Name != "Noora" {
		t.Fatalf("unexpected supervisors: %+v", sups)
	}
	if got := f.ByRole("coordinator"); len(got) != 1 || got[0].Name != "Fousiya" {
		t.Fatalf("unexpected coordinators: %+v", got)
	}
}

func TestSuperiorNameUnassigned(t *testing.T) {
	agents := testAgents()
	f := NewForest(agents)

	// Dangling superior must render as Unassigned, never error.
	if got := f.SuperiorName(agents[5]); got != "Unassigned" {
		t.Fatalf("expected Unassigned for dangling superior, got %q", got)
	}
	if got := f.SuperiorName(agents[0]); got != "Unassigned" {
		t.Fatalf("expected Unassigned for root, got %q", got)
	}
	if got := f.SuperiorName(agents[1]); got != "Fousiya" {
		t.Fatalf("expected Fousiya, got %q", got)
	}
}

func TestOrphans(t *testing.T) {
	f := NewForest(testAgents())
	orphans := f.Orphans()
	if len(orphans) != 1 || orphans[0].Name != "Sajna" {
		t.Fatalf("unexpected orphans: %+v", orphans)
	}
}

func TestSummary(t *testing.T) {
	f := NewForest(testAgents())
	summary := f.Summary()

	expected := map[string]int{
		"Coordinator":  1,
		"Supervisor":   2,
		"Group Leader": 1,
		"P.R.O":        2,
	}
	if len(summary) != 4 {
		t.Fatalf("expected 4 summary rows, got %d", len(summary))
	}
	for _, rc := range summary {
		if expected[rc.Label] != rc.Count {
			t.Fatalf("role %s: expected %d, got %d", rc.Label, expected[rc.Label], rc.Count)
		}
	}
	// Display labels are fixed strings; exports depend on exact case and spacing.
	if summary[3].Label != "P.R.O" {
		t.Fatalf("expected label P.R.O, got %q", summary[3].Label)
	}
}

func TestExportRowsStepped(t *testing.T) {
	f := NewForest(testAgents())
	rows := f.ExportRows()

	// Header + 5 reachable agents (the orphan is not reachable from a root).
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[0][0] != "Level 1 (Coordinator)" || rows[0][3] != "Level 4 (P.R.O)" {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	// DFS order: Fousiya, Mariya, Bushra, Anu, Noora.
	order := []struct {
		level int
		name  string
	}{
		{0, "Fousiya"},
		{1, "Mariya"},
		{2, "Bushra"},
		{3, "Anu"},
		{1, "Noora"},
	}
	for i, exp := range order {
		row := rows[i+1]
		for col := 0; col < 4; col++ {
			if col == exp.level {
				if row[col] != exp.name {
					t.Fatalf("row %d col %d: expected %q, got %q", i+1, col, exp.name, row[col])
				}
			} else if row[col] != "" {
				t.Fatalf("row %d col %d: expected blank, got %q", i+1, col, row[col])
			}
		}
	}

	// Contact columns belong to the agent introduced on the row.
	if rows[1][4] != "9846012345" || rows[1][5] != "3" {
		t.Fatalf("unexpected contact columns on coordinator row: %v", rows[1])
	}
	if rows[4][5] != "7" {
		t.Fatalf("expected ward 7 on pro row, got %v", rows[4])
	}
}

func TestTextTree(t *testing.T) {
	f := NewForest(testAgents())
	tree := f.TextTree()

	lines := strings.Split(strings.TrimRight(tree, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), tree)
	}
	if lines[0] != "Fousiya (Coordinator)" {
		t.Fatalf("unexpected root line: %q", lines[0])
	}
	if lines[3] != "\t\t\tAnu (P.R.O)" {
		t.Fatalf("expected three tabs before Anu, got %q", lines[3])
	}
	if lines[4] != "\tNoora (Supervisor)" {
		t.Fatalf("unexpected last walked line: %q", lines[4])
	}
	if lines[6] != "Unassigned:" {
		t.Fatalf("expected unassigned heading, got %q", lines[6])
	}
	if lines[7] != "\tSajna (P.R.O)" {
		t.Fatalf("expected Sajna under unassigned, got %q", lines[7])
	}
}

func TestUnassignedReportedInExports(t *testing.T) {
	f := NewForest(testAgents())

	// The stepped table cannot express an agent without a resolvable
	// superior; such agents are omitted and surfaced in the summaries.
	for _, row := range f.ExportRows() {
		for _, cell := range row {
			if cell == "Sajna" {
				t.Fatalf("agent with dangling superior appeared in the stepped table: %v", row)
			}
		}
	}

	doc := f.HTMLTree("Edappal")
	if !strings.Contains(doc, "<h2>Unassigned</h2>") {
		t.Fatalf("expected an Unassigned section in the document:\n%s", doc)
	}
	if !strings.Contains(doc, "Sajna") {
		t.Fatalf("expected Sajna listed as unassigned:\n%s", doc)
	}
}

func TestHTMLTreeEscapes(t *testing.T) {
	agents := []models.Agent{
		{BaseModel: models.BaseModel{ID: 1}, Name: "A & B <Co>", Role: "coordinator", PanchayathID: 1},
	}
	f := NewForest(agents)
	doc := f.HTMLTree("Thiruvali")
	if !strings.Contains(doc, "A &amp; B &lt;Co&gt;") {
		t.Fatalf("expected escaped name in document:\n%s", doc)
	}
	if !strings.Contains(doc, "<title>Thiruvali</title>") {
		t.Fatalf("expected title in document")
	}
}

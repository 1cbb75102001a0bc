package controllers

import (
	"testing"

	"panchayath_go/models"
	"panchayath_go/services/hierarchy"
)

func importHeaderIndex() map[string]int {
	return buildColumnIndex([]string{
		"Level 1 (Coordinator)",
		"Level 2 (Supervisor)",
		"Level 3 (Group Leader)",
		"Level 4 (P.R.O)",
		"Phone",
		"Ward",
		"Email",
	})
}

func TestMissingImportColumns(t *testing.T) {
	col := buildColumnIndex([]string{"Level 1 (Coordinator)", "Phone", "Ward"})
	missing := missingImportColumns(col)
	if len(missing) != 3 {
		t.Fatalf("expected 3 missing columns, got %v", missing)
	}

	if missing := missingImportColumns(importHeaderIndex()); len(missing) != 0 {
		t.Fatalf("expected full header to satisfy requirements, got missing %v", missing)
	}
}

func TestResolveImportRowsStepped(t *testing.T) {
	// A stepped export: each row populates only the introducing level.
	rows := [][]string{
		{"Fousiya", "", "", "", "9846012345", "3", ""},
		{"", "Mariya", "", "", "9846054321", "", ""},
		{"", "", "Bushra", "", "", "", ""},
		{"", "", "", "Anu", "", "7", "anu@example.com"},
		{"", "Noora", "", "", "", "", ""},
	}

	batch := resolveImportRows(rows, importHeaderIndex())
	if len(batch) != 5 {
		t.Fatalf("expected 5 agents, got %d", len(batch))
	}

	expected := []importedAgent{
		{Name: "Fousiya", Role: models.RoleCoordinator, SuperiorName: "", Phone: "9846012345", Ward: "3"},
		{Name: "Mariya", Role: models.RoleSupervisor, SuperiorName: "Fousiya", Phone: "9846054321"},
		{Name: "Bushra", Role: models.RoleGroupLeader, SuperiorName: "Mariya"},
		{Name: "Anu", Role: models.RolePro, SuperiorName: "Bushra", Ward: "7", Email: "anu@example.com"},
		{Name: "Noora", Role: models.RoleSupervisor, SuperiorName: "Fousiya"},
	}
	for i, exp := range expected {
		if batch[i] != exp {
			t.Fatalf("agent %d: expected %+v, got %+v", i, exp, batch[i])
		}
	}
}

func TestResolveImportRowsDenormalized(t *testing.T) {
	// Ancestors repeated on every row resolve from the same row.
	rows := [][]string{
		{"Fousiya", "Mariya", "", "", "", "", ""},
		{"Fousiya", "Mariya", "Bushra", "Anu", "", "", ""},
		{"Fousiya", "Noora", "", "Sajna", "", "", ""},
	}

	batch := resolveImportRows(rows, importHeaderIndex())

	byName := make(map[string]importedAgent)
	for _, a := range batch {
		byName[a.Name] = a
	}
	if len(batch) != 6 {
		t.Fatalf("expected 6 distinct agents, got %d", len(batch))
	}
	if byName["Anu"].SuperiorName != "Bushra" {
		t.Fatalf("Anu superior: expected Bushra, got %q", byName["Anu"].SuperiorName)
	}
	// Noora has no group leader; the nearest resolved ancestor is Noora herself
	// at the supervisor level, so the pro hangs from her cleared context.
	if byName["Sajna"].SuperiorName != "" {
		t.Fatalf("Sajna superior: expected none after context reset, got %q", byName["Sajna"].SuperiorName)
	}
	if byName["Noora"].SuperiorName != "Fousiya" {
		t.Fatalf("Noora superior: expected Fousiya, got %q", byName["Noora"].SuperiorName)
	}
}

func TestResolveImportRowsNameMerge(t *testing.T) {
	// A name seen twice is the same agent: distinct people sharing a
	// name are silently merged. This matches re-import of an edited
	// export and is deliberate.
	rows := [][]string{
		{"Fousiya", "", "", "", "", "", ""},
		{"", "Mariya", "", "", "", "", ""},
		{"Thasni", "", "", "", "", "", ""},
		{"", "Mariya", "", "", "", "", ""},
	}

	batch := resolveImportRows(rows, importHeaderIndex())
	if len(batch) != 3 {
		t.Fatalf("expected 3 agents after merge, got %d", len(batch))
	}
	// The merged Mariya keeps her first superior.
	if batch[1].Name != "Mariya" || batch[1].SuperiorName != "Fousiya" {
		t.Fatalf("unexpected merged agent: %+v", batch[1])
	}
}

func TestResolveImportRowsSkipsMalformed(t *testing.T) {
	rows := [][]string{
		{"", "", "", "", "9846012345", "", ""}, // no level cell: skipped
		{},                                     // empty row: skipped
		{"Fousiya", "", "", "", "", "", ""},
	}

	batch := resolveImportRows(rows, importHeaderIndex())
	if len(batch) != 1 || batch[0].Name != "Fousiya" {
		t.Fatalf("expected only Fousiya, got %+v", batch)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	// Export a forest, feed the rows back through the import resolver,
	// and verify the name/role/superior topology survives.
	agents := []models.Agent{
		{BaseModel: models.BaseModel{ID: 1}, Name: "Fousiya", Role: "coordinator", PanchayathID: 1},
		{BaseModel: models.BaseModel{ID: 2}, Name: "Mariya", Role: "supervisor", PanchayathID: 1, SuperiorID: uintPtr(1)},
		{BaseModel: models.BaseModel{ID: 3}, Name: "Bushra", Role: "group_leader", PanchayathID: 1, SuperiorID: uintPtr(2)},
		{BaseModel: models.BaseModel{ID: 4}, Name: "Anu", Role: "pro", PanchayathID: 1, SuperiorID: uintPtr(3)},
		{BaseModel: models.BaseModel{ID: 5}, Name: "Noora", Role: "supervisor", PanchayathID: 1, SuperiorID: uintPtr(1)},
	}
	forest := hierarchy.NewForest(agents)
	exported := forest.ExportRows()

	batch := resolveImportRows(exported[1:], buildColumnIndex(exported[0]))
	if len(batch) != len(agents) {
		t.Fatalf("expected %d agents, got %d", len(agents), len(batch))
	}

	byID := make(map[uint]models.Agent)
	for _, a := range agents {
		byID[a.ID] = a
	}
	byName := make(map[string]importedAgent)
	for _, a := range batch {
		byName[a.Name] = a
	}
	for _, src := range agents {
		got, ok := byName[src.Name]
		if !ok {
			t.Fatalf("agent %s missing after round trip", src.Name)
		}
		if got.Role != src.Role {
			t.Fatalf("agent %s: role %q != %q", src.Name, got.Role, src.Role)
		}
		expectedSuperior := ""
		if src.SuperiorID != nil {
			expectedSuperior = byID[*src.SuperiorID].Name
		}
		if got.SuperiorName != expectedSuperior {
			t.Fatalf("agent %s: superior %q != %q", src.Name, got.SuperiorName, expectedSuperior)
		}
	}
}

func uintPtr(v uint) *uint { return &v }

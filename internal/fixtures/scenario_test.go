package fixtures

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScenariosMissingID(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	content := `scenarios:
  - description: "no id"
    kind: redeclaration
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadScenarios(path)
	if err == nil {
		t.Error("expected error for missing id, got nil")
	}
}

func TestLoadScenariosUnknownKind(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	content := `scenarios:
  - id: ghost
    kind: does_not_exist
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadScenarios(path)
	if err == nil {
		t.Error("expected error for unknown kind, got nil")
	}
}

func TestLoadScenariosAcceptsRegisteredKinds(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "ok.yaml")
	content := `scenarios:
  - id: one
    kind: unify_shared_instance
    expect_error: false
  - id: two
    kind: redeclaration
    expect_error: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	scenarios, err := LoadScenarios(path)
	if err != nil {
		t.Fatalf("LoadScenarios failed: %v", err)
	}
	if len(scenarios) != 2 {
		t.Errorf("expected 2 scenarios, got %d", len(scenarios))
	}
}

func TestRunMatchesDeclaredExpectation(t *testing.T) {
	ok := Scenario{ID: "ok", Kind: "unify_shared_instance", ExpectError: false}
	if err := Run(ok); err != nil {
		t.Errorf("Run(ok) = %v, want nil", err)
	}

	bad := Scenario{ID: "bad", Kind: "unify_shared_instance", ExpectError: true}
	if err := Run(bad); err == nil {
		t.Error("Run(bad) = nil, want an error since the scenario actually succeeds")
	}
}

// TestScenariosFileMatchesRegistry replays the repo's own testdata corpus,
// exercising every builder in Registry at least once the way cmd/typeck's
// scenario runner does.
func TestScenariosFileMatchesRegistry(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("..", "..", "testdata", "scenarios.yaml"))
	if err != nil {
		t.Fatalf("LoadScenarios failed: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("expected at least one scenario in testdata/scenarios.yaml")
	}

	for _, s := range scenarios {
		s := s
		t.Run(s.ID, func(t *testing.T) {
			if err := Run(s); err != nil {
				t.Errorf("%s: %v", s.Description, err)
			}
		})
	}
}

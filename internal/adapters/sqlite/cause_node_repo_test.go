package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fta/internal/adapters/sqlite"
	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/ports/secondary"
)

// seedScenarioTree builds R -> H-a -> F-b -> H-c plus a second child H-d of R.
func seedScenarioTree(t *testing.T) (*sqlite.CauseNodeRepository, context.Context) {
	t.Helper()
	testDB := setupTestDB(t)
	seedInvestigation(t, testDB, "INV-001", "Scaffold fall")
	seedNode(t, testDB, "R", "INV-001", "", "root", 1)
	seedNode(t, testDB, "H-a", "INV-001", "R", "hypothesis", 1)
	seedNode(t, testDB, "F-b", "INV-001", "H-a", "fact", 1)
	seedNode(t, testDB, "H-c", "INV-001", "F-b", "hypothesis", 1)
	seedNode(t, testDB, "H-d", "INV-001", "R", "hypothesis", 2)
	return sqlite.NewCauseNodeRepository(testDB), context.Background()
}

func TestCauseNodeRepository_ListNodes(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	nodes, err := repo.ListNodes(ctx, "INV-001")
	require.NoError(t, err)
	require.Len(t, nodes, 5)

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"R", "H-a", "F-b", "H-c", "H-d"}, ids)
	assert.Empty(t, nodes[0].ParentID)
	assert.Equal(t, "R", nodes[1].ParentID)
	assert.Equal(t, "none", nodes[1].CauseRole)
	assert.Equal(t, time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC), nodes[1].CreatedAt)
}

func TestCauseNodeRepository_ListNodes_UnknownInvestigation(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	nodes, err := repo.ListNodes(ctx, "INV-999")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestCauseNodeRepository_GetByID_NotFound(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	_, err := repo.GetByID(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, faulttree.ErrNotFound)
}

func TestCauseNodeRepository_Insert_AllocatesNextOrder(t *testing.T) {
	repo, ctx := seedScenarioTree(t)
	created := time.Date(2026, 1, 21, 9, 30, 0, 123456789, time.UTC)

	id, err := repo.Insert(ctx, &secondary.CauseNodeRecord{
		ID:              "H-e",
		InvestigationID: "INV-001",
		ParentID:        "R",
		Label:           "Guard rail missing",
		Kind:            "hypothesis",
		Status:          "pending",
		DisplayOrder:    99,
		CreatedAt:       created,
	})
	require.NoError(t, err)
	assert.Equal(t, "H-e", id)

	got, err := repo.GetByID(ctx, "H-e")
	require.NoError(t, err)
	assert.Equal(t, 3, got.DisplayOrder)
	assert.Equal(t, "none", got.CauseRole)
	assert.Equal(t, created, got.CreatedAt)

	// First child of a leaf starts at 1.
	_, err = repo.Insert(ctx, &secondary.CauseNodeRecord{
		ID: "F-f", InvestigationID: "INV-001", ParentID: "H-d",
		Label: "Inspection log blank", Kind: "fact", Status: "pending",
	})
	require.NoError(t, err)
	got, err = repo.GetByID(ctx, "F-f")
	require.NoError(t, err)
	assert.Equal(t, 1, got.DisplayOrder)
}

func TestCauseNodeRepository_Insert_SecondRootRejected(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	_, err := repo.Insert(ctx, &secondary.CauseNodeRecord{
		ID: "R2", InvestigationID: "INV-001", Label: "Another event", Kind: "root", Status: "pending",
	})
	assert.Error(t, err)
}

func TestCauseNodeRepository_Update(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	status := "validated"
	justification := "Witness statement"
	role := "basic"
	err := repo.Update(ctx, "F-b", secondary.CauseNodePatch{
		Status:        &status,
		Justification: &justification,
		CauseRole:     &role,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "F-b")
	require.NoError(t, err)
	assert.Equal(t, "validated", got.Status)
	assert.Equal(t, "Witness statement", got.Justification)
	assert.Equal(t, "basic", got.CauseRole)
	assert.Equal(t, "label F-b", got.Label)

	empty := ""
	require.NoError(t, repo.Update(ctx, "F-b", secondary.CauseNodePatch{Justification: &empty}))
	got, err = repo.GetByID(ctx, "F-b")
	require.NoError(t, err)
	assert.Empty(t, got.Justification)
	assert.Equal(t, "validated", got.Status)
}

func TestCauseNodeRepository_Update_NotFound(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	label := "x"
	err := repo.Update(ctx, "missing", secondary.CauseNodePatch{Label: &label})
	assert.ErrorIs(t, err, faulttree.ErrNotFound)
}

func TestCauseNodeRepository_DeleteSubtree(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		removed   int
		remaining int
	}{
		{name: "leaf", target: "H-c", removed: 1, remaining: 4},
		{name: "fact with one child", target: "F-b", removed: 2, remaining: 3},
		{name: "hypothesis with chain", target: "H-a", removed: 3, remaining: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ctx := seedScenarioTree(t)

			removed, err := repo.DeleteSubtree(ctx, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.removed, removed)

			left, err := repo.ListNodes(ctx, "INV-001")
			require.NoError(t, err)
			assert.Len(t, left, tt.remaining)

			_, err = repo.GetByID(ctx, tt.target)
			assert.ErrorIs(t, err, faulttree.ErrNotFound)
		})
	}
}

func TestCauseNodeRepository_DeleteSubtree_NotFound(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	_, err := repo.DeleteSubtree(ctx, "missing")
	assert.ErrorIs(t, err, faulttree.ErrNotFound)
}

func TestCauseNodeRepository_DeleteSubtree_Cycle(t *testing.T) {
	testDB := setupTestDB(t)
	seedInvestigation(t, testDB, "INV-001", "")
	seedNode(t, testDB, "X", "INV-001", "Y", "hypothesis", 1)
	seedNode(t, testDB, "Y", "INV-001", "X", "hypothesis", 1)
	repo := sqlite.NewCauseNodeRepository(testDB)

	removed, err := repo.DeleteSubtree(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestCauseNodeRepository_DeleteSubtree_StaysInInvestigation(t *testing.T) {
	testDB := setupTestDB(t)
	seedInvestigation(t, testDB, "INV-001", "Scaffold fall")
	seedNode(t, testDB, "R", "INV-001", "", "root", 1)
	seedNode(t, testDB, "H-a", "INV-001", "R", "hypothesis", 1)
	seedNode(t, testDB, "F-b", "INV-001", "H-a", "fact", 1)
	seedNode(t, testDB, "H-c", "INV-001", "F-b", "hypothesis", 1)
	seedInvestigation(t, testDB, "INV-002", "Forklift collision")
	seedNode(t, testDB, "R2", "INV-002", "", "root", 1)
	// Corrupt row: belongs to INV-002 but points into INV-001's subtree.
	seedNode(t, testDB, "stray", "INV-002", "F-b", "hypothesis", 2)
	repo := sqlite.NewCauseNodeRepository(testDB)
	ctx := context.Background()

	removed, err := repo.DeleteSubtree(ctx, "H-a")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	other, err := repo.ListNodes(ctx, "INV-002")
	require.NoError(t, err)
	require.Len(t, other, 2)
	assert.Equal(t, "stray", other[1].ID)
}

func TestCauseNodeRepository_SwapDisplayOrder(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	require.NoError(t, repo.SwapDisplayOrder(ctx, "H-a", "H-d"))

	a, err := repo.GetByID(ctx, "H-a")
	require.NoError(t, err)
	d, err := repo.GetByID(ctx, "H-d")
	require.NoError(t, err)
	assert.Equal(t, 2, a.DisplayOrder)
	assert.Equal(t, 1, d.DisplayOrder)
}

func TestCauseNodeRepository_SwapDisplayOrder_NotSiblings(t *testing.T) {
	repo, ctx := seedScenarioTree(t)

	err := repo.SwapDisplayOrder(ctx, "H-a", "F-b")
	require.Error(t, err)

	a, err := repo.GetByID(ctx, "H-a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.DisplayOrder)
}

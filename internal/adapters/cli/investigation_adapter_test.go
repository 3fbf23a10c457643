package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/fta/internal/ports/primary"
)

func TestInvestigationAdapter_Create(t *testing.T) {
	mock := &mockInvestigationService{}
	var buf bytes.Buffer
	adapter := NewInvestigationAdapter(mock, &buf)

	err := adapter.Create(context.Background(), "Scaffold fall", "East facade", "Worker fell")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.lastCreateReq.RootLabel != "Worker fell" {
		t.Errorf("expected root label to be passed, got %q", mock.lastCreateReq.RootLabel)
	}
	output := buf.String()
	if !strings.Contains(output, "Created investigation INV-001") || !strings.Contains(output, "root-1") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestInvestigationAdapter_List(t *testing.T) {
	mock := &mockInvestigationService{
		listFn: func(ctx context.Context, filters primary.InvestigationFilters) ([]*primary.Investigation, error) {
			return []*primary.Investigation{
				{ID: "INV-001", Title: "Scaffold fall"},
				{ID: "INV-002", Title: "Forklift", IntegrityHold: "multiple roots"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewInvestigationAdapter(mock, &buf)

	if err := adapter.List(context.Background(), true, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.lastFilters.OnHold || mock.lastFilters.Limit != 10 {
		t.Errorf("filters not passed: %+v", mock.lastFilters)
	}
	output := buf.String()
	if !strings.Contains(output, "INV-002    yes") {
		t.Errorf("expected hold marker, got: %s", output)
	}
}

func TestInvestigationAdapter_List_Empty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewInvestigationAdapter(&mockInvestigationService{}, &buf)

	if err := adapter.List(context.Background(), false, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No investigations found") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestInvestigationAdapter_Check(t *testing.T) {
	tests := []struct {
		name       string
		report     *primary.IntegrityReport
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "clean",
			report:     &primary.IntegrityReport{InvestigationID: "INV-001", OK: true, NodeCount: 4, Depth: 3},
			wantOutput: "✓ INV-001: 4 nodes, depth 3",
		},
		{
			name:       "empty",
			report:     &primary.IntegrityReport{InvestigationID: "INV-001", OK: true, Empty: true},
			wantOutput: "empty (no root event)",
		},
		{
			name:       "failed",
			report:     &primary.IntegrityReport{InvestigationID: "INV-001", Problem: "multiple roots", NodeIDs: []string{"a", "b"}},
			wantErr:    true,
			wantOutput: "✗ INV-001: multiple roots (a, b)",
		},
		{
			name:       "warning",
			report:     &primary.IntegrityReport{InvestigationID: "INV-001", OK: true, Warnings: []string{"children of r share a display order"}},
			wantOutput: "⚠ children of r share a display order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockInvestigationService{
				checkFn: func(ctx context.Context, id string) (*primary.IntegrityReport, error) {
					return tt.report, nil
				},
			}
			var buf bytes.Buffer
			err := NewInvestigationAdapter(mock, &buf).Check(context.Background(), "INV-001")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(buf.String(), tt.wantOutput) {
				t.Errorf("expected %q in output, got: %s", tt.wantOutput, buf.String())
			}
		})
	}
}

func TestInvestigationAdapter_CheckAll(t *testing.T) {
	mock := &mockInvestigationService{
		checkAllFn: func(ctx context.Context) ([]*primary.IntegrityReport, error) {
			return []*primary.IntegrityReport{
				{InvestigationID: "INV-001", OK: true, NodeCount: 3},
				{InvestigationID: "INV-002", Problem: "cycle"},
			}, nil
		},
	}
	var buf bytes.Buffer
	err := NewInvestigationAdapter(mock, &buf).CheckAll(context.Background())
	if err == nil {
		t.Fatal("expected error when a check fails")
	}
	if !strings.Contains(buf.String(), "2 checked, 1 failed") {
		t.Errorf("unexpected summary: %s", buf.String())
	}
}

func TestInvestigationAdapter_Release_Error(t *testing.T) {
	mock := &mockInvestigationService{
		releaseFn: func(ctx context.Context, id string) error {
			return errors.New("tree still fails the integrity check")
		},
	}
	var buf bytes.Buffer
	err := NewInvestigationAdapter(mock, &buf).Release(context.Background(), "INV-001")
	if err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output on failure, got: %s", buf.String())
	}
}

func TestInvestigationAdapter_AuditLog(t *testing.T) {
	mock := &mockInvestigationService{
		auditFn: func(ctx context.Context, id string, limit int) ([]*primary.AuditEntry, error) {
			return []*primary.AuditEntry{
				{NodeID: "n1", Actor: "lead", Action: "update", Field: "status", OldValue: "pending", NewValue: "validated", CreatedAt: "T2"},
				{NodeID: "n1", Action: "delete", NewValue: "3", CreatedAt: "T3"},
			}, nil
		},
	}
	var buf bytes.Buffer
	if err := NewInvestigationAdapter(mock, &buf).AuditLog(context.Background(), "INV-001", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, `update n1 status: "pending" -> "validated"`) {
		t.Errorf("missing update line: %s", output)
	}
	if !strings.Contains(output, "delete n1 (3 removed)") {
		t.Errorf("missing delete line: %s", output)
	}
}

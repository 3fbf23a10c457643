// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/fta/internal/ports/primary"
)

// InvestigationAdapter translates CLI operations to InvestigationService calls.
type InvestigationAdapter struct {
	service primary.InvestigationService
	out     io.Writer
}

// NewInvestigationAdapter creates a new InvestigationAdapter with the given service.
func NewInvestigationAdapter(service primary.InvestigationService, out io.Writer) *InvestigationAdapter {
	return &InvestigationAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new investigation with its root event.
func (a *InvestigationAdapter) Create(ctx context.Context, title, description, rootLabel string) error {
	resp, err := a.service.CreateInvestigation(ctx, primary.CreateInvestigationRequest{
		Title:       title,
		Description: description,
		RootLabel:   rootLabel,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created investigation %s: %s\n", resp.InvestigationID, resp.Investigation.Title)
	fmt.Fprintf(a.out, "  Root event: %s\n", resp.RootNodeID)
	return nil
}

// List lists investigations.
func (a *InvestigationAdapter) List(ctx context.Context, onHold bool, limit int) error {
	investigations, err := a.service.ListInvestigations(ctx, primary.InvestigationFilters{
		OnHold: onHold,
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list investigations: %w", err)
	}

	if len(investigations) == 0 {
		fmt.Fprintln(a.out, "No investigations found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-6s %s\n", "ID", "HOLD", "TITLE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, inv := range investigations {
		hold := ""
		if inv.IntegrityHold != "" {
			hold = "yes"
		}
		fmt.Fprintf(a.out, "%-10s %-6s %s\n", inv.ID, hold, inv.Title)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single investigation.
func (a *InvestigationAdapter) Show(ctx context.Context, investigationID string) (*primary.Investigation, error) {
	inv, err := a.service.GetInvestigation(ctx, investigationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investigation: %w", err)
	}

	fmt.Fprintf(a.out, "\nInvestigation: %s\n", inv.ID)
	fmt.Fprintf(a.out, "Title:   %s\n", inv.Title)
	if inv.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", inv.Description)
	}
	if inv.IntegrityHold != "" {
		fmt.Fprintf(a.out, "Integrity hold: %s\n", inv.IntegrityHold)
	}
	fmt.Fprintf(a.out, "Created: %s\n", inv.CreatedAt)
	fmt.Fprintln(a.out)

	return inv, nil
}

// Delete deletes an investigation and its whole tree.
func (a *InvestigationAdapter) Delete(ctx context.Context, investigationID string) error {
	if err := a.service.DeleteInvestigation(ctx, investigationID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Investigation %s deleted\n", investigationID)
	return nil
}

// Release lifts an integrity hold.
func (a *InvestigationAdapter) Release(ctx context.Context, investigationID string) error {
	if err := a.service.ReleaseIntegrityHold(ctx, investigationID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Integrity hold released on %s\n", investigationID)
	return nil
}

// Check verifies one investigation. It returns an error when the check
// fails so the command exits non-zero.
func (a *InvestigationAdapter) Check(ctx context.Context, investigationID string) error {
	report, err := a.service.CheckIntegrity(ctx, investigationID)
	if err != nil {
		return err
	}
	a.printReport(report)
	if !report.OK {
		return fmt.Errorf("integrity check failed for %s", investigationID)
	}
	return nil
}

// CheckAll verifies every investigation.
func (a *InvestigationAdapter) CheckAll(ctx context.Context) error {
	reports, err := a.service.CheckAllIntegrity(ctx)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(a.out, "No investigations found")
		return nil
	}

	failed := 0
	for _, report := range reports {
		a.printReport(report)
		if !report.OK {
			failed++
		}
	}
	fmt.Fprintf(a.out, "\n%d checked, %d failed\n", len(reports), failed)
	if failed > 0 {
		return fmt.Errorf("%d investigation(s) failed the integrity check", failed)
	}
	return nil
}

func (a *InvestigationAdapter) printReport(report *primary.IntegrityReport) {
	switch {
	case !report.OK:
		fmt.Fprintf(a.out, "✗ %s: %s", report.InvestigationID, report.Problem)
		if len(report.NodeIDs) > 0 {
			fmt.Fprintf(a.out, " (%s)", strings.Join(report.NodeIDs, ", "))
		}
		fmt.Fprintln(a.out)
	case report.Empty:
		fmt.Fprintf(a.out, "✓ %s: empty (no root event)\n", report.InvestigationID)
	default:
		fmt.Fprintf(a.out, "✓ %s: %d nodes, depth %d\n", report.InvestigationID, report.NodeCount, report.Depth)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(a.out, "  ⚠ %s\n", w)
	}
}

// AuditLog prints recent audit entries, newest first.
func (a *InvestigationAdapter) AuditLog(ctx context.Context, investigationID string, limit int) error {
	entries, err := a.service.GetAuditLog(ctx, investigationID, limit)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No audit entries")
		return nil
	}

	for _, e := range entries {
		actor := e.Actor
		if actor == "" {
			actor = "-"
		}
		switch e.Action {
		case "update":
			fmt.Fprintf(a.out, "%s  %-12s update %s %s: %q -> %q\n", e.CreatedAt, actor, e.NodeID, e.Field, e.OldValue, e.NewValue)
		case "delete":
			fmt.Fprintf(a.out, "%s  %-12s delete %s (%s removed)\n", e.CreatedAt, actor, e.NodeID, e.NewValue)
		default:
			fmt.Fprintf(a.out, "%s  %-12s %s %s\n", e.CreatedAt, actor, e.Action, e.NodeID)
		}
	}
	return nil
}

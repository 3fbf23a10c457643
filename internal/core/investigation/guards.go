// Package investigation contains the pure business logic for investigation operations.
// Guards are pure functions that evaluate preconditions without side effects.
package investigation

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateInvestigationContext provides context for investigation creation guards.
type CreateInvestigationContext struct {
	Title     string
	RootLabel string
}

// MutationContext provides context for guards on tree edits.
type MutationContext struct {
	InvestigationID string
	IntegrityHold   string // reason recorded when the tree failed a check, empty if none
}

// ReleaseHoldContext provides context for releasing an integrity hold.
type ReleaseHoldContext struct {
	InvestigationID string
	IntegrityHold   string
	CheckPassed     bool
	CheckProblem    string
}

// CanCreateInvestigation evaluates whether an investigation can be created.
// Rules:
// - Title must not be blank
// - The top event (root label) must not be blank
func CanCreateInvestigation(ctx CreateInvestigationContext) GuardResult {
	if strings.TrimSpace(ctx.Title) == "" {
		return GuardResult{Allowed: false, Reason: "investigation title is required"}
	}
	if strings.TrimSpace(ctx.RootLabel) == "" {
		return GuardResult{Allowed: false, Reason: "describe the top event (root label) of the investigation"}
	}
	return GuardResult{Allowed: true}
}

// CanMutateTree evaluates whether the cause tree of an investigation may be edited.
// Rules:
// - Investigation must not be on integrity hold
func CanMutateTree(ctx MutationContext) GuardResult {
	if ctx.IntegrityHold != "" {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("investigation %s is on integrity hold (%s). Fix the data, then run: fta investigation release %s",
				ctx.InvestigationID, ctx.IntegrityHold, ctx.InvestigationID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanReleaseHold evaluates whether an operator may lift an integrity hold.
// Rules:
// - Investigation must be on hold
// - The tree must pass the integrity check now
func CanReleaseHold(ctx ReleaseHoldContext) GuardResult {
	if ctx.IntegrityHold == "" {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("investigation %s is not on integrity hold", ctx.InvestigationID)}
	}
	if !ctx.CheckPassed {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("investigation %s still fails the integrity check: %s", ctx.InvestigationID, ctx.CheckProblem),
		}
	}
	return GuardResult{Allowed: true}
}

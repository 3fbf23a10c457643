package faulttree

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when a node or investigation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRoot means the investigation has no root node yet. It is the
	// "empty investigation" case and is distinct from an IntegrityError.
	ErrNoRoot = errors.New("investigation has no root node")

	// ErrIntegrityHold is returned for mutations on an investigation whose
	// tree failed an integrity check and has not been released.
	ErrIntegrityHold = errors.New("investigation is on integrity hold")
)

// Validation rule names carried by ValidationError.Rule.
const (
	RuleJustificationRequired  = "justification_required"
	RuleSameStatus             = "same_status"
	RuleRootImmutable          = "root_immutable"
	RuleRoleRequiresValidated  = "cause_role_requires_validated"
	RuleClassRequiresValidated = "classification_requires_validated"
	RuleRoleExclusive          = "cause_role_exclusive"
	RuleRootDeleteForbidden    = "root_delete_forbidden"
	RuleParentRequired         = "parent_required"
	RuleRootExists             = "root_exists"
	RuleInvalidKind            = "invalid_kind"
	RuleInvalidStatus          = "invalid_status"
	RuleInvalidRole            = "invalid_role"
	RuleCrossInvestigation     = "cross_investigation"
	RuleLabelRequired          = "label_required"
	RuleNoSibling              = "no_sibling"
	RuleInvalidRequest         = "invalid_request"
)

// ValidationError rejects caller input. Nothing has been applied when it
// is returned.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IntegrityError reports a corrupt investigation: more than one root, a
// root of the wrong kind, orphaned or cyclic parent references.
type IntegrityError struct {
	InvestigationID string
	Problem         string
	NodeIDs         []string
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("integrity error in investigation %s: %s", e.InvestigationID, e.Problem)
	if len(e.NodeIDs) > 0 {
		msg += " (nodes: " + strings.Join(e.NodeIDs, ", ") + ")"
	}
	return msg
}

// IsIntegrity reports whether err is (or wraps) an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// StoreError wraps a failure of the backing store.
type StoreError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *StoreError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("%s: %v (retryable)", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a store failure the caller may retry.
func IsRetryable(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// NotFoundf wraps ErrNotFound with a formatted subject.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

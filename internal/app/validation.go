package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/fta/internal/core/faulttree"
)

// requestValidate checks the validate tags on primary port requests.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	if err := requestValidate.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
}

// validateNotBlank rejects strings that are empty after trimming.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateRequest runs struct validation and converts the first failure
// into a *faulttree.ValidationError.
func validateRequest(req any) error {
	err := requestValidate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &faulttree.ValidationError{Rule: faulttree.RuleInvalidRequest, Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &faulttree.ValidationError{
		Rule:    ruleForField(fe.Field()),
		Message: describeFieldError(fe),
	}
}

func ruleForField(field string) string {
	switch field {
	case "Kind":
		return faulttree.RuleInvalidKind
	case "Status":
		return faulttree.RuleInvalidStatus
	case "Role":
		return faulttree.RuleInvalidRole
	case "Label", "RootLabel":
		return faulttree.RuleLabelRequired
	}
	return faulttree.RuleInvalidRequest
}

func describeFieldError(fe validator.FieldError) string {
	name := toSnake(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", name, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
}

// toSnake turns a Go field name into the snake_case name used in JSON and
// CLI messages: InvestigationID -> investigation_id.
func toSnake(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/cursive-ai/cursive-leads/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateOnboardingInput(input OnboardingInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errs = append(errs, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	if input.Role != entity.RoleBusiness && input.Role != entity.RolePartner {
		errs = append(errs, ValidationError{"role", "must be business or partner"})
	}

	if strings.TrimSpace(input.Industry) == "" {
		errs = append(errs, ValidationError{"industry", "is required"})
	}

	return errs
}

func joinValidationErrors(errs []ValidationError) string {
	msg := "validation failed: "
	for i, e := range errs {
		if i > 0 {
			msg += ", "
		}
		msg += e.Field + " (" + e.Message + ")"
	}
	return msg
}

// ValidateBulkActionInput rejects malformed bulk requests before any query
// runs. Tag name emptiness is checked here so the batched call never fires
// with a blank tag.
func ValidateBulkActionInput(input BulkActionInput) []ValidationError {
	var errs []ValidationError

	if len(input.LeadIDs) == 0 {
		errs = append(errs, ValidationError{"lead_ids", "must not be empty"})
	}

	switch input.Action {
	case ActionArchive, ActionUnarchive, ActionExportCSV:
	case ActionTag:
		if strings.TrimSpace(input.TagName) == "" {
			errs = append(errs, ValidationError{"tag_name", "is required for tag action"})
		}
	default:
		errs = append(errs, ValidationError{"action", "must be archive, unarchive, tag or export_csv"})
	}

	return errs
}

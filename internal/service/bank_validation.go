package service

import (
	"fmt"

	"github.com/stemsi/qbank-manager/internal/model"
)

// Validation messages shown to the operator.
const (
	MsgImageRequired    = "image path is required"
	MsgQuestionRequired = "at least one question required"
)

// ValidateEntry returns every rule the entry breaks, in rule order. An empty
// result means the entry may be saved. Per-question rules are skipped when
// there are no questions at all.
func ValidateEntry(e model.Entry) []string {
	return validateEntry(e, nil)
}

// ValidateSubmission lists form problems first, then validation messages.
// A question whose answer already failed to resolve is not reported again
// for lacking an integer answer.
func ValidateSubmission(e model.Entry, problems []FormProblem) []string {
	msgs := make([]string, 0, len(problems))
	unresolved := make(map[int]bool, len(problems))
	for _, p := range problems {
		msgs = append(msgs, p.String())
		if p.Message == MsgAnswerNotAmongOptions {
			unresolved[p.Position] = true
		}
	}
	return append(msgs, validateEntry(e, unresolved)...)
}

func validateEntry(e model.Entry, unresolved map[int]bool) []string {
	errs := []string{}

	if e.Image == "" {
		errs = append(errs, MsgImageRequired)
	}
	if len(e.Questions) == 0 {
		return append(errs, MsgQuestionRequired)
	}

	for i, q := range e.Questions {
		n := i + 1
		if q.Malformed {
			errs = append(errs, fmt.Sprintf("question %d: malformed question", n))
			continue
		}
		if q.Text == "" {
			errs = append(errs, fmt.Sprintf("question %d: text is required", n))
		}
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Sprintf("question %d: at least 2 options required", n))
		}
		switch {
		case !q.Answer.Set && unresolved[i]:
			// Already reported as a form problem.
		case !q.Answer.Set:
			errs = append(errs, fmt.Sprintf("question %d: answer must be an integer index", n))
		case q.Answer.Index < 0 || q.Answer.Index >= len(q.Options):
			errs = append(errs, fmt.Sprintf("question %d: answer index out of range", n))
		}
		if !q.Difficulty.Numeric {
			errs = append(errs, fmt.Sprintf("question %d: difficulty must be a number", n))
		}
	}
	return errs
}

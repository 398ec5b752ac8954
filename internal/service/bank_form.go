package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stemsi/qbank-manager/internal/model"
)

// FormProblem is a parse error for the parsed question at Position
// (0-based), numbered the same way validation numbers questions.
type FormProblem struct {
	Position int
	Message  string
}

func (p FormProblem) String() string {
	return fmt.Sprintf("question %d: %s", p.Position+1, p.Message)
}

// MsgAnswerNotAmongOptions is reported when the submitted answer text matches
// no parsed option.
const MsgAnswerNotAmongOptions = "answer not among options"

// ParseQuestionForm turns the raw question slots of an edit submission into
// question candidates. Slots with all four fields empty are skipped.
func ParseQuestionForm(slots []model.QuestionForm) ([]model.Question, []FormProblem) {
	questions := []model.Question{}
	problems := []FormProblem{}

	for _, slot := range slots {
		if slot.IsBlank() {
			continue
		}

		q := model.Question{
			Text:       strings.TrimSpace(slot.Text),
			Options:    ParseOptions(slot.Options),
			Difficulty: ParseDifficulty(slot.Difficulty),
		}

		answer := strings.TrimSpace(slot.Answer)
		if idx := indexOf(q.Options, answer); idx >= 0 {
			q.Answer = model.AnswerAt(idx)
		} else {
			problems = append(problems, FormProblem{Position: len(questions), Message: MsgAnswerNotAmongOptions})
		}

		questions = append(questions, q)
	}
	return questions, problems
}

// ParseOptions splits raw option text on newlines. Single-line input is
// split on commas instead, so "Cat, Dog" also yields two options. A comma
// between two digits reads as a thousands separator and disables the
// fallback: "1,000" stays one option.
func ParseOptions(raw string) model.Options {
	opts := splitTrim(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(opts) < 2 && strings.Contains(raw, ",") && !digitComma.MatchString(raw) {
		opts = splitTrim(raw, ",")
	}
	return opts
}

var digitComma = regexp.MustCompile(`[0-9],[0-9]`)

// ParseDifficulty parses a number, keeping the raw text when that fails.
func ParseDifficulty(raw string) model.Difficulty {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.Difficulty{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.RawDifficulty(s)
	}
	return model.DifficultyOf(v)
}

// FormatOptions is the inverse of ParseOptions for redisplay.
func FormatOptions(opts model.Options) string {
	return strings.Join(opts, "\n")
}

func splitTrim(s, sep string) model.Options {
	out := model.Options{}
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func indexOf(opts model.Options, s string) int {
	for i, o := range opts {
		if o == s {
			return i
		}
	}
	return -1
}

// QuestionSlots renders stored questions back into form slots.
func QuestionSlots(questions []model.Question) []model.QuestionForm {
	slots := make([]model.QuestionForm, 0, len(questions))
	for _, q := range questions {
		answer := q.AnswerText()
		if answer == "" && q.Answer.Set {
			answer = strconv.Itoa(q.Answer.Index)
		}
		slots = append(slots, model.QuestionForm{
			Text:       q.Text,
			Options:    FormatOptions(q.Options),
			Answer:     answer,
			Difficulty: q.Difficulty.String(),
		})
	}
	return slots
}

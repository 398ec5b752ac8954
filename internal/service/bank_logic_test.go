package service

import (
	"testing"

	"github.com/stemsi/qbank-manager/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() model.Question {
	return model.Question{
		Text:       "Which animal?",
		Options:    model.Options{"Cat", "Dog"},
		Answer:     model.AnswerAt(1),
		Difficulty: model.DifficultyOf(2),
	}
}

func TestSyncEntries(t *testing.T) {
	existing := []model.Entry{
		{Image: "/images/b.png", Description: "kept", Questions: []model.Question{validQuestion()}},
		model.NewBlankEntry(""),
	}
	paths := []string{"/images/a.png", "/images/b.png", "/images/c/d.gif"}

	out, added := SyncEntries(existing, paths)

	assert.Equal(t, 2, added)
	require.Len(t, out, 4)
	assert.Equal(t, "/images/b.png", out[0].Image)
	assert.Equal(t, "kept", out[0].Description)
	assert.Equal(t, "", out[1].Image)
	assert.Equal(t, model.NewBlankEntry("/images/a.png"), out[2])
	assert.Equal(t, model.NewBlankEntry("/images/c/d.gif"), out[3])
}

func TestSyncEntries_Idempotent(t *testing.T) {
	paths := []string{"/images/a.png", "/images/b.png"}

	once, added := SyncEntries(nil, paths)
	assert.Equal(t, 2, added)

	twice, added := SyncEntries(once, paths)
	assert.Equal(t, 0, added)
	assert.Len(t, twice, len(once))
}

func TestSyncEntries_DuplicatePathsAppendOnce(t *testing.T) {
	out, added := SyncEntries(nil, []string{"/images/a.png", "/images/a.png"})
	assert.Equal(t, 1, added)
	assert.Len(t, out, 1)
}

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry model.Entry
		want  []string
	}{
		{
			name:  "valid",
			entry: model.Entry{Image: "/images/a.png", Questions: []model.Question{validQuestion()}},
			want:  []string{},
		},
		{
			name:  "no questions yields exactly one error",
			entry: model.Entry{Image: "/images/a.png", Questions: []model.Question{}},
			want:  []string{"at least one question required"},
		},
		{
			name:  "missing image and questions",
			entry: model.Entry{},
			want:  []string{"image path is required", "at least one question required"},
		},
		{
			name: "answer out of range",
			entry: model.Entry{Image: "x", Questions: []model.Question{
				{Text: "q", Options: model.Options{"a", "b"}, Answer: model.AnswerAt(2), Difficulty: model.DifficultyOf(1)},
			}},
			want: []string{"question 1: answer index out of range"},
		},
		{
			name: "negative answer",
			entry: model.Entry{Image: "x", Questions: []model.Question{
				{Text: "q", Options: model.Options{"a", "b"}, Answer: model.AnswerAt(-1), Difficulty: model.DifficultyOf(1)},
			}},
			want: []string{"question 1: answer index out of range"},
		},
		{
			name: "every question rule in order",
			entry: model.Entry{Image: "x", Questions: []model.Question{
				validQuestion(),
				{Options: model.Options{"only"}, Difficulty: model.RawDifficulty("hard")},
			}},
			want: []string{
				"question 2: text is required",
				"question 2: at least 2 options required",
				"question 2: answer must be an integer index",
				"question 2: difficulty must be a number",
			},
		},
		{
			name: "malformed question",
			entry: model.Entry{Image: "x", Questions: []model.Question{
				{Malformed: true},
				validQuestion(),
			}},
			want: []string{"question 1: malformed question"},
		},
		{
			name: "float difficulty is numeric",
			entry: model.Entry{Image: "x", Questions: []model.Question{
				{Text: "q", Options: model.Options{"a", "b"}, Answer: model.AnswerAt(0), Difficulty: model.DifficultyOf(0.5)},
			}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEntry(tt.entry))
		})
	}
}

func TestValidateEntry_AnswerInRange(t *testing.T) {
	q := model.Question{Text: "q", Options: model.Options{"a", "b"}, Answer: model.AnswerAt(1), Difficulty: model.DifficultyOf(1)}
	assert.Empty(t, ValidateEntry(model.Entry{Image: "x", Questions: []model.Question{q}}))
}

func TestParseQuestionForm_ResolvesAnswer(t *testing.T) {
	questions, errs := ParseQuestionForm([]model.QuestionForm{{
		Text:       "Which one barks?",
		Options:    "Cat\nDog",
		Answer:     "Dog",
		Difficulty: "2",
	}})

	assert.Empty(t, errs)
	require.Len(t, questions, 1)
	assert.Equal(t, model.Options{"Cat", "Dog"}, questions[0].Options)
	assert.Equal(t, model.AnswerAt(1), questions[0].Answer)
	assert.Equal(t, model.DifficultyOf(2), questions[0].Difficulty)
	assert.True(t, questions[0].Difficulty.IsInteger())
}

func TestParseQuestionForm_AnswerNotAmongOptions(t *testing.T) {
	questions, errs := ParseQuestionForm([]model.QuestionForm{{
		Text:       "Which one barks?",
		Options:    "Cat\nDog",
		Answer:     "Bird",
		Difficulty: "1",
	}})

	assert.Equal(t, []FormProblem{{Position: 0, Message: MsgAnswerNotAmongOptions}}, errs)
	assert.Equal(t, "question 1: answer not among options", errs[0].String())
	require.Len(t, questions, 1)
	assert.False(t, questions[0].Answer.Set)

	entry := model.Entry{Image: "/images/a.png", Questions: questions}
	assert.NotEmpty(t, ValidateEntry(entry))
}

func TestParseQuestionForm_SkipsBlankSlots(t *testing.T) {
	questions, errs := ParseQuestionForm([]model.QuestionForm{
		{Text: "Only one", Options: "a\nb", Answer: "a", Difficulty: "1"},
		{},
	})

	assert.Empty(t, errs)
	assert.Len(t, questions, 1)
}

func TestParseQuestionForm_AnswerOnlySlotIsKept(t *testing.T) {
	questions, errs := ParseQuestionForm([]model.QuestionForm{
		{},
		{Answer: "x"},
	})

	require.Len(t, questions, 1)
	assert.Equal(t, []FormProblem{{Position: 0, Message: MsgAnswerNotAmongOptions}}, errs)
}

func TestValidateSubmission_NumbersQuestionsConsistently(t *testing.T) {
	questions, problems := ParseQuestionForm([]model.QuestionForm{
		{},
		{Options: "a\nb", Answer: "z", Difficulty: "1"},
	})

	msgs := ValidateSubmission(model.Entry{Image: "/images/a.png", Questions: questions}, problems)

	assert.Equal(t, []string{
		"question 1: answer not among options",
		"question 1: text is required",
	}, msgs)
}

func TestValidateSubmission_KeepsRangeErrorsOfOtherQuestions(t *testing.T) {
	bad := validQuestion()
	bad.Answer = model.Answer{}
	problems := []FormProblem{{Position: 1, Message: MsgAnswerNotAmongOptions}}

	msgs := ValidateSubmission(model.Entry{Image: "x", Questions: []model.Question{bad, bad}}, problems)

	assert.Equal(t, []string{
		"question 2: answer not among options",
		"question 1: answer must be an integer index",
	}, msgs)
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		raw  string
		want model.Options
	}{
		{raw: "Cat\nDog", want: model.Options{"Cat", "Dog"}},
		{raw: " Cat \r\n\r\n Dog \n", want: model.Options{"Cat", "Dog"}},
		{raw: "Cat, Dog ,Bird", want: model.Options{"Cat", "Dog", "Bird"}},
		{raw: "Yes, really\nNo", want: model.Options{"Yes, really", "No"}},
		{raw: "1,000", want: model.Options{"1,000"}},
		{raw: "1,000\n2,000", want: model.Options{"1,000", "2,000"}},
		{raw: "1, 2, 3", want: model.Options{"1", "2", "3"}},
		{raw: "", want: nil},
		{raw: " \n , ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOptions(tt.raw))
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, model.DifficultyOf(3), ParseDifficulty("3"))
	assert.Equal(t, model.DifficultyOf(3), ParseDifficulty("3.0"))
	assert.True(t, ParseDifficulty("3.0").IsInteger())
	assert.Equal(t, model.DifficultyOf(1.5), ParseDifficulty(" 1.5 "))
	assert.Equal(t, model.RawDifficulty("hard"), ParseDifficulty("hard"))
	assert.Equal(t, model.RawDifficulty("NaN"), ParseDifficulty("NaN"))
	assert.Equal(t, model.Difficulty{}, ParseDifficulty("  "))
}

func TestFormatOptions(t *testing.T) {
	opts := model.Options{"Cat", "Dog"}
	assert.Equal(t, "Cat\nDog", FormatOptions(opts))
	assert.Equal(t, opts, ParseOptions(FormatOptions(opts)))
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "/public/images/a.png", ImageURL("/images/a.png"))
	assert.Equal(t, "/public/images/a.png", ImageURL("images/a.png"))
	assert.Equal(t, "", ImageURL(""))
	assert.Equal(t, "", ImageURL("/"))
}

func TestSummarizeAndCountComplete(t *testing.T) {
	entries := []model.Entry{
		{Image: "/images/a.png", Description: "d", Questions: []model.Question{validQuestion(), validQuestion()}},
		model.NewBlankEntry(""),
	}

	got := Summarize(entries)

	require.Len(t, got, 2)
	assert.Equal(t, model.EntrySummary{Index: 0, Image: "/images/a.png", Description: "d", QuestionCount: 2, ImageURL: "/public/images/a.png"}, got[0])
	assert.Equal(t, model.EntrySummary{Index: 1}, got[1])
	assert.Equal(t, 1, CountComplete(got))
}

func TestQuestionSlots(t *testing.T) {
	outOfRange := validQuestion()
	outOfRange.Answer = model.AnswerAt(5)
	unset := validQuestion()
	unset.Answer = model.Answer{}
	unset.Difficulty = model.RawDifficulty("hard")

	slots := QuestionSlots([]model.Question{validQuestion(), outOfRange, unset})

	require.Len(t, slots, 3)
	assert.Equal(t, model.QuestionForm{Text: "Which animal?", Options: "Cat\nDog", Answer: "Dog", Difficulty: "2"}, slots[0])
	assert.Equal(t, "5", slots[1].Answer)
	assert.Equal(t, "", slots[2].Answer)
	assert.Equal(t, "hard", slots[2].Difficulty)

	// Redisplayed slots parse back to the same question.
	parsed, errs := ParseQuestionForm(slots[:1])
	assert.Empty(t, errs)
	assert.Equal(t, []model.Question{validQuestion()}, parsed)
}

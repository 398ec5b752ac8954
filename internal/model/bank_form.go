package model

// QuestionForm holds the raw text submitted for one question slot.
type QuestionForm struct {
	Text       string
	Options    string
	Answer     string
	Difficulty string
}

// IsBlank reports whether every field of the slot is empty.
func (f QuestionForm) IsBlank() bool {
	return f.Text == "" && f.Options == "" && f.Answer == "" && f.Difficulty == ""
}

// EditForm is the edit submission for one entry. Questions is filled from
// the questions[i][field] form keys after binding.
type EditForm struct {
	Image         string `form:"image" binding:"omitempty,max=1024"`
	Description   string `form:"description" binding:"omitempty,max=10000"`
	QuestionCount int    `form:"question_count" binding:"min=0,max=500"`

	Questions []QuestionForm `form:"-"`
}

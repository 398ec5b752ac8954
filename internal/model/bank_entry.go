package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
)

// Entry is one record of the question bank. Its position in the bank is its
// only identifier.
type Entry struct {
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`

	// stored holds values from the stored record that the typed fields do
	// not reproduce: unknown keys and wrong-typed known keys. They are
	// written back unchanged. Entries built in code have none.
	stored map[string]json.RawMessage
}

// NewBlankEntry returns the entry appended by sync and by "new".
func NewBlankEntry(image string) Entry {
	return Entry{Image: image, Description: "", Questions: []Question{}}
}

// Question is a single multiple-choice question attached to an entry.
type Question struct {
	Text       string     `json:"text"`
	Options    Options    `json:"options"`
	Answer     Answer     `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`

	// Malformed is set when the stored question was not a JSON object.
	Malformed bool `json:"-"`

	// raw is the stored text of a malformed question.
	raw    json.RawMessage
	stored map[string]json.RawMessage
}

// EntrySummary is the list view of an entry.
type EntrySummary struct {
	Index         int    `json:"index"`
	Image         string `json:"image"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
	ImageURL      string `json:"image_url"`
}

// UnmarshalJSON decodes an entry leniently. Wrong-typed fields become their
// zero value instead of failing the whole record; their stored text is kept
// for MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*e = Entry{}
	for key, value := range fields {
		switch key {
		case "image":
			e.Image = looseString(value)
			keepIfLossy(&e.stored, key, value, e.Image)
		case "description":
			e.Description = looseString(value)
			keepIfLossy(&e.stored, key, value, e.Description)
		case "questions":
			var ok bool
			if e.Questions, ok = decodeQuestions(value); !ok {
				keep(&e.stored, key, value)
			}
		default:
			keep(&e.stored, key, value)
		}
	}
	return nil
}

func decodeQuestions(data json.RawMessage) ([]Question, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return nil, false
	}
	questions := make([]Question, 0, len(items))
	for _, item := range items {
		var q Question
		if err := json.Unmarshal(item, &q); err != nil {
			q = Question{Malformed: true, raw: append(json.RawMessage{}, item...)}
		}
		questions = append(questions, q)
	}
	return questions, true
}

// MarshalJSON always emits questions as an array.
func (e Entry) MarshalJSON() ([]byte, error) {
	questions := e.Questions
	if questions == nil {
		questions = []Question{}
	}
	return encodeObject([]field{
		{"image", e.Image},
		{"description", e.Description},
		{"questions", questions},
	}, e.stored)
}

// UnmarshalJSON rejects anything that is not a JSON object so the caller can
// flag it as malformed.
func (q *Question) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("question is null")
	}

	*q = Question{}
	for key, value := range fields {
		switch key {
		case "text":
			q.Text = looseString(value)
			keepIfLossy(&q.stored, key, value, q.Text)
		case "options":
			_ = json.Unmarshal(value, &q.Options)
			keepIfLossy(&q.stored, key, value, q.Options)
		case "answer":
			_ = json.Unmarshal(value, &q.Answer)
			keepIfLossy(&q.stored, key, value, q.Answer)
		case "difficulty":
			_ = json.Unmarshal(value, &q.Difficulty)
			keepIfLossy(&q.stored, key, value, q.Difficulty)
		default:
			keep(&q.stored, key, value)
		}
	}
	return nil
}

// MarshalJSON writes a malformed question back as it was stored.
func (q Question) MarshalJSON() ([]byte, error) {
	if q.Malformed && q.raw != nil {
		return q.raw, nil
	}
	return encodeObject([]field{
		{"text", q.Text},
		{"options", q.Options},
		{"answer", q.Answer},
		{"difficulty", q.Difficulty},
	}, q.stored)
}

// Options is the ordered option list of a question.
type Options []string

// UnmarshalJSON keeps non-string elements as their JSON text and decodes a
// non-array as nil.
func (o *Options) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		*o = nil
		return nil
	}
	out := make(Options, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(bytes.TrimSpace(item)))
	}
	*o = out
	return nil
}

// MarshalJSON emits an empty array for nil options.
func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return marshalNoEscape([]string(o))
}

// Answer is the index of the correct option. Set is false when the stored
// value was missing or not an integer.
type Answer struct {
	Index int
	Set   bool
}

// AnswerAt returns a set answer.
func AnswerAt(index int) Answer {
	return Answer{Index: index, Set: true}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = Answer{}
	n, ok := jsonNumber(data)
	if !ok {
		return nil
	}
	i, err := n.Int64()
	if err != nil {
		return nil
	}
	*a = AnswerAt(int(i))
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(a.Index)), nil
}

// Difficulty is numeric when parsed from a number. Raw keeps unparsable text
// so the operator sees it again; validation rejects it.
type Difficulty struct {
	Value   float64
	Numeric bool
	Raw     string
}

// DifficultyOf returns a numeric difficulty.
func DifficultyOf(v float64) Difficulty {
	return Difficulty{Value: v, Numeric: true}
}

// RawDifficulty returns a non-numeric difficulty holding s.
func RawDifficulty(s string) Difficulty {
	return Difficulty{Raw: s}
}

// IsInteger reports whether a numeric difficulty has no fractional part.
func (d Difficulty) IsInteger() bool {
	return d.Numeric && d.Value == math.Trunc(d.Value) && !math.IsInf(d.Value, 0)
}

// String renders the difficulty the way the edit form shows it.
func (d Difficulty) String() string {
	if !d.Numeric {
		return d.Raw
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64)
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	*d = Difficulty{}
	if n, ok := jsonNumber(data); ok {
		if v, err := n.Float64(); err == nil {
			*d = DifficultyOf(v)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = RawDifficulty(s)
	}
	return nil
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	if d.Numeric {
		return []byte(d.String()), nil
	}
	if d.Raw == "" {
		return []byte("null"), nil
	}
	return marshalNoEscape(d.Raw)
}

// AnswerText returns the option text the answer points to, or "".
func (q Question) AnswerText() string {
	if !q.Answer.Set || q.Answer.Index < 0 || q.Answer.Index >= len(q.Options) {
		return ""
	}
	return q.Options[q.Answer.Index]
}

// jsonNumber accepts bare JSON numbers only. Quoted numbers stay strings.
func jsonNumber(data []byte) (json.Number, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", false
	}
	return n, true
}

type field struct {
	key   string
	value any
}

// encodeObject writes known fields in order, then the remaining stored keys
// sorted. A stored value replaces the typed value of the same key.
func encodeObject(known []field, stored map[string]json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, value []byte) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for _, f := range known {
		value, ok := stored[f.key]
		if !ok {
			var err error
			if value, err = marshalNoEscape(f.value); err != nil {
				return nil, err
			}
		}
		if err := write(f.key, value); err != nil {
			return nil, err
		}
	}

	extra := make([]string, 0, len(stored))
	for key := range stored {
		if !isKnown(known, key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		if err := write(key, stored[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isKnown(known []field, key string) bool {
	for _, f := range known {
		if f.key == key {
			return true
		}
	}
	return false
}

func keep(stored *map[string]json.RawMessage, key string, value json.RawMessage) {
	if *stored == nil {
		*stored = make(map[string]json.RawMessage)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		buf.Reset()
		buf.Write(value)
	}
	(*stored)[key] = buf.Bytes()
}

// keepIfLossy keeps value when encoding the decoded field does not give the
// stored text back.
func keepIfLossy(stored *map[string]json.RawMessage, key string, value json.RawMessage, decoded any) {
	got, err := marshalNoEscape(decoded)
	var want bytes.Buffer
	if err == nil && json.Compact(&want, value) == nil && bytes.Equal(got, want.Bytes()) {
		return
	}
	keep(stored, key, value)
}

// marshalNoEscape encodes v without HTML escaping so stored text stays readable.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

package quiz

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/editor"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionEssay          QuestionType = "essay"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
)

// Body carries the fields specific to one question type. Exactly one variant
// exists per QuestionType so answer-shape checks stay exhaustive.
type Body interface {
	Type() QuestionType
	validate() []core.FieldError
}

type MultipleChoice struct {
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

func (MultipleChoice) Type() QuestionType { return QuestionMultipleChoice }

func (b MultipleChoice) validate() []core.FieldError {
	var flds []core.FieldError
	if len(b.Options) < 2 {
		flds = append(flds, core.FieldError{Field: "options", Error: "at least two options are required"})
	}
	for i, opt := range b.Options {
		if core.CleanString(opt) == "" {
			flds = append(flds, core.FieldError{Field: fmt.Sprintf("options[%d]", i), Error: "this field is required"})
		}
	}
	if b.CorrectIndex < 0 || b.CorrectIndex >= len(b.Options) {
		flds = append(flds, core.FieldError{Field: "correct_index", Error: "must point to one of the options"})
	}
	return flds
}

type TrueFalse struct {
	Answer bool `json:"answer"`
}

func (TrueFalse) Type() QuestionType          { return QuestionTrueFalse }
func (TrueFalse) validate() []core.FieldError { return nil }

type ShortAnswer struct {
	AcceptedAnswers []string `json:"accepted_answers"`
}

func (ShortAnswer) Type() QuestionType { return QuestionShortAnswer }

func (b ShortAnswer) validate() []core.FieldError {
	if len(b.AcceptedAnswers) == 0 {
		return []core.FieldError{{Field: "accepted_answers", Error: "at least one accepted answer is required"}}
	}
	return nil
}

type Essay struct{}

func (Essay) Type() QuestionType          { return QuestionEssay }
func (Essay) validate() []core.FieldError { return nil }

type FillInBlank struct {
	Blanks []string `json:"blanks"`
}

func (FillInBlank) Type() QuestionType { return QuestionFillInBlank }

func (b FillInBlank) validate() []core.FieldError {
	if len(b.Blanks) == 0 {
		return []core.FieldError{{Field: "blanks", Error: "at least one blank answer is required"}}
	}
	return nil
}

// Question is one quiz question; Body holds the type-specific answer shape.
type Question struct {
	ID          string
	Type        QuestionType
	Prompt      string
	Points      int
	Explanation string
	Order       int
	Body        Body
}

var _ editor.Item = (*Question)(nil)

func (q *Question) ItemKey() string     { return q.ID }
func (q *Question) SetPosition(pos int) { q.Order = pos }

// DefaultQuestion is the staging default for the question form.
func DefaultQuestion() *Question {
	return &Question{
		ID:     uuid.NewString(),
		Type:   QuestionMultipleChoice,
		Points: 1,
		Body:   MultipleChoice{Options: []string{"", "", "", ""}},
	}
}

// CloneQuestion copies q with a fresh id and a "(Copy)" prompt suffix.
func CloneQuestion(q *Question) *Question {
	dup := *q
	dup.ID = uuid.NewString()
	dup.Prompt = q.Prompt + " (Copy)"
	return &dup
}

func (q *Question) Validate() error {
	q.Prompt = core.CleanString(q.Prompt)
	q.Explanation = core.CleanString(q.Explanation)

	var flds []core.FieldError
	if q.Prompt == "" {
		flds = append(flds, core.FieldError{Field: "question", Error: "this field is required"})
	}
	if q.Points < 1 {
		flds = append(flds, core.FieldError{Field: "points", Error: "must be at least 1"})
	}
	if q.Body == nil || q.Body.Type() != q.Type {
		flds = append(flds, core.FieldError{Field: "type", Error: "answer fields do not match the question type"})
	} else {
		flds = append(flds, q.Body.validate()...)
	}
	if flds != nil {
		return core.NewValidationError(errors.New("invalid question"), flds...)
	}
	return nil
}

// NewQuestionCollection returns the ordered question list used by the quiz
// builder, wired with the question clone func.
func NewQuestionCollection(questions ...*Question) *editor.Collection[*Question] {
	return editor.NewCollection(CloneQuestion, questions...)
}

// NewQuestionStaging returns the single-slot question form model.
func NewQuestionStaging() *editor.Staging[*Question] {
	return editor.NewStaging(DefaultQuestion, (*Question).Validate)
}

// questionJSON is the wire shape of a Question: common fields plus the
// union of all variant fields, keyed by `type`.
type questionJSON struct {
	ID              string       `json:"id"`
	Type            QuestionType `json:"type"`
	Question        string       `json:"question"`
	Points          int          `json:"points"`
	Explanation     string       `json:"explanation,omitempty"`
	Order           int          `json:"order"`
	Options         []string     `json:"options,omitempty"`
	CorrectIndex    *int         `json:"correct_index,omitempty"`
	Answer          *bool        `json:"answer,omitempty"`
	AcceptedAnswers []string     `json:"accepted_answers,omitempty"`
	Blanks          []string     `json:"blanks,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		ID:          q.ID,
		Type:        q.Type,
		Question:    q.Prompt,
		Points:      q.Points,
		Explanation: q.Explanation,
		Order:       q.Order,
	}
	switch b := q.Body.(type) {
	case MultipleChoice:
		ci := b.CorrectIndex
		out.Options, out.CorrectIndex = b.Options, &ci
	case TrueFalse:
		a := b.Answer
		out.Answer = &a
	case ShortAnswer:
		out.AcceptedAnswers = b.AcceptedAnswers
	case Essay:
	case FillInBlank:
		out.Blanks = b.Blanks
	default:
		return nil, errors.Errorf("marshaling question %s: unknown body %T", q.ID, q.Body)
	}
	return json.Marshal(out)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var in questionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	q.ID = in.ID
	q.Type = in.Type
	q.Prompt = in.Question
	q.Points = in.Points
	q.Explanation = in.Explanation
	q.Order = in.Order

	switch in.Type {
	case QuestionMultipleChoice:
		b := MultipleChoice{Options: in.Options}
		if in.CorrectIndex != nil {
			b.CorrectIndex = *in.CorrectIndex
		}
		q.Body = b
	case QuestionTrueFalse:
		b := TrueFalse{}
		if in.Answer != nil {
			b.Answer = *in.Answer
		}
		q.Body = b
	case QuestionShortAnswer:
		q.Body = ShortAnswer{AcceptedAnswers: in.AcceptedAnswers}
	case QuestionEssay:
		q.Body = Essay{}
	case QuestionFillInBlank:
		q.Body = FillInBlank{Blanks: in.Blanks}
	default:
		return errors.Errorf("unmarshaling question %s: unknown type %q", in.ID, in.Type)
	}
	return nil
}

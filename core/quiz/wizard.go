package quiz

import (
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/editor"
)

// Wizard steps, linear, no skip-ahead.
type Step int

const (
	StepDetails Step = iota + 1
	StepQuestions
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepQuestions:
		return "questions"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// Details is the form state accumulated on the first wizard step.
type Details struct {
	CourseID     string `json:"course_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	PassingScore int    `json:"passing_score"`
}

// SubmitFunc performs the single creation request assembled by the wizard.
type SubmitFunc func(NewQuiz) (Quiz, error)

// Wizard is the quiz-creation flow: three gated steps carrying the details
// form and the question collection. Nothing is persisted until Submit.
type Wizard struct {
	step      Step
	details   Details
	questions *editor.Collection[*Question]
	staging   *editor.Staging[*Question]
}

func NewWizard() *Wizard {
	return &Wizard{
		step:      StepDetails,
		questions: NewQuestionCollection(),
		staging:   NewQuestionStaging(),
	}
}

func (w *Wizard) Step() Step       { return w.step }
func (w *Wizard) Details() Details { return w.details }

func (w *Wizard) SetDetails(d Details) { w.details = d }

func (w *Wizard) Questions() *editor.Collection[*Question] { return w.questions }
func (w *Wizard) Staging() *editor.Staging[*Question]      { return w.staging }

// Next advances one step. Guards: a course must be selected to leave the
// details step, and at least one question must exist to reach review.
func (w *Wizard) Next() error {
	switch w.step {
	case StepDetails:
		if core.CleanString(w.details.CourseID) == "" {
			return core.NewValidationError(errors.New("course required"),
				core.FieldError{Field: "course_id", Error: "select a course first"})
		}
		w.step = StepQuestions
	case StepQuestions:
		if w.questions.Len() == 0 {
			return core.NewValidationError(errors.New("no questions"),
				core.FieldError{Field: "questions", Error: "add at least one question"})
		}
		w.step = StepReview
	}
	return nil
}

// Prev moves one step back; always allowed, state-preserving.
func (w *Wizard) Prev() {
	if w.step > StepDetails {
		w.step--
	}
}

// ApplyTemplate seeds the details form and the question list in one atomic
// assignment, then auto-advances to the questions step.
func (w *Wizard) ApplyTemplate(tpl Template) {
	details, questions := tpl.Build()
	w.details = details
	w.questions = NewQuestionCollection(questions...)
	w.step = StepQuestions
}

// Submit assembles the accumulated state into one creation request. On success
// the wizard resets to the details step with empty state; on failure it stays
// on review with all state intact.
func (w *Wizard) Submit(submit SubmitFunc) (Quiz, error) {
	var flds []core.FieldError
	if core.CleanString(w.details.Title) == "" {
		flds = append(flds, core.FieldError{Field: "title", Error: "this field is required"})
	}
	if core.CleanString(w.details.CourseID) == "" {
		flds = append(flds, core.FieldError{Field: "course_id", Error: "this field is required"})
	}
	if w.questions.Len() == 0 {
		flds = append(flds, core.FieldError{Field: "questions", Error: "add at least one question"})
	}
	if flds != nil {
		return Quiz{}, core.NewValidationError(errors.New("quiz incomplete"), flds...)
	}

	nq := NewQuiz{
		CourseID:     core.CleanString(w.details.CourseID),
		Title:        core.CleanString(w.details.Title),
		Description:  core.CleanString(w.details.Description),
		Duration:     w.details.Duration,
		PassingScore: w.details.PassingScore,
		Questions:    w.questions.Items(),
	}
	qz, err := submit(nq)
	if err != nil {
		return Quiz{}, errors.Wrap(err, "submitting quiz")
	}

	w.step = StepDetails
	w.details = Details{}
	w.questions = NewQuestionCollection()
	w.staging.LoadForCreate()
	return qz, nil
}

package quiz

import "github.com/google/uuid"

// Template is a predefined quiz skeleton used to seed the creation wizard.
// Building a template mints fresh question ids so templates stay reusable.
type Template struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Details     Details     `json:"details"`
	Questions   []*Question `json:"questions"`
}

// Build returns a copy of the template's form data and question list, with
// new question identities and dense order values.
func (tpl Template) Build() (Details, []*Question) {
	questions := make([]*Question, 0, len(tpl.Questions))
	for i, q := range tpl.Questions {
		qq := *q
		qq.ID = uuid.NewString()
		qq.Order = i + 1
		questions = append(questions, &qq)
	}
	return tpl.Details, questions
}

// Templates returns the built-in quiz templates.
func Templates() []Template {
	return []Template{
		{
			ID:          "regulations-basics",
			Name:        "Regulations basics",
			Description: "Part 61/91 knowledge check for new students",
			Details: Details{
				Title:        "Regulations basics",
				Description:  "Covers certificates, currency and airspace rules.",
				Duration:     20,
				PassingScore: 80,
			},
			Questions: []*Question{
				{
					Type:   QuestionMultipleChoice,
					Prompt: "What documents must a private pilot carry on every flight?",
					Points: 2,
					Body: MultipleChoice{
						Options: []string{
							"Pilot certificate, medical certificate and photo ID",
							"Logbook and medical certificate",
							"Pilot certificate only",
							"Photo ID only",
						},
					},
				},
				{
					Type:   QuestionTrueFalse,
					Prompt: "A flight review is required every 24 calendar months.",
					Points: 1,
					Body:   TrueFalse{Answer: true},
				},
				{
					Type:   QuestionShortAnswer,
					Prompt: "What is the minimum fuel reserve for VFR day flight?",
					Points: 2,
					Body:   ShortAnswer{AcceptedAnswers: []string{"30 minutes", "thirty minutes"}},
				},
			},
		},
		{
			ID:          "vfr-weather-minimums",
			Name:        "VFR weather minimums",
			Description: "Class-by-class visibility and cloud clearance drill",
			Details: Details{
				Title:        "VFR weather minimums",
				Description:  "Visibility and cloud clearance requirements by airspace class.",
				Duration:     15,
				PassingScore: 75,
			},
			Questions: []*Question{
				{
					Type:   QuestionMultipleChoice,
					Prompt: "Basic VFR visibility in Class C airspace is:",
					Points: 1,
					Body: MultipleChoice{
						Options:      []string{"1 statute mile", "3 statute miles", "5 statute miles"},
						CorrectIndex: 1,
					},
				},
				{
					Type:   QuestionFillInBlank,
					Prompt: "Cloud clearance in Class B airspace is ____.",
					Points: 1,
					Body:   FillInBlank{Blanks: []string{"clear of clouds"}},
				},
				{
					Type:   QuestionEssay,
					Prompt: "Describe a personal-minimums checklist for a cross-country VFR flight.",
					Points: 5,
					Body:   Essay{},
				},
			},
		},
	}
}

// TemplateByID finds a built-in template.
func TemplateByID(id string) (Template, bool) {
	for _, tpl := range Templates() {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return Template{}, false
}

package quiz

import (
	"encoding/json"
	"testing"

	"github.com/tailcraft/avialearn/core"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("err = %T, want *core.ValidationError", err)
	}
	names := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func Test_Question_Validate(t *testing.T) {
	tests := []struct {
		name       string
		question   *Question
		wantFields []string
	}{
		{
			name:     "valid multiple choice",
			question: mcQuestion("What is Vx?", 1),
		},
		{
			name: "empty prompt",
			question: &Question{
				ID: "q1", Type: QuestionTrueFalse, Prompt: "  ", Points: 1, Body: TrueFalse{},
			},
			wantFields: []string{"question"},
		},
		{
			name: "zero points",
			question: &Question{
				ID: "q1", Type: QuestionEssay, Prompt: "Explain density altitude.", Body: Essay{},
			},
			wantFields: []string{"points"},
		},
		{
			name: "body does not match type",
			question: &Question{
				ID: "q1", Type: QuestionMultipleChoice, Prompt: "Pick one.", Points: 1, Body: TrueFalse{},
			},
			wantFields: []string{"type"},
		},
		{
			name: "multiple choice needs two options",
			question: &Question{
				ID: "q1", Type: QuestionMultipleChoice, Prompt: "Pick one.", Points: 1,
				Body: MultipleChoice{Options: []string{"Only"}},
			},
			wantFields: []string{"options"},
		},
		{
			name: "correct index out of range",
			question: &Question{
				ID: "q1", Type: QuestionMultipleChoice, Prompt: "Pick one.", Points: 1,
				Body: MultipleChoice{Options: []string{"A", "B"}, CorrectIndex: 5},
			},
			wantFields: []string{"correct_index"},
		},
		{
			name: "short answer needs accepted answers",
			question: &Question{
				ID: "q1", Type: QuestionShortAnswer, Prompt: "Minimum VFR fuel?", Points: 1,
				Body: ShortAnswer{},
			},
			wantFields: []string{"accepted_answers"},
		},
		{
			name: "fill in blank needs blanks",
			question: &Question{
				ID: "q1", Type: QuestionFillInBlank, Prompt: "Squawk ____ when hijacked.", Points: 1,
				Body: FillInBlank{},
			},
			wantFields: []string{"blanks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("Validate() failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() accepted an invalid question")
			}
			got := fieldNames(t, err)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", got, tt.wantFields)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("fields[%d] = %q, want %q", i, got[i], tt.wantFields[i])
				}
			}
		})
	}
}

func Test_Question_unmarshalByType(t *testing.T) {
	payload := []byte(`[
		{"id":"q1","type":"multiple_choice","question":"Basic VFR visibility in Class C?","points":2,"order":1,
		 "options":["1 SM","3 SM","5 SM"],"correct_index":1},
		{"id":"q2","type":"true_false","question":"Flaps increase stall speed.","points":1,"order":2,"answer":false},
		{"id":"q3","type":"essay","question":"Explain P-factor.","points":5,"order":3}
	]`)

	var questions []*Question
	if err := json.Unmarshal(payload, &questions); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	mc, ok := questions[0].Body.(MultipleChoice)
	if !ok {
		t.Fatalf("q1 body = %T, want MultipleChoice", questions[0].Body)
	}
	if mc.CorrectIndex != 1 || len(mc.Options) != 3 {
		t.Errorf("q1 body = %+v", mc)
	}
	if tf, ok := questions[1].Body.(TrueFalse); !ok || tf.Answer {
		t.Errorf("q2 body = %+v (%T)", questions[1].Body, questions[1].Body)
	}
	if _, ok := questions[2].Body.(Essay); !ok {
		t.Errorf("q3 body = %T, want Essay", questions[2].Body)
	}

	if err := json.Unmarshal([]byte(`{"id":"q9","type":"matching","question":"?"}`), new(Question)); err == nil {
		t.Error("unmarshal accepted an unknown question type")
	}
}

func Test_Question_marshalOmitsForeignFields(t *testing.T) {
	q := tfQuestion("Carb ice forms only below freezing.", 1)
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	if _, ok := raw["answer"]; !ok {
		t.Error("true/false payload missing answer")
	}
	for _, foreign := range []string{"options", "correct_index", "accepted_answers", "blanks"} {
		if _, ok := raw[foreign]; ok {
			t.Errorf("true/false payload carries foreign field %q", foreign)
		}
	}
}

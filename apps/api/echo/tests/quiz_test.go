package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/tailcraft/avialearn/core/quiz"
	testutil "github.com/tailcraft/avialearn/tests"
)

func Test_quizApi_create(t *testing.T) {
	db.Reset()

	t.Run("requires questions", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/quizzes",
			[]byte(`{"course_id": "ppl-ground-school", "title": "Regs", "questions": []}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; want 400", rec.Code)
		}
	})

	t.Run("ok", func(t *testing.T) {
		body := marchallObj(t, quiz.NewQuiz{
			CourseID: "ppl-ground-school",
			Title:    "Regulations Check",
			Duration: 20,
			Questions: []*quiz.Question{
				testutil.NewMCQuestion("What does VFR stand for?", 2),
				testutil.NewMCQuestion("Minimum fuel reserve by day?", 1),
			},
		})
		req, rec := newRequest(http.MethodPost, "/v1/quizzes", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var qz quiz.Quiz
		if err := json.Unmarshal(rec.Body.Bytes(), &qz); err != nil {
			t.Fatalf("decoding quiz: %v", err)
		}
		if qz.Status != quiz.StatusDraft {
			t.Errorf("status = %q; want draft", qz.Status)
		}
		if qz.TotalPoints != 3 {
			t.Errorf("total points = %d; want 3", qz.TotalPoints)
		}
		if len(qz.Questions) != 2 {
			t.Errorf("questions = %d; want 2", len(qz.Questions))
		}
	})
}

func Test_quizApi_duplicate(t *testing.T) {
	db.Reset()

	orig := testutil.CreateQuiz(t, qzRepo, "ppl-ground-school", "Regulations Check", quiz.StatusPublished,
		testutil.NewMCQuestion("Q1", 2), testutil.NewMCQuestion("Q2", 1))

	req, rec := newRequest(http.MethodPost, fmt.Sprintf("/v1/quizzes/%d/duplicate", orig.ID))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}

	var dup quiz.Quiz
	if err := json.Unmarshal(rec.Body.Bytes(), &dup); err != nil {
		t.Fatalf("decoding quiz: %v", err)
	}
	if dup.ID == orig.ID {
		t.Error("duplicate shares the original id")
	}
	if dup.Title != "Regulations Check (Copy)" {
		t.Errorf("title = %q", dup.Title)
	}
	if dup.Status != quiz.StatusDraft {
		t.Errorf("status = %q; want draft", dup.Status)
	}
	for i, q := range dup.Questions {
		if q.ID == orig.Questions[i].ID {
			t.Errorf("questions[%d] shares the original question id", i)
		}
	}
}

func Test_quizApi_toggleStatus(t *testing.T) {
	db.Reset()

	qz := testutil.CreateQuiz(t, qzRepo, "ppl-ground-school", "Regs", quiz.StatusDraft,
		testutil.NewMCQuestion("Q1", 1))

	for _, want := range []string{quiz.StatusPublished, quiz.StatusDraft} {
		req, rec := newRequest(http.MethodPost, fmt.Sprintf("/v1/quizzes/%d/toggle-status", qz.ID))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		var got quiz.Quiz
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != want {
			t.Errorf("status = %q; want %q", got.Status, want)
		}
	}
}

func Test_quizApi_templates(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/v1/quizzes/templates")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, quiz.Templates())}, rec)
}

func Test_quizApi_questionUnion(t *testing.T) {
	db.Reset()

	// a true/false question decoded from the wire keeps its variant payload
	body := []byte(`{
		"course_id": "ppl-ground-school",
		"title": "Mixed",
		"questions": [
			{"id": "q-1", "type": "true_false", "question": "Squawk 7500 means hijack?", "points": 1, "answer": true},
			{"id": "q-2", "type": "short_answer", "question": "Name the class of airspace above 18,000ft", "points": 2, "accepted_answers": ["class a", "a"]}
		]
	}`)
	req, rec := newRequest(http.MethodPost, "/v1/quizzes", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}

	var qz quiz.Quiz
	if err := json.Unmarshal(rec.Body.Bytes(), &qz); err != nil {
		t.Fatalf("decoding quiz: %v", err)
	}
	if qz.Questions[0].Type != quiz.QuestionTrueFalse {
		t.Errorf("questions[0].Type = %q", qz.Questions[0].Type)
	}
	if _, ok := qz.Questions[0].Body.(quiz.TrueFalse); !ok {
		t.Errorf("questions[0].Body = %T; want quiz.TrueFalse", qz.Questions[0].Body)
	}
	if _, ok := qz.Questions[1].Body.(quiz.ShortAnswer); !ok {
		t.Errorf("questions[1].Body = %T; want quiz.ShortAnswer", qz.Questions[1].Body)
	}
}

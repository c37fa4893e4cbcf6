package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/tailcraft/avialearn/core/assignment"
	testutil "github.com/tailcraft/avialearn/tests"
)

func Test_assignmentApi_create(t *testing.T) {
	db.Reset()

	t.Run("missing fields", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/assignments", []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"course_id": "this field is required", "title": "this field is required"}`),
		}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		body := marchallObj(t, assignment.NewAssignment{
			CourseID:  "ppl-ground-school",
			Title:     "Cross-country flight plan",
			MaxPoints: 50,
			DueAt:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		})
		req, rec := newRequest(http.MethodPost, "/v1/assignments", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var asg assignment.Assignment
		_ = json.Unmarshal(rec.Body.Bytes(), &asg)
		if asg.Status != assignment.StatusDraft {
			t.Errorf("status = %q; want draft", asg.Status)
		}
	})
}

func Test_assignmentApi_publish_close(t *testing.T) {
	db.Reset()

	asg := testutil.CreateAssignment(t, asgRepo, "ppl-ground-school", "Weather briefing exercise",
		assignment.StatusDraft, 20)

	t.Run("publish", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, fmt.Sprintf("/v1/assignments/%d/publish", asg.ID))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		var got assignment.Assignment
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != assignment.StatusPublished {
			t.Errorf("status = %q; want published", got.Status)
		}
	})

	t.Run("close", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, fmt.Sprintf("/v1/assignments/%d/close", asg.ID))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		var got assignment.Assignment
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != assignment.StatusClosed {
			t.Errorf("status = %q; want closed", got.Status)
		}
	})

	t.Run("unknown assignment", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/assignments/999/publish")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; want 404", rec.Code)
		}
	})
}

func Test_assignmentApi_query(t *testing.T) {
	db.Reset()

	testutil.CreateAssignment(t, asgRepo, "ppl-ground-school", "Weather briefing", assignment.StatusPublished, 20)
	testutil.CreateAssignment(t, asgRepo, "ppl-ground-school", "Weight and balance", assignment.StatusDraft, 30)
	testutil.CreateAssignment(t, asgRepo, "cpl-ground-school", "Commercial maneuvers", assignment.StatusPublished, 40)

	tests := []struct {
		name      string
		path      string
		wantTotal int
	}{
		{"all", "/v1/assignments", 3},
		{"by course", "/v1/assignments?course_id=ppl-ground-school", 2},
		{"by status", "/v1/assignments?status=published", 2},
		{"search on title", "/v1/assignments?search=balance", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v", rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Total != tt.wantTotal {
				t.Errorf("total = %d; wantTotal %d", env.Total, tt.wantTotal)
			}
		})
	}
}

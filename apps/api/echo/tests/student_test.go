package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/tailcraft/avialearn/core/student"
	testutil "github.com/tailcraft/avialearn/tests"
)

func Test_studentApi_create(t *testing.T) {
	db.Reset()

	tests := []httpTest{
		{
			name:     "empty body",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":  "this field is required",
				"email": "this field is required",
			}),
		},
		{
			name:     "invalid email and goal",
			body:     []byte(`{"name": "Jo", "email": "nope", "license_goal": "jet"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":        "email must be a valid email address",
				"license_goal": "license_goal must be one of [ppl cpl atpl ir]",
			}),
		},
		{
			name:     "ok",
			body:     []byte(`{"name": "Amelia Vance", "email": "Amelia.Vance@Example.com", "license_goal": "ppl", "flight_hours": 12.5}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate email",
			body:     []byte(`{"name": "Other", "email": "amelia.vance@example.com"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a student with this email already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/students", tt.body)
			app.ServeHTTP(rec, req)

			if tt.name == "ok" {
				if rec.Code != http.StatusCreated {
					t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
				}
				var std student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
					t.Fatalf("decoding student: %v", err)
				}
				// email is lowercased on the way in
				if std.Email != "amelia.vance@example.com" {
					t.Errorf("email = %q; want lowercased", std.Email)
				}
				if std.Status != student.StatusPending {
					t.Errorf("status = %q; want %q", std.Status, student.StatusPending)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_query(t *testing.T) {
	db.Reset()

	std1 := testutil.CreateStudent(t, stdRepo, "Amelia Vance", "amelia@example.com", "ppl", student.StatusActive)
	std2 := testutil.CreateStudent(t, stdRepo, "Deka Omar", "deka@example.com", "cpl", student.StatusPending)
	std3 := testutil.CreateStudent(t, stdRepo, "Jonas Petridis", "jonas@example.com", "ppl", student.StatusSuspended)

	tests := []struct {
		name      string
		path      string
		wantTotal int
		wantIDs   []int
	}{
		{name: "all", path: "/v1/students", wantTotal: 3},
		{name: "search matches name", path: "/v1/students?search=amelia", wantTotal: 1, wantIDs: []int{std1.ID}},
		{name: "search matches email", path: "/v1/students?search=deka@", wantTotal: 1, wantIDs: []int{std2.ID}},
		{name: "filter status", path: "/v1/students?status=suspended", wantTotal: 1, wantIDs: []int{std3.ID}},
		{name: "filter license goal", path: "/v1/students?license_goal=ppl", wantTotal: 2},
		{name: "combined AND", path: "/v1/students?license_goal=ppl&status=active", wantTotal: 1, wantIDs: []int{std1.ID}},
		{name: "no match", path: "/v1/students?search=zzz", wantTotal: 0},
		{name: "paged", path: "/v1/students?page=2&limit=2", wantTotal: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Total != tt.wantTotal {
				t.Errorf("total = %d; want %d", env.Total, tt.wantTotal)
			}

			var students []student.Student
			if err := json.Unmarshal(env.Items, &students); err != nil {
				t.Fatalf("decoding items: %v", err)
			}
			if tt.name == "paged" {
				// 3 rows, limit 2: second page holds the remainder
				if len(students) != 1 {
					t.Errorf("page 2 len = %d; want 1", len(students))
				}
				return
			}
			if tt.wantIDs != nil {
				if len(students) != len(tt.wantIDs) {
					t.Fatalf("len = %d; want %d", len(students), len(tt.wantIDs))
				}
				for i, id := range tt.wantIDs {
					if students[i].ID != id {
						t.Errorf("items[%d].ID = %d; want %d", i, students[i].ID, id)
					}
				}
			}
		})
	}
}

func Test_studentApi_ordering(t *testing.T) {
	db.Reset()

	testutil.CreateStudent(t, stdRepo, "Bravo", "b@example.com", "ppl", student.StatusActive)
	testutil.CreateStudent(t, stdRepo, "Alpha", "a@example.com", "ppl", student.StatusActive)
	testutil.CreateStudent(t, stdRepo, "Charlie", "c@example.com", "ppl", student.StatusActive)

	req, rec := newRequest(http.MethodGet, "/v1/students?ordering=name")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v", rec.Code)
	}

	var students []student.Student
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Items, &students); err != nil {
		t.Fatalf("decoding items: %v", err)
	}
	want := []string{"Alpha", "Bravo", "Charlie"}
	for i, name := range want {
		if students[i].Name != name {
			t.Errorf("items[%d].Name = %q; want %q", i, students[i].Name, name)
		}
	}
}

func Test_studentApi_retrieve_update(t *testing.T) {
	db.Reset()

	std := testutil.CreateStudent(t, stdRepo, "Amelia Vance", "amelia@example.com", "ppl", student.StatusPending)

	t.Run("retrieve ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, fmt.Sprintf("/v1/students/%d", std.ID))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, std)}, rec)
	})

	t.Run("retrieve not found", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/999")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)
	})

	t.Run("update ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, fmt.Sprintf("/v1/students/%d", std.ID),
			[]byte(`{"license_goal": "cpl", "flight_hours": 42}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var got student.Student
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decoding student: %v", err)
		}
		if got.LicenseGoal != "cpl" || got.FlightHours != 42 {
			t.Errorf("update not applied: %+v", got)
		}
		if got.Name != std.Name { // untouched fields survive
			t.Errorf("name = %q; want %q", got.Name, std.Name)
		}
	})

	t.Run("approve", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, fmt.Sprintf("/v1/students/%d/approve", std.ID))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		var got student.Student
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != student.StatusActive {
			t.Errorf("status = %q; want %q", got.Status, student.StatusActive)
		}
	})
}

func Test_studentApi_destroy(t *testing.T) {
	db.Reset()

	std := testutil.CreateStudent(t, stdRepo, "Amelia Vance", "amelia@example.com", "ppl", student.StatusActive)
	keep := testutil.CreateStudent(t, stdRepo, "Deka Omar", "deka@example.com", "cpl", student.StatusActive)

	req, rec := newRequest(http.MethodDelete, fmt.Sprintf("/v1/students/%d", std.ID))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}

	// the row is gone, the other survives
	if _, err := stdRepo.GetStudentByID(std.ID); err != student.ErrNotFound {
		t.Errorf("GetStudentByID() err = %v; want ErrNotFound", err)
	}
	if _, err := stdRepo.GetStudentByID(keep.ID); err != nil {
		t.Errorf("unrelated row deleted: %v", err)
	}
}

func Test_studentApi_destroyMultiple(t *testing.T) {
	db.Reset()

	std1 := testutil.CreateStudent(t, stdRepo, "One", "one@example.com", "ppl", student.StatusActive)
	std2 := testutil.CreateStudent(t, stdRepo, "Two", "two@example.com", "ppl", student.StatusActive)
	std3 := testutil.CreateStudent(t, stdRepo, "Three", "three@example.com", "ppl", student.StatusActive)
	keep := testutil.CreateStudent(t, stdRepo, "Keep", "keep@example.com", "ppl", student.StatusActive)

	t.Run("empty ids rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/v1/students", []byte(`{"ids": []}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; want 400", rec.Code)
		}
	})

	t.Run("batch of three", func(t *testing.T) {
		before := stdDeleteCounter.calls

		body := marchallObj(t, map[string][]int{"ids": {std1.ID, std2.ID, std3.ID}})
		req, rec := newRequest(http.MethodDelete, "/v1/students", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		// one batched repository call for the whole selection
		if calls := stdDeleteCounter.calls - before; calls != 1 {
			t.Errorf("delete calls = %d; want 1", calls)
		}
		for _, id := range []int{std1.ID, std2.ID, std3.ID} {
			if _, err := stdRepo.GetStudentByID(id); err != student.ErrNotFound {
				t.Errorf("student %d still present", id)
			}
		}
		if _, err := stdRepo.GetStudentByID(keep.ID); err != nil {
			t.Errorf("unselected row deleted: %v", err)
		}
	})
}

func Test_studentApi_export(t *testing.T) {
	db.Reset()

	testutil.CreateStudent(t, stdRepo, "Amelia Vance", "amelia@example.com", "ppl", student.StatusActive)
	testutil.CreateStudent(t, stdRepo, "Deka Omar", "deka@example.com", "cpl", student.StatusPending)

	t.Run("csv", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/export?format=csv")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q; want text/csv", ct)
		}
	})

	t.Run("json", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/export?format=json")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		var records []map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("decoding export: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("records = %d; want 2", len(records))
		}
	})

	t.Run("xlsx rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/export?format=xlsx")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"format": "format must be one of: csv, json"}),
		}, rec)
	})
}

package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/tailcraft/avialearn/core/instructor"
	testutil "github.com/tailcraft/avialearn/tests"
)

func Test_instructorApi_create(t *testing.T) {
	db.Reset()

	tests := []httpTest{
		{
			name:     "missing fields",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "this field is required", "email": "this field is required"}`),
		},
		{
			name:     "unknown rating",
			body:     marchallObj(t, instructor.NewInstructor{Name: "Bessie Coleman", Email: "bessie@example.com", Ratings: []string{"atp"}}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "ok",
			body:     marchallObj(t, instructor.NewInstructor{Name: "Bessie Coleman", Email: "Bessie@Example.com", Ratings: []string{instructor.RatingCFI, instructor.RatingCFII}}),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate email",
			body:     marchallObj(t, instructor.NewInstructor{Name: "Bessie C.", Email: "bessie@example.com"}),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "an instructor with this email already exists"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/instructors", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var ins instructor.Instructor
				_ = json.Unmarshal(rec.Body.Bytes(), &ins)
				if ins.Email != "bessie@example.com" {
					t.Errorf("email not lowercased: %q", ins.Email)
				}
				if ins.Status != instructor.StatusActive {
					t.Errorf("status = %q; want active", ins.Status)
				}
			}
		})
	}
}

func Test_instructorApi_query(t *testing.T) {
	db.Reset()

	testutil.CreateInstructor(t, insRepo, "Bessie Coleman", "bessie@example.com",
		[]string{instructor.RatingCFI, instructor.RatingCFII}, instructor.StatusActive)
	testutil.CreateInstructor(t, insRepo, "Chuck Yeager", "chuck@example.com",
		[]string{instructor.RatingCFI, instructor.RatingMEI}, instructor.StatusActive)
	testutil.CreateInstructor(t, insRepo, "Jackie Cochran", "jackie@example.com",
		[]string{instructor.RatingMEI}, instructor.StatusInactive)

	tests := []struct {
		name      string
		path      string
		wantTotal int
	}{
		{"all", "/v1/instructors", 3},
		{"by status", "/v1/instructors?status=active", 2},
		{"by rating", "/v1/instructors?rating=cfi", 2},
		{"search on name", "/v1/instructors?search=cochran", 1},
		{"combined", "/v1/instructors?rating=mei&status=active", 1},
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

func Test_instructorApi_toggleStatus(t *testing.T) {
	db.Reset()

	ins := testutil.CreateInstructor(t, insRepo, "Bessie Coleman", "bessie@example.com",
		[]string{instructor.RatingCFI}, instructor.StatusActive)

	for _, want := range []string{instructor.StatusInactive, instructor.StatusActive} {
		req, rec := newRequest(http.MethodPost, fmt.Sprintf("/v1/instructors/%d/toggle-status", ins.ID))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		var got instructor.Instructor
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != want {
			t.Errorf("status = %q; want %q", got.Status, want)
		}
	}
}

func Test_instructorApi_update(t *testing.T) {
	db.Reset()

	ins := testutil.CreateInstructor(t, insRepo, "Bessie Coleman", "bessie@example.com",
		[]string{instructor.RatingCFI}, instructor.StatusActive)
	testutil.CreateInstructor(t, insRepo, "Chuck Yeager", "chuck@example.com",
		[]string{instructor.RatingCFI}, instructor.StatusActive)

	t.Run("cannot take another instructor's email", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, fmt.Sprintf("/v1/instructors/%d", ins.ID),
			[]byte(`{"email": "chuck@example.com"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "an instructor with this email already exists"}`),
		}, rec)
	})

	t.Run("partial update keeps the name", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, fmt.Sprintf("/v1/instructors/%d", ins.ID),
			[]byte(`{"bio": "Pioneer aviator and flight instructor."}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var got instructor.Instructor
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Name != "Bessie Coleman" {
			t.Errorf("name = %q; want unchanged", got.Name)
		}
		if got.Bio != "Pioneer aviator and flight instructor." {
			t.Errorf("bio = %q", got.Bio)
		}
	})
}

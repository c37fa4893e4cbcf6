package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tailcraft/avialearn/core/cms"
)

func aboutPageFixture() cms.AboutPage {
	return cms.AboutPage{
		Title: "About AviaLearn",
		Intro: "Flight training, online.",
		Sections: []*cms.ContentSection{
			{ID: "our-mission", Title: "Our Mission", Content: "<p>Train safe pilots.</p>", IsActive: true},
			{ID: "our-fleet", Title: "Our Fleet", Content: "<p>Cessna 172s.</p>", IsActive: true},
		},
		Team: []*cms.TeamMember{
			{ID: "tm-1", Name: "Harriet Quimby", Position: "Chief Instructor", IsActive: true},
		},
	}
}

func Test_cmsApi_retrieve_empty(t *testing.T) {
	db.Reset()

	req, rec := newRequest(http.MethodGet, "/v1/cms/about")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("failed! code = %v; want 404", rec.Code)
	}
}

func Test_cmsApi_save(t *testing.T) {
	db.Reset()

	t.Run("sanitizes and renumbers", func(t *testing.T) {
		page := aboutPageFixture()
		page.Sections[0].Content = `<p>Train safe pilots.</p><script>alert("x")</script>`
		page.Sections[0].Order = 7
		page.Sections[1].Order = 7

		req, rec := newRequest(http.MethodPut, "/v1/cms/about", marchallObj(t, page))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var saved cms.AboutPage
		if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
			t.Fatalf("decoding page: %v", err)
		}
		if strings.Contains(saved.Sections[0].Content, "<script") {
			t.Errorf("script tag survived sanitization: %q", saved.Sections[0].Content)
		}
		if !strings.Contains(saved.Sections[0].Content, "<p>Train safe pilots.</p>") {
			t.Errorf("safe markup was stripped: %q", saved.Sections[0].Content)
		}
		for i, sec := range saved.Sections {
			if sec.Order != i+1 {
				t.Errorf("sections[%d].Order = %d; want %d", i, sec.Order, i+1)
			}
		}
	})

	t.Run("rejects duplicate section ids", func(t *testing.T) {
		page := aboutPageFixture()
		page.Sections[1].ID = "our-mission"

		req, rec := newRequest(http.MethodPut, "/v1/cms/about", marchallObj(t, page))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"sections[1].id": "duplicate section id"}`),
		}, rec)
	})

	t.Run("rejects non-slug section ids", func(t *testing.T) {
		page := aboutPageFixture()
		page.Sections[0].ID = "Our Mission!"

		req, rec := newRequest(http.MethodPut, "/v1/cms/about", marchallObj(t, page))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; want 400", rec.Code)
		}
	})

	t.Run("requires a title", func(t *testing.T) {
		page := aboutPageFixture()
		page.Title = "  "

		req, rec := newRequest(http.MethodPut, "/v1/cms/about", marchallObj(t, page))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title": "this field is required"}`),
		}, rec)
	})
}

func Test_cmsApi_retrieve(t *testing.T) {
	db.Reset()

	req, rec := newRequest(http.MethodPut, "/v1/cms/about", marchallObj(t, aboutPageFixture()))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding page failed! code = %v", rec.Code)
	}

	req, rec = newRequest(http.MethodGet, "/v1/cms/about")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v", rec.Code)
	}

	var got struct {
		cms.AboutPage
		LiveURL string `json:"live_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding page: %v", err)
	}
	if got.Title != "About AviaLearn" {
		t.Errorf("title = %q", got.Title)
	}
	if got.LiveURL != "https://avialearn.example.com/about" {
		t.Errorf("live_url = %q", got.LiveURL)
	}
}

func Test_cmsApi_duplicateSection(t *testing.T) {
	db.Reset()

	req, rec := newRequest(http.MethodPut, "/v1/cms/about", marchallObj(t, aboutPageFixture()))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding page failed! code = %v", rec.Code)
	}

	t.Run("ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/cms/about/sections/our-mission/duplicate")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var page cms.AboutPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("decoding page: %v", err)
		}
		if len(page.Sections) != 3 {
			t.Fatalf("sections = %d; want 3", len(page.Sections))
		}
		// the copy is appended and renumbered
		dup := page.Sections[2]
		if dup.Title != "Our Mission (Copy)" {
			t.Errorf("duplicate title = %q", dup.Title)
		}
		if dup.ID == "our-mission" || !strings.HasPrefix(dup.ID, "our-mission-copy-") {
			t.Errorf("duplicate id = %q", dup.ID)
		}
		if dup.Order != 3 {
			t.Errorf("duplicate order = %d; want 3", dup.Order)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/cms/about/sections/no-such-section/duplicate")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; want 400", rec.Code)
		}
	})
}

func Test_cmsApi_stageTeamImage(t *testing.T) {
	db.Reset()

	req, rec := newRequest(http.MethodPut, "/v1/cms/about", marchallObj(t, aboutPageFixture()))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding page failed! code = %v", rec.Code)
	}

	newUpload := func(t *testing.T, field, filename string) (*http.Request, *httptest.ResponseRecorder) {
		body := new(bytes.Buffer)
		mw := multipart.NewWriter(body)
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		_, _ = fw.Write([]byte("not-really-a-png"))
		_ = mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/v1/cms/about/team/tm-1/image", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, httptest.NewRecorder()
	}

	t.Run("ok", func(t *testing.T) {
		req, rec := newUpload(t, "image", "headshot.png")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var page cms.AboutPage
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("decoding page: %v", err)
		}
		mbr := page.Team[0]
		if !strings.HasPrefix(mbr.Image, "/media/") || !strings.HasSuffix(mbr.Image, "tm-1.png") {
			t.Errorf("image = %q; want /media/*tm-1.png", mbr.Image)
		}
		if mbr.PendingImage != nil {
			t.Error("staged upload survived the save")
		}
	})

	t.Run("missing file part", func(t *testing.T) {
		req, rec := newUpload(t, "photo", "headshot.png")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; want 400", rec.Code)
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		req, rec := newUpload(t, "image", "headshot.png")
		req.URL.Path = "/v1/cms/about/team/no-such-member/image"
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; want 404", rec.Code)
		}
	})
}

package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/tailcraft/avialearn/core/ticket"
	emailsvc "github.com/tailcraft/avialearn/services/email"
	testutil "github.com/tailcraft/avialearn/tests"
)

func Test_ticketApi_create(t *testing.T) {
	db.Reset()

	t.Run("missing fields", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/tickets", []byte(`{}`))
		app.ServeHTTP(rec, req)

		var fields map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
			t.Fatalf("decoding error body: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; want 400", rec.Code)
		}
		for _, f := range []string{"subject", "message", "requester_name", "requester_email"} {
			if fields[f] != "this field is required" {
				t.Errorf("fields[%q] = %q", f, fields[f])
			}
		}
	})

	t.Run("defaults category and priority", func(t *testing.T) {
		body := marchallObj(t, ticket.NewTicket{
			Subject:        "Cannot access course",
			Message:        "The PPL ground school page returns an error.",
			RequesterName:  "Amelia Vance",
			RequesterEmail: "Amelia.Vance@example.com",
		})
		req, rec := newRequest(http.MethodPost, "/v1/tickets", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var tkt ticket.Ticket
		if err := json.Unmarshal(rec.Body.Bytes(), &tkt); err != nil {
			t.Fatalf("decoding ticket: %v", err)
		}
		if tkt.Category != ticket.CategoryOther {
			t.Errorf("category = %q; want other", tkt.Category)
		}
		if tkt.Priority != ticket.PriorityMedium {
			t.Errorf("priority = %q; want medium", tkt.Priority)
		}
		if tkt.Status != ticket.StatusOpen {
			t.Errorf("status = %q; want open", tkt.Status)
		}
		if tkt.RequesterEmail != "amelia.vance@example.com" {
			t.Errorf("requester email not lowercased: %q", tkt.RequesterEmail)
		}
	})
}

func Test_ticketApi_reply(t *testing.T) {
	db.Reset()

	tkt := testutil.CreateTicket(t, tktRepo, "Billing question", "Deka Omar", "deka@example.com",
		ticket.PriorityLow, ticket.StatusOpen)

	sentBefore := len(emailsvc.SentMessages)
	body := marchallObj(t, ticket.NewReply{Author: "Support Team", Message: "We are looking into it."})
	req, rec := newRequest(http.MethodPost, fmt.Sprintf("/v1/tickets/%d/replies", tkt.ID), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}

	var got ticket.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding ticket: %v", err)
	}
	if len(got.Replies) != 1 {
		t.Fatalf("replies = %d; want 1", len(got.Replies))
	}
	if got.Replies[0].Author != "Support Team" {
		t.Errorf("reply author = %q", got.Replies[0].Author)
	}
	if got.Status != ticket.StatusInProgress {
		t.Errorf("status = %q; want in_progress after first reply", got.Status)
	}

	if len(emailsvc.SentMessages) != sentBefore+1 {
		t.Fatalf("sent messages = %d; want %d", len(emailsvc.SentMessages), sentBefore+1)
	}
	msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	if msg.Subject != "Re: Billing question" {
		t.Errorf("mail subject = %q", msg.Subject)
	}
	if len(msg.To) != 1 || msg.To[0].Address != "deka@example.com" {
		t.Errorf("mail recipients = %v", msg.To)
	}

	t.Run("unknown ticket", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/tickets/12345/replies", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; want 404", rec.Code)
		}
	})
}

func Test_ticketApi_setStatus(t *testing.T) {
	db.Reset()

	tkt := testutil.CreateTicket(t, tktRepo, "Gone flying", "Jonas Petridis", "jonas@example.com",
		ticket.PriorityHigh, ticket.StatusInProgress)

	t.Run("unknown status", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, fmt.Sprintf("/v1/tickets/%d/status", tkt.ID),
			[]byte(`{"status": "archived"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status": "unknown ticket status"}`),
		}, rec)
	})

	t.Run("resolve notifies the requester", func(t *testing.T) {
		sentBefore := len(emailsvc.SentMessages)
		req, rec := newRequest(http.MethodPut, fmt.Sprintf("/v1/tickets/%d/status", tkt.ID),
			[]byte(`{"status": "Resolved"}`)) // case-insensitive
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var got ticket.Ticket
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != ticket.StatusResolved {
			t.Errorf("status = %q; want resolved", got.Status)
		}
		if len(emailsvc.SentMessages) != sentBefore+1 {
			t.Errorf("sent messages = %d; want %d", len(emailsvc.SentMessages), sentBefore+1)
		}
	})
}

func Test_ticketApi_setPriority(t *testing.T) {
	db.Reset()

	tkt := testutil.CreateTicket(t, tktRepo, "Slow grading", "Amelia Vance", "amelia@example.com",
		ticket.PriorityLow, ticket.StatusOpen)

	tests := []httpTest{
		{
			name:     "unknown priority",
			body:     []byte(`{"priority": "asap"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"priority": "unknown ticket priority"}`),
		},
		{
			name:     "ok",
			body:     []byte(`{"priority": "urgent"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPut, fmt.Sprintf("/v1/tickets/%d/priority", tkt.ID), tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var got ticket.Ticket
				_ = json.Unmarshal(rec.Body.Bytes(), &got)
				if got.Priority != ticket.PriorityUrgent {
					t.Errorf("priority = %q; want urgent", got.Priority)
				}
			}
		})
	}
}

func Test_ticketApi_query(t *testing.T) {
	db.Reset()

	testutil.CreateTicket(t, tktRepo, "Login broken", "Amelia Vance", "amelia@example.com",
		ticket.PriorityHigh, ticket.StatusOpen)
	testutil.CreateTicket(t, tktRepo, "Refund request", "Deka Omar", "deka@example.com",
		ticket.PriorityMedium, ticket.StatusResolved)
	testutil.CreateTicket(t, tktRepo, "Quiz typo", "Jonas Petridis", "jonas@example.com",
		ticket.PriorityLow, ticket.StatusOpen)

	tests := []struct {
		name      string
		path      string
		wantTotal int
	}{
		{"all", "/v1/tickets", 3},
		{"by status", "/v1/tickets?status=open", 2},
		{"by priority", "/v1/tickets?priority=high", 1},
		{"search on subject", "/v1/tickets?search=refund", 1},
		{"search on requester", "/v1/tickets?search=petridis", 1},
		{"no match", "/v1/tickets?search=nonexistent", 0},
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

	t.Run("stats", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/tickets")
		app.ServeHTTP(rec, req)

		var env struct {
			Stats ticket.Stats `json:"stats"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decoding stats: %v", err)
		}
		want := ticket.Stats{Total: 3, Open: 2, Resolved: 1}
		if env.Stats != want {
			t.Errorf("stats = %+v; want %+v", env.Stats, want)
		}
	})
}

package exportsvc

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tailcraft/avialearn/core"
)

func Test_ParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"json", FormatJSON, false},
		{"xlsx", "", true},
		{"pdf", "", true},
		{"", "", true},
		{"CSV", "", true}, // callers lowercase before parsing
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				var verr *core.ValidationError
				if !assert.ErrorAs(t, err, &verr) {
					return
				}
				assert.Equal(t, "format", verr.Fields[0].Field)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Filename(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "students-20260901.csv", Filename("students", FormatCSV, now))
	assert.Equal(t, "tickets-20260901.json", Filename("tickets", FormatJSON, now))
}

func Test_Write_csv(t *testing.T) {
	table := Table{Headers: []string{"id", "name"}}
	table.Append("1", "Amelia Vance")
	table.Append("2", "Deka, Omar") // comma needs quoting

	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, table); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "id,name", lines[0])
	assert.Equal(t, `2,"Deka, Omar"`, lines[2])
}

func Test_Write_json(t *testing.T) {
	table := Table{Headers: []string{"id", "name"}}
	table.Append("1", "Amelia Vance")

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, table); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	var records []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	assert.Equal(t, []map[string]string{{"id": "1", "name": "Amelia Vance"}}, records)
}

package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func newTestSheetRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return newGoogleSheetRepository(service, "sheet-123", nil)
}

func TestGoogleSheetRepositoryWriteRow(t *testing.T) {
	var body sheetsapi.ValueRange
	var path, inputOption string

	repo := newTestSheetRepository(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		inputOption = r.URL.Query().Get("valueInputOption")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
	})

	if err := repo.WriteRow(context.Background(), ScorecardRange, []interface{}{"2025-10-03", 7000}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}

	if !strings.Contains(path, "/spreadsheets/sheet-123/values/") || !strings.HasSuffix(path, ":append") {
		t.Fatalf("path = %s", path)
	}
	if inputOption != "USER_ENTERED" {
		t.Fatalf("valueInputOption = %q", inputOption)
	}
	if len(body.Values) != 1 || len(body.Values[0]) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestGoogleSheetRepositoryReadRange(t *testing.T) {
	repo := newTestSheetRepository(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"range":"Scorecards!A1:I2","values":[["taken_at"],["2025-10-03T17:00:00Z","7000"]]}`))
	})

	rows, err := repo.ReadRange(context.Background(), ScorecardRange)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "7000" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestGoogleSheetRepositoryRejectsEmptyRange(t *testing.T) {
	repo := newTestSheetRepository(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	if err := repo.WriteRow(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty range")
	}
	if _, err := repo.ReadRange(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty range")
	}
}

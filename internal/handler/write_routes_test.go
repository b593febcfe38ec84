package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository"
	"github.com/kursadbilgin/lifeguard-mongodb/internal/repository/memory"
)

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", method, target, err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	return resp.StatusCode, raw
}

func TestSaveValidationRoute(t *testing.T) {
	t.Parallel()

	repo := memory.NewValidationRepo()
	app := newTestApp()
	if err := RegisterValidationRoutes(app, repo); err != nil {
		t.Fatalf("RegisterValidationRoutes() error = %v", err)
	}

	status, _ := doJSON(t, app, http.MethodPut, "/v1/validations/disk-space", `{"status":"NORMAL"}`)
	if status != http.StatusOK {
		t.Fatalf("first PUT status = %d, want 200", status)
	}
	status, body := doJSON(t, app, http.MethodPut, "/v1/validations/disk-space",
		`{"status":"ALERT","details":{"free":"2%"},"lastExecution":"2020-11-19T10:00:00Z"}`)
	if status != http.StatusOK {
		t.Fatalf("second PUT status = %d, want 200", status)
	}
	var got validationResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ALERT" || got.Details["free"] != "2%" {
		t.Fatalf("response = %+v, want ALERT with details", got)
	}

	if repo.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", repo.Count())
	}
	stored, err := repo.FetchLastValidationResult(context.Background(), "disk-space")
	if err != nil {
		t.Fatalf("FetchLastValidationResult() error = %v", err)
	}
	want := time.Date(2020, 11, 19, 10, 0, 0, 0, time.UTC)
	if stored.LastExecution == nil || !stored.LastExecution.Equal(want) {
		t.Fatalf("LastExecution = %v, want %v", stored.LastExecution, want)
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "missing status", body: `{"details":{}}`},
		{name: "malformed body", body: `{"status":`},
	}
	for _, tt := range tests {
		if status, _ := doJSON(t, app, http.MethodPut, "/v1/validations/disk-space", tt.body); status != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", tt.name, status)
		}
	}
}

func TestSaveNotificationRoute(t *testing.T) {
	t.Parallel()

	repo := memory.NewNotificationRepo()
	app := newTestApp()
	if err := RegisterNotificationRoutes(app, repo); err != nil {
		t.Fatalf("RegisterNotificationRoutes() error = %v", err)
	}

	status, _ := doJSON(t, app, http.MethodPut, "/v1/notifications/disk-space",
		`{"threadIds":["thread-1"],"options":{"channel":"ops"}}`)
	if status != http.StatusOK {
		t.Fatalf("open PUT status = %d, want 200", status)
	}

	stored, err := repo.FetchLastNotification(context.Background(), "disk-space")
	if err != nil {
		t.Fatalf("FetchLastNotification() error = %v", err)
	}
	if stored == nil || !stored.IsOpened || stored.Options["channel"] != "ops" {
		t.Fatalf("stored = %+v, want open thread with options", stored)
	}

	status, body := doJSON(t, app, http.MethodPut, "/v1/notifications/disk-space",
		`{"threadIds":["thread-1"],"isOpened":false,"lastNotification":"2021-03-01T10:00:00Z"}`)
	if status != http.StatusOK {
		t.Fatalf("close PUT status = %d, want 200", status)
	}
	var got notificationResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.IsOpened || !got.LastNotification.Equal(time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("response = %+v, want closed thread at the given time", got)
	}

	if status, _ := doRequest(t, app, http.MethodGet, "/v1/notifications/disk-space"); status != http.StatusNotFound {
		t.Fatalf("GET after close status = %d, want 404", status)
	}
}

func TestAppendHistoryRoute(t *testing.T) {
	t.Parallel()

	repo := memory.NewHistoryRepo()
	h, err := NewHistoryHandler(repo)
	if err != nil {
		t.Fatalf("NewHistoryHandler() error = %v", err)
	}
	now := time.Date(2021, 3, 2, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	app := newTestApp()
	app.Post("/v1/history", h.AppendHistory)

	body := `{"validationName":"disk-space","status":"PROBLEM","notificationType":"msteams","details":{"free":"2%"}}`
	for i := 0; i < 2; i++ {
		status, raw := doJSON(t, app, http.MethodPost, "/v1/history", body)
		if status != http.StatusCreated {
			t.Fatalf("POST #%d status = %d, want 201 (body %s)", i+1, status, raw)
		}
	}
	if repo.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 identical appends", repo.Len())
	}

	occurrences, err := repo.FetchNotifications(context.Background(), now, now, repository.Filters{}, nil)
	if err != nil {
		t.Fatalf("FetchNotifications() error = %v", err)
	}
	if len(occurrences) != 2 || occurrences[0].NotificationType != "msteams" {
		t.Fatalf("occurrences = %+v, want two msteams records stamped now", occurrences)
	}

	status, _ := doJSON(t, app, http.MethodPost, "/v1/history",
		`{"validationName":"disk-space","status":"PROBLEM","notificationType":"email","createdAt":"2021-03-01T00:00:00Z"}`)
	if status != http.StatusCreated {
		t.Fatalf("POST with createdAt status = %d, want 201", status)
	}
	count, err := repo.CountNotifications(context.Background(), time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	if err != nil || count != 1 {
		t.Fatalf("CountNotifications(createdAt) = %d, %v; want 1", count, err)
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "missing validation name", body: `{"status":"PROBLEM","notificationType":"msteams"}`},
		{name: "missing notification type", body: `{"validationName":"disk-space","status":"PROBLEM"}`},
		{name: "malformed body", body: `[`},
	}
	for _, tt := range tests {
		if status, _ := doJSON(t, app, http.MethodPost, "/v1/history", tt.body); status != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", tt.name, status)
		}
	}
}

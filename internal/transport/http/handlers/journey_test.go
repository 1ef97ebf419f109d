package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"ems/internal/app/server"
	"ems/internal/platform/config"
)

func newTestApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:          ":0",
		Environment:   "test",
		DatabaseURL:   dbURL,
		JWTSecret:     "test-secret",
		TokenTTL:      30 * time.Minute,
		MigrationsDir: "../../../../migrations",
		MaxBodyBytes:  1048576,
		RunMigrations: true,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts
}

func TestSignupLoginAndCatalogJourney(t *testing.T) {
	_, ts := newTestApp(t)
	client := ts.Client()
	username := fmt.Sprintf("alice-%d", time.Now().UnixNano())

	// Signup returns the user with its group memberships.
	signupBody := fmt.Sprintf(`{"username":%q,"password":"pw123","group_name":"staff"}`, username)
	resp := doJSON(t, client, http.MethodPost, ts.URL+"/auth/signup", "", signupBody)
	if resp.status != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d: %s", resp.status, resp.body)
	}
	var created struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Groups   []struct {
			Name string `json:"name"`
		} `json:"groups"`
	}
	mustDecode(t, resp.body, &created)
	if created.Username != username || created.ID == 0 {
		t.Fatalf("unexpected signup response: %s", resp.body)
	}
	if len(created.Groups) != 1 || created.Groups[0].Name != "staff" {
		t.Fatalf("expected groups [staff], got %s", resp.body)
	}

	// Duplicate username maps to conflict.
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/auth/signup", "", signupBody)
	if resp.status != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", resp.status)
	}

	// Bad credentials collapse to a single unauthorized outcome.
	if status := loginStatus(t, client, ts.URL, username, "wrong"); status != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", status)
	}
	if status := loginStatus(t, client, ts.URL, "no-such-user", "pw123"); status != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", status)
	}

	token := login(t, client, ts.URL, username, "pw123")

	// Department creation requires the token.
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/departments/", "", `{"DepartmentName":"Engineering"}`)
	if resp.status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated department create: expected 401, got %d", resp.status)
	}
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/departments/", token, `{"DepartmentName":"Engineering"}`)
	if resp.status != http.StatusOK {
		t.Fatalf("department create: expected 200, got %d: %s", resp.status, resp.body)
	}
	var dept struct {
		DepartmentID   int64  `json:"DepartmentId"`
		DepartmentName string `json:"DepartmentName"`
	}
	mustDecode(t, resp.body, &dept)
	if dept.DepartmentID == 0 || dept.DepartmentName != "Engineering" {
		t.Fatalf("unexpected department response: %s", resp.body)
	}

	// Employee creation against a missing department fails cleanly.
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/employees/", token,
		`{"EmployeeName":"Ghost","Designation":"Engineer","DateOfJoining":"2024-01-15","Contact":"555-0000","IsActive":true,"DepartmentId":999999999}`)
	if resp.status != http.StatusBadRequest {
		t.Fatalf("bad department id: expected 400, got %d: %s", resp.status, resp.body)
	}

	empBody := fmt.Sprintf(`{"EmployeeName":"Bob","Designation":"Engineer","DateOfJoining":"2024-01-15","Contact":"555-0199","IsActive":true,"DepartmentId":%d}`, dept.DepartmentID)
	resp = doJSON(t, client, http.MethodPost, ts.URL+"/employees/", token, empBody)
	if resp.status != http.StatusOK {
		t.Fatalf("employee create: expected 200, got %d: %s", resp.status, resp.body)
	}
	var emp employeePayload
	mustDecode(t, resp.body, &emp)
	if emp.EmployeeID == 0 || emp.Department.DepartmentName != "Engineering" {
		t.Fatalf("expected employee with populated department, got %s", resp.body)
	}

	// Listing always resolves the department eagerly.
	resp = doJSON(t, client, http.MethodGet, ts.URL+"/employees/", "", "")
	if resp.status != http.StatusOK {
		t.Fatalf("employee list: expected 200, got %d", resp.status)
	}
	var list []employeePayload
	mustDecode(t, resp.body, &list)
	for _, item := range list {
		if item.Department.DepartmentID == 0 || item.Department.DepartmentName == "" {
			t.Fatalf("employee %d has unpopulated department: %s", item.EmployeeID, resp.body)
		}
	}

	// Partial update changes only the supplied field.
	empURL := fmt.Sprintf("%s/employees/%d", ts.URL, emp.EmployeeID)
	resp = doJSON(t, client, http.MethodPut, empURL, token, `{"Contact":"555-0100"}`)
	if resp.status != http.StatusOK {
		t.Fatalf("employee update: expected 200, got %d: %s", resp.status, resp.body)
	}
	var updated employeePayload
	mustDecode(t, resp.body, &updated)
	if updated.Contact != "555-0100" {
		t.Fatalf("expected updated contact, got %s", resp.body)
	}
	if updated.Designation != "Engineer" || updated.EmployeeName != "Bob" || !updated.IsActive {
		t.Fatalf("partial update touched omitted fields: %s", resp.body)
	}

	// Delete returns 204 and the employee is gone afterwards.
	resp = doJSON(t, client, http.MethodDelete, empURL, token, "")
	if resp.status != http.StatusNoContent {
		t.Fatalf("employee delete: expected 204, got %d", resp.status)
	}
	if len(resp.body) != 0 {
		t.Fatalf("expected empty delete body, got %q", resp.body)
	}
	resp = doJSON(t, client, http.MethodGet, empURL, "", "")
	if resp.status != http.StatusNotFound {
		t.Fatalf("deleted employee get: expected 404, got %d", resp.status)
	}
	resp = doJSON(t, client, http.MethodDelete, empURL, token, "")
	if resp.status != http.StatusNotFound {
		t.Fatalf("repeat delete: expected 404, got %d", resp.status)
	}

	// Roster export requires auth and yields a PDF.
	resp = doJSON(t, client, http.MethodGet, ts.URL+"/reports/employees.pdf", "", "")
	if resp.status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated roster: expected 401, got %d", resp.status)
	}
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/reports/employees.pdf", nil)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rosterResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("roster request failed: %v", err)
	}
	defer rosterResp.Body.Close()
	if rosterResp.StatusCode != http.StatusOK {
		t.Fatalf("roster: expected 200, got %d", rosterResp.StatusCode)
	}
	if ct := rosterResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", ct)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	_, ts := newTestApp(t)
	client := ts.Client()
	username := fmt.Sprintf("carol-%d", time.Now().UnixNano())

	resp := doJSON(t, client, http.MethodPost, ts.URL+"/auth/signup", "",
		fmt.Sprintf(`{"username":%q,"password":"pw123","group_name":"staff"}`, username))
	if resp.status != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d", resp.status)
	}

	token := login(t, client, ts.URL, username, "pw123")
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	resp = doJSON(t, client, http.MethodPost, ts.URL+"/departments/", string(tampered), `{"DepartmentName":"Sales"}`)
	if resp.status != http.StatusUnauthorized {
		t.Fatalf("tampered token: expected 401, got %d", resp.status)
	}
}

type employeePayload struct {
	EmployeeID    int64  `json:"EmployeeId"`
	EmployeeName  string `json:"EmployeeName"`
	Designation   string `json:"Designation"`
	DateOfJoining string `json:"DateOfJoining"`
	Contact       string `json:"Contact"`
	IsActive      bool   `json:"IsActive"`
	DepartmentID  int64  `json:"DepartmentId"`
	Department    struct {
		DepartmentID   int64  `json:"DepartmentId"`
		DepartmentName string `json:"DepartmentName"`
	} `json:"Department"`
}

type jsonResponse struct {
	status int
	body   []byte
}

func doJSON(t *testing.T, client *http.Client, method, url, token, body string) jsonResponse {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return jsonResponse{status: resp.StatusCode, body: data}
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) string {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	resp, err := client.Post(baseURL+"/auth/token", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read login body failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.StatusCode, data)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	mustDecode(t, data, &payload)
	if payload.AccessToken == "" || payload.TokenType != "bearer" {
		t.Fatalf("unexpected login payload: %s", data)
	}
	return payload.AccessToken
}

func loginStatus(t *testing.T, client *http.Client, baseURL, username, password string) int {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	resp, err := client.Post(baseURL+"/auth/token", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func mustDecode(t *testing.T, data []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("decode failed: %v (body %s)", err, data)
	}
}

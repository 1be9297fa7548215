package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "github.com/artempelyovin/rashodomer-be/internal/log"
	"github.com/artempelyovin/rashodomer-be/internal/service"
	"github.com/artempelyovin/rashodomer-be/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	logger := applog.New(applog.DefaultConfig())

	s := NewServer(
		"127.0.0.1:0",
		service.NewAuthManager(store),
		service.NewBudgetManager(store),
		service.NewCategoryManager(store),
		service.NewTransactionManager(store, nil),
		logger,
	)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	ts := httptest.NewServer(s.Handler)
	t.Cleanup(ts.Close)
	return ts
}

type response struct {
	status int
	body   map[string]any
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, payload any) response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return response{status: resp.StatusCode, body: decoded}
}

func registerAndLogin(t *testing.T, ts *httptest.Server, login string) string {
	t.Helper()

	resp := doRequest(t, ts, http.MethodPost, "/v1/register", "", map[string]any{
		"first_name": "Ivan",
		"last_name":  "Ivanov",
		"login":      login,
		"password":   "qwerty123456!",
	})
	require.Equal(t, http.StatusCreated, resp.status)

	resp = doRequest(t, ts, http.MethodPost, "/v1/login", "", map[string]any{
		"login":    login,
		"password": "qwerty123456!",
	})
	require.Equal(t, http.StatusOK, resp.status)
	return resp.body["data"].(map[string]any)["token"].(string)
}

func TestRegisterEnvelope(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPost, "/v1/register", "", map[string]any{
		"first_name": "Ivan",
		"last_name":  "Ivanov",
		"login":      "ivan-ivanov",
		"password":   "qwerty123456!",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	assert.Equal(t, float64(http.StatusCreated), resp.body["status_code"])
	assert.Equal(t, false, resp.body["error"])
	assert.Nil(t, resp.body["detail"])

	data := resp.body["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "ivan-ivanov", data["login"])
	assert.NotContains(t, data, "password_hash")

	// Duplicate login is a 400 with the error detail in the envelope.
	resp = doRequest(t, ts, http.MethodPost, "/v1/register", "", map[string]any{
		"first_name": "Other",
		"last_name":  "Person",
		"login":      "ivan-ivanov",
		"password":   "qwerty123456!",
	})
	require.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, true, resp.body["error"])
	assert.Contains(t, resp.body["detail"], "already exists")
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodGet, "/v1/budgets", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets", "bogus-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	token := registerAndLogin(t, ts, "ivan-ivanov")
	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets", token, nil)
	assert.Equal(t, http.StatusOK, resp.status)
}

func TestBudgetCRUD(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "ivan-ivanov")

	resp := doRequest(t, ts, http.MethodPost, "/v1/budgets", token, map[string]any{
		"name":        "Cash",
		"description": "daily spending",
		"amount":      100,
	})
	require.Equal(t, http.StatusCreated, resp.status)
	budgetID := resp.body["data"].(map[string]any)["id"].(string)

	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets/"+budgetID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "Cash", resp.body["data"].(map[string]any)["name"])

	resp = doRequest(t, ts, http.MethodPatch, "/v1/budgets/"+budgetID, token, map[string]any{
		"amount": 50,
	})
	require.Equal(t, http.StatusOK, resp.status)
	data := resp.body["data"].(map[string]any)
	assert.Equal(t, 50.0, data["amount"])
	assert.Equal(t, "Cash", data["name"])

	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets?limit=10", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, 1.0, resp.body["total"])
	assert.Equal(t, 10.0, resp.body["limit"])
	assert.Equal(t, 0.0, resp.body["offset"])

	resp = doRequest(t, ts, http.MethodDelete, "/v1/budgets/"+budgetID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "Cash", resp.body["data"].(map[string]any)["name"])

	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets/"+budgetID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
}

func TestBudgetValidationStatus(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "ivan-ivanov")

	resp := doRequest(t, ts, http.MethodPost, "/v1/budgets", token, map[string]any{
		"name":   "Cash",
		"amount": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Contains(t, resp.body["detail"], "amount must be positive")
}

func TestBudgetPatchNullFields(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "ivan-ivanov")

	resp := doRequest(t, ts, http.MethodPost, "/v1/budgets", token, map[string]any{
		"name": "Cash", "amount": 100,
	})
	require.Equal(t, http.StatusCreated, resp.status)
	budgetID := resp.body["data"].(map[string]any)["id"].(string)

	resp = doRequest(t, ts, http.MethodPatch, "/v1/budgets/"+budgetID, token, map[string]any{
		"amount": nil, "name": nil,
	})
	require.Equal(t, http.StatusBadRequest, resp.status)
	assert.Contains(t, resp.body["detail"], "cannot be null")

	// The record is untouched.
	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets/"+budgetID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	data := resp.body["data"].(map[string]any)
	assert.Equal(t, "Cash", data["name"])
	assert.Equal(t, 100.0, data["amount"])
}

func TestOwnershipForbidden(t *testing.T) {
	ts := newTestServer(t)
	owner := registerAndLogin(t, ts, "owner")
	other := registerAndLogin(t, ts, "other")

	resp := doRequest(t, ts, http.MethodPost, "/v1/budgets", owner, map[string]any{
		"name": "Cash", "amount": 100,
	})
	require.Equal(t, http.StatusCreated, resp.status)
	budgetID := resp.body["data"].(map[string]any)["id"].(string)

	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets/"+budgetID, other, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = doRequest(t, ts, http.MethodDelete, "/v1/budgets/"+budgetID, other, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)
}

func TestCategoryEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "ivan-ivanov")

	resp := doRequest(t, ts, http.MethodPost, "/v1/categories", token, map[string]any{
		"name": "", "type": "EXPENSE",
	})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Contains(t, resp.body["detail"], "category name cannot be empty")

	resp = doRequest(t, ts, http.MethodPost, "/v1/categories", token, map[string]any{
		"name": "Food", "type": "LOANS",
	})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = doRequest(t, ts, http.MethodPost, "/v1/categories", token, map[string]any{
		"name": "Food", "type": "EXPENSE", "emoji_icon": "\U0001F355",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	categoryID := resp.body["data"].(map[string]any)["id"].(string)

	// An explicit null clears the icon, a missing key preserves it.
	resp = doRequest(t, ts, http.MethodPatch, "/v1/categories/"+categoryID, token, map[string]any{
		"description": "groceries",
	})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "\U0001F355", resp.body["data"].(map[string]any)["emoji_icon"])

	resp = doRequest(t, ts, http.MethodPatch, "/v1/categories/"+categoryID, token, map[string]any{
		"emoji_icon": nil,
	})
	require.Equal(t, http.StatusOK, resp.status)
	assert.Nil(t, resp.body["data"].(map[string]any)["emoji_icon"])

	resp = doRequest(t, ts, http.MethodGet, "/v1/categories?type=EXPENSE", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, 1.0, resp.body["total"])
}

func TestTransactionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndLogin(t, ts, "ivan-ivanov")

	resp := doRequest(t, ts, http.MethodPost, "/v1/categories", token, map[string]any{
		"name": "Food", "type": "EXPENSE",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	categoryID := resp.body["data"].(map[string]any)["id"].(string)

	resp = doRequest(t, ts, http.MethodPost, "/v1/budgets", token, map[string]any{
		"name": "Cash", "amount": 100,
	})
	require.Equal(t, http.StatusCreated, resp.status)
	budgetID := resp.body["data"].(map[string]any)["id"].(string)

	resp = doRequest(t, ts, http.MethodPost, "/v1/transactions", token, map[string]any{
		"amount": 0, "category_id": categoryID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = doRequest(t, ts, http.MethodPost, "/v1/transactions", token, map[string]any{
		"amount":      30,
		"description": "groceries",
		"category_id": categoryID,
		"budget_id":   budgetID,
	})
	require.Equal(t, http.StatusCreated, resp.status)
	transactionID := resp.body["data"].(map[string]any)["id"].(string)

	resp = doRequest(t, ts, http.MethodGet, "/v1/budgets/"+budgetID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, 70.0, resp.body["data"].(map[string]any)["amount"])

	resp = doRequest(t, ts, http.MethodGet, "/v1/transactions/find?text=GROC", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, 1.0, resp.body["total"])

	resp = doRequest(t, ts, http.MethodGet, "/v1/transactions/find?text=", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = doRequest(t, ts, http.MethodDelete, "/v1/transactions/"+transactionID, token, nil)
	require.Equal(t, http.StatusOK, resp.status)

	resp = doRequest(t, ts, http.MethodGet, "/v1/transactions/"+transactionID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/register", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimitedResponseHeaders(t *testing.T) {
	ts := newTestServer(t)

	// Hammer a POST route until the per-IP limiter trips.
	var resp *http.Response
	for i := 0; i < 70; i++ {
		r, err := ts.Client().Post(ts.URL+"/v1/login", "application/json",
			bytes.NewReader([]byte(`{"login":"nobody","password":"wrong-password"}`)))
		require.NoError(t, err)
		if r.StatusCode == http.StatusTooManyRequests {
			resp = r
			break
		}
		r.Body.Close()
	}
	require.NotNil(t, resp, "limiter never rejected a request")
	defer resp.Body.Close()

	// Rejections carry the security headers and the JSON envelope too.
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, true, decoded["error"])
	assert.Contains(t, decoded["detail"], "rate limit exceeded")
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := ts.Client().Get(ts.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprintf("path %s", path))
	}
}

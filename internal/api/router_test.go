package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaashuyko/wishlist-api/internal/auth"
	"github.com/vaashuyko/wishlist-api/internal/database"
	"github.com/vaashuyko/wishlist-api/internal/models"
	"github.com/vaashuyko/wishlist-api/internal/services"
)

type testApp struct {
	router *chi.Mux
	db     *sql.DB
	tokens *auth.TokenService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	tokens := auth.NewTokenService("test-secret-key-for-tests", "HS256", 30*time.Minute)
	userService := services.NewUserService(db)
	router := NewRouter(tokens, userService, services.NewWishService(db), services.NewItemService(db))

	return &testApp{router: router, db: db, tokens: tokens}
}

func (a *testApp) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope), "body: %s", rec.Body.String())
	return envelope.Error.Code
}

// registerAndLogin registers user{idx} and returns a bearer token obtained
// through the form-encoded login endpoint.
func (a *testApp) registerAndLogin(t *testing.T, idx int) string {
	t.Helper()

	rec := a.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    fmt.Sprintf("user%d@example.com", idx),
		"username": fmt.Sprintf("user%d", idx),
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	form := url.Values{}
	form.Set("username", fmt.Sprintf("user%d@example.com", idx))
	form.Set("password", "password123")

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	loginRec := httptest.NewRecorder()
	a.router.ServeHTTP(loginRec, req)
	require.Equal(t, http.StatusOK, loginRec.Code, loginRec.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(loginRec.Body).Decode(&body))
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func (a *testApp) createWish(t *testing.T, token, title, price string) models.Wish {
	t.Helper()

	rec := a.doJSON(t, http.MethodPost, "/wishes", token, map[string]any{
		"title":          title,
		"price_estimate": price,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.Wish](t, rec)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := app.doJSON(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegister(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := app.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "alice", body["username"])
	assert.NotZero(t, body["id"])
	assert.NotEmpty(t, body["created_at"])
	// The password hash never leaves the server.
	for key := range body {
		assert.NotContains(t, key, "password")
	}

	// Either field repeated is a conflict.
	rec = app.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"username": "different",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_exists", errorCode(t, rec))

	rec = app.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "different@example.com",
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_exists", errorCode(t, rec))
}

func TestLogin_ByEmailOrUsername(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerAndLogin(t, 1)

	for _, identifier := range []string{"user1@example.com", "user1"} {
		form := url.Values{}
		form.Set("username", identifier)
		form.Set("password", "password123")

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "identifier %q: %s", identifier, rec.Body.String())
	}
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerAndLogin(t, 1)

	cases := []struct {
		name, identifier, password string
	}{
		{"wrong password", "user1", "wrong-password"},
		{"unknown user", "nobody", "password123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("username", tc.identifier)
			form.Set("password", tc.password)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			app.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "invalid_credentials", errorCode(t, rec))
		})
	}
}

func TestWishes_RequireAuth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := app.doJSON(t, http.MethodPost, "/wishes", "", map[string]any{
		"title":          "Test wish",
		"price_estimate": "100.00",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "http_error", errorCode(t, rec))

	rec = app.doJSON(t, http.MethodGet, "/wishes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "http_error", errorCode(t, rec))
}

func TestWishes_InvalidAndExpiredTokens(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerAndLogin(t, 1)

	rec := app.doJSON(t, http.MethodGet, "/wishes", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	expired, err := app.tokens.IssueWithTTL(1, -time.Minute)
	require.NoError(t, err)
	rec = app.doJSON(t, http.MethodGet, "/wishes", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))
}

func TestWishes_TokenForDeletedUser(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := app.registerAndLogin(t, 1)

	_, err := app.db.Exec("DELETE FROM users")
	require.NoError(t, err)

	rec := app.doJSON(t, http.MethodGet, "/wishes", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))
}

func TestWishes_CreateAndGet(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := app.registerAndLogin(t, 1)

	rec := app.doJSON(t, http.MethodPost, "/wishes", token, map[string]any{
		"title":          "Steam Deck",
		"link":           "https://store.steampowered.com/",
		"price_estimate": "399.99",
		"notes":          "games",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Wish](t, rec)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Steam Deck", created.Title)
	assert.Positive(t, created.OwnerID)
	assert.Equal(t, "399.99", created.PriceEstimate.StringFixed(2))
	assert.False(t, created.IsFavorite)

	rec = app.doJSON(t, http.MethodGet, fmt.Sprintf("/wishes/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[models.Wish](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Steam Deck", got.Title)
}

func TestWishes_ValidationFailures(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := app.registerAndLogin(t, 1)

	rec := app.doJSON(t, http.MethodPost, "/wishes", token, map[string]any{
		"title":          "negative",
		"price_estimate": "-1.00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))

	rec = app.doJSON(t, http.MethodGet, "/wishes?limit=0", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))

	rec = app.doJSON(t, http.MethodGet, "/wishes?limit=abc", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestWishes_PaginationAndFilter(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := app.registerAndLogin(t, 1)

	app.createWish(t, token, "cheap", "10.00")
	app.createWish(t, token, "medium", "50.00")
	app.createWish(t, token, "expensive", "200.00")

	rec := app.doJSON(t, http.MethodGet, "/wishes?limit=2&offset=0", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page1 := decodeBody[models.WishList](t, rec)
	assert.Equal(t, 3, page1.Total)
	assert.Equal(t, 2, page1.Limit)
	require.Len(t, page1.Items, 2)
	assert.Equal(t, "expensive", page1.Items[0].Title)
	assert.Equal(t, "medium", page1.Items[1].Title)

	rec = app.doJSON(t, http.MethodGet, "/wishes?limit=2&offset=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page2 := decodeBody[models.WishList](t, rec)
	assert.Equal(t, 3, page2.Total)
	require.Len(t, page2.Items, 1)
	assert.Equal(t, "cheap", page2.Items[0].Title)

	rec = app.doJSON(t, http.MethodGet, "/wishes?price_lt=100.00", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	filtered := decodeBody[models.WishList](t, rec)
	assert.Equal(t, 2, filtered.Total)
	var titles []string
	for _, wish := range filtered.Items {
		titles = append(titles, wish.Title)
	}
	assert.ElementsMatch(t, []string{"cheap", "medium"}, titles)
}

func TestWishes_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	tokenAlice := app.registerAndLogin(t, 1)
	tokenBob := app.registerAndLogin(t, 2)

	wish := app.createWish(t, tokenAlice, "alice's wish", "10.00")

	// Bob's listing never includes Alice's wishes.
	rec := app.doJSON(t, http.MethodGet, "/wishes", tokenBob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[models.WishList](t, rec)
	assert.Zero(t, list.Total)
	assert.Empty(t, list.Items)

	// Direct access by id is forbidden, nonexistent ids are not-found.
	rec = app.doJSON(t, http.MethodGet, fmt.Sprintf("/wishes/%d", wish.ID), tokenBob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", errorCode(t, rec))

	rec = app.doJSON(t, http.MethodGet, "/wishes/999999", tokenBob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "wish_not_found", errorCode(t, rec))
}

func TestWishes_PartialUpdate(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := app.registerAndLogin(t, 1)

	wish := app.createWish(t, token, "original", "25.50")

	rec := app.doJSON(t, http.MethodPut, fmt.Sprintf("/wishes/%d", wish.ID), token, map[string]any{
		"notes":       "только заметки",
		"is_favorite": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[models.Wish](t, rec)
	assert.Equal(t, "original", updated.Title)
	assert.Equal(t, "25.50", updated.PriceEstimate.StringFixed(2))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "только заметки", *updated.Notes)
	assert.True(t, updated.IsFavorite)
	assert.True(t, updated.UpdatedAt.After(wish.UpdatedAt))

	// Negative price is rejected on update too.
	rec = app.doJSON(t, http.MethodPut, fmt.Sprintf("/wishes/%d", wish.ID), token, map[string]any{
		"price_estimate": "-1.00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestWishes_Delete(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	token := app.registerAndLogin(t, 1)

	wish := app.createWish(t, token, "doomed", "10.00")

	rec := app.doJSON(t, http.MethodDelete, fmt.Sprintf("/wishes/%d", wish.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = app.doJSON(t, http.MethodGet, fmt.Sprintf("/wishes/%d", wish.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.doJSON(t, http.MethodDelete, fmt.Sprintf("/wishes/%d", wish.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "wish_not_found", errorCode(t, rec))
}

func TestItems(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := app.doJSON(t, http.MethodPost, "/items?name=widget", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decodeBody[models.Item](t, rec)
	assert.Positive(t, item.ID)
	assert.Equal(t, "widget", item.Name)

	rec = app.doJSON(t, http.MethodGet, fmt.Sprintf("/items/%d", item.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.doJSON(t, http.MethodPost, "/items?name=", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))

	rec = app.doJSON(t, http.MethodGet, "/items/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

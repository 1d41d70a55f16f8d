package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/config"
	"github.com/hpungsan/ecokitchen/internal/ops"
	"github.com/hpungsan/ecokitchen/internal/session"
)

const testCSV = `Category,Recipe_Name,Ingredients,Cuisine,Preparation_Time_Min,Calories_kcal
Produce,Greek Salad,"cucumber, tomato",Greek,10,150
Produce,Aloo Gobi,"potato, cauliflower",Indian,35,240.5
Produce,Vegetable Stir Fry,"peppers, carrots",Chinese,20,210
Dairy,Paneer Tikka,"paneer, yogurt",Indian,30,320
`

func setupTest(t *testing.T) (*Handlers, http.Handler) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recipes.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	return setupWithLoader(t, catalog.NewLoader(&catalog.FileSource{Path: path}))
}

func setupWithLoader(t *testing.T, loader *catalog.Loader) (*Handlers, http.Handler) {
	t.Helper()
	h, err := newHandlers(loader, config.DefaultConfig(), session.NewStore(0), "test")
	require.NoError(t, err)
	return h, h.routes()
}

// browser carries the session cookie between page requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			b.cookie = c
		}
	}
	return w
}

func apiRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, handler http.Handler) string {
	t.Helper()
	w := apiRequest(t, handler, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "idle", created.State)
	return created.ID
}

type apiErrorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Status  int            `json:"status"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apiErrorBody {
	t.Helper()
	var body apiErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// --- Pages ---

func TestHandleIndex(t *testing.T) {
	_, handler := setupTest(t)
	b := &browser{t: t, handler: handler}

	w := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.NotNil(t, b.cookie, "session cookie not set")
	require.True(t, b.cookie.HttpOnly)

	body := w.Body.String()
	require.Contains(t, body, `<option value="Bakery" selected>`)
	require.Contains(t, body, `name="days_left" min="-30" step="1" value="1"`)
	require.Contains(t, body, `value="500"`)
	require.Contains(t, body, "No items classified yet.")
	require.NotContains(t, body, "Database Error")
}

func TestSecurityHeaders(t *testing.T) {
	_, handler := setupTest(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestPredictAndRecipesFlow(t *testing.T) {
	_, handler := setupTest(t)
	b := &browser{t: t, handler: handler}
	b.do(http.MethodGet, "/", nil)

	w := b.do(http.MethodPost, "/predict", url.Values{
		"category":  {"Produce"},
		"days_left": {"0"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	require.Contains(t, body, "CRITICAL: Expires Today")
	require.Contains(t, body, `action="/recipes"`)
	require.Contains(t, body, "Produce: Expires Today")

	w = b.do(http.MethodPost, "/recipes", url.Values{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = w.Body.String()
	require.Contains(t, body, "Recipes for Produce")
	require.Contains(t, body, "Greek Salad")
	require.Contains(t, body, "Aloo Gobi")
	require.Contains(t, body, "240.5 kcal")
	require.NotContains(t, body, "Paneer Tikka")
}

func TestPredict_ExpiredHidesRecipes(t *testing.T) {
	_, handler := setupTest(t)
	b := &browser{t: t, handler: handler}

	w := b.do(http.MethodPost, "/predict", url.Values{
		"category":  {"Dairy"},
		"days_left": {"-3"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "ALREADY EXPIRED: 3 Days Overdue")
	require.Contains(t, body, "<strong>Recommendation:</strong>")
	require.NotContains(t, body, `action="/recipes"`)

	w = b.do(http.MethodPost, "/recipes", url.Values{})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "RECIPES_LOCKED")
}

func TestPredict_Invalid(t *testing.T) {
	_, handler := setupTest(t)
	b := &browser{t: t, handler: handler}

	w := b.do(http.MethodPost, "/predict", url.Values{"days_left": {"-31"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_REQUEST")

	w = b.do(http.MethodPost, "/predict", url.Values{"days_left": {"soon"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = b.do(http.MethodGet, "/", nil)
	require.Contains(t, w.Body.String(), "No items classified yet.")
}

func TestPredict_NoMatchingRecipesShowsFallback(t *testing.T) {
	_, handler := setupTest(t)
	b := &browser{t: t, handler: handler}

	b.do(http.MethodPost, "/predict", url.Values{"category": {"Protein"}, "days_left": {"1"}})
	w := b.do(http.MethodPost, "/recipes", url.Values{})

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Searching for local alternatives...")
}

func TestClearHistory(t *testing.T) {
	_, handler := setupTest(t)
	b := &browser{t: t, handler: handler}

	b.do(http.MethodPost, "/predict", url.Values{"category": {"Dairy"}, "days_left": {"5"}})
	w := b.do(http.MethodPost, "/history/clear", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	w = b.do(http.MethodGet, "/", nil)
	require.Contains(t, w.Body.String(), "No items classified yet.")
}

func TestPageSessionsAreIsolated(t *testing.T) {
	_, handler := setupTest(t)
	alice := &browser{t: t, handler: handler}
	bob := &browser{t: t, handler: handler}

	alice.do(http.MethodPost, "/predict", url.Values{"category": {"Dairy"}, "days_left": {"1"}})

	w := bob.do(http.MethodGet, "/", nil)
	require.Contains(t, w.Body.String(), "No items classified yet.")
	require.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}

func TestIndex_CatalogMissingWarns(t *testing.T) {
	loader := catalog.NewLoader(&catalog.FileSource{Path: filepath.Join(t.TempDir(), "recipes.csv")})
	_, handler := setupWithLoader(t, loader)
	b := &browser{t: t, handler: handler}

	w := b.do(http.MethodPost, "/predict", url.Values{"category": {"Produce"}, "days_left": {"0"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Database Error")
	require.Contains(t, w.Body.String(), "CRITICAL: Expires Today")

	w = b.do(http.MethodPost, "/recipes", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Searching for local alternatives...")
}

func TestRenderErrorJSON(t *testing.T) {
	_, handler := setupTest(t)

	req := httptest.NewRequest(http.MethodPost, "/recipes", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeAPIError(t, w)
	require.Equal(t, "RECIPES_LOCKED", body.Error.Code)
}

// --- JSON API ---

func TestAPI_Workflow(t *testing.T) {
	_, handler := setupTest(t)
	id := createSession(t, handler)
	base := "/api/v1/sessions/" + id

	w := apiRequest(t, handler, http.MethodPost, base+"/inventory", `{"category":"Produce","days_left":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var submitted ops.SubmitOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	require.Equal(t, "ExpiresToday", string(submitted.Assessment.Label))
	require.Equal(t, 7, submitted.Item.ShelfLifeDays)

	w = apiRequest(t, handler, http.MethodPost, base+"/recipes", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var recipes ops.RecipesOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	require.Len(t, recipes.Recipes, 3)

	w = apiRequest(t, handler, http.MethodPost, base+"/recipes", `{"limit":2}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	require.Len(t, recipes.Recipes, 2)

	w = apiRequest(t, handler, http.MethodGet, base+"/history", "")
	var history ops.HistoryOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Equal(t, 1, history.Count)

	w = apiRequest(t, handler, http.MethodDelete, base+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cleared ops.ClearOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cleared))
	require.Equal(t, 1, cleared.Cleared)
}

func TestAPI_Errors(t *testing.T) {
	_, handler := setupTest(t)
	id := createSession(t, handler)
	base := "/api/v1/sessions/" + id

	w := apiRequest(t, handler, http.MethodPost, base+"/recipes", "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "RECIPES_LOCKED", decodeAPIError(t, w).Error.Code)

	w = apiRequest(t, handler, http.MethodPost, base+"/inventory", `{"category":"Snacks","days_left":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeAPIError(t, w)
	require.Equal(t, "INVALID_REQUEST", body.Error.Code)
	require.Contains(t, body.Error.Details, "fields")

	w = apiRequest(t, handler, http.MethodPost, base+"/inventory", `{"category":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = apiRequest(t, handler, http.MethodPost, base+"/inventory", `{"colour":"red"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = apiRequest(t, handler, http.MethodGet, "/api/v1/sessions/nope/history", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "SESSION_NOT_FOUND", decodeAPIError(t, w).Error.Code)
}

func TestAPI_DeleteSession(t *testing.T) {
	_, handler := setupTest(t)
	id := createSession(t, handler)

	w := apiRequest(t, handler, http.MethodDelete, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = apiRequest(t, handler, http.MethodDelete, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_SessionsAreIsolated(t *testing.T) {
	_, handler := setupTest(t)
	a := createSession(t, handler)
	b := createSession(t, handler)

	apiRequest(t, handler, http.MethodPost, "/api/v1/sessions/"+a+"/inventory", `{"category":"Dairy","days_left":1}`)

	w := apiRequest(t, handler, http.MethodGet, "/api/v1/sessions/"+b+"/history", "")
	var history ops.HistoryOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Equal(t, 0, history.Count)
}

func TestAPI_CatalogStats(t *testing.T) {
	_, handler := setupTest(t)

	w := apiRequest(t, handler, http.MethodGet, "/api/v1/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats ops.CatalogStatsOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, 4, stats.Total)
}

func TestHealthAndMetrics(t *testing.T) {
	_, handler := setupTest(t)

	w := apiRequest(t, handler, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)

	w = apiRequest(t, handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ecokitchen_http_request_duration_seconds")
}

func TestStaticAssets(t *testing.T) {
	_, handler := setupTest(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), ".assessment")
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		0:     "0",
		30:    "30",
		150.5: "150.5",
		12.25: "12.25",
		100:   "100",
	}
	for in, want := range tests {
		if got := formatNumber(in); got != want {
			t.Errorf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

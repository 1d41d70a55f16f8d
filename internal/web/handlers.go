package web

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/config"
	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/ops"
	"github.com/hpungsan/ecokitchen/internal/recipe"
	"github.com/hpungsan/ecokitchen/internal/session"
)

// SessionCookie names the cookie carrying the page session ID.
const SessionCookie = "ecokitchen_session"

// maxBodyBytes caps JSON and form request bodies.
const maxBodyBytes = 64 << 10

// Handlers contains HTTP route handlers for the web UI and JSON API.
type Handlers struct {
	loader   *catalog.Loader
	cfg      *config.Config
	store    *session.Store
	renderer *Renderer
}

// --- Pages ---

// HandleIndex handles GET /: the inventory form, last assessment and history.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := h.pageSession(w, r)

	form := ops.DefaultInventoryInput()
	if _, category, ok := sess.Last(); ok {
		form.Category = category
	}

	h.renderIndex(w, r, http.StatusOK, sess, form, nil)
}

// HandlePredict handles POST /predict and classifies the submitted item.
func (h *Handlers) HandlePredict(w http.ResponseWriter, r *http.Request) {
	sess := h.pageSession(w, r)

	form, err := parseInventoryForm(w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if _, err := ops.SubmitInventory(sess, form); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderIndex(w, r, http.StatusOK, sess, form, nil)
}

// HandleRecipes handles POST /recipes and reveals recipes for the last item.
func (h *Handlers) HandleRecipes(w http.ResponseWriter, r *http.Request) {
	sess := h.pageSession(w, r)

	result, err := ops.RequestRecipes(r.Context(), h.loader, sess, ops.RecipesInput{
		Limit: h.cfg.Recommend.Limit,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	form := ops.DefaultInventoryInput()
	form.Category = result.Category
	h.renderIndex(w, r, http.StatusOK, sess, form, result)
}

// HandleClearHistory handles POST /history/clear.
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	sess := h.pageSession(w, r)
	ops.ClearHistory(sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"catalog_loaded": h.loader.Loaded(),
		"sessions":       h.store.Len(),
	})
}

func (h *Handlers) renderIndex(w http.ResponseWriter, r *http.Request, status int, sess *session.Session, form ops.InventoryInput, recipes *ops.RecipesOutput) {
	data := IndexPageData{
		PageData: PageData{
			Title:   "Spoilage Risk",
			Version: h.renderer.version,
		},
		Form:           form,
		Categories:     recipe.Categories,
		StorageOptions: []string{ops.StorageRefrigerated, ops.StorageAmbient},
		MinDaysLeft:    ops.MinDaysLeft,
		Recipes:        recipes,
		History:        ops.GetHistory(sess).Items,
	}

	if a, _, ok := sess.Last(); ok {
		data.Assessment = &a
		data.MessageHTML = renderMarkdown(a.Message)
		data.AdviceHTML = renderMarkdown(a.Advice)
		data.ShowRecipes = sess.RecipesEligible()
	}

	// The catalog warning is shown on every page; classification keeps working.
	if _, err := h.loader.Load(r.Context()); err != nil {
		data.CatalogError = ops.CatalogErrorMessage(h.loader.SourceName())
	}

	h.renderer.renderPageStatus(w, status, "index", data)
}

// pageSession returns the cookie session, creating one when the cookie is
// missing or its session has expired.
func (h *Handlers) pageSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if sess, err := h.store.Get(c.Value); err == nil {
			return sess
		}
	}

	sess := h.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// parseInventoryForm reads the form over the defaults. Fields left blank
// keep their default; non-numeric values are INVALID_REQUEST.
func parseInventoryForm(w http.ResponseWriter, r *http.Request) (ops.InventoryInput, error) {
	in := ops.DefaultInventoryInput()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return in, errors.NewInvalidRequest("invalid form: " + err.Error())
	}

	if v := strings.TrimSpace(r.PostForm.Get("category")); v != "" {
		in.Category = v
	}
	if v := strings.TrimSpace(r.PostForm.Get("storage")); v != "" {
		in.Storage = v
	}

	var err error
	if in.QuantityGrams, err = formFloat(r, "quantity_grams", in.QuantityGrams); err != nil {
		return in, err
	}
	if in.Cost, err = formFloat(r, "cost", in.Cost); err != nil {
		return in, err
	}
	if in.ShelfLifeDays, err = formInt(r, "shelf_life_days", in.ShelfLifeDays); err != nil {
		return in, err
	}
	if in.DaysLeft, err = formInt(r, "days_left", in.DaysLeft); err != nil {
		return in, err
	}
	return in, nil
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	v := strings.TrimSpace(r.PostForm.Get(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, errors.NewInvalidRequest(key + " must be a number")
	}
	return f, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.PostForm.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, errors.NewInvalidRequest(key + " must be a whole number")
	}
	return n, nil
}

// --- JSON API ---

// APICreateSession handles POST /api/v1/sessions.
func (h *Handlers) APICreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()
	renderJSON(w, http.StatusCreated, map[string]any{
		"id":         sess.ID,
		"state":      sess.State().String(),
		"created_at": sess.CreatedAt,
	})
}

// APIDeleteSession handles DELETE /api/v1/sessions/{id}.
func (h *Handlers) APIDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Delete(id) {
		renderJSONError(w, errors.NewSessionNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// APISubmitInventory handles POST /api/v1/sessions/{id}/inventory.
// Omitted fields take the form defaults.
func (h *Handlers) APISubmitInventory(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.apiSession(w, r)
	if !ok {
		return
	}

	in := ops.DefaultInventoryInput()
	if err := decodeJSONBody(w, r, &in); err != nil {
		renderJSONError(w, err)
		return
	}

	result, err := ops.SubmitInventory(sess, in)
	if err != nil {
		h.apiError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// APIRequestRecipes handles POST /api/v1/sessions/{id}/recipes.
func (h *Handlers) APIRequestRecipes(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.apiSession(w, r)
	if !ok {
		return
	}

	var in ops.RecipesInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		renderJSONError(w, err)
		return
	}
	if in.Limit <= 0 {
		in.Limit = h.cfg.Recommend.Limit
	}

	result, err := ops.RequestRecipes(r.Context(), h.loader, sess, in)
	if err != nil {
		h.apiError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// APIGetHistory handles GET /api/v1/sessions/{id}/history.
func (h *Handlers) APIGetHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.apiSession(w, r)
	if !ok {
		return
	}
	renderJSON(w, http.StatusOK, ops.GetHistory(sess))
}

// APIClearHistory handles DELETE /api/v1/sessions/{id}/history.
func (h *Handlers) APIClearHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.apiSession(w, r)
	if !ok {
		return
	}
	renderJSON(w, http.StatusOK, ops.ClearHistory(sess))
}

// APICatalogStats handles GET /api/v1/catalog.
func (h *Handlers) APICatalogStats(w http.ResponseWriter, r *http.Request) {
	result, err := ops.CatalogStats(r.Context(), h.loader)
	if err != nil {
		h.apiError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

func (h *Handlers) apiSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.apiError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *Handlers) apiError(w http.ResponseWriter, err error) {
	ecoErr, ok := errors.As(err)
	if !ok {
		ecoErr = errors.NewInternal(err)
	}
	renderJSONError(w, ecoErr)
}

// decodeJSONBody decodes an optional JSON body into dst. An empty body
// leaves dst unchanged.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) *errors.EcoError {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

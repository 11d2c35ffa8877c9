package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	adapter "github.com/neomorfeo/spacebuilder/internal/adapter/http"
	fsmadapter "github.com/neomorfeo/spacebuilder/internal/adapter/fsm"
	"github.com/neomorfeo/spacebuilder/internal/adapter/sqlite"
	"github.com/neomorfeo/spacebuilder/internal/adapter/storefront"
	"github.com/neomorfeo/spacebuilder/internal/app"
	"github.com/neomorfeo/spacebuilder/internal/domain"
)

// noopPublisher is a no-op EventPublisher for tests.
type noopPublisher struct{}

func (p *noopPublisher) Publish(_ context.Context, _ domain.Event, _ domain.Session) error {
	return nil
}

// fakeStore is a storefront double that records cart adds and contact posts.
type fakeStore struct {
	mu       sync.Mutex
	added    []string
	contacts []string
	failAdd  bool
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/cart/add.js":
		if f.failAdd {
			http.Error(w, "sold out", http.StatusUnprocessableEntity)
			return
		}
		var body struct {
			Items []struct {
				ID       string `json:"id"`
				Quantity int    `json:"quantity"`
			} `json:"items"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, item := range body.Items {
			f.added = append(f.added, fmt.Sprintf("%s x%d", item.ID, item.Quantity))
		}
		w.WriteHeader(http.StatusOK)
	case "/contact":
		_ = r.ParseForm()
		f.contacts = append(f.contacts, r.PostForm.Get("contact[email]"))
		w.WriteHeader(http.StatusOK)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeStore) addedItems() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...)
}

func testCatalog() domain.Catalog {
	return domain.Catalog{
		CurrencySymbol: "$",
		Seating: []domain.Product{
			{Title: "Lounge Chair", Variants: []domain.Variant{{ID: "v1", Name: "Oat", Price: 10000}}},
			{Title: "Sofa", Variants: []domain.Variant{
				{ID: "v2", Name: "Grey", Price: 25000},
				{ID: "v3", Name: "Navy", Price: 26000},
			}},
		},
		Platform: &domain.Product{ID: "p1", Title: "Platform", Price: 5000},
		Aroma: []domain.Product{
			{Title: "Incense Holder", Variants: []domain.Variant{{ID: "a1", Name: "Brass", Price: 3000}}},
			{Title: "Diffuser", Variants: []domain.Variant{{ID: "a2", Name: "Clay", Price: 4000}}},
		},
		Incense: &domain.Product{Title: "Incense", Variants: []domain.Variant{
			{ID: "i1", Name: "Cedar", Price: 1200},
		}},
		IncludedIncense: &domain.Product{Title: "Sample Incense", Variants: []domain.Variant{{ID: "i0", Name: "Sampler"}}},
		Home: []domain.Product{
			{Title: "Throw", Variants: []domain.Variant{{ID: "h1", Name: "Wool", Price: 6000}}},
		},
	}
}

// newTestServer creates a full-stack httptest.Server with SQLite in-memory
// and a fake storefront behind the real storefront client.
func newTestServer(t *testing.T) (*httptest.Server, *fakeStore) {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	store := &fakeStore{}
	storeSrv := httptest.NewServer(store)
	t.Cleanup(storeSrv.Close)

	client, err := storefront.New(storeSrv.URL)
	if err != nil {
		t.Fatalf("creating storefront client: %v", err)
	}

	svc := app.NewSessionService(testCatalog(), repo, &noopPublisher{}, fsmadapter.New(), client, client)

	images := domain.VariantImages{
		"oat": {{Src200: "oat-200.jpg", Src800: "oat-800.jpg"}},
	}

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("spacebuilder", "0.1.0"))
	adapter.Register(api, svc, images)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, store
}

// doRequest performs an HTTP request with context (avoids noctx linter).
func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

// mustCreateSession creates a session via the API and returns its response.
func mustCreateSession(t *testing.T, srv *httptest.Server) adapter.SessionResponse {
	t.Helper()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions", "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("create session: status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	return decode[adapter.SessionResponse](t, resp)
}

// mustAct applies an action and fails the test unless it is accepted.
func mustAct(t *testing.T, srv *httptest.Server, id, body string) adapter.SessionResponse {
	t.Helper()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+id+"/actions", body)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("action %s: status = %d, want %d", body, resp.StatusCode, http.StatusOK)
	}
	return decode[adapter.SessionResponse](t, resp)
}

// walkToReadySeatOnly runs seating(0) → variant(0,0) → skip platform → skip
// aroma → skip home.
func walkToReadySeatOnly(t *testing.T, srv *httptest.Server, id string) adapter.SessionResponse {
	t.Helper()
	mustAct(t, srv, id, `{"action":"select_seating","product_index":0}`)
	mustAct(t, srv, id, `{"action":"select_variant","product_index":0,"variant_index":0}`)
	mustAct(t, srv, id, `{"action":"skip_platform"}`)
	mustAct(t, srv, id, `{"action":"skip_aroma"}`)
	return mustAct(t, srv, id, `{"action":"skip_home"}`)
}

// --- Catalog ---

func TestGetCatalog(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/catalog", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	catalog := decode[domain.Catalog](t, resp)
	if len(catalog.Seating) != 2 {
		t.Errorf("got %d seating products, want 2", len(catalog.Seating))
	}
}

// --- Sessions ---

func TestCreateSession(t *testing.T) {
	srv, _ := newTestServer(t)
	session := mustCreateSession(t, srv)

	if session.ID == "" {
		t.Error("ID should not be empty")
	}
	if session.Selection.Stage != domain.StageProductGrid {
		t.Errorf("Stage = %q, want %q", session.Selection.Stage, domain.StageProductGrid)
	}
	if session.CanGoBack {
		t.Error("a new session should have nothing to go back to")
	}
	if session.View.Grid == nil || len(session.View.Grid.Options) != 2 {
		t.Errorf("expected a product grid with 2 options, got %+v", session.View.Grid)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/sessions/nonexistent", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestApply_ReadySeatOnlyTotal(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	session := walkToReadySeatOnly(t, srv, created.ID)

	if !session.View.Checkout.Ready {
		t.Error("expected the configuration to be ready")
	}
	if session.View.Total.Text != "$100.00" {
		t.Errorf("total = %q, want %q", session.View.Total.Text, "$100.00")
	}
	if session.View.ScrollTo != domain.SectionTotal {
		t.Errorf("scroll to = %q, want %q", session.View.ScrollTo, domain.SectionTotal)
	}
}

func TestApply_InvalidTransition(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/actions", `{"action":"skip_platform"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestApply_OutOfRangeLeavesSessionUnchanged(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/actions", `{"action":"select_seating","product_index":7}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}

	got := decode[adapter.SessionResponse](t, doRequest(t, http.MethodGet, srv.URL+"/api/v1/sessions/"+created.ID, ""))
	if got.Selection != created.Selection {
		t.Errorf("selection changed after rejected action: %+v", got.Selection)
	}
}

func TestApply_MissingIndexLeavesSessionUnchanged(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)
	actionsURL := srv.URL + "/api/v1/sessions/" + created.ID + "/actions"

	for _, body := range []string{
		`{"action":"select_seating"}`,
		`{"action":"select_seating","variant_index":0}`,
		`{"action":"select_variant","product_index":0}`,
		`{"action":"select_incense"}`,
	} {
		resp := doRequest(t, http.MethodPost, actionsURL, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want %d", body, resp.StatusCode, http.StatusUnprocessableEntity)
		}
	}

	got := decode[adapter.SessionResponse](t, doRequest(t, http.MethodGet, srv.URL+"/api/v1/sessions/"+created.ID, ""))
	if got.Selection != created.Selection {
		t.Errorf("selection changed after rejected actions: %+v", got.Selection)
	}
	if got.CanGoBack {
		t.Error("rejected actions should not push history")
	}

	session := mustAct(t, srv, created.ID, `{"action":"select_seating","product_index":0}`)
	if session.Selection.SeatProduct != 0 || session.Selection.Stage != domain.StageVariantGrid {
		t.Errorf("explicit index 0: selection = %+v", session.Selection)
	}
}

func TestApply_UnknownAction(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/actions", `{"action":"bogus"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestApply_IncenseHolderRoutesToIncenseGrid(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	mustAct(t, srv, created.ID, `{"action":"select_seating","product_index":0}`)
	mustAct(t, srv, created.ID, `{"action":"select_variant","product_index":0,"variant_index":0}`)
	mustAct(t, srv, created.ID, `{"action":"skip_platform"}`)
	mustAct(t, srv, created.ID, `{"action":"continue_to_aroma"}`)
	mustAct(t, srv, created.ID, `{"action":"select_aroma","product_index":0}`)
	session := mustAct(t, srv, created.ID, `{"action":"select_aroma_variant","product_index":0,"variant_index":0}`)

	if session.Selection.Stage != domain.StageIncenseVariantGrid {
		t.Errorf("Stage = %q, want %q", session.Selection.Stage, domain.StageIncenseVariantGrid)
	}
	if session.Selection.IncenseIncluded {
		t.Error("incense should not be included for the holder")
	}
}

func TestRemoveIncense_BundledIsRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	mustAct(t, srv, created.ID, `{"action":"select_seating","product_index":0}`)
	mustAct(t, srv, created.ID, `{"action":"select_variant","product_index":0,"variant_index":0}`)
	mustAct(t, srv, created.ID, `{"action":"skip_platform"}`)
	mustAct(t, srv, created.ID, `{"action":"continue_to_aroma"}`)
	mustAct(t, srv, created.ID, `{"action":"select_aroma","product_index":1}`)
	mustAct(t, srv, created.ID, `{"action":"select_aroma_variant","product_index":1,"variant_index":0}`)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/actions", `{"action":"remove_incense"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

// --- Go Back ---

func TestGoBack(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	mustAct(t, srv, created.ID, `{"action":"select_seating","product_index":1}`)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/back", "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	session := decode[adapter.SessionResponse](t, resp)
	if session.Selection != created.Selection {
		t.Errorf("selection = %+v, want %+v", session.Selection, created.Selection)
	}
	if session.CanGoBack {
		t.Error("history should be empty after undoing the only step")
	}
}

func TestGoBack_EmptyHistoryIsNoop(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/back", "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := decode[adapter.SessionResponse](t, resp); got.Selection != created.Selection {
		t.Errorf("selection changed: %+v", got.Selection)
	}
}

// --- Save Codes ---

func TestSaveCode_AndRestore(t *testing.T) {
	srv, _ := newTestServer(t)
	first := mustCreateSession(t, srv)
	walkToReadySeatOnly(t, srv, first.ID)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/sessions/"+first.ID+"/code", "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	code := decode[struct {
		Code string `json:"code"`
	}](t, resp).Code
	if code != "000XXXXX" {
		t.Errorf("code = %q, want %q", code, "000XXXXX")
	}

	second := mustCreateSession(t, srv)
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+second.ID+"/restore", `{"code":" 000xxxxx "}`)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("restore status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	restored := decode[adapter.SessionResponse](t, resp)

	if restored.Selection.Stage != domain.StageConfigurator {
		t.Errorf("Stage = %q, want %q", restored.Selection.Stage, domain.StageConfigurator)
	}
	if restored.CanGoBack {
		t.Error("restore should clear history")
	}
	if restored.View.Total.Text != "$100.00" {
		t.Errorf("total = %q, want %q", restored.View.Total.Text, "$100.00")
	}
}

func TestSaveCode_NoSeating(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/sessions/"+created.ID+"/code", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestRestore_InvalidCodes(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	for _, code := range []string{"000", "000XXXXXX", "00!XXXXX", "700XXXXX", "00200XXX"} {
		resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/restore", fmt.Sprintf(`{"code":%q}`, code))
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("restore %q: status = %d, want %d", code, resp.StatusCode, http.StatusUnprocessableEntity)
		}
	}

	got := decode[adapter.SessionResponse](t, doRequest(t, http.MethodGet, srv.URL+"/api/v1/sessions/"+created.ID, ""))
	if got.Selection != created.Selection {
		t.Errorf("selection changed after rejected restores: %+v", got.Selection)
	}
}

func TestSave_ReturnsCodeAndMails(t *testing.T) {
	srv, store := newTestServer(t)
	created := mustCreateSession(t, srv)
	walkToReadySeatOnly(t, srv, created.ID)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/save", `{"email":"shopper@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if code := decode[struct {
		Code string `json:"code"`
	}](t, resp).Code; code != "000XXXXX" {
		t.Errorf("code = %q, want %q", code, "000XXXXX")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.contacts) != 1 || store.contacts[0] != "shopper@example.com" {
		t.Errorf("contacts = %v, want [shopper@example.com]", store.contacts)
	}
}

// --- Checkout ---

func TestCheckout_SeatOnly(t *testing.T) {
	srv, store := newTestServer(t)
	created := mustCreateSession(t, srv)
	walkToReadySeatOnly(t, srv, created.ID)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/checkout", "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	result := decode[struct {
		RedirectURL string                     `json:"redirect_url"`
		Failed      bool                       `json:"failed"`
		Items       []adapter.LineItemResponse `json:"items"`
	}](t, resp)

	if !strings.HasSuffix(result.RedirectURL, "/checkout") {
		t.Errorf("redirect = %q, want the checkout page", result.RedirectURL)
	}
	if result.Failed {
		t.Error("checkout should not report a failure")
	}

	added := store.addedItems()
	if len(added) != 1 || added[0] != "v1 x1" {
		t.Errorf("cart adds = %v, want [v1 x1]", added)
	}
}

func TestCheckout_CartFailureRedirectsToCart(t *testing.T) {
	srv, store := newTestServer(t)
	store.failAdd = true
	created := mustCreateSession(t, srv)
	walkToReadySeatOnly(t, srv, created.ID)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/checkout", "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	result := decode[struct {
		RedirectURL string `json:"redirect_url"`
		Failed      bool   `json:"failed"`
	}](t, resp)

	if !strings.HasSuffix(result.RedirectURL, "/cart") {
		t.Errorf("redirect = %q, want the cart page", result.RedirectURL)
	}
	if !result.Failed {
		t.Error("checkout should report the failure")
	}
}

func TestCheckout_NotReady(t *testing.T) {
	srv, _ := newTestServer(t)
	created := mustCreateSession(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/sessions/"+created.ID+"/checkout", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

// --- Variant Images ---

func TestPreloadVariantImages(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/variant-images/preload", "")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	preloads := decode[[]domain.Preload](t, resp)
	if len(preloads) != 1 {
		t.Fatalf("got %d preloads, want 1", len(preloads))
	}
	if preloads[0].Option != "oat" || preloads[0].Src != "oat-800.jpg" {
		t.Errorf("preload = %+v", preloads[0])
	}
}

package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/neomorfeo/spacebuilder/internal/adapter/storefront"
	"github.com/neomorfeo/spacebuilder/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *storefront.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := storefront.New(srv.URL+"/", storefront.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNew_RejectsNonHTTPURL(t *testing.T) {
	for _, raw := range []string{"ftp://shop.example.com", "shop.example.com", "://bad"} {
		if _, err := storefront.New(raw); err == nil {
			t.Errorf("New(%q) expected error", raw)
		}
	}
}

func TestRedirectURLs(t *testing.T) {
	client, err := storefront.New("https://shop.example.com/")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := client.CheckoutURL(); got != "https://shop.example.com/checkout" {
		t.Errorf("CheckoutURL = %q", got)
	}
	if got := client.CartURL(); got != "https://shop.example.com/cart" {
		t.Errorf("CartURL = %q", got)
	}
}

func TestAdd_PostsSingleItem(t *testing.T) {
	var got struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/add.js" {
			t.Errorf("request = %s %s, want POST /cart/add.js", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	item := domain.LineItem{Slot: domain.SlotSeating, VariantID: "v-100", Quantity: 1, Price: 10000}
	if err := client.Add(context.Background(), item); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if len(got.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(got.Items))
	}
	if got.Items[0].ID != "v-100" || got.Items[0].Quantity != 1 {
		t.Errorf("item = %+v, want v-100 x1", got.Items[0])
	}
}

func TestAdd_StatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "sold out", http.StatusUnprocessableEntity)
	}))

	err := client.Add(context.Background(), domain.LineItem{VariantID: "v-1", Quantity: 1})
	var statusErr *storefront.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", statusErr.StatusCode, http.StatusUnprocessableEntity)
	}
	if statusErr.Body != "sold out" {
		t.Errorf("body = %q, want %q", statusErr.Body, "sold out")
	}
}

func TestAdd_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := storefront.New(srv.URL)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	srv.Close()

	if err := client.Add(context.Background(), domain.LineItem{VariantID: "v-1", Quantity: 1}); err == nil {
		t.Fatal("expected error when the storefront is unreachable")
	}
}

func TestSendSaveCode_PostsContactForm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/contact" {
			t.Errorf("request = %s %s, want POST /contact", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("contact[email]"); got != "shopper@example.com" {
			t.Errorf("contact[email] = %q", got)
		}
		if got := r.PostForm.Get("contact[body]"); got != "Your space builder save code: 10X0XXXX" {
			t.Errorf("contact[body] = %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.SendSaveCode(context.Background(), "shopper@example.com", "10X0XXXX"); err != nil {
		t.Fatalf("SendSaveCode failed: %v", err)
	}
}

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) (*TourRegistry, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	registry, err := NewTourRegistry(model.RegistryConfig{
		BaseURL:    server.URL,
		ServiceKey: "test-key",
		TimeoutSec: 5,
	}, model.HTTPConfig{})
	if err != nil {
		t.Fatalf("NewTourRegistry: %v", err)
	}
	return registry, server
}

func korServiceBody(items string) string {
	return fmt.Sprintf(`{"response":{"header":{"resultCode":"0000","resultMsg":"OK"},"body":{"totalCount":1,"items":{"item":[%s]}}}}`, items)
}

func TestTourRegistry_Lookup_Found(t *testing.T) {
	registry, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("keyword") != "국립중앙박물관" {
			t.Errorf("Expected keyword query, got %q", r.URL.Query().Get("keyword"))
		}
		fmt.Fprint(w, korServiceBody(`{"title":"국립중앙박물관","addr1":"서울 용산구","tel":"02-2077-9000","contentid":"12345"}`))
	})

	result, err := registry.Lookup(context.Background(), model.ClaimTypeVenueExists, "국립중앙박물관")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if !result.Found {
		t.Error("Expected record to be found")
	}
	if result.Data["address"] != "서울 용산구" {
		t.Errorf("Expected address in data, got %v", result.Data)
	}
	if result.SourceURL == "" {
		t.Error("Expected source URL to be set")
	}
}

func TestTourRegistry_Lookup_NotFoundIsNotAnError(t *testing.T) {
	registry, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"header":{"resultCode":"0000","resultMsg":"OK"},"body":{"totalCount":0,"items":{"item":[]}}}}`)
	})

	result, err := registry.Lookup(context.Background(), model.ClaimTypeVenueExists, "존재하지 않는 장소")
	if err != nil {
		t.Fatalf("Absence of a record must not be an error, got: %v", err)
	}
	if result.Found {
		t.Error("Expected Found=false")
	}
}

func TestTourRegistry_Lookup_UnrelatedHitIsNotFound(t *testing.T) {
	registry, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, korServiceBody(`{"title":"전혀 다른 식당","addr1":"부산","contentid":"99"}`))
	})

	result, err := registry.Lookup(context.Background(), model.ClaimTypeVenueExists, "국립중앙박물관")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if result.Found {
		t.Error("A keyword hit with no title/address overlap must not count as found")
	}
}

func TestTourRegistry_Lookup_QuotaExhaustedIsTerminal(t *testing.T) {
	registry, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"header":{"resultCode":"22","resultMsg":"LIMITED_NUMBER_OF_SERVICE_REQUESTS_EXCEEDS_ERROR"}}}`)
	})

	_, err := registry.Lookup(context.Background(), model.ClaimTypeVenueExists, "경복궁")
	if err == nil {
		t.Fatal("Expected error for quota exhaustion")
	}
	if !IsTerminal(err) {
		t.Errorf("Quota exhaustion must be terminal, got: %v", err)
	}
}

func TestTourRegistry_Lookup_ServerErrorIsTransient(t *testing.T) {
	registry, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := registry.Lookup(context.Background(), model.ClaimTypeVenueExists, "경복궁")
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if IsTerminal(err) {
		t.Errorf("Server errors must be transient, got terminal: %v", err)
	}
}

func TestTourRegistry_Lookup_UnauthorizedIsTerminal(t *testing.T) {
	registry, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := registry.Lookup(context.Background(), model.ClaimTypeVenueExists, "경복궁")
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !IsTerminal(err) {
		t.Errorf("Auth failures must be terminal, got: %v", err)
	}
}

func TestTourRegistry_RequiresServiceKey(t *testing.T) {
	_, err := NewTourRegistry(model.RegistryConfig{BaseURL: "https://example.com"}, model.HTTPConfig{})
	if err == nil {
		t.Error("Expected error when service key is missing")
	}
}

func TestTourRegistry_Supports(t *testing.T) {
	registry, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {})

	supported := []model.ClaimType{
		model.ClaimTypeVenueExists, model.ClaimTypeLocation, model.ClaimTypeHours,
		model.ClaimTypeEventPeriod, model.ClaimTypeContact,
	}
	for _, ct := range supported {
		if !registry.Supports(ct) {
			t.Errorf("Expected registry to support %s", ct)
		}
	}

	unsupported := []model.ClaimType{
		model.ClaimTypePrice, model.ClaimTypeFacilities, model.ClaimTypeTransport, model.ClaimTypeUnknown,
	}
	for _, ct := range unsupported {
		if registry.Supports(ct) {
			t.Errorf("Expected registry not to support %s", ct)
		}
	}
}

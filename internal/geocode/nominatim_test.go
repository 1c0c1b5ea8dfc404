package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlaceLabel(t *testing.T) {
	cases := []struct {
		name  string
		place Place
		want  string
	}{
		{"name and city", Place{Name: "Central Park", City: "New York"}, "Central Park, New York"},
		{"street fallback", Place{Street: "Market St", City: "San Francisco"}, "Market St, San Francisco"},
		{"region fallback", Place{Name: "Viewpoint", Region: "California"}, "Viewpoint, California"},
		{"name only", Place{Name: "Central Park"}, "Central Park"},
		{"city only", Place{City: "Mumbai"}, "Mumbai"},
		{"empty", Place{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.place.Label(); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPlaceIsZero(t *testing.T) {
	if !(Place{}).IsZero() {
		t.Error("Expected empty place to be zero")
	}
	if (Place{City: "Delhi"}).IsZero() {
		t.Error("Expected place with city not to be zero")
	}
}

func TestPlaceFromAddress(t *testing.T) {
	place := placeFromAddress(nominatimAddress{
		Attraction: "India Gate",
		Road:       "Kartavya Path",
		Town:       "New Delhi",
		State:      "Delhi",
	})
	if place.Name != "India Gate" {
		t.Errorf("Expected attraction as name, got %q", place.Name)
	}
	if place.City != "New Delhi" {
		t.Errorf("Expected town as city fallback, got %q", place.City)
	}

	// Building fills in when there is no attraction, suburb when no town
	place = placeFromAddress(nominatimAddress{Building: "City Hall", Suburb: "Civic Center"})
	if place.Name != "City Hall" || place.City != "Civic Center" {
		t.Errorf("Unexpected fallbacks: %+v", place)
	}
}

func TestClientReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("addressdetails") != "1" {
			t.Error("Expected addressdetails=1")
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected a User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "Gateway of India, Mumbai, Maharashtra",
			"address": {"attraction": "Gateway of India", "city": "Mumbai", "state": "Maharashtra"}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	place, err := client.Reverse(context.Background(), 18.9220, 72.8347)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}
	if place.Name != "Gateway of India" || place.City != "Mumbai" {
		t.Errorf("Unexpected place: %+v", place)
	}
	if place.Label() != "Gateway of India, Mumbai" {
		t.Errorf("Unexpected label: %s", place.Label())
	}
}

func TestClientReverseServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Reverse(context.Background(), 1, 1); err == nil {
		t.Error("Expected error on 503 response")
	}
}

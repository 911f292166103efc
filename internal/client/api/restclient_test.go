package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/common"
	"github.com/stretchr/testify/require"
)

func TestRequestCarriesTokenAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode(models.Product{ID: "p1"})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	c.SetToken("jwt-abc")

	_, err := c.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "Bearer jwt-abc", gotAuth)
	require.NotEmpty(t, gotReqID)
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.Farm{})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	_, err := c.GetFarms(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"forbidden is permission denied", http.StatusForbidden, `{"error":"You are not authorized to add this tracking stage"}`, common.ErrPermissionDenied},
		{"missing product is not found", http.StatusNotFound, "", common.ErrNotFound},
		{"bad request is validation", http.StatusBadRequest, `{"error":"Failed to create product","message":"name is required"}`, common.ErrValidation},
		{"unauthenticated", http.StatusUnauthorized, "", common.ErrUnauthorized},
		{"server failure is unavailable", http.StatusInternalServerError, "", common.ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewRESTClient(srv.URL)
			_, err := c.GetProduct(context.Background(), "p1")
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestStatusMappingKeepsBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"You are not authorized to add this tracking stage"}`))
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	_, err := c.AddTrackingStage(context.Background(), "p1", models.StageRequest{Stage: "Farm", Location: "x", Handler: "y"})
	require.ErrorIs(t, err, common.ErrPermissionDenied)
	require.Contains(t, err.Error(), "not authorized to add this tracking stage")
}

func TestUnreachableServerIsUnavailable(t *testing.T) {
	c := NewRESTClient("http://127.0.0.1:1")
	_, err := c.GetFarms(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestGetProductsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "25", r.URL.Query().Get("size"))
		require.Equal(t, "harvestDate", r.URL.Query().Get("sortBy"))
		require.Equal(t, "desc", r.URL.Query().Get("sortDir"))
		_ = json.NewEncoder(w).Encode(models.ProductPage{
			Products:    []models.Product{{ID: "p1", Name: "Mango"}},
			CurrentPage: 2,
			TotalItems:  51,
			TotalPages:  3,
		})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	page, err := c.GetProducts(context.Background(), 2, 25, "harvestDate", "desc")
	require.NoError(t, err)
	require.Equal(t, int64(51), page.TotalItems)
	require.Len(t, page.Products, 1)
}

func TestSearchProductsSkipsEmptyFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/search", r.URL.Path)
		require.Equal(t, "Mango", r.URL.Query().Get("name"))
		require.False(t, r.URL.Query().Has("type"))
		_ = json.NewEncoder(w).Encode([]models.Product{})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	_, err := c.SearchProducts(context.Background(), models.SearchFilter{Name: "Mango"})
	require.NoError(t, err)
}

func TestAddTrackingStagePayload(t *testing.T) {
	var got models.StageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/p1/tracking", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(models.Product{
			ID: "p1",
			TrackingHistory: []models.TrackingStage{
				{Stage: got.Stage, Location: got.Location, Handler: got.Handler},
			},
		})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	product, err := c.AddTrackingStage(context.Background(), "p1", models.StageRequest{
		Stage:    "Processing",
		Location: "Plant 7",
		Handler:  "Jane Doe",
	})
	require.NoError(t, err)
	require.Equal(t, "Processing", got.Stage)
	require.Len(t, product.TrackingHistory, 1)
}

func TestLoginRejectsTokenlessResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.AuthResponse{Message: "Invalid username or password"})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	_, err := c.Login(context.Background(), "amara", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "amara", req.Username)
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Token:        "jwt-abc",
			Username:     "amara",
			Roles:        []string{models.RoleProcessor},
			StageProfile: "PROCESSOR",
			Message:      "Login successful",
		})
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	resp, err := c.Login(context.Background(), "amara", "secret1")
	require.NoError(t, err)
	require.Equal(t, "jwt-abc", resp.Token)
	require.Equal(t, "PROCESSOR", resp.StageProfile)
}

func TestTimestampDecodingFromBackendFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"stage":"Farm","location":"Green Acres","handler":"R. Patel","timestamp":"2025-03-01T08:00:00"},
			{"stage":"Processing","location":"Plant 7","handler":"Jane Doe","timestamp":null}]`))
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)
	history, err := c.GetTrackingHistory(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.False(t, history[0].Timestamp.IsZero())
	require.True(t, history[1].Timestamp.IsZero())
}

func TestProductCRUDPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.Equal(t, "/products", r.URL.Path)
			var p models.Product
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			p.ID = "p9"
			_ = json.NewEncoder(w).Encode(p)
		case http.MethodPut:
			require.Equal(t, "/products/p9", r.URL.Path)
			var p models.Product
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			_ = json.NewEncoder(w).Encode(p)
		case http.MethodDelete:
			require.Equal(t, "/products/p9", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)

	created, err := c.CreateProduct(context.Background(), models.Product{Name: "Mango", Type: "Fruit"})
	require.NoError(t, err)
	require.Equal(t, "p9", created.ID)

	created.Destination = "Market 4"
	updated, err := c.UpdateProduct(context.Background(), "p9", *created)
	require.NoError(t, err)
	require.Equal(t, "Market 4", updated.Destination)

	require.NoError(t, c.DeleteProduct(context.Background(), "p9"))
}

func TestFarmCRUDPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			require.Equal(t, "/farms", r.URL.Path)
			var f models.Farm
			require.NoError(t, json.NewDecoder(r.Body).Decode(&f))
			f.ID = "f1"
			_ = json.NewEncoder(w).Encode(f)
		case r.Method == http.MethodPut:
			require.Equal(t, "/farms/f1", r.URL.Path)
			var f models.Farm
			require.NoError(t, json.NewDecoder(r.Body).Decode(&f))
			_ = json.NewEncoder(w).Encode(f)
		case r.Method == http.MethodDelete:
			require.Equal(t, "/farms/f1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL)

	farm, err := c.CreateFarm(context.Background(), models.Farm{Name: "Green Acres", Location: "Valley", Owner: "Joe"})
	require.NoError(t, err)
	require.Equal(t, "f1", farm.ID)

	farm.ContactInfo = "joe@example.org"
	_, err = c.UpdateFarm(context.Background(), "f1", *farm)
	require.NoError(t, err)

	require.NoError(t, c.DeleteFarm(context.Background(), "f1"))
}

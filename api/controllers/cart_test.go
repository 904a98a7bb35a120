package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lkiparis/printforge-backend/internal/cart"
	"github.com/lkiparis/printforge-backend/pkg/models"
	"github.com/lkiparis/printforge-backend/pkg/types"
)

type testCartService struct {
	addFn            func(ctx context.Context, input cart.AddItemInput) (*models.Item, error)
	listFn           func(ctx context.Context) ([]models.Item, error)
	updateQuantityFn func(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error)
	deleteFn         func(ctx context.Context, id uuid.UUID) error
}

func (s *testCartService) Add(ctx context.Context, input cart.AddItemInput) (*models.Item, error) {
	if s.addFn != nil {
		return s.addFn(ctx, input)
	}
	return &models.Item{}, nil
}

func (s *testCartService) List(ctx context.Context) ([]models.Item, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *testCartService) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error) {
	if s.updateQuantityFn != nil {
		return s.updateQuantityFn(ctx, id, quantity)
	}
	return &models.Item{}, nil
}

func (s *testCartService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func multipartUpload(t *testing.T, filename, payload string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(part, strings.NewReader(payload)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestCartAddDecodesMultipartForm(t *testing.T) {
	var got cart.AddItemInput
	svc := &testCartService{
		addFn: func(ctx context.Context, input cart.AddItemInput) (*models.Item, error) {
			got = input
			return &models.Item{ID: uuid.New(), Filename: input.Filename, Quantity: input.Quantity}, nil
		},
	}

	body, contentType := multipartUpload(t, "bracket.stl", "solid bracket", map[string]string{
		"config":   `{"tech":"FDM","material":"PLA","infill":20}`,
		"quantity": "3",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	CartAdd(svc, 64, nil)(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", w.Code, w.Body.String())
	}
	if got.Filename != "bracket.stl" {
		t.Fatalf("unexpected filename %q", got.Filename)
	}
	if got.Quantity != 3 {
		t.Fatalf("unexpected quantity %d", got.Quantity)
	}
	if got.Config.String("material", "") != "PLA" {
		t.Fatalf("config not decoded: %v", got.Config)
	}
}

func TestCartAddRequiresFile(t *testing.T) {
	body, contentType := multipartUpload(t, "", "", map[string]string{"quantity": "1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	CartAdd(&testCartService{}, 64, nil)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestCartAddRejectsBadConfigJSON(t *testing.T) {
	body, contentType := multipartUpload(t, "part.stl", "solid", map[string]string{"config": "{not json"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	CartAdd(&testCartService{}, 64, nil)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestCartUpdateQuantityRejectsBadID(t *testing.T) {
	r := chi.NewRouter()
	r.Patch("/cart/{itemId}/quantity", CartUpdateQuantity(&testCartService{}, nil))

	req := httptest.NewRequest(http.MethodPatch, "/cart/not-a-uuid/quantity", strings.NewReader(`{"quantity":2}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestCartUpdateQuantityRequiresQuantityField(t *testing.T) {
	r := chi.NewRouter()
	r.Patch("/cart/{itemId}/quantity", CartUpdateQuantity(&testCartService{}, nil))

	req := httptest.NewRequest(http.MethodPatch, "/cart/"+uuid.NewString()+"/quantity", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestCartDeletePassesParsedID(t *testing.T) {
	want := uuid.New()
	var got uuid.UUID
	svc := &testCartService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			got = id
			return nil
		},
	}

	r := chi.NewRouter()
	r.Delete("/cart/{itemId}", CartDelete(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/cart/"+want.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	if got != want {
		t.Fatalf("expected id %s but got %s", want, got)
	}
}

func TestCartListEnvelope(t *testing.T) {
	svc := &testCartService{
		listFn: func(ctx context.Context) ([]models.Item, error) {
			return []models.Item{{ID: uuid.New()}, {ID: uuid.New()}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	CartList(svc, nil)(w, req)

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["count"].(float64) != 2 {
		t.Fatalf("unexpected count %v", data["count"])
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/modules/catalog"
)

func TestListProductsSearchParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	h := NewStoreHandler(catalog.NewRepo(db), nil)

	r := gin.New()
	r.GET("/products", h.ListProducts)

	mock.ExpectQuery("SELECT (.+) FROM `products`").
		WithArgs(true, "%widget%").
		WillReturnRows(mock.NewRows([]string{"id", "category_id", "name", "slug", "price_cents", "available"}))

	req := httptest.NewRequest(http.MethodGet, "/products?search=widget", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

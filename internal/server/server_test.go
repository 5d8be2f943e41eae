package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/oemcatalog/internal/auth"
	"github.com/smallbiznis/oemcatalog/internal/authorization"
	catalogdomain "github.com/smallbiznis/oemcatalog/internal/catalog/domain"
	mastercatalogdomain "github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/principal"
	"github.com/smallbiznis/oemcatalog/internal/validation"
	"github.com/smallbiznis/oemcatalog/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	adminToken = "admin-token"
	oemToken   = "oem-token"
)

type fakeAuthService struct{}

func (f *fakeAuthService) IssueAdminToken(ctx context.Context) (*auth.Token, error) {
	return &auth.Token{AccessToken: adminToken, TokenType: "Bearer", ExpiresIn: 3600}, nil
}

func (f *fakeAuthService) IssueOEMToken(ctx context.Context, oemNumber string) (*auth.Token, error) {
	return &auth.Token{AccessToken: oemToken + ":" + oemNumber, TokenType: "Bearer", ExpiresIn: 60}, nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, raw string) (principal.Principal, error) {
	switch raw {
	case adminToken:
		return principal.Principal{Roles: []principal.Role{principal.RoleAdmin}}, nil
	case oemToken:
		return principal.Principal{ID: 10, Roles: []principal.Role{principal.RoleOEM}}, nil
	default:
		return principal.Principal{}, auth.ErrInvalidToken
	}
}

type fakeCatalogService struct {
	err error

	lastCatalogID snowflake.ID
	lastProductID snowflake.ID
	lastActor     principal.Principal
	lastPage      pagination.Pagination
	lastRequest   catalogdomain.ProductRequest
	deleted       bool
}

func (f *fakeCatalogService) product() *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:        f.lastProductID,
		Name:      "Brake pad",
		Price:     decimal.RequireFromString("12.5"),
		CatalogID: f.lastCatalogID,
		Status:    true,
	}
}

func (f *fakeCatalogService) FindByID(ctx context.Context, catalogID snowflake.ID) (*catalogdomain.Catalog, error) {
	return nil, f.err
}

func (f *fakeCatalogService) ValidateCatalog(ctx context.Context, catalogID snowflake.ID, actor principal.Principal) (*catalogdomain.Catalog, error) {
	return nil, f.err
}

func (f *fakeCatalogService) ValidateCatalogProductParameters(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, productID snowflake.ID) (*catalogdomain.Product, error) {
	return nil, f.err
}

func (f *fakeCatalogService) CreateCatalogProduct(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, req catalogdomain.ProductRequest) (*catalogdomain.Product, error) {
	f.lastCatalogID, f.lastActor, f.lastRequest = catalogID, actor, req
	if f.err != nil {
		return nil, f.err
	}
	return f.product(), nil
}

func (f *fakeCatalogService) CreateOrUpdateCatalogProduct(ctx context.Context, req catalogdomain.ProductRequest) (*catalogdomain.Product, error) {
	return nil, f.err
}

func (f *fakeCatalogService) UpdateCatalogProduct(ctx context.Context, req catalogdomain.ProductRequest, productID, catalogID snowflake.ID, actor principal.Principal) (*catalogdomain.Product, error) {
	f.lastCatalogID, f.lastProductID, f.lastActor, f.lastRequest = catalogID, productID, actor, req
	if f.err != nil {
		return nil, f.err
	}
	return f.product(), nil
}

func (f *fakeCatalogService) UpsertCatalogProduct(ctx context.Context, tx *gorm.DB, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	return product, f.err
}

func (f *fakeCatalogService) GetProductsByCatalogID(ctx context.Context, catalogID snowflake.ID, actor principal.Principal, page pagination.Pagination) ([]catalogdomain.Product, error) {
	f.lastCatalogID, f.lastActor, f.lastPage = catalogID, actor, page
	if f.err != nil {
		return nil, f.err
	}
	return []catalogdomain.Product{*f.product()}, nil
}

func (f *fakeCatalogService) GetProductFromCatalog(ctx context.Context, productID, catalogID snowflake.ID, actor principal.Principal) (*catalogdomain.Product, error) {
	f.lastCatalogID, f.lastProductID, f.lastActor = catalogID, productID, actor
	if f.err != nil {
		return nil, f.err
	}
	return f.product(), nil
}

func (f *fakeCatalogService) GetMasterCatalog(ctx context.Context, catalogID snowflake.ID, actor principal.Principal) (*mastercatalogdomain.CatalogView, error) {
	f.lastCatalogID, f.lastActor = catalogID, actor
	if f.err != nil {
		return nil, f.err
	}
	return &mastercatalogdomain.CatalogView{
		MasterCatalog: mastercatalogdomain.MasterCatalog{ID: 1, Name: "Master Catalog"},
		Products:      []mastercatalogdomain.MasterProduct{{ID: 5, PartNumber: "A001"}},
	}, nil
}

func (f *fakeCatalogService) DeleteCatalogProduct(ctx context.Context, productID, catalogID snowflake.ID, actor principal.Principal) error {
	f.lastCatalogID, f.lastProductID, f.lastActor = catalogID, productID, actor
	f.deleted = f.err == nil
	return f.err
}

type fakeMasterService struct {
	err    error
	lastID snowflake.ID
}

func (f *fakeMasterService) CreateProduct(ctx context.Context, req mastercatalogdomain.CreateProductRequest) (*mastercatalogdomain.MasterProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &mastercatalogdomain.MasterProduct{ID: 5, PartNumber: req.PartNumber}, nil
}

func (f *fakeMasterService) UpdateProduct(ctx context.Context, id snowflake.ID, req mastercatalogdomain.UpdateProductRequest) (*mastercatalogdomain.MasterProduct, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &mastercatalogdomain.MasterProduct{ID: id}, nil
}

func (f *fakeMasterService) DeleteProduct(ctx context.Context, id snowflake.ID) (*mastercatalogdomain.MasterProduct, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &mastercatalogdomain.MasterProduct{ID: id}, nil
}

func (f *fakeMasterService) Find(ctx context.Context) ([]mastercatalogdomain.MasterProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []mastercatalogdomain.MasterProduct{{ID: 5, PartNumber: "A001"}}, nil
}

func (f *fakeMasterService) FindProductByPartNumber(ctx context.Context, partNumber string) (*mastercatalogdomain.MasterProduct, error) {
	return nil, f.err
}

func (f *fakeMasterService) GetCatalog(ctx context.Context, id snowflake.ID) (*mastercatalogdomain.CatalogView, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, catalogSvc *fakeCatalogService, masterSvc *fakeMasterService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := authorization.NewMemoryEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	NewServer(ServerParams{
		Gin:        router,
		AuthSvc:    &fakeAuthService{},
		AuthzSvc:   authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer}),
		CatalogSvc: catalogSvc,
		MasterSvc:  masterSvc,
	})
	return router
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", resp.Body.String(), err)
	}
	return body.Error
}

func TestAuthentication(t *testing.T) {
	router := newTestServer(t, &fakeCatalogService{}, &fakeMasterService{})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"unknown token", "Bearer nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/catalogs/1/products", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.Code)
			}
		})
	}
}

func TestRoleChecks(t *testing.T) {
	router := newTestServer(t, &fakeCatalogService{}, &fakeMasterService{})

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"oem cannot list master catalog", http.MethodGet, "/master-catalog", oemToken, "", http.StatusForbidden},
		{"admin lists master catalog", http.MethodGet, "/master-catalog", adminToken, "", http.StatusOK},
		{"admin lists master catalog alias", http.MethodGet, "/master-catalog/products", adminToken, "", http.StatusOK},
		{"admin cannot read catalog products", http.MethodGet, "/catalogs/1/products", adminToken, "", http.StatusForbidden},
		{"oem reads catalog products", http.MethodGet, "/catalogs/1/products", oemToken, "", http.StatusOK},
		{"oem reads catalog master", http.MethodGet, "/catalogs/1/master-catalogs", oemToken, "", http.StatusOK},
		{"any authenticated caller writes master products", http.MethodPost, "/master-catalog/products", oemToken, `{"partNumber":"A009"}`, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(router, tc.method, tc.path, tc.token, tc.body)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestCatalogProductHandlers(t *testing.T) {
	catalogSvc := &fakeCatalogService{}
	router := newTestServer(t, catalogSvc, &fakeMasterService{})

	t.Run("create", func(t *testing.T) {
		resp := doRequest(router, http.MethodPost, "/catalogs/100/products", oemToken,
			`{"masterProductPartNumber":"M1","price":"25"}`)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
		}
		if catalogSvc.lastCatalogID != 100 || catalogSvc.lastActor.ID != 10 {
			t.Fatalf("unexpected call: catalog=%d actor=%d", catalogSvc.lastCatalogID, catalogSvc.lastActor.ID)
		}
		if catalogSvc.lastRequest.MasterPartNumber() != "M1" || catalogSvc.lastRequest.Price.String() != "25" {
			t.Fatalf("unexpected request: %+v", catalogSvc.lastRequest)
		}

		var body struct {
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Data["catalogId"] != "100" || body.Data["price"] != "12.5" {
			t.Fatalf("unexpected body: %v", body.Data)
		}
	})

	t.Run("update", func(t *testing.T) {
		resp := doRequest(router, http.MethodPut, "/catalogs/100/products/7", oemToken, `{"name":"x"}`)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if catalogSvc.lastProductID != 7 {
			t.Fatalf("expected product 7, got %d", catalogSvc.lastProductID)
		}
	})

	t.Run("delete", func(t *testing.T) {
		resp := doRequest(router, http.MethodDelete, "/catalogs/100/products/7", oemToken, "")
		if resp.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.Code)
		}
		if !catalogSvc.deleted {
			t.Fatal("expected delete to reach the service")
		}
	})

	t.Run("list passes pagination", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/catalogs/100/products?page=3&limit=20", oemToken, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if catalogSvc.lastPage.Page != 3 || catalogSvc.lastPage.Limit != 20 {
			t.Fatalf("unexpected page: %+v", catalogSvc.lastPage)
		}
	})

	t.Run("non numeric page", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/catalogs/100/products?page=abc", oemToken, "")
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})

	t.Run("malformed ids", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/catalogs/abc/products/7", oemToken, "")
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
		resp = doRequest(router, http.MethodGet, "/catalogs/100/products/-4", oemToken, "")
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := doRequest(router, http.MethodPost, "/catalogs/100/products", oemToken, `{"name":`)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})
}

func TestDomainErrorsMapToStatus(t *testing.T) {
	violations := &validation.Errors{}
	violations.Add("name", validation.ConstraintIsNotEmpty, "name should not be empty")
	violations.Add("price", validation.ConstraintIsNumber, "price must be a number conforming to the specified constraints")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", violations, http.StatusUnprocessableEntity},
		{"price floor", catalogdomain.ErrPriceBelowMaster, http.StatusBadRequest},
		{"not owner", catalogdomain.ErrNotCatalogOwner, http.StatusUnauthorized},
		{"catalog missing", catalogdomain.ErrCatalogNotFound, http.StatusNotFound},
		{"master missing", catalogdomain.ErrMasterProductNotFound, http.StatusNotFound},
		{"invalid page", pagination.ErrInvalidPage, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestServer(t, &fakeCatalogService{err: tc.err}, &fakeMasterService{})
			resp := doRequest(router, http.MethodPost, "/catalogs/100/products", oemToken, `{}`)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}

	t.Run("validation payload lists properties", func(t *testing.T) {
		router := newTestServer(t, &fakeCatalogService{err: violations}, &fakeMasterService{})
		resp := doRequest(router, http.MethodPost, "/catalogs/100/products", oemToken, `{}`)
		payload := decodeError(t, resp)
		if len(payload.Errors) != 2 || payload.Errors[0].Property != "name" || payload.Errors[1].Property != "price" {
			t.Fatalf("unexpected violations: %+v", payload.Errors)
		}
		if payload.Errors[0].Constraints[validation.ConstraintIsNotEmpty] == "" {
			t.Fatalf("expected isNotEmpty constraint, got %+v", payload.Errors[0].Constraints)
		}
	})

	t.Run("internal errors hide detail", func(t *testing.T) {
		router := newTestServer(t, &fakeCatalogService{err: errors.New("pq: connection refused")}, &fakeMasterService{})
		resp := doRequest(router, http.MethodPost, "/catalogs/100/products", oemToken, `{}`)
		if payload := decodeError(t, resp); payload.Message != "internal server error" {
			t.Fatalf("unexpected message %q", payload.Message)
		}
	})
}

func TestMasterProductHandlers(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		method string
		path   string
		body   string
		want   int
	}{
		{"update", nil, http.MethodPut, "/master-catalog/products/5", `{"price":"30"}`, http.StatusOK},
		{"delete", nil, http.MethodDelete, "/master-catalog/products/5", "", http.StatusNoContent},
		{"duplicate part number", mastercatalogdomain.ErrPartNumberExists, http.MethodPost, "/master-catalog/products", `{"partNumber":"A001"}`, http.StatusConflict},
		{"referenced rename", mastercatalogdomain.ErrPartNumberReferenced, http.MethodPut, "/master-catalog/products/5", `{"partNumber":"B"}`, http.StatusConflict},
		{"missing", mastercatalogdomain.ErrProductNotFound, http.MethodDelete, "/master-catalog/products/5", "", http.StatusNotFound},
		{"bad id", nil, http.MethodDelete, "/master-catalog/products/x", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			masterSvc := &fakeMasterService{err: tc.err}
			router := newTestServer(t, &fakeCatalogService{}, masterSvc)
			resp := doRequest(router, tc.method, tc.path, adminToken, tc.body)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestTokenHandlers(t *testing.T) {
	router := newTestServer(t, &fakeCatalogService{}, &fakeMasterService{})

	resp := doRequest(router, http.MethodGet, "/auth/auth", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var token map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &token); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if token["access_token"] != adminToken || token["token_type"] != "Bearer" {
		t.Fatalf("unexpected token body: %v", token)
	}

	resp = doRequest(router, http.MethodPost, "/auth/oems/token", "", `{"oem_number":"ACM-123"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = doRequest(router, http.MethodPost, "/auth/oems/token", "", `not json`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"Token abc", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		if token != tc.token || ok != tc.ok {
			t.Fatalf("bearerToken(%q) = %q, %v", tc.header, token, ok)
		}
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"opentrees/api/internal/apperr"
	"opentrees/api/internal/config"
	"opentrees/api/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGeocoder struct {
	lat, lon float64
	fail     bool
}

func (g *stubGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	if g.fail {
		return 0, 0, apperr.Geocode("invalid address, coordinates not found")
	}
	return g.lat, g.lon, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 5000, AllowOrigins: []string{"*"}},
		Auth: config.AuthConfig{
			JWTSecret: "server-test-secret-0123456789",
			TokenTTL:  time.Hour,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Tree{}, &model.User{}))

	srv := NewServer(cfg, db, nil, nil, &stubGeocoder{lat: 39.8, lon: -89.6}, zap.NewNop())
	srv.Setup()
	return srv.Router()
}

func do(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	router := newTestServer(t, testConfig())

	w := do(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTreeLifecycle(t *testing.T) {
	router := newTestServer(t, testConfig())

	// Create without coordinates; the address geocodes to (39.8, -89.6).
	w := do(router, http.MethodPost, "/add_tree", gin.H{
		"custom_id": "T1",
		"city":      "Springfield",
		"species":   "Oak",
		"condition": "Good",
		"address":   "1 Main St",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Tree
	decode(t, w, &created)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "T1", created.CustomID)
	assert.Equal(t, 39.8, created.Latitude)
	assert.Equal(t, -89.6, created.Longitude)

	// Partial update of the condition only.
	w = do(router, http.MethodPatch, fmt.Sprintf("/tree/%d", created.ID), gin.H{
		"condition": "Poor",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Fetch and confirm only the condition changed.
	w = do(router, http.MethodGet, fmt.Sprintf("/tree/%d", created.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.Tree
	decode(t, w, &fetched)
	assert.Equal(t, "Poor", fetched.Condition)
	assert.Equal(t, "Oak", fetched.Species)
	assert.Equal(t, "Springfield", fetched.City)
	assert.Equal(t, 39.8, fetched.Latitude)

	// Lookup by the caller-assigned id.
	w = do(router, http.MethodGet, "/tree/custom/T1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Delete, then the record is gone.
	w = do(router, http.MethodDelete, fmt.Sprintf("/tree/%d", created.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deleted")

	w = do(router, http.MethodGet, fmt.Sprintf("/tree/%d", created.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodDelete, fmt.Sprintf("/tree/%d", created.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddTreeErrors(t *testing.T) {
	router := newTestServer(t, testConfig())

	// Missing required fields.
	w := do(router, http.MethodPost, "/add_tree", gin.H{"city": "Springfield"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate custom_id.
	body := gin.H{
		"custom_id": "DUP", "city": "Springfield", "species": "Oak",
		"condition": "Good", "latitude": 1.0, "longitude": 2.0,
	}
	w = do(router, http.MethodPost, "/add_tree", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(router, http.MethodPost, "/add_tree", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Malformed next_check date.
	w = do(router, http.MethodPost, "/add_tree", gin.H{
		"custom_id": "T2", "city": "Springfield", "species": "Oak",
		"condition": "Good", "latitude": 1.0, "longitude": 2.0,
		"next_check": "31/12/2024",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid path id.
	w = do(router, http.MethodGet, "/tree/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndLookups(t *testing.T) {
	router := newTestServer(t, testConfig())

	for i, city := range []string{"Springfield", "East Springfield", "Shelbyville"} {
		w := do(router, http.MethodPost, "/add_tree", gin.H{
			"custom_id": fmt.Sprintf("L%d", i), "city": city, "species": "Oak",
			"condition": "Good", "latitude": 1.0, "longitude": 2.0,
			"address": "1 Main St",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(router, http.MethodPost, "/add_tree", gin.H{
		"custom_id": "L3", "city": "Springfield", "species": "Elm",
		"condition": "Poor", "latitude": 1.0, "longitude": 2.0,
		"address": "2 Oak Ave",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(router, http.MethodGet, "/trees?city=springfield", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trees []model.Tree
	decode(t, w, &trees)
	assert.Len(t, trees, 3)

	w = do(router, http.MethodGet, "/trees?condition=Poor", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	trees = nil
	decode(t, w, &trees)
	require.Len(t, trees, 1)
	assert.Equal(t, "L3", trees[0].CustomID)

	w = do(router, http.MethodGet, "/cities", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cities []string
	decode(t, w, &cities)
	assert.ElementsMatch(t, []string{"Springfield", "East Springfield", "Shelbyville"}, cities)

	w = do(router, http.MethodGet, "/streets/Shelbyville", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var streets []string
	decode(t, w, &streets)
	assert.Equal(t, []string{"1 Main St"}, streets)
}

func TestRegisterLoginProtected(t *testing.T) {
	router := newTestServer(t, testConfig())

	// Self-registration always yields the user role, whatever is sent.
	w := do(router, http.MethodPost, "/register", gin.H{
		"username": "alice", "password": "s3cret", "role": "admin",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user model.User
	decode(t, w, &user)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotContains(t, w.Body.String(), "s3cret", "password hash must not serialize")

	// Bad credentials.
	w = do(router, http.MethodPost, "/login", gin.H{"username": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Good credentials yield a token.
	w = do(router, http.MethodPost, "/login", gin.H{"username": "alice", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login model.LoginResponse
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	// The token opens the identity echo.
	w = do(router, http.MethodGet, "/protected", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/protected", nil, map[string]string{
		"Authorization": "Bearer " + login.Token,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAdminRegisterRequiresAdminRole(t *testing.T) {
	router := newTestServer(t, testConfig())

	w := do(router, http.MethodPost, "/register", gin.H{"username": "bob", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(router, http.MethodPost, "/login", gin.H{"username": "bob", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login model.LoginResponse
	decode(t, w, &login)

	// No token at all.
	w = do(router, http.MethodPost, "/admin/register", gin.H{
		"username": "eve", "password": "s3cret", "role": "admin",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A user token is not enough.
	w = do(router, http.MethodPost, "/admin/register", gin.H{
		"username": "eve", "password": "s3cret", "role": "admin",
	}, map[string]string{"Authorization": "Bearer " + login.Token})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProtectMutationsFlag(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.ProtectMutations = true
	router := newTestServer(t, cfg)

	body := gin.H{
		"custom_id": "P1", "city": "Springfield", "species": "Oak",
		"condition": "Good", "latitude": 1.0, "longitude": 2.0,
	}

	// Mutations are gated; reads stay open.
	w := do(router, http.MethodPost, "/add_tree", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/trees", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A logged-in user can mutate.
	w = do(router, http.MethodPost, "/register", gin.H{"username": "carol", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(router, http.MethodPost, "/login", gin.H{"username": "carol", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login model.LoginResponse
	decode(t, w, &login)

	w = do(router, http.MethodPost, "/add_tree", body, map[string]string{
		"Authorization": "Bearer " + login.Token,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestTestGeocodeEndpoint(t *testing.T) {
	router := newTestServer(t, testConfig())

	w := do(router, http.MethodPost, "/test_geocode", gin.H{"address": "1 Main St, Springfield"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resolved map[string]float64
	decode(t, w, &resolved)
	assert.Equal(t, 39.8, resolved["latitude"])
	assert.Equal(t, -89.6, resolved["longitude"])

	w = do(router, http.MethodPost, "/test_geocode", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeocodeFailureSurfacesAsBadRequest(t *testing.T) {
	cfg := testConfig()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Tree{}, &model.User{}))

	srv := NewServer(cfg, db, nil, nil, &stubGeocoder{fail: true}, zap.NewNop())
	srv.Setup()
	router := srv.Router()

	w := do(router, http.MethodPost, "/add_tree", gin.H{
		"custom_id": "G1", "city": "Springfield", "species": "Oak",
		"condition": "Good", "address": "nowhere",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "coordinates not found")
}

func TestExportDownloads(t *testing.T) {
	router := newTestServer(t, testConfig())

	w := do(router, http.MethodPost, "/add_tree", gin.H{
		"custom_id": "X1", "city": "Springfield", "species": "Oak",
		"condition": "Good", "latitude": 1.0, "longitude": 2.0,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodGet, "/export", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())
}

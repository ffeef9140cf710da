package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pglab/traffic-sandbox/pkg/db"
	"github.com/pglab/traffic-sandbox/pkg/generator"
	"github.com/pglab/traffic-sandbox/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDBService struct {
	users    []types.User
	orders   []types.Order
	products []types.Product
	records  []types.RestrictedRecord
	elapsed  time.Duration
	err      error
}

func (s *stubDBService) FetchAllUsers() ([]types.User, error) {
	return s.users, s.err
}

func (s *stubDBService) FindUserByID(id int64) (types.User, error) {
	if s.err != nil {
		return types.User{}, s.err
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, db.ErrNotFound
}

func (s *stubDBService) FetchOrdersForUser(userID int64) ([]types.Order, error) {
	return s.orders, s.err
}

func (s *stubDBService) FetchAllProducts() ([]types.Product, error) {
	return s.products, s.err
}

func (s *stubDBService) FetchRecentOrders(limit int) ([]types.Order, error) {
	return s.orders, s.err
}

func (s *stubDBService) LockOrderByID(id int64) (types.Order, error) {
	if s.err != nil {
		return types.Order{}, s.err
	}
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return types.Order{}, db.ErrNotFound
}

func (s *stubDBService) RunSlowQuery() (time.Duration, error) {
	return s.elapsed, s.err
}

func (s *stubDBService) FetchRestrictedRecords() ([]types.RestrictedRecord, error) {
	return s.records, s.err
}

type stubTraffic struct {
	result generator.BatchResult
	err    error
	active bool
}

func (s *stubTraffic) RunBatch() (generator.BatchResult, error) {
	return s.result, s.err
}

func (s *stubTraffic) Active() bool {
	return s.active
}

func setupRouter(dbService QueryDBService, traffic TrafficRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHTTPHandler(dbService, traffic)
	router.GET("/health", h.HealthHandl)
	h.AddQueryAPI(router.Group(""))
	return router
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestFetchAllUsersShape(t *testing.T) {
	dbStub := &stubDBService{users: []types.User{
		{ID: 1, Name: "Ada", Email: "ada@example.com"},
		{ID: 2, Name: "Linus", Email: "linus@example.com"},
	}}
	router := setupRouter(dbStub, &stubTraffic{})

	w := doRequest(router, "/users")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users []map[string]interface{} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 2)
	for _, u := range resp.Users {
		assert.Contains(t, u, "id")
		assert.Contains(t, u, "name")
		assert.Contains(t, u, "email")
	}
}

func TestFetchAllUsersDBError(t *testing.T) {
	router := setupRouter(&stubDBService{err: errors.New("connection refused")}, &stubTraffic{})

	w := doRequest(router, "/users")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestFindUserByID(t *testing.T) {
	dbStub := &stubDBService{users: []types.User{{ID: 42, Name: "Ada", Email: "ada@example.com"}}}
	router := setupRouter(dbStub, &stubTraffic{})

	w := doRequest(router, "/users/42")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User types.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.User.ID)
	assert.Equal(t, "Ada", resp.User.Name)
}

func TestFindUserByIDNotFound(t *testing.T) {
	router := setupRouter(&stubDBService{}, &stubTraffic{})

	w := doRequest(router, "/users/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFindUserByIDRejectsNonNumericID(t *testing.T) {
	router := setupRouter(&stubDBService{}, &stubTraffic{})

	w := doRequest(router, "/users/not-a-number")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestFetchRecentOrdersShape(t *testing.T) {
	dbStub := &stubDBService{orders: []types.Order{
		{ID: 1, UserID: 3, Status: "shipped", TotalCents: 1999, CreatedAt: time.Now()},
	}}
	router := setupRouter(dbStub, &stubTraffic{})

	w := doRequest(router, "/orders/recent")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Orders []map[string]interface{} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	assert.Contains(t, resp.Orders[0], "id")
	assert.Contains(t, resp.Orders[0], "userId")
	assert.Contains(t, resp.Orders[0], "status")
	assert.Contains(t, resp.Orders[0], "totalCents")
}

func TestLockOrderByID(t *testing.T) {
	dbStub := &stubDBService{orders: []types.Order{{ID: 7, UserID: 1, Status: "new"}}}
	router := setupRouter(dbStub, &stubTraffic{})

	w := doRequest(router, "/orders/7/locked")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/orders/8/locked")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunSlowQuery(t *testing.T) {
	dbStub := &stubDBService{elapsed: 512 * time.Millisecond}
	router := setupRouter(dbStub, &stubTraffic{})

	w := doRequest(router, "/slow")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 512, resp["elapsedMs"])
}

func TestRestrictedEndpointSurfacesQueryError(t *testing.T) {
	dbStub := &stubDBService{err: errors.New("permission denied for table restricted_data")}
	router := setupRouter(dbStub, &stubTraffic{})

	w := doRequest(router, "/restricted")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "permission denied")
}

func TestGenerateTraffic(t *testing.T) {
	traffic := &stubTraffic{result: generator.BatchResult{Executed: 10, Failed: 2}}
	router := setupRouter(&stubDBService{}, traffic)

	w := doRequest(router, "/generate-traffic")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp["executed"])
	assert.Equal(t, 2, resp["failed"])
}

func TestGenerateTrafficAcquireFailure(t *testing.T) {
	traffic := &stubTraffic{err: errors.New("connection refused")}
	router := setupRouter(&stubDBService{}, traffic)

	w := doRequest(router, "/generate-traffic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestHealthReportsGeneratorState(t *testing.T) {
	for _, tc := range []struct {
		active bool
		want   string
	}{
		{active: true, want: "active"},
		{active: false, want: "idle"},
	} {
		router := setupRouter(&stubDBService{}, &stubTraffic{active: tc.active})

		w := doRequest(router, "/health")
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Equal(t, tc.want, resp["trafficGenerator"])
	}
}

package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)

	assert.NotNil(t, mockDB.DB)
	assert.NotNil(t, mockDB.Mock)

	mockDB.Mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	var n int
	require.NoError(t, mockDB.DB.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	assert.NoError(t, mockDB.Mock.ExpectationsWereMet())
}

func TestNewFixture(t *testing.T) {
	f := NewFixture(t)

	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), f.Now())
	f.SetNow(Day(2024, 4, 1))
	assert.Equal(t, Day(2024, 4, 1), f.Now())

	other := f.OtherTenant()
	assert.NotEqual(t, f.Actor.TenantID, other.TenantID)
	assert.Equal(t, f.Actor.UserID, other.UserID)

	pcs := f.SeedUnit(t, "PCS", false)
	item := f.SeedItem(t, "IBU-400", pcs.ID)
	assert.Equal(t, pcs.ID, item.BaseUnitID)
	assert.Equal(t, f.Actor.TenantID, item.TenantID)
}

func TestFixtures_AreIsolated(t *testing.T) {
	a := NewFixture(t)
	b := NewFixture(t)
	a.SeedUnit(t, "PCS", false)

	// the same code is free in another in-memory database
	b.SeedUnit(t, "PCS", false)
}

func TestDecimalHelpers(t *testing.T) {
	AssertDecimal(t, "15", Dec("15.000"))
	assert.Panics(t, func() { Dec("fifteen") })
	assert.False(t, Dec("15").Equal(Dec("15.01")))
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)

	tc.Recorder.WriteHeader(http.StatusCreated)
	assert.Equal(t, http.StatusCreated, tc.ResponseCode())
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("seed"), NewTestUUID("seed"))
	assert.NotEqual(t, NewTestUUID("seed"), NewTestUUID("other"))
}

func TestContextWithTimeout(t *testing.T) {
	ctx, cancel := ContextWithTimeout(t, 100*time.Millisecond)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.True(t, deadline.After(time.Now()))
}

func echoRouter() *gin.Engine {
	r := gin.New()
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeInvalidJSON, err.Error()))
			return
		}
		body["tenant"] = c.GetHeader("X-Tenant-ID")
		c.JSON(http.StatusOK, dto.NewSuccessResponse(body))
	})
	return r
}

func TestDo_EncodesBodyAndHeaders(t *testing.T) {
	w := Do(t, echoRouter(), http.MethodPost, "/echo", map[string]string{"sku": "IBU-400"},
		map[string]string{"X-Tenant-ID": "t-1"})

	data := AssertSuccess[map[string]string](t, w, http.StatusOK)
	assert.Equal(t, "IBU-400", data["sku"])
	assert.Equal(t, "t-1", data["tenant"])
}

func TestDo_RawBody(t *testing.T) {
	w := Do(t, echoRouter(), http.MethodPost, "/echo", "{not json", nil)

	info := AssertErrorCode(t, w, dto.ErrCodeInvalidJSON)
	assert.NotEmpty(t, info.Message)
}

func TestRunHTTPTestCases(t *testing.T) {
	RunHTTPTestCases(t, echoRouter(), []HTTPTestCase{
		{
			Name:           "ok",
			Method:         http.MethodPost,
			Path:           "/echo",
			Body:           map[string]int{"n": 1},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				env := Decode[map[string]any](t, w)
				assert.EqualValues(t, 1, env.Data["n"])
			},
		},
		{
			Name:           "unknown route",
			Path:           "/missing",
			ExpectedStatus: http.StatusNotFound,
		},
		{
			Name:           "bad body",
			Method:         http.MethodPost,
			Path:           "/echo",
			Body:           []byte("[1,"),
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   dto.ErrCodeInvalidJSON,
		},
	})
}

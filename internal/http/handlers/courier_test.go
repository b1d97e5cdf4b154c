package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/http/handlers"
)

type stubCourierUsecase struct {
	getFn           func(ctx context.Context, id int64) (*domain.Courier, error)
	listFn          func(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	createFn        func(ctx context.Context, c *domain.Courier) (int64, error)
	updatePartialFn func(ctx context.Context, u domain.PartialCourierUpdate) error
	setLocationFn   func(ctx context.Context, id int64, p domain.Point) error
	setOnlineFn     func(ctx context.Context, id int64, online bool) error
}

func (s *stubCourierUsecase) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	return s.getFn(ctx, id)
}

func (s *stubCourierUsecase) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *stubCourierUsecase) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	return s.createFn(ctx, c)
}

func (s *stubCourierUsecase) UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) error {
	return s.updatePartialFn(ctx, u)
}

func (s *stubCourierUsecase) SetLocation(ctx context.Context, id int64, p domain.Point) error {
	return s.setLocationFn(ctx, id, p)
}

func (s *stubCourierUsecase) SetOnline(ctx context.Context, id int64, online bool) error {
	return s.setOnlineFn(ctx, id, online)
}

func TestCourierHandler_GetByID_OK(t *testing.T) {
	t.Parallel()

	expected := &domain.Courier{
		ID:     99,
		Name:   "Artem",
		Phone:  "+70000000000",
		Status: domain.StatusActive,
	}
	uc := &stubCourierUsecase{
		getFn: func(_ context.Context, id int64) (*domain.Courier, error) {
			require.Equal(t, expected.ID, id)
			return expected, nil
		},
	}
	h := handlers.NewCourierHandler(uc, testLogger())

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/courier/99", nil), "id", "99")
	rr := httptest.NewRecorder()
	h.GetByID(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, expected.ID, resp.ID)
	require.Equal(t, expected.Name, resp.Name)
	require.Equal(t, expected.Phone, resp.Phone)
}

func TestCourierHandler_GetByID_InvalidID(t *testing.T) {
	t.Parallel()

	h := handlers.NewCourierHandler(&stubCourierUsecase{
		getFn: func(_ context.Context, _ int64) (*domain.Courier, error) {
			require.FailNow(t, "usecase.Get should not be called on invalid id")
			return nil, nil
		},
	}, testLogger())

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/courier/abc", nil), "id", "abc")
	rr := httptest.NewRecorder()
	h.GetByID(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCourierHandler_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	h := handlers.NewCourierHandler(&stubCourierUsecase{
		getFn: func(_ context.Context, _ int64) (*domain.Courier, error) {
			return nil, apperr.ErrNotFound
		},
	}, testLogger())

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/courier/10", nil), "id", "10")
	rr := httptest.NewRecorder()
	h.GetByID(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCourierHandler_Create(t *testing.T) {
	t.Parallel()

	uc := &stubCourierUsecase{
		createFn: func(_ context.Context, c *domain.Courier) (int64, error) {
			require.Equal(t, "Ivan", c.Name)
			require.Equal(t, []domain.CourierTransportType{domain.TransportTypeScooter}, c.TransportTypes)
			return 7, nil
		},
	}
	h := handlers.NewCourierHandler(uc, testLogger())

	body := `{"name":"Ivan","phone":"+79991234567","status":"active","transport_types":["scooter"]}`
	req := httptest.NewRequest(http.MethodPost, "/courier", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "/courier/7", rr.Header().Get("Location"))
	require.JSONEq(t, `{"id":7}`, rr.Body.String())
}

func TestCourierHandler_Create_BadJSON(t *testing.T) {
	t.Parallel()

	h := handlers.NewCourierHandler(&stubCourierUsecase{
		createFn: func(_ context.Context, _ *domain.Courier) (int64, error) {
			require.FailNow(t, "usecase.Create should not be called on bad json")
			return 0, nil
		},
	}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/courier", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCourierHandler_Create_Invalid(t *testing.T) {
	t.Parallel()

	h := handlers.NewCourierHandler(&stubCourierUsecase{
		createFn: func(_ context.Context, _ *domain.Courier) (int64, error) {
			return 0, apperr.ErrInvalid
		},
	}, testLogger())

	body := `{"name":"","phone":"x","status":"active","transport_types":["scooter"]}`
	req := httptest.NewRequest(http.MethodPost, "/courier", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCourierHandler_Update(t *testing.T) {
	t.Parallel()

	var got domain.PartialCourierUpdate
	h := handlers.NewCourierHandler(&stubCourierUsecase{
		updatePartialFn: func(_ context.Context, u domain.PartialCourierUpdate) error {
			got = u
			return nil
		},
	}, testLogger())

	body := `{"id":5,"name":"Petr"}`
	req := httptest.NewRequest(http.MethodPut, "/courier", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Update(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, int64(5), got.ID)
	require.NotNil(t, got.Name)
	require.Equal(t, "Petr", *got.Name)
	require.Nil(t, got.Phone)
}

func TestCourierHandler_SetLocation(t *testing.T) {
	t.Parallel()

	var gotID int64
	var gotPoint domain.Point
	h := handlers.NewCourierHandler(&stubCourierUsecase{
		setLocationFn: func(_ context.Context, id int64, p domain.Point) error {
			gotID, gotPoint = id, p
			return nil
		},
	}, testLogger())

	body := `{"lat":55.75,"lng":37.62}`
	req := withURLParams(httptest.NewRequest(http.MethodPost, "/courier/3/location", strings.NewReader(body)), "id", "3")
	rr := httptest.NewRecorder()
	h.SetLocation(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, int64(3), gotID)
	require.Equal(t, domain.Point{Lat: 55.75, Lng: 37.62}, gotPoint)
}

func TestCourierHandler_SetLocation_Offline(t *testing.T) {
	t.Parallel()

	h := handlers.NewCourierHandler(&stubCourierUsecase{
		setLocationFn: func(_ context.Context, _ int64, _ domain.Point) error {
			return apperr.ErrConflict
		},
	}, testLogger())

	body := `{"lat":55.75,"lng":37.62}`
	req := withURLParams(httptest.NewRequest(http.MethodPost, "/courier/3/location", strings.NewReader(body)), "id", "3")
	rr := httptest.NewRecorder()
	h.SetLocation(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestCourierHandler_SetOnline(t *testing.T) {
	t.Parallel()

	var gotOnline bool
	h := handlers.NewCourierHandler(&stubCourierUsecase{
		setOnlineFn: func(_ context.Context, _ int64, online bool) error {
			gotOnline = online
			return nil
		},
	}, testLogger())

	req := withURLParams(httptest.NewRequest(http.MethodPut, "/courier/3/online", strings.NewReader(`{"online":true}`)), "id", "3")
	rr := httptest.NewRecorder()
	h.SetOnline(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, gotOnline)
}

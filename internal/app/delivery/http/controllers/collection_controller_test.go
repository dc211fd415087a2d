package controllers

import (
	"context"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/dto/responses"
	"klinipay-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeCollectionUsecase struct {
	state *responses.CollectionState
	err   error

	lastCollectionID string
	lastBillID       string
}

func (f *fakeCollectionUsecase) StartCollection(ctx context.Context, request *requests.CreateCollection) (*responses.CollectionState, error) {
	return f.state, f.err
}

func (f *fakeCollectionUsecase) GetCollection(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) SelectPatient(ctx context.Context, collectionID string, request *requests.SelectPatient) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) RefreshBills(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) ToggleBill(ctx context.Context, collectionID, billID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	f.lastBillID = billID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) SelectAllBills(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) DeselectAllBills(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) CreatePaymentSession(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) CancelPaymentSession(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) ResetCollection(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	f.lastCollectionID = collectionID
	return f.state, f.err
}

func (f *fakeCollectionUsecase) TeardownCollection(ctx context.Context, collectionID string) error {
	f.lastCollectionID = collectionID
	return f.err
}

func (f *fakeCollectionUsecase) Shutdown() {}

func requestWithID(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) responses.ResponseDTO {
	t.Helper()
	var dto responses.ResponseDTO
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	return dto
}

func TestCreateCollection(t *testing.T) {
	t.Run("created state returned with 201", func(t *testing.T) {
		usecase := &fakeCollectionUsecase{state: &responses.CollectionState{CollectionID: "col-1", Stage: "SELECT_PATIENT"}}
		ctrl := &CollectionController{Log: zap.NewNop(), CollectionUsecase: usecase}

		rr := httptest.NewRecorder()
		ctrl.CreateCollection(rr, requestWithID("POST", "/api/v1/collections", `{}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		dto := decodeResponse(t, rr)
		assert.True(t, dto.Success)
		assert.Equal(t, constvars.CollectionCreatedSuccessfully, dto.Message)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		ctrl := &CollectionController{Log: zap.NewNop(), CollectionUsecase: &fakeCollectionUsecase{}}

		rr := httptest.NewRecorder()
		ctrl.CreateCollection(rr, requestWithID("POST", "/api/v1/collections", `{notjson`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, decodeResponse(t, rr).Success)
	})

	t.Run("missing request id is rejected", func(t *testing.T) {
		ctrl := &CollectionController{Log: zap.NewNop(), CollectionUsecase: &fakeCollectionUsecase{}}

		rr := httptest.NewRecorder()
		ctrl.CreateCollection(rr, httptest.NewRequest("POST", "/api/v1/collections", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCollectionRouting(t *testing.T) {
	usecase := &fakeCollectionUsecase{state: &responses.CollectionState{CollectionID: "col-1", Stage: "REVIEW"}}
	ctrl := &CollectionController{Log: zap.NewNop(), CollectionUsecase: usecase}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Post("/collections/{collectionID}/bills/{billID}/toggle", ctrl.ToggleBill)
	router.Post("/collections/{collectionID}/session", ctrl.CreatePaymentSession)
	router.Delete("/collections/{collectionID}", ctrl.TeardownCollection)

	t.Run("toggle passes url params through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("POST", "/collections/col-1/bills/42/toggle", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "col-1", usecase.lastCollectionID)
		assert.Equal(t, "42", usecase.lastBillID)
	})

	t.Run("session create returns 201", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("POST", "/collections/col-1/session", nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("teardown returns success envelope", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/collections/col-1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, constvars.CollectionClosedSuccessfully, decodeResponse(t, rr).Message)
	})
}

func TestCollectionErrorMapping(t *testing.T) {
	t.Run("usecase errors keep their status codes", func(t *testing.T) {
		usecase := &fakeCollectionUsecase{err: exceptions.ErrCollectionNotFound(nil, "missing")}
		ctrl := &CollectionController{Log: zap.NewNop(), CollectionUsecase: usecase}

		rr := httptest.NewRecorder()
		ctrl.GetCollection(rr, requestWithID("GET", "/api/v1/collections/missing", ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		dto := decodeResponse(t, rr)
		assert.False(t, dto.Success)
		assert.Equal(t, constvars.ErrClientCollectionNotFound, dto.Message)
	})

	t.Run("session creation conflict is a 409", func(t *testing.T) {
		usecase := &fakeCollectionUsecase{err: exceptions.ErrSessionCreationInProgress(nil)}
		ctrl := &CollectionController{Log: zap.NewNop(), CollectionUsecase: usecase}

		rr := httptest.NewRecorder()
		rq := requestWithID("POST", "/api/v1/collections/col-1/session", "")
		ctrl.CreatePaymentSession(rr, rq)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

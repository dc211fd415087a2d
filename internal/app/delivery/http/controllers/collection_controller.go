package controllers

import (
	"context"
	"klinipay-service/internal/app/contracts"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/exceptions"
	"klinipay-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type CollectionController struct {
	Log               *zap.Logger
	CollectionUsecase contracts.CollectionUsecase
}

var (
	collectionControllerInstance *CollectionController
	onceCollectionController     sync.Once
)

func NewCollectionController(logger *zap.Logger, collectionUsecase contracts.CollectionUsecase) *CollectionController {
	onceCollectionController.Do(func() {
		instance := &CollectionController{
			Log:               logger,
			CollectionUsecase: collectionUsecase,
		}
		collectionControllerInstance = instance
	})
	return collectionControllerInstance
}

func (ctrl *CollectionController) CreateCollection(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}

	request := new(requests.CreateCollection)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("Failed to parse create collection request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, "JSON parsing"),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.StartCollection(ctx, request)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "StartCollection", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "collection_created", requestID,
		zap.String(constvars.LoggingCollectionIDKey, state.CollectionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CollectionCreatedSuccessfully, state)
}

func (ctrl *CollectionController) GetCollection(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.GetCollection(ctx, collectionID)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "GetCollection", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionFetchedSuccessfully, state)
}

func (ctrl *CollectionController) SelectPatient(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	request := new(requests.SelectPatient)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("Failed to parse select patient request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, "JSON parsing"),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.SelectPatient(ctx, collectionID, request)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "SelectPatient", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "collection_patient_selected", requestID,
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionPatientSelectedSuccess, state)
}

func (ctrl *CollectionController) RefreshBills(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.RefreshBills(ctx, collectionID)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "RefreshBills", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionBillsRefreshedSuccessfully, state)
}

func (ctrl *CollectionController) ToggleBill(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")
	billID := chi.URLParam(r, "billID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.ToggleBill(ctx, collectionID, billID)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "ToggleBill", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionSelectionUpdatedSuccess, state)
}

func (ctrl *CollectionController) SelectAllBills(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.SelectAllBills(ctx, collectionID)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "SelectAllBills", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionSelectionUpdatedSuccess, state)
}

func (ctrl *CollectionController) DeselectAllBills(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.DeselectAllBills(ctx, collectionID)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "DeselectAllBills", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionSelectionUpdatedSuccess, state)
}

func (ctrl *CollectionController) CreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.CreatePaymentSession(ctx, collectionID)
	if err != nil {
		ctrl.Log.Error("Failed to create payment session",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCollectionIDKey, collectionID),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "collection_session_created", requestID,
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CollectionSessionCreatedSuccessfully, state)
}

func (ctrl *CollectionController) CancelPaymentSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.CancelPaymentSession(ctx, collectionID)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "CancelPaymentSession", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "collection_session_cancelled", requestID,
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionSessionCancelledSuccess, state)
}

func (ctrl *CollectionController) ResetCollection(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	state, err := ctrl.CollectionUsecase.ResetCollection(ctx, collectionID)
	if err != nil {
		ctrl.writeUsecaseError(w, requestID, "ResetCollection", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionResetSuccessfully, state)
}

func (ctrl *CollectionController) TeardownCollection(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ctrl.requestIDFromContext(w, r)
	if !ok {
		return
	}
	collectionID := chi.URLParam(r, "collectionID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.CollectionUsecase.TeardownCollection(ctx, collectionID); err != nil {
		ctrl.writeUsecaseError(w, requestID, "TeardownCollection", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "collection_closed", requestID,
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CollectionClosedSuccessfully, nil)
}

func (ctrl *CollectionController) requestIDFromContext(w http.ResponseWriter, r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func (ctrl *CollectionController) writeUsecaseError(w http.ResponseWriter, requestID, operation string, err error) {
	ctrl.Log.Error("Collection operation failed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("operation", operation),
		zap.Error(err),
	)
	if err == context.DeadlineExceeded {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}

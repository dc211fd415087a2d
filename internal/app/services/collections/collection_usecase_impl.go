package collections

import (
	"context"
	"fmt"
	"klinipay-service/internal/app/config"
	"klinipay-service/internal/app/contracts"
	"klinipay-service/internal/app/models"
	"klinipay-service/internal/app/services/payments"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/dto/responses"
	"klinipay-service/internal/pkg/exceptions"
	"klinipay-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

// collectionWorkflow is one live merged-payment flow, created per mounted
// front-end instance. All mutable state is private to the instance and
// guarded by its mutex; nothing about a workflow lives in package state.
type collectionWorkflow struct {
	mu              sync.Mutex
	id              string
	patientID       string
	stage           models.CollectionStage
	selection       *payments.Selection
	fetchGeneration uint64
	session         *models.PaymentSession
	outcome         *models.TerminalOutcome

	// poller is the single active-poll handle of this workflow. It is only
	// ever started or stopped by the usecase, and never while holding mu.
	poller *payments.StatusPoller
}

type collectionUsecase struct {
	BillRegistryClient   contracts.BillRegistryClient
	PaymentSessionClient contracts.PaymentSessionClient
	LockerService        contracts.LockerService
	EventPublisher       contracts.PaymentEventPublisher
	InternalConfig       *config.InternalConfig
	Log                  *zap.Logger

	mu        sync.RWMutex
	workflows map[string]*collectionWorkflow
}

var (
	collectionUsecaseInstance contracts.CollectionUsecase
	onceCollectionUsecase     sync.Once
)

func NewCollectionUsecase(
	billRegistryClient contracts.BillRegistryClient,
	paymentSessionClient contracts.PaymentSessionClient,
	lockerService contracts.LockerService,
	eventPublisher contracts.PaymentEventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.CollectionUsecase {
	onceCollectionUsecase.Do(func() {
		instance := &collectionUsecase{
			BillRegistryClient:   billRegistryClient,
			PaymentSessionClient: paymentSessionClient,
			LockerService:        lockerService,
			EventPublisher:       eventPublisher,
			InternalConfig:       internalConfig,
			Log:                  logger,
			workflows:            make(map[string]*collectionWorkflow),
		}
		collectionUsecaseInstance = instance
	})
	return collectionUsecaseInstance
}

func (uc *collectionUsecase) StartCollection(ctx context.Context, request *requests.CreateCollection) (*responses.CollectionState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("collectionUsecase.StartCollection called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	workflow := &collectionWorkflow{
		id:        utils.GenerateCollectionID(),
		stage:     models.StageSelectPatient,
		selection: payments.NewSelection(),
		poller:    payments.NewStatusPoller(uc.PaymentSessionClient, uc.Log),
	}

	uc.mu.Lock()
	uc.workflows[workflow.id] = workflow
	uc.mu.Unlock()

	if request.PatientID != "" {
		if err := uc.assignPatientAndFetch(ctx, workflow, request.PatientID); err != nil {
			uc.mu.Lock()
			delete(uc.workflows, workflow.id)
			uc.mu.Unlock()
			return nil, err
		}
	}

	uc.Log.Info("collectionUsecase.StartCollection succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, workflow.id),
	)
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) GetCollection(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) SelectPatient(ctx context.Context, collectionID string, request *requests.SelectPatient) (*responses.CollectionState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("collectionUsecase.SelectPatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}
	if err := uc.assignPatientAndFetch(ctx, workflow, request.PatientID); err != nil {
		return nil, err
	}
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) RefreshBills(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}

	workflow.mu.Lock()
	patientID := workflow.patientID
	stage := workflow.stage
	workflow.mu.Unlock()
	if patientID == "" {
		return nil, exceptions.ErrNoPatientSelected(nil)
	}
	if stage != models.StageReview {
		return nil, exceptions.ErrWrongStage(nil, string(stage))
	}

	if err := uc.fetchBills(ctx, workflow, patientID); err != nil {
		return nil, err
	}
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) ToggleBill(ctx context.Context, collectionID, billID string) (*responses.CollectionState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}

	workflow.mu.Lock()
	if workflow.stage != models.StageReview {
		stage := workflow.stage
		workflow.mu.Unlock()
		return nil, exceptions.ErrWrongStage(nil, string(stage))
	}
	if !workflow.selection.Contains(billID) {
		workflow.mu.Unlock()
		return nil, exceptions.ErrBillNotFound(nil)
	}
	workflow.selection.Toggle(billID)
	total := workflow.selection.SelectedTotal()
	workflow.mu.Unlock()

	uc.Log.Info("collectionUsecase.ToggleBill updated selection",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
		zap.String(constvars.LoggingBillIDKey, billID),
		zap.Float64(constvars.LoggingSelectedTotalKey, total),
	)
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) SelectAllBills(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	return uc.bulkSelect(ctx, collectionID, true)
}

func (uc *collectionUsecase) DeselectAllBills(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	return uc.bulkSelect(ctx, collectionID, false)
}

func (uc *collectionUsecase) bulkSelect(ctx context.Context, collectionID string, selectAll bool) (*responses.CollectionState, error) {
	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}

	workflow.mu.Lock()
	if workflow.stage != models.StageReview {
		stage := workflow.stage
		workflow.mu.Unlock()
		return nil, exceptions.ErrWrongStage(nil, string(stage))
	}
	if selectAll {
		workflow.selection.SelectAll()
	} else {
		workflow.selection.DeselectAll()
	}
	workflow.mu.Unlock()

	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) CreatePaymentSession(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("collectionUsecase.CreatePaymentSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
	)

	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}

	workflow.mu.Lock()
	patientID := workflow.patientID
	billIDs := workflow.selection.SelectedBillIDs()
	totalAmount := workflow.selection.SelectedTotal()
	workflow.mu.Unlock()

	if patientID == "" {
		return nil, exceptions.ErrNoPatientSelected(nil)
	}
	// Checked before any network call; an empty selection never reaches the
	// payment backend.
	if len(billIDs) == 0 {
		return nil, exceptions.ErrNoBillsSelected(nil)
	}

	lockKey := fmt.Sprintf(constvars.CollectionSessionLockKeyFormat, collectionID)
	lockTTL := time.Duration(uc.InternalConfig.Collection.SessionLockTTLSeconds) * time.Second
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrSessionCreationInProgress(nil)
	}
	defer uc.LockerService.Unlock(ctx, lockKey, lockValue)

	created, err := uc.PaymentSessionClient.CreateMergedPaymentSession(ctx, &requests.CreateMergedPaymentSession{
		PatientID:   patientID,
		BillIDs:     billIDs,
		TotalAmount: totalAmount,
	})
	if err != nil {
		uc.Log.Error("collectionUsecase.CreatePaymentSession session creation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCollectionIDKey, collectionID),
			zap.Error(err),
		)
		return nil, err
	}

	session := &models.PaymentSession{
		SessionID:      created.SessionID,
		PatientID:      patientID,
		BillIDs:        billIDs,
		TotalAmount:    created.TotalAmount,
		QRCodePayload:  created.QRCodePayload,
		Status:         models.SessionStatusWaiting,
		CreatedAt:      time.Now(),
		TimeoutMinutes: created.TimeoutMinutes,
	}
	if session.TotalAmount == 0 {
		session.TotalAmount = totalAmount
	}

	// Accepting the new session discards interest in any previous one; the
	// poller restart below stops the old task before the new one begins.
	workflow.mu.Lock()
	workflow.session = session
	workflow.outcome = nil
	workflow.stage = models.StageAwaitingPayment
	workflow.mu.Unlock()

	pollCtx := utils.ContextWithBearerToken(context.Background(), utils.BearerTokenFromContext(ctx))
	pollCtx = context.WithValue(pollCtx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)
	workflow.poller.Start(pollCtx, session.SessionID, uc.pollInterval(), uc.pollTimeout(), uc.makeTerminalHandler(workflow, session.SessionID))

	utils.LogBusinessEvent(uc.Log, "payment_session_created", requestID,
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.Float64(constvars.LoggingSelectedTotalKey, session.TotalAmount),
	)
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) CancelPaymentSession(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}

	workflow.mu.Lock()
	hadSession := workflow.session != nil
	workflow.session = nil
	workflow.outcome = nil
	if workflow.stage == models.StageAwaitingPayment || workflow.stage == models.StageCompleted {
		workflow.stage = models.StageReview
	}
	workflow.mu.Unlock()

	// Idempotent: stopping an idle poller is a no-op.
	workflow.poller.Stop()

	uc.Log.Info("collectionUsecase.CancelPaymentSession completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
		zap.Bool("had_session", hadSession),
	)
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) ResetCollection(ctx context.Context, collectionID string) (*responses.CollectionState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	workflow, err := uc.getWorkflow(collectionID)
	if err != nil {
		return nil, err
	}

	workflow.mu.Lock()
	workflow.patientID = ""
	workflow.session = nil
	workflow.outcome = nil
	workflow.selection.SetBills(nil)
	workflow.fetchGeneration++
	workflow.stage = models.StageSelectPatient
	workflow.mu.Unlock()

	workflow.poller.Stop()

	uc.Log.Info("collectionUsecase.ResetCollection completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
	)
	return uc.snapshot(workflow), nil
}

func (uc *collectionUsecase) TeardownCollection(ctx context.Context, collectionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	uc.mu.Lock()
	workflow, ok := uc.workflows[collectionID]
	delete(uc.workflows, collectionID)
	uc.mu.Unlock()
	if !ok {
		return exceptions.ErrCollectionNotFound(nil, collectionID)
	}

	workflow.poller.Stop()

	uc.Log.Info("collectionUsecase.TeardownCollection completed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, collectionID),
	)
	return nil
}

func (uc *collectionUsecase) Shutdown() {
	uc.mu.Lock()
	workflows := make([]*collectionWorkflow, 0, len(uc.workflows))
	for _, workflow := range uc.workflows {
		workflows = append(workflows, workflow)
	}
	uc.workflows = make(map[string]*collectionWorkflow)
	uc.mu.Unlock()

	for _, workflow := range workflows {
		workflow.poller.Stop()
	}
	uc.Log.Info("collectionUsecase.Shutdown stopped all workflows",
		zap.Int("workflow_count", len(workflows)),
	)
}

// assignPatientAndFetch binds a patient to the workflow and seeds the
// selection from the patient's unpaid bills. Switching patients abandons any
// active session and its poller.
func (uc *collectionUsecase) assignPatientAndFetch(ctx context.Context, workflow *collectionWorkflow, patientID string) error {
	workflow.mu.Lock()
	workflow.patientID = patientID
	// The previous patient's bills must never render under the new patient,
	// even when the fetch below fails.
	workflow.selection.SetBills(nil)
	workflow.session = nil
	workflow.outcome = nil
	workflow.stage = models.StageSelectPatient
	workflow.mu.Unlock()

	workflow.poller.Stop()

	return uc.fetchBills(ctx, workflow, patientID)
}

// fetchBills fetches unpaid bills and applies them only if no newer fetch or
// patient switch happened meanwhile, so a slow response for a previous
// patient can never overwrite the current one.
func (uc *collectionUsecase) fetchBills(ctx context.Context, workflow *collectionWorkflow, patientID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	workflow.mu.Lock()
	workflow.fetchGeneration++
	generation := workflow.fetchGeneration
	workflow.mu.Unlock()

	bills, err := uc.BillRegistryClient.GetUnpaidBills(ctx, patientID)
	if err != nil {
		return err
	}

	workflow.mu.Lock()
	defer workflow.mu.Unlock()
	if workflow.fetchGeneration != generation || workflow.patientID != patientID {
		uc.Log.Info("collectionUsecase.fetchBills stale response discarded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCollectionIDKey, workflow.id),
			zap.String(constvars.LoggingPatientIDKey, patientID),
		)
		return nil
	}

	workflow.selection.SetBills(bills)
	workflow.stage = models.StageReview

	uc.Log.Info("collectionUsecase.fetchBills seeded selection",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCollectionIDKey, workflow.id),
		zap.Int(constvars.LoggingBillCountKey, len(bills)),
		zap.Float64(constvars.LoggingSelectedTotalKey, workflow.selection.SelectedTotal()),
	)
	return nil
}

// makeTerminalHandler binds a terminal callback to one session id. A late
// result for a superseded session finds the id mismatch and is dropped.
func (uc *collectionUsecase) makeTerminalHandler(workflow *collectionWorkflow, sessionID string) payments.TerminalFunc {
	return func(status models.SessionStatus, result *responses.MergedPaymentStatus) {
		workflow.mu.Lock()
		if workflow.session == nil || workflow.session.SessionID != sessionID {
			workflow.mu.Unlock()
			uc.Log.Info("collectionUsecase terminal result for superseded session ignored",
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.String(constvars.LoggingPaymentStatusKey, string(status)),
			)
			return
		}

		outcome := &models.TerminalOutcome{
			Status: status,
			Amount: workflow.session.TotalAmount,
		}
		if result != nil {
			outcome.PaidAt = result.PaidAt
			outcome.TransactionID = result.TransactionID
			if result.Amount > 0 {
				outcome.Amount = result.Amount
			}
		}
		workflow.outcome = outcome

		event := &contracts.PaymentEvent{
			CollectionID:  workflow.id,
			PatientID:     workflow.patientID,
			SessionID:     sessionID,
			BillIDs:       workflow.session.BillIDs,
			TotalAmount:   workflow.session.TotalAmount,
			Status:        string(status),
			PaidAt:        outcome.PaidAt,
			TransactionID: outcome.TransactionID,
		}

		if status == models.SessionStatusPaid {
			workflow.session.Status = models.SessionStatusPaid
			workflow.stage = models.StageCompleted
		} else {
			// EXPIRED, FAILED and TIMEOUT all return to review with the
			// pre-session selection intact.
			workflow.session = nil
			workflow.stage = models.StageReview
		}
		workflow.mu.Unlock()

		uc.publishTerminalEvent(event)
	}
}

func (uc *collectionUsecase) publishTerminalEvent(event *contracts.PaymentEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		// Event delivery is best-effort; the workflow outcome stands.
		uc.Log.Warn("collectionUsecase.publishTerminalEvent failed",
			zap.String(constvars.LoggingCollectionIDKey, event.CollectionID),
			zap.String(constvars.LoggingSessionIDKey, event.SessionID),
			zap.Error(err),
		)
		return
	}
	uc.Log.Info("collectionUsecase.publishTerminalEvent succeeded",
		zap.String(constvars.LoggingCollectionIDKey, event.CollectionID),
		zap.String(constvars.LoggingPaymentStatusKey, event.Status),
	)
}

func (uc *collectionUsecase) getWorkflow(collectionID string) (*collectionWorkflow, error) {
	uc.mu.RLock()
	workflow, ok := uc.workflows[collectionID]
	uc.mu.RUnlock()
	if !ok {
		return nil, exceptions.ErrCollectionNotFound(nil, collectionID)
	}
	return workflow, nil
}

func (uc *collectionUsecase) pollInterval() time.Duration {
	if uc.InternalConfig.Collection.PollIntervalSeconds <= 0 {
		return payments.DefaultPollInterval
	}
	return time.Duration(uc.InternalConfig.Collection.PollIntervalSeconds) * time.Second
}

func (uc *collectionUsecase) pollTimeout() time.Duration {
	if uc.InternalConfig.Collection.PollTimeoutMinutes <= 0 {
		return payments.DefaultPollTimeout
	}
	return time.Duration(uc.InternalConfig.Collection.PollTimeoutMinutes) * time.Minute
}

func (uc *collectionUsecase) snapshot(workflow *collectionWorkflow) *responses.CollectionState {
	workflow.mu.Lock()
	defer workflow.mu.Unlock()

	bills := workflow.selection.Bills()
	details := make([]responses.BillDetail, 0, len(bills))
	for _, bill := range bills {
		detail := responses.BillDetail{
			ID:          bill.ID,
			Amount:      bill.Amount,
			Status:      string(bill.Status),
			Description: bill.Description,
			Type:        bill.Type,
			Selected:    workflow.selection.IsSelected(bill.ID),
		}
		if !bill.CreatedAt.IsZero() {
			detail.CreatedAt = bill.CreatedAt.Format(time.RFC3339)
		}
		details = append(details, detail)
	}

	state := &responses.CollectionState{
		CollectionID:    workflow.id,
		PatientID:       workflow.patientID,
		Stage:           string(workflow.stage),
		Bills:           details,
		SelectedBillIDs: workflow.selection.SelectedBillIDs(),
		SelectedTotal:   workflow.selection.SelectedTotal(),
	}

	if workflow.session != nil {
		state.Session = &responses.PaymentSessionDetail{
			SessionID:      workflow.session.SessionID,
			BillIDs:        workflow.session.BillIDs,
			TotalAmount:    workflow.session.TotalAmount,
			QRCodePayload:  workflow.session.QRCodePayload,
			Status:         string(workflow.session.Status),
			CreatedAt:      workflow.session.CreatedAt.Format(time.RFC3339),
			TimeoutMinutes: workflow.session.TimeoutMinutes,
		}
	}
	if workflow.outcome != nil {
		state.Outcome = &responses.TerminalOutcomeDetail{
			Status:        string(workflow.outcome.Status),
			PaidAt:        workflow.outcome.PaidAt,
			TransactionID: workflow.outcome.TransactionID,
			Amount:        workflow.outcome.Amount,
		}
	}
	return state
}

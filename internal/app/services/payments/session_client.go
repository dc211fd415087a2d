package payments

import (
	"bytes"
	"context"
	"io"
	"klinipay-service/internal/app/contracts"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/dto/responses"
	"klinipay-service/internal/pkg/exceptions"
	"klinipay-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	paymentSessionClientInstance contracts.PaymentSessionClient
	oncePaymentSessionClient     sync.Once
)

type paymentSessionClient struct {
	BaseUrl    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewPaymentSessionClient(baseUrl string, logger *zap.Logger) contracts.PaymentSessionClient {
	oncePaymentSessionClient.Do(func() {
		client := &paymentSessionClient{
			BaseUrl:    baseUrl,
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
			Log:        logger,
		}
		paymentSessionClientInstance = client
	})
	return paymentSessionClientInstance
}

func (c *paymentSessionClient) CreateMergedPaymentSession(ctx context.Context, request *requests.CreateMergedPaymentSession) (*responses.MergedPaymentSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("paymentSessionClient.CreateMergedPaymentSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.Int(constvars.LoggingBillCountKey, len(request.BillIDs)),
		zap.Float64(constvars.LoggingSelectedTotalKey, request.TotalAmount),
	)

	body, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	endpoint := c.BaseUrl + "/merged-payment-sessions"
	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		c.Log.Error("paymentSessionClient.CreateMergedPaymentSession error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	if token := utils.BearerTokenFromContext(ctx); token != "" {
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("paymentSessionClient.CreateMergedPaymentSession error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrPaymentUnreachable(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrDecodeBackendResponse(err, "merged-payment-sessions")
	}

	if resp.StatusCode == constvars.StatusUnauthorized {
		c.Log.Warn("paymentSessionClient.CreateMergedPaymentSession bearer credential rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, exceptions.ErrBackendAuthRejected(nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope responses.BackendErrorEnvelope
		json.Unmarshal(bodyBytes, &envelope)
		message := envelope.Message
		if message == "" {
			message = envelope.Error
		}
		c.Log.Error("paymentSessionClient.CreateMergedPaymentSession backend rejected request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, exceptions.ErrSessionCreation(nil, message)
	}

	var session responses.MergedPaymentSession
	if err := json.Unmarshal(bodyBytes, &session); err != nil {
		c.Log.Error("paymentSessionClient.CreateMergedPaymentSession error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeBackendResponse(err, "merged-payment-sessions")
	}

	// A session without an id or QR payload cannot be paid or polled; treat
	// it as a failed creation so nothing partial is ever stored.
	if session.SessionID == "" || session.QRCodePayload == "" {
		c.Log.Error("paymentSessionClient.CreateMergedPaymentSession unusable session in response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		)
		return nil, exceptions.ErrSessionCreation(nil, "")
	}

	c.Log.Info("paymentSessionClient.CreateMergedPaymentSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
	)
	return &session, nil
}

func (c *paymentSessionClient) CheckMergedPaymentStatus(ctx context.Context, sessionID string) (*responses.MergedPaymentStatus, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Debug("paymentSessionClient.CheckMergedPaymentStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	endpoint := c.BaseUrl + "/merged-payment-sessions/" + sessionID + "/status"
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	if token := utils.BearerTokenFromContext(ctx); token != "" {
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrPaymentUnreachable(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrDecodeBackendResponse(err, "merged-payment-sessions status")
	}

	if resp.StatusCode == constvars.StatusUnauthorized {
		return nil, exceptions.ErrBackendAuthRejected(nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope responses.BackendErrorEnvelope
		json.Unmarshal(bodyBytes, &envelope)
		message := envelope.Message
		if message == "" {
			message = envelope.Error
		}
		return nil, exceptions.ErrBackendRejected(nil, resp.StatusCode, message)
	}

	var status responses.MergedPaymentStatus
	if err := json.Unmarshal(bodyBytes, &status); err != nil {
		return nil, exceptions.ErrDecodeBackendResponse(err, "merged-payment-sessions status")
	}

	c.Log.Debug("paymentSessionClient.CheckMergedPaymentStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingPaymentStatusKey, status.Status),
	)
	return &status, nil
}

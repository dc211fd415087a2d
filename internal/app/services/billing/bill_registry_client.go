package billing

import (
	"context"
	"io"
	"klinipay-service/internal/app/contracts"
	"klinipay-service/internal/app/models"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/dto/responses"
	"klinipay-service/internal/pkg/exceptions"
	"klinipay-service/internal/pkg/utils"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	billRegistryClientInstance contracts.BillRegistryClient
	onceBillRegistryClient     sync.Once
)

type billRegistryClient struct {
	BaseUrl    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewBillRegistryClient(baseUrl string, logger *zap.Logger) contracts.BillRegistryClient {
	onceBillRegistryClient.Do(func() {
		client := &billRegistryClient{
			BaseUrl:    baseUrl,
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
			Log:        logger,
		}
		billRegistryClientInstance = client
	})
	return billRegistryClientInstance
}

func (c *billRegistryClient) GetUnpaidBills(ctx context.Context, patientID string) ([]models.Bill, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("billRegistryClient.GetUnpaidBills called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	params := url.Values{}
	params.Add("patientId", patientID)
	endpoint := c.BaseUrl + "/unpaid-bills?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		c.Log.Error("billRegistryClient.GetUnpaidBills error creating HTTP request",
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
		c.Log.Error("billRegistryClient.GetUnpaidBills error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingURLKey, endpoint),
			zap.Error(err),
		)
		return nil, exceptions.ErrBillingUnreachable(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Error("billRegistryClient.GetUnpaidBills error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeBackendResponse(err, "unpaid-bills")
	}

	if resp.StatusCode == constvars.StatusUnauthorized {
		c.Log.Warn("billRegistryClient.GetUnpaidBills bearer credential rejected",
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
		c.Log.Error("billRegistryClient.GetUnpaidBills backend rejected request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, exceptions.ErrBackendRejected(nil, resp.StatusCode, message)
	}

	bills, err := decodeBillEnvelope(bodyBytes)
	if err != nil {
		c.Log.Error("billRegistryClient.GetUnpaidBills error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInvalidBillRecord(err)
	}

	// Some endpoints return mixed-status bills; only PENDING is payable.
	unpaid := make([]models.Bill, 0, len(bills))
	for _, bill := range bills {
		if bill.Status == models.BillStatusPending {
			unpaid = append(unpaid, bill)
		}
	}

	c.Log.Info("billRegistryClient.GetUnpaidBills succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingBillCountKey, len(unpaid)),
	)
	return unpaid, nil
}

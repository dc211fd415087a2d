package payments

import (
	"context"
	"klinipay-service/internal/pkg/dto/requests"
	"klinipay-service/internal/pkg/exceptions"
	"klinipay-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestSessionClient(baseUrl string) *paymentSessionClient {
	return &paymentSessionClient{
		BaseUrl:    baseUrl,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Log:        zap.NewNop(),
	}
}

func TestCreateMergedPaymentSession(t *testing.T) {
	t.Run("success forwards bearer and sends camelCase body", func(t *testing.T) {
		var capturedBody map[string]interface{}
		var capturedAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/merged-payment-sessions", r.URL.Path)
			capturedAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&capturedBody)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sessionId":"sess-1","qrCodePayload":"QR-DATA","totalAmount":150,"timeoutMinutes":10}`))
		}))
		defer server.Close()

		client := newTestSessionClient(server.URL)
		ctx := utils.ContextWithBearerToken(context.Background(), "tok-123")

		session, err := client.CreateMergedPaymentSession(ctx, &requests.CreateMergedPaymentSession{
			PatientID:   "patient-1",
			BillIDs:     []string{"1", "2"},
			TotalAmount: 150,
		})

		assert.NoError(t, err)
		assert.Equal(t, "sess-1", session.SessionID)
		assert.Equal(t, "QR-DATA", session.QRCodePayload)
		assert.Equal(t, 10, session.TimeoutMinutes)
		assert.Equal(t, "Bearer tok-123", capturedAuth)
		assert.Equal(t, "patient-1", capturedBody["patientId"])
		assert.Equal(t, []interface{}{"1", "2"}, capturedBody["billIds"])
		assert.Equal(t, 150.0, capturedBody["totalAmount"])
	})

	t.Run("missing session id is a failed creation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"qrCodePayload":"QR-DATA"}`))
		}))
		defer server.Close()

		client := newTestSessionClient(server.URL)
		session, err := client.CreateMergedPaymentSession(context.Background(), &requests.CreateMergedPaymentSession{PatientID: "p", BillIDs: []string{"1"}, TotalAmount: 10})

		assert.Nil(t, session)
		assert.True(t, exceptions.IsKind(err, exceptions.KindSessionCreation))
	})

	t.Run("missing qr payload is a failed creation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"sessionId":"sess-1"}`))
		}))
		defer server.Close()

		client := newTestSessionClient(server.URL)
		session, err := client.CreateMergedPaymentSession(context.Background(), &requests.CreateMergedPaymentSession{PatientID: "p", BillIDs: []string{"1"}, TotalAmount: 10})

		assert.Nil(t, session)
		assert.True(t, exceptions.IsKind(err, exceptions.KindSessionCreation))
	})

	t.Run("backend rejection carries the backend message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"bills already settled"}`))
		}))
		defer server.Close()

		client := newTestSessionClient(server.URL)
		_, err := client.CreateMergedPaymentSession(context.Background(), &requests.CreateMergedPaymentSession{PatientID: "p", BillIDs: []string{"1"}, TotalAmount: 10})

		assert.True(t, exceptions.IsKind(err, exceptions.KindSessionCreation))
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Contains(t, customErr.ClientMessage, "bills already settled")
	})

	t.Run("unauthorized maps to auth error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestSessionClient(server.URL)
		_, err := client.CreateMergedPaymentSession(context.Background(), &requests.CreateMergedPaymentSession{PatientID: "p", BillIDs: []string{"1"}, TotalAmount: 10})

		assert.True(t, exceptions.IsKind(err, exceptions.KindAuth))
	})

	t.Run("unreachable backend maps to network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := newTestSessionClient(server.URL)
		_, err := client.CreateMergedPaymentSession(context.Background(), &requests.CreateMergedPaymentSession{PatientID: "p", BillIDs: []string{"1"}, TotalAmount: 10})

		assert.True(t, exceptions.IsKind(err, exceptions.KindNetwork))
	})
}

func TestCheckMergedPaymentStatus(t *testing.T) {
	t.Run("success decodes status fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/merged-payment-sessions/sess-1/status", r.URL.Path)
			w.Write([]byte(`{"status":"PAID","paidAt":"2026-09-01T10:00:00Z","transactionId":"trx-9","amount":150}`))
		}))
		defer server.Close()

		client := newTestSessionClient(server.URL)
		status, err := client.CheckMergedPaymentStatus(context.Background(), "sess-1")

		assert.NoError(t, err)
		assert.Equal(t, "PAID", status.Status)
		assert.Equal(t, "trx-9", status.TransactionID)
		assert.Equal(t, 150.0, status.Amount)
	})

	t.Run("server error maps to backend error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"session store down"}`))
		}))
		defer server.Close()

		client := newTestSessionClient(server.URL)
		_, err := client.CheckMergedPaymentStatus(context.Background(), "sess-1")

		assert.True(t, exceptions.IsKind(err, exceptions.KindBackend))
	})
}

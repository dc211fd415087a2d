package billing

import (
	"context"
	"klinipay-service/internal/pkg/exceptions"
	"klinipay-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestBillRegistryClient(baseUrl string) *billRegistryClient {
	return &billRegistryClient{
		BaseUrl:    baseUrl,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Log:        zap.NewNop(),
	}
}

func TestGetUnpaidBills(t *testing.T) {
	t.Run("bare array with mixed statuses keeps only pending", func(t *testing.T) {
		var capturedQuery string
		var capturedAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/unpaid-bills", r.URL.Path)
			capturedQuery = r.URL.Query().Get("patientId")
			capturedAuth = r.Header.Get("Authorization")
			w.Write([]byte(`[
				{"id":"1","amount":100,"status":"PENDING","description":"Consultation"},
				{"id":"2","amount":50,"status":"PAID","description":"Old bill"},
				{"id":"3","amount":75.5,"status":"PENDING","description":"Lab work"}
			]`))
		}))
		defer server.Close()

		client := newTestBillRegistryClient(server.URL)
		ctx := utils.ContextWithBearerToken(context.Background(), "tok-abc")

		bills, err := client.GetUnpaidBills(ctx, "patient-1")

		assert.NoError(t, err)
		assert.Len(t, bills, 2)
		assert.Equal(t, "1", bills[0].ID)
		assert.Equal(t, "3", bills[1].ID)
		assert.Equal(t, "patient-1", capturedQuery)
		assert.Equal(t, "Bearer tok-abc", capturedAuth)
	})

	t.Run("items envelope with numeric ids", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[{"id":42,"amount":100,"status":"PENDING"}]}`))
		}))
		defer server.Close()

		client := newTestBillRegistryClient(server.URL)
		bills, err := client.GetUnpaidBills(context.Background(), "patient-1")

		assert.NoError(t, err)
		assert.Len(t, bills, 1)
		assert.Equal(t, "42", bills[0].ID)
	})

	t.Run("unknown envelope shape yields empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":"nothing recognizable"}`))
		}))
		defer server.Close()

		client := newTestBillRegistryClient(server.URL)
		bills, err := client.GetUnpaidBills(context.Background(), "patient-1")

		assert.NoError(t, err)
		assert.Empty(t, bills)
	})

	t.Run("malformed bill record is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"1","amount":-5,"status":"PENDING"}]`))
		}))
		defer server.Close()

		client := newTestBillRegistryClient(server.URL)
		bills, err := client.GetUnpaidBills(context.Background(), "patient-1")

		assert.Nil(t, bills)
		assert.True(t, exceptions.IsKind(err, exceptions.KindBackend))
	})

	t.Run("unauthorized maps to auth error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestBillRegistryClient(server.URL)
		_, err := client.GetUnpaidBills(context.Background(), "patient-1")

		assert.True(t, exceptions.IsKind(err, exceptions.KindAuth))
	})

	t.Run("backend failure carries status and message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"registry offline"}`))
		}))
		defer server.Close()

		client := newTestBillRegistryClient(server.URL)
		_, err := client.GetUnpaidBills(context.Background(), "patient-1")

		assert.True(t, exceptions.IsKind(err, exceptions.KindBackend))
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Contains(t, customErr.ClientMessage, "registry offline")
	})

	t.Run("unreachable backend maps to network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := newTestBillRegistryClient(server.URL)
		_, err := client.GetUnpaidBills(context.Background(), "patient-1")

		assert.True(t, exceptions.IsKind(err, exceptions.KindNetwork))
	})
}

func TestDecodeBillEnvelope(t *testing.T) {
	t.Run("bills and data envelopes are accepted", func(t *testing.T) {
		bills, err := decodeBillEnvelope([]byte(`{"bills":[{"id":"a","amount":1,"status":"PENDING"}]}`))
		assert.NoError(t, err)
		assert.Len(t, bills, 1)

		bills, err = decodeBillEnvelope([]byte(`{"data":[{"id":"b","amount":2,"status":"PENDING"}]}`))
		assert.NoError(t, err)
		assert.Len(t, bills, 1)
	})

	t.Run("empty body yields empty list", func(t *testing.T) {
		bills, err := decodeBillEnvelope(nil)
		assert.NoError(t, err)
		assert.Empty(t, bills)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := decodeBillEnvelope([]byte(`[{"id":"1","amount":10,"status":"BOGUS"}]`))
		assert.Error(t, err)
	})
}

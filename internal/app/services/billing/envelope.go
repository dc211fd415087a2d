package billing

import (
	"bytes"
	"fmt"
	"klinipay-service/internal/app/models"
	"time"

	"github.com/goccy/go-json"
)

// flexibleID accepts both string and numeric bill ids; some billing
// endpoints emit one, some the other.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty id value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type billRecord struct {
	ID          flexibleID `json:"id"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
}

// billEnvelope is the union of the object envelopes the billing backend is
// known to answer with. Exactly one list is populated per response.
type billEnvelope struct {
	Items []billRecord `json:"items"`
	Bills []billRecord `json:"bills"`
	Data  []billRecord `json:"data"`
}

// decodeBillEnvelope normalizes every accepted response shape (bare array,
// items, bills, data) to a validated bill list. Unrecognized object shapes
// decode to an empty list so the caller can render an empty state; malformed
// bill records are an error, never silently dropped.
func decodeBillEnvelope(body []byte) ([]models.Bill, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []models.Bill{}, nil
	}

	var records []billRecord
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
	} else {
		var envelope billEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		switch {
		case envelope.Items != nil:
			records = envelope.Items
		case envelope.Bills != nil:
			records = envelope.Bills
		case envelope.Data != nil:
			records = envelope.Data
		default:
			return []models.Bill{}, nil
		}
	}

	bills := make([]models.Bill, 0, len(records))
	for _, record := range records {
		bill := models.Bill{
			ID:          string(record.ID),
			Amount:      record.Amount,
			Status:      models.BillStatus(record.Status),
			CreatedAt:   record.CreatedAt,
			Description: record.Description,
			Type:        record.Type,
		}
		if err := bill.Validate(); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

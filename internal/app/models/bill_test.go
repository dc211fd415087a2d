package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillValidate(t *testing.T) {
	valid := Bill{ID: "1", Amount: 100, Status: BillStatusPending}
	assert.NoError(t, valid.Validate())

	t.Run("missing id", func(t *testing.T) {
		b := valid
		b.ID = ""
		assert.Error(t, b.Validate())
	})

	t.Run("zero amount", func(t *testing.T) {
		b := valid
		b.Amount = 0
		assert.Error(t, b.Validate())
	})

	t.Run("negative amount", func(t *testing.T) {
		b := valid
		b.Amount = -10
		assert.Error(t, b.Validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		b := valid
		b.Status = "MYSTERY"
		assert.Error(t, b.Validate())
	})
}

func TestParseBillStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "PAID", "CANCELLED", "REFUNDED"} {
		status, err := ParseBillStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, BillStatus(raw), status)
	}

	_, err := ParseBillStatus("pending")
	assert.Error(t, err, "statuses are case sensitive on the wire")
}

func TestSessionStatusIsTerminal(t *testing.T) {
	assert.True(t, SessionStatusPaid.IsTerminal())
	assert.True(t, SessionStatusExpired.IsTerminal())
	assert.True(t, SessionStatusFailed.IsTerminal())
	assert.True(t, SessionStatusTimeout.IsTerminal())

	assert.False(t, SessionStatusCreating.IsTerminal())
	assert.False(t, SessionStatusWaiting.IsTerminal())
	assert.False(t, SessionStatus("SOMETHING_NEW").IsTerminal())
}

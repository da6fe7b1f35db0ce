package flutterwave

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSignature(t *testing.T) {
	tests := []struct {
		name   string
		header string
		secret string
		want   bool
	}{
		{"match", "s3cr3t", "s3cr3t", true},
		{"mismatch", "s3cr3x", "s3cr3t", false},
		{"different length", "s3", "s3cr3t", false},
		{"missing header", "", "s3cr3t", false},
		{"unconfigured secret", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidSignature(tt.header, tt.secret))
		})
	}
}

func TestWebhookEvent_ChargeSucceeded(t *testing.T) {
	var e WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(`{
		"event": "charge.completed",
		"data": {"id": 4975363, "tx_ref": "tx_1700000000000-42", "amount": 5000, "currency": "NGN", "status": "successful"}
	}`), &e))

	assert.True(t, e.ChargeSucceeded())
	assert.Equal(t, "tx_1700000000000-42", e.Data.TxRef)

	e.Data.Status = "failed"
	assert.False(t, e.ChargeSucceeded())

	e = WebhookEvent{Event: "transfer.completed", Data: Transaction{Status: TransactionSuccessful}}
	assert.False(t, e.ChargeSucceeded())
}

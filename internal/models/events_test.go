package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestionJobPayload_FileName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"statements/2025/01/extrato.ofx", "extrato.ofx"},
		{"extrato.ofx", "extrato.ofx"},
		{"dir/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, IngestionJobPayload{FileKey: tt.key}.FileName())
		})
	}
}

func TestIngestionEvent_Validate(t *testing.T) {
	valid := &IngestionJobPayload{
		FileKey:     "a/b.ofx",
		Profile:     &ProfileInfo{ID: "p"},
		BankAccount: &AccountInfo{ID: "a"},
	}

	assert.NoError(t, IngestionEvent{Payload: valid}.Validate())
	assert.ErrorIs(t, IngestionEvent{}.Validate(), ErrNilPayload)

	noProfile := *valid
	noProfile.Profile = nil
	assert.ErrorIs(t, IngestionEvent{Payload: &noProfile}.Validate(), ErrInvalidEvent)

	noAccount := *valid
	noAccount.BankAccount = &AccountInfo{}
	assert.ErrorIs(t, IngestionEvent{Payload: &noAccount}.Validate(), ErrInvalidEvent)

	noKey := *valid
	noKey.FileKey = "  "
	err := IngestionEvent{Payload: &noKey}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidEvent))
	assert.Contains(t, err.Error(), "fileKey")
}

func TestIngestionEvent_DecodesWireFormat(t *testing.T) {
	raw := `{
		"messageId": "m-1",
		"timestamp": "2025-03-01T10:00:00-03:00",
		"triggerType": "user_upload",
		"eventType": "STATEMENT_UPLOADED",
		"payload": {
			"jobId": "job-1",
			"fileKey": "uploads/p1/extrato.ofx",
			"profile": {"id": "p1", "name": "Ana", "email": "ana@example.com"},
			"bankAccount": {"id": "acc-1", "name": "Conta Corrente"},
			"fallbackIncomeCategoryId": "inc",
			"fallbackExpenseCategoryId": "exp"
		}
	}`

	var ev IngestionEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	require.NoError(t, ev.Validate())
	assert.Equal(t, "job-1", ev.Payload.JobID)
	assert.Equal(t, "Ana", ev.Payload.Profile.Name)
	assert.Equal(t, "Conta Corrente", ev.Payload.BankAccount.Name)
	assert.Equal(t, "exp", ev.Payload.FallbackExpenseCategoryID)
}

func TestNotificationEvents(t *testing.T) {
	r := NotificationRecipient{UserID: "u", Email: "e@x.com", Name: "N"}

	ok := NewSuccessNotification(r, "f.ofx", "Conta")
	_, err := uuid.Parse(ok.MessageID)
	assert.NoError(t, err)
	assert.Equal(t, TriggerAsyncProcessCompletion, ok.TriggerType)
	assert.Equal(t, EventStatementProcessingCompleted, ok.EventType)
	assert.Equal(t, NotificationStatusSuccess, ok.Payload.Status)
	assert.False(t, ok.IsFailure())

	body, err := json.Marshal(ok)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "errorCode")

	bad := NewErrorNotification(r, "f.ofx", "Conta", ErrorCodeNoTransactions, "vazio")
	assert.True(t, bad.IsFailure())
	assert.Equal(t, NotificationStatusFailed, bad.Payload.Status)
	body, err = json.Marshal(bad)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"errorCode":"NO_TRANSACTIONS"`)
	assert.NotEqual(t, ok.MessageID, bad.MessageID)
}

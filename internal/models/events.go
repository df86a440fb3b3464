package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNilPayload is returned for job messages without a payload.
	ErrNilPayload = errors.New("ingestion event has no payload")
	// ErrInvalidEvent is returned for job messages missing required fields.
	ErrInvalidEvent = errors.New("invalid ingestion event")
)

// IngestionEvent is the inbound job message.
type IngestionEvent struct {
	MessageID   string               `json:"messageId"`
	Timestamp   time.Time            `json:"timestamp"`
	TriggerType string               `json:"triggerType"`
	EventType   string               `json:"eventType"`
	Payload     *IngestionJobPayload `json:"payload"`
}

// IngestionJobPayload describes one statement file to ingest.
type IngestionJobPayload struct {
	JobID                     string       `json:"jobId"`
	FileKey                   string       `json:"fileKey"`
	Profile                   *ProfileInfo `json:"profile"`
	BankAccount               *AccountInfo `json:"bankAccount"`
	FallbackIncomeCategoryID  string       `json:"fallbackIncomeCategoryId"`
	FallbackExpenseCategoryID string       `json:"fallbackExpenseCategoryId"`
}

// ProfileInfo identifies the statement owner.
type ProfileInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AccountInfo identifies the bank account the statement belongs to.
type AccountInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Validate checks that the event carries everything a pipeline run needs.
func (e IngestionEvent) Validate() error {
	if e.Payload == nil {
		return ErrNilPayload
	}
	p := e.Payload
	switch {
	case strings.TrimSpace(p.FileKey) == "":
		return fmt.Errorf("%w: missing fileKey", ErrInvalidEvent)
	case p.Profile == nil || p.Profile.ID == "":
		return fmt.Errorf("%w: missing profile", ErrInvalidEvent)
	case p.BankAccount == nil || p.BankAccount.ID == "":
		return fmt.Errorf("%w: missing bankAccount", ErrInvalidEvent)
	}
	return nil
}

// FileName returns the last path segment of the payload's file key.
func (p IngestionJobPayload) FileName() string {
	if i := strings.LastIndex(p.FileKey, "/"); i >= 0 {
		return p.FileKey[i+1:]
	}
	return p.FileKey
}

// Notification constants.
const (
	TriggerAsyncProcessCompletion = "async_process_completion"

	EventStatementProcessingCompleted = "STATEMENT_PROCESSING_COMPLETED"
	EventStatementProcessingFailed    = "STATEMENT_PROCESSING_FAILED"

	NotificationStatusSuccess = "SUCCESS"
	NotificationStatusFailed  = "FAILED"

	ErrorCodeNoTransactions = "NO_TRANSACTIONS"
	ErrorCodeInternal       = "INTERNAL_ERROR"
)

// NotificationEvent is the single outbound message emitted per pipeline run.
type NotificationEvent struct {
	MessageID   string                `json:"messageId"`
	Timestamp   time.Time             `json:"timestamp"`
	TriggerType string                `json:"triggerType"`
	EventType   string                `json:"eventType"`
	Recipient   NotificationRecipient `json:"recipient"`
	Payload     NotificationPayload   `json:"payload"`
}

// NotificationRecipient is the user the notification is addressed to.
type NotificationRecipient struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// NotificationPayload carries the outcome shown to the user.
type NotificationPayload struct {
	Status       string `json:"status"`
	FileName     string `json:"fileName"`
	AccountName  string `json:"accountName"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// IsFailure reports whether the notification is the failure variant.
func (e NotificationEvent) IsFailure() bool {
	return e.EventType == EventStatementProcessingFailed
}

// NewSuccessNotification builds the notification for a completed ingestion.
func NewSuccessNotification(recipient NotificationRecipient, fileName, accountName string) NotificationEvent {
	return newNotification(EventStatementProcessingCompleted, recipient, NotificationPayload{
		Status:      NotificationStatusSuccess,
		FileName:    fileName,
		AccountName: accountName,
	})
}

// NewErrorNotification builds the failure-shaped notification.
func NewErrorNotification(recipient NotificationRecipient, fileName, accountName, errorCode, errorMessage string) NotificationEvent {
	return newNotification(EventStatementProcessingFailed, recipient, NotificationPayload{
		Status:       NotificationStatusFailed,
		FileName:     fileName,
		AccountName:  accountName,
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
	})
}

func newNotification(eventType string, recipient NotificationRecipient, payload NotificationPayload) NotificationEvent {
	return NotificationEvent{
		MessageID:   uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		TriggerType: TriggerAsyncProcessCompletion,
		EventType:   eventType,
		Recipient:   recipient,
		Payload:     payload,
	}
}

package services_test

import (
	"testing"
	"time"

	"github.com/gstbooks/gst_billing_app/internal/core/domain"
	"github.com/gstbooks/gst_billing_app/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestDerivePaymentStatus(t *testing.T) {
	svc := services.NewPaymentStatusService()
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	future := today.AddDate(0, 0, 10)
	past := today.AddDate(0, 0, -10)

	tests := []struct {
		name    string
		current domain.DocumentStatus
		grand   string
		balance string
		dueDate time.Time
		want    domain.DocumentStatus
	}{
		{"cancelled is terminal", domain.StatusCancelled, "100", "100", past, domain.StatusCancelled},
		{"zero balance is paid", domain.StatusSent, "100", "0", future, domain.StatusPaid},
		{"paid in full wins over overdue", domain.StatusOverdue, "100", "0", past, domain.StatusPaid},
		{"negative balance is paid", domain.StatusSent, "100", "-0.01", past, domain.StatusPaid},
		{"past due with open balance is overdue", domain.StatusSent, "100", "100", past, domain.StatusOverdue},
		{"partial payment before due date", domain.StatusSent, "100", "60", future, domain.StatusPartiallyPaid},
		{"partial payment past due is overdue", domain.StatusPartiallyPaid, "100", "60", past, domain.StatusOverdue},
		{"untouched sent document stays sent", domain.StatusSent, "100", "100", future, domain.StatusSent},
		{"untouched draft stays draft", domain.StatusDraft, "100", "100", future, domain.StatusDraft},
		{"overdue reverts to sent when due date extended", domain.StatusOverdue, "100", "100", future, domain.StatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Derive(tt.current, d(tt.grand), d(tt.balance), tt.dueDate, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivePaymentStatus_Idempotent(t *testing.T) {
	svc := services.NewPaymentStatusService()
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	due := today.AddDate(0, 0, -1)

	first := svc.Derive(domain.StatusSent, d("500"), d("200"), due, today)
	second := svc.Derive(first, d("500"), d("200"), due, today)
	assert.Equal(t, first, second)
}

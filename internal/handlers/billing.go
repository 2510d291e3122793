package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// BillingHandler serves invoice and payment endpoints
type BillingHandler struct {
	billing *services.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing *services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// CreateInvoice issues an invoice.
func (h *BillingHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.CreateInvoiceRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	invoice, err := h.billing.CreateInvoice(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// ListInvoices returns invoices, optionally filtered by ?patient_id=.
func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patientID, err := queryUUID(r, "patient_id")
	if err != nil {
		writeErr(w, err)
		return
	}
	invoices, err := h.billing.ListInvoices(r.Context(), scope, patientID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice returns one invoice.
func (h *BillingHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	invoice, err := h.billing.GetInvoice(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// CancelInvoice voids an invoice without payments.
func (h *BillingHandler) CancelInvoice(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.billing.CancelInvoice(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordPayment collects a payment.
func (h *BillingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.RecordPaymentRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	payment, err := h.billing.RecordPayment(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// ListPayments returns payments, optionally filtered by ?patient_id=.
func (h *BillingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patientID, err := queryUUID(r, "patient_id")
	if err != nil {
		writeErr(w, err)
		return
	}
	payments, err := h.billing.ListPayments(r.Context(), scope, patientID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// GetPayment returns one payment.
func (h *BillingHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	payment, err := h.billing.GetPayment(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

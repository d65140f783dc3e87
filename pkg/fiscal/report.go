package fiscal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Report is the processing status of a submitted document.
type Report struct {
	UUID        string
	Timestamp   time.Time
	CallbackURL string
	Status      ReportStatus
	GroupCode   string
	DaemonCode  string
	DeviceCode  string

	err     *ReportError
	payload *ReportPayload
}

// ReportError describes why processing failed or is delayed. ErrorID is
// the upstream identifier v4 responses carry next to the code.
type ReportError struct {
	ErrorID string
	Code    int
	Text    string
	Type    ReportErrorType
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Type, e.Code, e.Text)
}

// ReportPayload holds the fiscal confirmation of a registered document.
type ReportPayload struct {
	FiscalReceiptNumber     int
	ShiftNumber             int
	ReceiptDatetime         time.Time
	Total                   decimal.Decimal
	FnNumber                string
	EcrRegistrationNumber   string
	FiscalDocumentNumber    int
	FiscalDocumentAttribute int64
	FnsSite                 string
}

// Error returns the error block, nil when the service sent none.
func (r *Report) Error() *ReportError {
	return r.err
}

// Payload returns the fiscal data, nil until the document is registered.
func (r *Report) Payload() *ReportPayload {
	return r.payload
}

func (r *Report) Done() bool    { return r.Status == ReportDone }
func (r *Report) Failed() bool  { return r.Status == ReportFail }
func (r *Report) Pending() bool { return r.Status == ReportWait }

type reportWire struct {
	UUID        string             `json:"uuid"`
	Timestamp   string             `json:"timestamp"`
	CallbackURL string             `json:"callback_url"`
	Status      string             `json:"status"`
	GroupCode   string             `json:"group_code"`
	DaemonCode  string             `json:"daemon_code"`
	DeviceCode  string             `json:"device_code"`
	Error       *reportErrorWire   `json:"error"`
	Payload     *reportPayloadWire `json:"payload"`
}

type reportErrorWire struct {
	ErrorID string `json:"error_id,omitempty"`
	Code    int    `json:"code"`
	Text    string `json:"text"`
	Type    string `json:"type"`
}

type reportPayloadWire struct {
	FiscalReceiptNumber     int             `json:"fiscal_receipt_number"`
	ShiftNumber             int             `json:"shift_number"`
	ReceiptDatetime         string          `json:"receipt_datetime"`
	Total                   decimal.Decimal `json:"total"`
	FnNumber                string          `json:"fn_number"`
	EcrRegistrationNumber   string          `json:"ecr_registration_number"`
	FiscalDocumentNumber    int             `json:"fiscal_document_number"`
	FiscalDocumentAttribute int64           `json:"fiscal_document_attribute"`
	FnsSite                 string          `json:"fns_site"`
}

// ParseReport decodes a status response body.
func ParseReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Report) UnmarshalJSON(data []byte) error {
	var w reportWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}

	status := ReportStatus(w.Status)
	if !status.Valid() {
		return fmt.Errorf("decode report: unknown status %q", w.Status)
	}

	ts, err := parseTimestamp(w.Timestamp)
	if err != nil {
		return fmt.Errorf("decode report timestamp: %w", err)
	}

	report := Report{
		UUID:        w.UUID,
		Timestamp:   ts,
		CallbackURL: w.CallbackURL,
		Status:      status,
		GroupCode:   w.GroupCode,
		DaemonCode:  w.DaemonCode,
		DeviceCode:  w.DeviceCode,
	}

	if w.Error != nil {
		report.err = &ReportError{
			ErrorID: w.Error.ErrorID,
			Code:    w.Error.Code,
			Text:    w.Error.Text,
			Type:    ReportErrorType(w.Error.Type),
		}
	}

	if w.Payload != nil {
		dt, err := parseTimestamp(w.Payload.ReceiptDatetime)
		if err != nil {
			return fmt.Errorf("decode receipt datetime: %w", err)
		}
		report.payload = &ReportPayload{
			FiscalReceiptNumber:     w.Payload.FiscalReceiptNumber,
			ShiftNumber:             w.Payload.ShiftNumber,
			ReceiptDatetime:         dt,
			Total:                   w.Payload.Total,
			FnNumber:                w.Payload.FnNumber,
			EcrRegistrationNumber:   w.Payload.EcrRegistrationNumber,
			FiscalDocumentNumber:    w.Payload.FiscalDocumentNumber,
			FiscalDocumentAttribute: w.Payload.FiscalDocumentAttribute,
			FnsSite:                 w.Payload.FnsSite,
		}
	}

	*r = report
	return nil
}

// MarshalJSON renders the report back in its wire shape.
func (r *Report) MarshalJSON() ([]byte, error) {
	w := reportWire{
		UUID:        r.UUID,
		Timestamp:   formatTimestamp(r.Timestamp),
		CallbackURL: r.CallbackURL,
		Status:      string(r.Status),
		GroupCode:   r.GroupCode,
		DaemonCode:  r.DaemonCode,
		DeviceCode:  r.DeviceCode,
	}
	if r.err != nil {
		w.Error = &reportErrorWire{
			ErrorID: r.err.ErrorID,
			Code:    r.err.Code,
			Text:    r.err.Text,
			Type:    string(r.err.Type),
		}
	}
	if p := r.payload; p != nil {
		w.Payload = &reportPayloadWire{
			FiscalReceiptNumber:     p.FiscalReceiptNumber,
			ShiftNumber:             p.ShiftNumber,
			ReceiptDatetime:         formatTimestamp(p.ReceiptDatetime),
			Total:                   p.Total,
			FnNumber:                p.FnNumber,
			EcrRegistrationNumber:   p.EcrRegistrationNumber,
			FiscalDocumentNumber:    p.FiscalDocumentNumber,
			FiscalDocumentAttribute: p.FiscalDocumentAttribute,
			FnsSite:                 p.FnsSite,
		}
	}
	return json.Marshal(w)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(timestampLayout, s, time.Local)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

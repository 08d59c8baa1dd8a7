package service

import (
	"context"

	"github.com/billedhq/expense-client/internal/application/port"
	"github.com/billedhq/expense-client/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Formatter is the pluggable display-formatting dependency. Date must fail
// on unparseable input; Status must be total over any store value.
type Formatter interface {
	Date(raw string) (string, error)
	Status(raw string) string
}

// DisplayBill is the display projection of a Bill: the same record with the
// date and status fields replaced by their formatted forms. KeptRawDate
// tags records whose date could not be formatted and kept the raw value.
type DisplayBill struct {
	entity.Bill
	KeptRawDate bool `json:"-"`
}

// ReceiptPreview is the payload for the receipt-viewing modal. The image is
// sized to half the container; a missing file URL yields fallback content
// rather than an error.
type ReceiptPreview struct {
	FileURL    string `json:"fileUrl,omitempty"`
	Width      int    `json:"width"`
	HasReceipt bool   `json:"hasReceipt"`
}

// BillsService produces display-ready bill collections, isolating
// per-record formatting failures so one bad record never suppresses the
// rest of the list.
type BillsService interface {
	// GetBills fetches and formats all bills, preserving store order.
	// A missing store yields an empty list; a store failure propagates
	// unchanged to the caller.
	GetBills(ctx context.Context) ([]DisplayBill, error)

	// ListForDisplay is the page flow: fetch, sort the raw records most
	// recent first, then format.
	ListForDisplay(ctx context.Context) ([]DisplayBill, error)

	// ReceiptPreview builds the modal payload for a receipt image.
	ReceiptPreview(fileURL string, containerWidth int) ReceiptPreview
}

type billsServiceImpl struct {
	store     port.BillStore
	formatter Formatter
	logger    Logger
}

// NewBillsService creates a new BillsService. The store may be nil, in
// which case list operations return empty collections so the surrounding
// page can still render.
func NewBillsService(store port.BillStore, formatter Formatter, logger Logger) BillsService {
	return &billsServiceImpl{
		store:     store,
		formatter: formatter,
		logger:    logger,
	}
}

func (s *billsServiceImpl) GetBills(ctx context.Context) ([]DisplayBill, error) {
	if s.store == nil {
		s.logger.Info("No bill store configured, returning empty list")
		return []DisplayBill{}, nil
	}

	bills, err := s.store.List(ctx)
	if err != nil {
		// Propagated unchanged; the page bootstrap owns the error state.
		return nil, err
	}

	return s.decorate(bills), nil
}

func (s *billsServiceImpl) ListForDisplay(ctx context.Context) ([]DisplayBill, error) {
	if s.store == nil {
		s.logger.Info("No bill store configured, returning empty list")
		return []DisplayBill{}, nil
	}

	bills, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	entity.SortByDateDesc(bills)
	return s.decorate(bills), nil
}

// decorate formats every record independently, keeping input order. A date
// that fails to format keeps its raw value so the record is never dropped.
func (s *billsServiceImpl) decorate(bills []entity.Bill) []DisplayBill {
	out := make([]DisplayBill, 0, len(bills))
	for _, b := range bills {
		d := DisplayBill{Bill: b}

		formatted, err := s.formatter.Date(b.Date)
		if err != nil {
			s.logger.Error("Failed to format bill date, keeping raw value",
				"bill_id", b.ID,
				"date", b.Date,
				"error", err)
			d.KeptRawDate = true
		} else {
			d.Date = formatted
		}

		d.Status = s.formatter.Status(b.Status)
		out = append(out, d)
	}
	return out
}

func (s *billsServiceImpl) ReceiptPreview(fileURL string, containerWidth int) ReceiptPreview {
	width := containerWidth / 2
	if fileURL == "" {
		s.logger.Info("Receipt preview requested without a file url")
		return ReceiptPreview{Width: width}
	}
	return ReceiptPreview{FileURL: fileURL, Width: width, HasReceipt: true}
}

package port

import (
	"context"
	"io"

	"github.com/billedhq/expense-client/internal/domain/entity"
)

// ReceiptUpload carries a selected receipt file and the owner's email
// for the multipart create call.
type ReceiptUpload struct {
	FileName string
	Email    string
	Content  io.Reader
}

// ReceiptRef is the store's answer to a receipt upload: the public URL of
// the stored file and the key the store assigned to the draft bill.
type ReceiptRef struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// BillPayload is a JSON-encoded bill record, tagged with the bill key
// captured during upload when one exists.
type BillPayload struct {
	BillID string
	Data   []byte
}

// BillStore defines the remote bills resource. Production and test doubles
// both implement it; the core never inspects transport errors beyond
// propagating them.
type BillStore interface {
	// List retrieves all bill records visible to the current user.
	List(ctx context.Context) ([]entity.Bill, error)

	// CreateReceipt uploads a receipt image and opens a draft bill,
	// returning the stored file URL and the assigned bill key.
	CreateReceipt(ctx context.Context, upload ReceiptUpload) (*ReceiptRef, error)

	// Update stores a complete bill record against a previously assigned
	// key, or creates one when no key is given.
	Update(ctx context.Context, payload BillPayload) error
}

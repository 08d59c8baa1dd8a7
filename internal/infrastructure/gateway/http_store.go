// Package gateway implements the remote bills store over its HTTP API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/billedhq/expense-client/internal/application/port"
	"github.com/billedhq/expense-client/internal/domain/entity"
)

// Store implements port.BillStore against the remote bills resource.
type Store struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewStore creates a bills store client. baseURL is the root of the remote
// API, without a trailing slash.
func NewStore(baseURL string, timeout time.Duration, logger *zap.Logger) *Store {
	return &Store{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// List retrieves all bill records.
func (s *Store) List(ctx context.Context) ([]entity.Bill, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/bills", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Bill list request failed",
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("list bills: unexpected status %d", resp.StatusCode)
	}

	var bills []entity.Bill
	if err := json.NewDecoder(resp.Body).Decode(&bills); err != nil {
		return nil, fmt.Errorf("decode bill list: %w", err)
	}
	return bills, nil
}

// CreateReceipt uploads a receipt image as multipart form data, tagged with
// the owner's email, and returns the stored file URL and assigned bill key.
func (s *Store) CreateReceipt(ctx context.Context, upload port.ReceiptUpload) (*port.ReceiptRef, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, fmt.Errorf("build multipart file part: %w", err)
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return nil, fmt.Errorf("copy receipt content: %w", err)
	}
	if err := writer.WriteField("email", upload.Email); err != nil {
		return nil, fmt.Errorf("write email field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/bills", body)
	if err != nil {
		return nil, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		s.logger.Error("Receipt upload failed",
			zap.String("file_name", upload.FileName),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("create receipt: unexpected status %d", resp.StatusCode)
	}

	var ref port.ReceiptRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("decode receipt reference: %w", err)
	}

	s.logger.Info("Receipt stored",
		zap.String("file_url", ref.FileURL),
		zap.String("key", ref.Key))
	return &ref, nil
}

// Update sends a complete bill record. The payload's bill key, when
// present, addresses the draft opened by the receipt upload.
func (s *Store) Update(ctx context.Context, payload port.BillPayload) error {
	url := s.baseURL + "/bills"
	if payload.BillID != "" {
		url += "/" + payload.BillID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload.Data))
	if err != nil {
		return fmt.Errorf("build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		s.logger.Error("Bill update failed",
			zap.String("bill_id", payload.BillID),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("update bill: unexpected status %d", resp.StatusCode)
	}
	return nil
}

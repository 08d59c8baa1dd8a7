package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/billedhq/expense-client/internal/application/port"
	"github.com/billedhq/expense-client/internal/domain/entity"
)

// ErrUnsupportedFileType is returned when a selected receipt file does not
// carry an accepted image extension. The store is never contacted in that
// case.
var ErrUnsupportedFileType = errors.New("unsupported receipt file type")

// acceptedExtensions is the accepted receipt image format set. Comparison
// is case-insensitive.
var acceptedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// FormInput holds the raw form field values of a new bill, exactly as
// entered. Amount and Pct are coerced to integers during submission.
type FormInput struct {
	Type       string
	Name       string
	Amount     string
	Date       string
	VAT        string
	Pct        string
	Commentary string
}

// UploadOutcome is the tagged result of a file selection. A transport
// failure is carried here rather than raised, keeping the form usable:
// a later submission will simply carry null file fields.
type UploadOutcome struct {
	Stored  bool
	FileURL string
	BillID  string
	Err     error
}

// SubmitOutcome is the tagged result of a form submission. The user is
// navigated back to the bills route regardless of the store outcome; Err
// lets callers surface the failure without re-deriving that policy.
type SubmitOutcome struct {
	Stored bool
	Route  string
	Err    error
}

// SubmissionService manages the two-phase lifecycle of one new-bill form
// session: receipt upload on file selection, then full record submission.
// The phases are decoupled so a user can pick a file before filling in the
// rest of the form. State is private to one form session; instances must
// not be shared across concurrent sessions.
type SubmissionService interface {
	// HandleFileSelection validates the selected file and uploads it.
	// Files outside the accepted image set are rejected before any store
	// call with ErrUnsupportedFileType.
	HandleFileSelection(ctx context.Context, fileName string, content io.Reader) (UploadOutcome, error)

	// Submit assembles the complete bill record from the form fields and
	// the upload state, sends it to the store, and navigates back to the
	// bills route whatever the outcome.
	Submit(ctx context.Context, form FormInput) (SubmitOutcome, error)
}

type submissionServiceImpl struct {
	store     port.BillStore
	session   port.SessionContext
	navigator port.Navigator
	logger    Logger

	// Form-session state, set by a successful upload. FileURL and
	// fileName are populated together or not at all.
	fileURL  *string
	fileName *string
	billID   string
}

// NewSubmissionService creates a SubmissionService scoped to one form
// session.
func NewSubmissionService(
	store port.BillStore,
	session port.SessionContext,
	navigator port.Navigator,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		store:     store,
		session:   session,
		navigator: navigator,
		logger:    logger,
	}
}

func (s *submissionServiceImpl) HandleFileSelection(ctx context.Context, fileName string, content io.Reader) (UploadOutcome, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !acceptedExtensions[ext] {
		s.reset()
		s.logger.Info("Rejected receipt file with unsupported extension",
			"file_name", fileName)
		return UploadOutcome{}, ErrUnsupportedFileType
	}

	user, err := port.CurrentUser(s.session)
	if err != nil {
		return UploadOutcome{}, fmt.Errorf("read session user: %w", err)
	}

	ref, err := s.store.CreateReceipt(ctx, port.ReceiptUpload{
		FileName: fileName,
		Email:    user.Email,
		Content:  content,
	})
	if err != nil {
		// Swallowed: the form stays usable and a later submission will
		// carry null file fields.
		s.logger.Error("Failed to upload receipt",
			"file_name", fileName,
			"error", err)
		return UploadOutcome{Err: err}, nil
	}

	s.fileURL = &ref.FileURL
	name := fileName
	s.fileName = &name
	s.billID = ref.Key

	s.logger.Info("Receipt uploaded",
		"file_name", fileName,
		"file_url", ref.FileURL,
		"bill_id", ref.Key)

	return UploadOutcome{Stored: true, FileURL: ref.FileURL, BillID: ref.Key}, nil
}

func (s *submissionServiceImpl) Submit(ctx context.Context, form FormInput) (SubmitOutcome, error) {
	user, err := port.CurrentUser(s.session)
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("read session user: %w", err)
	}

	bill := entity.Bill{
		Email:      user.Email,
		Type:       form.Type,
		Name:       form.Name,
		Amount:     parseIntField(form.Amount),
		Date:       form.Date,
		VAT:        form.VAT,
		Pct:        parseIntField(form.Pct),
		Commentary: form.Commentary,
		FileURL:    s.fileURL,
		FileName:   s.fileName,
		Status:     entity.StatusPending,
	}

	data, err := json.Marshal(bill)
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("encode bill: %w", err)
	}

	outcome := SubmitOutcome{Stored: true, Route: port.RouteBills}
	if err := s.store.Update(ctx, port.BillPayload{BillID: s.billID, Data: data}); err != nil {
		s.logger.Error("Failed to store bill",
			"bill_id", s.billID,
			"error", err)
		outcome = SubmitOutcome{Route: port.RouteBills, Err: err}
	} else {
		s.logger.Info("Bill submitted",
			"bill_id", s.billID,
			"email", user.Email)
	}

	// Navigate regardless of the store outcome.
	s.navigator.Navigate(port.RouteBills)
	return outcome, nil
}

func (s *submissionServiceImpl) reset() {
	s.fileURL = nil
	s.fileName = nil
	s.billID = ""
}

// parseIntField mirrors the lenient integer coercion applied to the amount
// and pct form fields: the leading integer prefix is taken, fractional
// input is truncated, and non-numeric input stays nil, which serialises as
// JSON null.
func parseIntField(raw string) *int64 {
	s := strings.TrimSpace(raw)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return nil
	}
	v, err := strconv.ParseInt(s[:j], 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

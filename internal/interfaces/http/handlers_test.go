package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billedhq/expense-client/internal/application/port"
	"github.com/billedhq/expense-client/internal/application/service"
	"github.com/billedhq/expense-client/internal/domain/entity"
)

// Stub collaborators

type stubBillsService struct {
	listFunc func(ctx context.Context) ([]service.DisplayBill, error)
}

func (s *stubBillsService) GetBills(ctx context.Context) ([]service.DisplayBill, error) {
	return s.ListForDisplay(ctx)
}

func (s *stubBillsService) ListForDisplay(ctx context.Context) ([]service.DisplayBill, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx)
	}
	return []service.DisplayBill{}, nil
}

func (s *stubBillsService) ReceiptPreview(fileURL string, containerWidth int) service.ReceiptPreview {
	return service.ReceiptPreview{
		FileURL:    fileURL,
		Width:      containerWidth / 2,
		HasReceipt: fileURL != "",
	}
}

type stubSubmissionService struct {
	uploadFunc func(ctx context.Context, fileName string, content io.Reader) (service.UploadOutcome, error)
	submitFunc func(ctx context.Context, form service.FormInput) (service.SubmitOutcome, error)

	submittedForms []service.FormInput
}

func (s *stubSubmissionService) HandleFileSelection(ctx context.Context, fileName string, content io.Reader) (service.UploadOutcome, error) {
	if s.uploadFunc != nil {
		return s.uploadFunc(ctx, fileName, content)
	}
	return service.UploadOutcome{Stored: true, FileURL: "https://store/r.png", BillID: "key-1"}, nil
}

func (s *stubSubmissionService) Submit(ctx context.Context, form service.FormInput) (service.SubmitOutcome, error) {
	s.submittedForms = append(s.submittedForms, form)
	if s.submitFunc != nil {
		return s.submitFunc(ctx, form)
	}
	return service.SubmitOutcome{Stored: true, Route: port.RouteBills}, nil
}

type stubSessionWriter struct {
	user    *port.User
	cleared bool
}

func (s *stubSessionWriter) PutUser(user port.User) error {
	s.user = &user
	return nil
}

func (s *stubSessionWriter) Clear() error {
	s.cleared = true
	return nil
}

type stubExporter struct{}

func (stubExporter) WriteTo(bills []service.DisplayBill, w io.Writer) error {
	_, err := w.Write([]byte("xlsx"))
	return err
}

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestServer(bills *stubBillsService, submission *stubSubmissionService, sessions *stubSessionWriter) *Server {
	handlers := NewHandlers(bills, submission, sessions, stubExporter{}, noopLogger{})
	return NewServer(DefaultServerConfig(), handlers, noopLogger{})
}

func doRequest(t *testing.T, server *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestListBills(t *testing.T) {
	bills := &stubBillsService{
		listFunc: func(ctx context.Context) ([]service.DisplayBill, error) {
			return []service.DisplayBill{
				{Bill: entity.Bill{ID: "1", Date: "26 Mar. 24", Status: "Pending"}},
			}, nil
		},
	}
	server := newTestServer(bills, &stubSubmissionService{}, &stubSessionWriter{})

	resp := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))

	var body struct {
		Success bool          `json:"success"`
		Data    []entity.Bill `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "26 Mar. 24", body.Data[0].Date)
}

func TestListBills_StoreFailure(t *testing.T) {
	bills := &stubBillsService{
		listFunc: func(ctx context.Context) ([]service.DisplayBill, error) {
			return nil, errors.New("Failed to fetch bills")
		},
	}
	server := newTestServer(bills, &stubSubmissionService{}, &stubSessionWriter{})

	resp := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil))
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestReceiptPreview(t *testing.T) {
	server := newTestServer(&stubBillsService{}, &stubSubmissionService{}, &stubSessionWriter{})

	resp := doRequest(t, server, httptest.NewRequest(http.MethodGet,
		"/api/v1/bills/receipt?fileUrl=https://store/r.png&width=600", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data service.ReceiptPreview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Data.HasReceipt)
	assert.Equal(t, 300, body.Data.Width)
}

func TestReceiptPreview_MissingFileURL(t *testing.T) {
	server := newTestServer(&stubBillsService{}, &stubSubmissionService{}, &stubSessionWriter{})

	resp := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/api/v1/bills/receipt", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data service.ReceiptPreview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.Data.HasReceipt)
	assert.Equal(t, defaultModalWidth/2, body.Data.Width)
}

func multipartFile(t *testing.T, fieldName, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadReceipt(t *testing.T) {
	server := newTestServer(&stubBillsService{}, &stubSubmissionService{}, &stubSessionWriter{})

	body, contentType := multipartFile(t, "file", "image.png", "img")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/receipt", body)
	req.Header.Set("Content-Type", contentType)

	resp := doRequest(t, server, req)
	require.Equal(t, http.StatusCreated, resp.Code)

	var parsed struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parsed))
	assert.Equal(t, "https://store/r.png", parsed.Data["fileUrl"])
	assert.Equal(t, "key-1", parsed.Data["key"])
}

func TestUploadReceipt_RejectsUnsupportedType(t *testing.T) {
	submission := &stubSubmissionService{
		uploadFunc: func(ctx context.Context, fileName string, content io.Reader) (service.UploadOutcome, error) {
			return service.UploadOutcome{}, service.ErrUnsupportedFileType
		},
	}
	server := newTestServer(&stubBillsService{}, submission, &stubSessionWriter{})

	body, contentType := multipartFile(t, "file", "contract.pdf", "pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/receipt", body)
	req.Header.Set("Content-Type", contentType)

	resp := doRequest(t, server, req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSubmitBill(t *testing.T) {
	submission := &stubSubmissionService{}
	server := newTestServer(&stubBillsService{}, submission, &stubSessionWriter{})

	form := "expense-type=type&expense-name=name&amount=3000&datepicker=date&vat=vat&pct=25&commentary=commentary"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := doRequest(t, server, req)
	require.Equal(t, http.StatusOK, resp.Code)

	require.Len(t, submission.submittedForms, 1)
	assert.Equal(t, service.FormInput{
		Type:       "type",
		Name:       "name",
		Amount:     "3000",
		Date:       "date",
		VAT:        "vat",
		Pct:        "25",
		Commentary: "commentary",
	}, submission.submittedForms[0])

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, true, body.Data["stored"])
	assert.Equal(t, port.RouteBills, body.Data["route"])
}

func TestExportBills(t *testing.T) {
	server := newTestServer(&stubBillsService{}, &stubSubmissionService{}, &stubSessionWriter{})

	resp := doRequest(t, server, httptest.NewRequest(http.MethodGet, "/api/v1/bills/export", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "bills.xlsx")
	assert.Equal(t, "xlsx", resp.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	sessions := &stubSessionWriter{}
	server := newTestServer(&stubBillsService{}, &stubSubmissionService{}, sessions)

	login := httptest.NewRequest(http.MethodPost, "/api/v1/session/login",
		strings.NewReader(`{"email":"user@email.com","type":"Employee"}`))
	login.Header.Set("Content-Type", "application/json")

	resp := doRequest(t, server, login)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, sessions.user)
	assert.Equal(t, "user@email.com", sessions.user.Email)

	resp = doRequest(t, server, httptest.NewRequest(http.MethodPost, "/api/v1/session/logout", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, sessions.cleared)
}

func TestLogin_RejectsIncompletePayload(t *testing.T) {
	server := newTestServer(&stubBillsService{}, &stubSubmissionService{}, &stubSessionWriter{})

	for _, payload := range []string{
		`{"email":"user@email.com"}`,
		`{"email":"not-an-email","type":"Employee"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/session/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp := doRequest(t, server, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "payload=%s", payload)
	}
}

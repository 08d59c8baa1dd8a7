package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billedhq/expense-client/internal/application/port"
	"github.com/billedhq/expense-client/internal/application/service"
	"github.com/billedhq/expense-client/pkg/utils"
)

// defaultModalWidth is the assumed receipt-modal container width when the
// client does not send one; the preview image is sized to half of it.
const defaultModalWidth = 800

// SessionWriter is the write side of the session lifecycle, used by the
// login and logout endpoints. The controllers themselves only ever read.
type SessionWriter interface {
	PutUser(user port.User) error
	Clear() error
}

// Exporter builds spreadsheet exports of the bill list.
type Exporter interface {
	WriteTo(bills []service.DisplayBill, w io.Writer) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	billsService      service.BillsService
	submissionService service.SubmissionService
	sessions          SessionWriter
	exporter          Exporter
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	billsService service.BillsService,
	submissionService service.SubmissionService,
	sessions SessionWriter,
	exporter Exporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		billsService:      billsService,
		submissionService: submissionService,
		sessions:          sessions,
		exporter:          exporter,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"service":   "expense-client",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ListBills handles GET /api/v1/bills. Bills come back sorted most recent
// first with display formatting applied.
func (h *Handlers) ListBills(c *gin.Context) {
	bills, err := h.billsService.ListForDisplay(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch bills", "error", err)
		c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Error:   "failed to fetch bills",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: bills})
}

// ReceiptPreview handles GET /api/v1/bills/receipt. A missing fileUrl
// yields fallback modal content rather than an error.
func (h *Handlers) ReceiptPreview(c *gin.Context) {
	width := defaultModalWidth
	if raw := c.Query("width"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			width = parsed
		}
	}

	preview := h.billsService.ReceiptPreview(c.Query("fileUrl"), width)
	c.JSON(http.StatusOK, Response{Success: true, Data: preview})
}

// UploadReceipt handles POST /api/v1/bills/receipt, phase one of a new
// bill: validate the selected file and push it to the store.
func (h *Handlers) UploadReceipt(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "missing file",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "unreadable file",
		})
		return
	}
	defer file.Close()

	outcome, err := h.submissionService.HandleFileSelection(c.Request.Context(), fileHeader.Filename, file)
	if errors.Is(err, service.ErrUnsupportedFileType) {
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "receipt must be a jpg, jpeg or png image",
		})
		return
	}
	if err != nil {
		h.logger.Error("Receipt upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to process receipt",
		})
		return
	}

	if !outcome.Stored {
		// Upload failure is tolerated draft behavior: the form stays
		// usable and submission will carry null file fields.
		c.JSON(http.StatusOK, Response{
			Success: false,
			Error:   "receipt could not be stored, the bill can still be submitted without it",
		})
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data: gin.H{
			"fileUrl": outcome.FileURL,
			"key":     outcome.BillID,
		},
	})
}

// SubmitBill handles POST /api/v1/bills, phase two: assemble and store the
// complete record. The response always carries the bills route; the store
// outcome only toggles the stored flag.
func (h *Handlers) SubmitBill(c *gin.Context) {
	form := service.FormInput{
		Type:       c.PostForm("expense-type"),
		Name:       c.PostForm("expense-name"),
		Amount:     c.PostForm("amount"),
		Date:       c.PostForm("datepicker"),
		VAT:        c.PostForm("vat"),
		Pct:        c.PostForm("pct"),
		Commentary: c.PostForm("commentary"),
	}

	outcome, err := h.submissionService.Submit(c.Request.Context(), form)
	if err != nil {
		h.logger.Error("Bill submission failed", "error", err)
		c.JSON(http.StatusUnauthorized, Response{
			Success: false,
			Error:   "no authenticated user",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"stored": outcome.Stored,
			"route":  outcome.Route,
		},
	})
}

// ExportBills handles GET /api/v1/bills/export, streaming the current bill
// list as a spreadsheet.
func (h *Handlers) ExportBills(c *gin.Context) {
	bills, err := h.billsService.ListForDisplay(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch bills for export", "error", err)
		c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Error:   "failed to fetch bills",
		})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="bills.xlsx"`)

	if err := h.exporter.WriteTo(bills, c.Writer); err != nil {
		h.logger.Error("Failed to write bill export", "error", err)
		c.Status(http.StatusInternalServerError)
	}
}

// LoginRequest is the login payload stored into the session context.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
	Type  string `json:"type" binding:"required"`
}

// Login handles POST /api/v1/session/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "email and type are required",
		})
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid email address",
		})
		return
	}

	if err := h.sessions.PutUser(port.User{Email: req.Email, Type: req.Type}); err != nil {
		h.logger.Error("Failed to store session user", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to open session",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// Logout handles POST /api/v1/session/logout
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.sessions.Clear(); err != nil {
		h.logger.Error("Failed to clear session", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to close session",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

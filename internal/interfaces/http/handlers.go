package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/application/service"
	"github.com/franky15/billed-portal/internal/domain/entity"
	"github.com/franky15/billed-portal/internal/domain/review"
)

const (
	sessionCookie = "billed_session"
	userContext   = "session_user"
)

// routePaths resolves navigation keys to the paths the view layer serves
var routePaths = map[entity.Route]string{
	entity.RouteLogin:     "/",
	entity.RouteBills:     "#employee/bills",
	entity.RouteNewBill:   "#employee/bill/new",
	entity.RouteDashboard: "#admin/dashboard",
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	billsService     service.BillsService
	dashboardService service.DashboardService
	reviewService    service.ReviewService
	exportService    service.ExportService
	billRepo         port.BillRepository
	sessions         SessionStore
	exportPath       string
	logger           Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	billsService service.BillsService,
	dashboardService service.DashboardService,
	reviewService service.ReviewService,
	exportService service.ExportService,
	billRepo port.BillRepository,
	sessions SessionStore,
	exportPath string,
	logger Logger,
) *Handlers {
	return &Handlers{
		billsService:     billsService,
		dashboardService: dashboardService,
		reviewService:    reviewService,
		exportService:    exportService,
		billRepo:         billRepo,
		sessions:         sessions,
		exportPath:       exportPath,
		logger:           logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// LoginRequest bootstraps a session for a portal user
type LoginRequest struct {
	Type  entity.UserType `json:"type" binding:"required"`
	Email string          `json:"email" binding:"required,email"`
}

// LoginResponse carries the issued session and the landing route
type LoginResponse struct {
	SessionID string `json:"session_id"`
	Redirect  string `json:"redirect"`
}

// CreateBillRequest represents an employee bill submission
type CreateBillRequest struct {
	Type       string  `json:"type" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Commentary string  `json:"commentary"`
	Date       string  `json:"date" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
	VAT        float64 `json:"vat"`
	Pct        int     `json:"pct"`
	FileURL    string  `json:"fileUrl"`
	FileName   string  `json:"fileName"`
}

// DecisionRequest carries the operator's commentary for accept/refuse
type DecisionRequest struct {
	Comment string `json:"comment"`
}

// DecisionResponse represents the structured outcome of a review decision
type DecisionResponse struct {
	BillID       string `json:"bill_id"`
	Status       string `json:"status,omitempty"`
	Persisted    bool   `json:"persisted"`
	PersistError string `json:"persist_error,omitempty"`
	NotifyError  string `json:"notify_error,omitempty"`
	Redirect     string `json:"redirect"`
}

// ExportResponse reports where the review queue workbook was written
type ExportResponse struct {
	Path string `json:"path"`
}

// SessionMiddleware resolves the session user and aborts unauthenticated
// requests. The session id travels in a cookie, with a header fallback
// for non-browser clients.
func (h *Handlers) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = c.GetHeader("X-Session-ID")
		}
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing session",
			})
			return
		}

		user, err := h.sessions.User(c.Request.Context(), sessionID)
		if err != nil {
			h.logger.Error("Failed to resolve session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
				Success: false,
				Error:   "failed to resolve session",
			})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "unknown or expired session",
			})
			return
		}

		c.Set(userContext, *user)
		c.Set(sessionCookie, sessionID)
		c.Next()
	}
}

// AdminOnly rejects non-administrator sessions
func (h *Handlers) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessionUser(c)
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Error:   "administrator session required",
			})
			return
		}
		c.Next()
	}
}

func sessionUser(c *gin.Context) entity.SessionUser {
	user, _ := c.MustGet(userContext).(entity.SessionUser)
	return user
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// Login handles POST /api/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid login request", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid login request",
		})
		return
	}

	if req.Type != entity.UserTypeEmployee && req.Type != entity.UserTypeAdmin {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "unknown user type",
		})
		return
	}

	sessionID := uuid.NewString()
	user := entity.SessionUser{Type: req.Type, Email: req.Email}

	if err := h.sessions.Put(c.Request.Context(), sessionID, user); err != nil {
		h.logger.Error("Failed to store session", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to open session",
		})
		return
	}

	landing := entity.RouteBills
	if user.IsAdmin() {
		landing = entity.RouteDashboard
	}

	c.SetCookie(sessionCookie, sessionID, 0, "/", "", false, true)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: LoginResponse{
			SessionID: sessionID,
			Redirect:  routePaths[landing],
		},
	})
}

// Logout handles POST /api/logout
func (h *Handlers) Logout(c *gin.Context) {
	sessionID := c.GetString(sessionCookie)

	if err := h.sessions.Clear(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("Failed to clear session", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to close session",
		})
		return
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"redirect": routePaths[entity.RouteLogin]},
	})
}

// ListBills handles GET /api/bills. Employees see their own bills;
// administrators see the full ledger.
func (h *Handlers) ListBills(c *gin.Context) {
	user := sessionUser(c)

	bills, err := h.billsService.GetBills(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list bills", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve bills",
		})
		return
	}

	if !user.IsAdmin() {
		own := make([]entity.FormattedBill, 0, len(bills))
		for _, bill := range bills {
			if bill.Email == user.Email {
				own = append(own, bill)
			}
		}
		bills = own
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    bills,
	})
}

// CreateBill handles POST /api/bills
func (h *Handlers) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid bill submission", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid bill submission",
		})
		return
	}

	user := sessionUser(c)
	draft := service.BillDraft{
		Email:      user.Email,
		Type:       req.Type,
		Name:       req.Name,
		Commentary: req.Commentary,
		Date:       req.Date,
		Amount:     req.Amount,
		VAT:        req.VAT,
		Pct:        req.Pct,
		FileURL:    req.FileURL,
		FileName:   req.FileName,
	}

	bill, err := h.billsService.Create(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedProofFile) || errors.Is(err, service.ErrInvalidDraft) {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		h.logger.Error("Failed to create bill", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to create bill",
		})
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data: gin.H{
			"bill":     bill,
			"redirect": routePaths[entity.RouteBills],
		},
	})
}

// OpenDashboard handles POST /api/admin/dashboard/:viewID
func (h *Handlers) OpenDashboard(c *gin.Context) {
	h.dashboardService.OpenView(c.Param("viewID"))
	c.JSON(http.StatusOK, Response{Success: true})
}

// CloseDashboard handles DELETE /api/admin/dashboard/:viewID
func (h *Handlers) CloseDashboard(c *gin.Context) {
	h.dashboardService.CloseView(c.Param("viewID"))
	c.JSON(http.StatusOK, Response{Success: true})
}

// ToggleCategory handles POST /api/admin/dashboard/:viewID/categories/:index
func (h *Handlers) ToggleCategory(c *gin.Context) {
	indexStr := c.Param("index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		h.logger.Error("Invalid category index", "index", indexStr, "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid category index",
		})
		return
	}

	user := sessionUser(c)
	view, err := h.dashboardService.ToggleCategory(
		c.Request.Context(), c.Param("viewID"), review.CategoryIndex(index), user.Email)
	if err != nil {
		if errors.Is(err, review.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   "unknown category index",
			})
			return
		}
		h.logger.Error("Failed to toggle category", "error", err, "index", index)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to toggle category",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// ToggleTicket handles POST /api/admin/dashboard/:viewID/tickets/:billID
func (h *Handlers) ToggleTicket(c *gin.Context) {
	view, err := h.dashboardService.ToggleTicket(
		c.Request.Context(), c.Param("viewID"), c.Param("billID"))
	if err != nil {
		if errors.Is(err, service.ErrBillNotFound) {
			c.JSON(http.StatusNotFound, Response{
				Success: false,
				Error:   "bill not found",
			})
			return
		}
		h.logger.Error("Failed to toggle ticket", "error", err, "bill_id", c.Param("billID"))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to toggle ticket",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// AcceptBill handles POST /api/admin/bills/:id/accept
func (h *Handlers) AcceptBill(c *gin.Context) {
	h.decide(c, h.reviewService.Accept)
}

// RefuseBill handles POST /api/admin/bills/:id/refuse
func (h *Handlers) RefuseBill(c *gin.Context) {
	h.decide(c, h.reviewService.Refuse)
}

// decide loads the bill, runs the transition and reports the structured
// outcome. The redirect is always present; a failed persist rides along
// in the payload instead of masking it.
func (h *Handlers) decide(c *gin.Context, decision func(ctx context.Context, bill entity.Bill, comment string) service.DecisionResult) {
	billID := c.Param("id")

	bill, err := h.billRepo.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.logger.Error("Failed to load bill for decision", "error", err, "bill_id", billID)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to load bill",
		})
		return
	}
	if bill == nil {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "bill not found",
		})
		return
	}

	// An empty body means a decision without commentary
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("Invalid decision request", "error", err, "bill_id", billID)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid decision request",
		})
		return
	}

	result := decision(c.Request.Context(), *bill, req.Comment)

	response := DecisionResponse{
		BillID:    billID,
		Persisted: result.OK(),
		Redirect:  routePaths[entity.RouteDashboard],
	}
	if result.Bill != nil {
		response.Status = result.Bill.Status.String()
	}
	if result.PersistErr != nil {
		response.PersistError = result.PersistErr.Error()
	}
	if result.NotifyErr != nil {
		response.NotifyError = result.NotifyErr.Error()
	}

	status := http.StatusOK
	if errors.Is(result.PersistErr, entity.ErrInvalidTransition) {
		status = http.StatusConflict
	}

	c.JSON(status, Response{
		Success: result.OK(),
		Data:    response,
	})
}

// ExportQueue handles POST /api/admin/export
func (h *Handlers) ExportQueue(c *gin.Context) {
	user := sessionUser(c)

	if err := h.exportService.ExportQueue(c.Request.Context(), h.exportPath, user.Email); err != nil {
		h.logger.Error("Failed to export review queue", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to export review queue",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    ExportResponse{Path: h.exportPath},
	})
}

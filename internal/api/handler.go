package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
	"assetverse/internal/service"
	"assetverse/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	requests    *service.RequestService
	inventory   *service.InventoryService
	assignments *service.AssignmentService
	payments    *service.PaymentService
	directory   *service.DirectoryService
	verifier    *TokenVerifier
}

// NewHandler creates a new HTTP handler
func NewHandler(
	requests *service.RequestService,
	inventory *service.InventoryService,
	assignments *service.AssignmentService,
	payments *service.PaymentService,
	directory *service.DirectoryService,
	verifier *TokenVerifier,
) *Handler {
	return &Handler{
		requests:    requests,
		inventory:   inventory,
		assignments: assignments,
		payments:    payments,
		directory:   directory,
		verifier:    verifier,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Asset catalog (HR side)
	router.GET("/hrAssets", h.listAssets)
	router.POST("/hrAssets", h.addAsset)
	router.DELETE("/hrAssets/:id", h.deleteAsset)

	// Request lifecycle
	router.GET("/requestAssets", h.listRequests)
	router.POST("/requestAssets", h.submitRequest)
	router.PATCH("/requestAssets/:id", h.setRequestStatus)

	// Assignments (employee side)
	router.GET("/employeeAssets", h.listAssignments)
	router.PATCH("/employeeAssets/return/:id", h.returnAsset)

	// Directory
	router.GET("/companies", h.listCompanies)
	router.GET("/employees", h.listEmployeesByEmail)
	router.GET("/users", h.listManagers)
	router.GET("/users/employee", h.listEmployees)
	router.POST("/em-users", h.registerEmployee)
	router.POST("/hr-users", h.registerManager)
	router.DELETE("/users/employee-team-delete/:id", h.deleteEmployee)

	// Packages and payments
	router.GET("/packages", h.listPackages)
	router.POST("/packages", h.addPackage)
	router.GET("/employee-package/:id", h.getPackage)
	router.GET("/payments", requireAuth(h.verifier), h.listPayments)
	router.POST("/payment-checkout-session", h.createCheckoutSession)
	router.PATCH("/payment-success", h.paymentSuccess)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps business errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err) || errors.Is(err, apperr.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInsufficientStock),
		errors.Is(err, apperr.ErrInvalidTransition),
		errors.Is(err, apperr.ErrNotReturnable),
		errors.Is(err, apperr.ErrPaymentIncomplete),
		errors.Is(err, apperr.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// listAssets handles GET /hrAssets
func (h *Handler) listAssets(c *gin.Context) {
	assets, err := h.inventory.ListAssets(c.Request.Context(), c.Query("searchText"), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

type addAssetRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	ProductType string `json:"product_type" binding:"required"`
	ProductURL  string `json:"product_url"`
	Quantity    int    `json:"quantity" binding:"min=0"`
	CompanyName string `json:"company_name" binding:"required"`
}

// addAsset handles POST /hrAssets
func (h *Handler) addAsset(c *gin.Context) {
	var req addAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	asset := &models.Asset{
		ProductName: req.ProductName,
		ProductType: req.ProductType,
		ProductURL:  req.ProductURL,
		Quantity:    req.Quantity,
		CompanyName: req.CompanyName,
	}
	if err := h.inventory.AddAsset(c.Request.Context(), asset); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// deleteAsset handles DELETE /hrAssets/:id
func (h *Handler) deleteAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.inventory.RemoveAsset(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// listRequests handles GET /requestAssets
func (h *Handler) listRequests(c *gin.Context) {
	requests, err := h.requests.ListRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

type submitRequestBody struct {
	EmployeeEmail string `json:"employee_email" binding:"required,email"`
	EmployeeName  string `json:"employee_name" binding:"required"`
	AssetID       int64  `json:"asset_id" binding:"required"`
	Note          string `json:"note"`
}

// submitRequest handles POST /requestAssets
func (h *Handler) submitRequest(c *gin.Context) {
	var body submitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := &models.AssetRequest{
		EmployeeEmail: body.EmployeeEmail,
		EmployeeName:  body.EmployeeName,
		AssetID:       body.AssetID,
		Note:          body.Note,
	}
	if err := h.requests.SubmitRequest(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

type setStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// setRequestStatus handles PATCH /requestAssets/:id
func (h *Handler) setRequestStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body setStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := h.requests.SetStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// listAssignments handles GET /employeeAssets
func (h *Handler) listAssignments(c *gin.Context) {
	assignments, err := h.assignments.List(c.Request.Context(), c.Query("searchText"), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// returnAsset handles PATCH /employeeAssets/return/:id
func (h *Handler) returnAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	assignment, err := h.assignments.Return(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}

// listCompanies handles GET /companies
func (h *Handler) listCompanies(c *gin.Context) {
	companies, err := h.directory.ListCompanies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// listEmployeesByEmail handles GET /employees
func (h *Handler) listEmployeesByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	employees, err := h.directory.ListEmployees(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// listEmployees handles GET /users/employee
func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.directory.ListEmployees(c.Request.Context(), "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// listManagers handles GET /users
func (h *Handler) listManagers(c *gin.Context) {
	managers, err := h.directory.ListManagers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, managers)
}

type registerEmployeeBody struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	DateOfBirth string `json:"date_of_birth"`
	PhotoURL    string `json:"photo_url"`
}

// registerEmployee handles POST /em-users
func (h *Handler) registerEmployee(c *gin.Context) {
	var body registerEmployeeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	emp := &models.Employee{
		Name:        body.Name,
		Email:       body.Email,
		DateOfBirth: body.DateOfBirth,
		PhotoURL:    body.PhotoURL,
		Role:        models.RoleEmployee,
	}
	if err := h.directory.RegisterEmployee(c.Request.Context(), emp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, emp)
}

type registerManagerBody struct {
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	CompanyLogo string `json:"company_logo"`
	Email       string `json:"email" binding:"required,email"`
	DateOfBirth string `json:"date_of_birth"`
}

// registerManager handles POST /hr-users
func (h *Handler) registerManager(c *gin.Context) {
	var body registerManagerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	mgr := &models.Manager{
		Name:        body.Name,
		CompanyName: body.CompanyName,
		CompanyLogo: body.CompanyLogo,
		Email:       body.Email,
		DateOfBirth: body.DateOfBirth,
		Role:        models.RoleHR,
	}
	if err := h.directory.RegisterManager(c.Request.Context(), mgr); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user_id": mgr.ID})
}

// deleteEmployee handles DELETE /users/employee-team-delete/:id
func (h *Handler) deleteEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.directory.RemoveEmployee(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// listPackages handles GET /packages
func (h *Handler) listPackages(c *gin.Context) {
	packages, err := h.payments.ListPackages(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

type addPackageBody struct {
	PackageName   string `json:"package_name" binding:"required"`
	EmployeeLimit int    `json:"employee_limit" binding:"required,min=1"`
	Price         int64  `json:"price" binding:"required,min=1"`
	Email         string `json:"email" binding:"required,email"`
}

// addPackage handles POST /packages
func (h *Handler) addPackage(c *gin.Context) {
	var body addPackageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields", "details": err.Error()})
		return
	}

	pkg := &models.Package{
		PackageName:   body.PackageName,
		EmployeeLimit: body.EmployeeLimit,
		Price:         body.Price,
		OwnerEmail:    body.Email,
	}
	if err := h.payments.AddPackage(c.Request.Context(), pkg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

// getPackage handles GET /employee-package/:id
func (h *Handler) getPackage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pkg, err := h.payments.GetPackage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// listPayments handles GET /payments. The caller may only read their own
// payment history.
func (h *Handler) listPayments(c *gin.Context) {
	email := c.Query("email")
	if email != "" && email != principalEmail(c) {
		respondError(c, apperr.ErrForbidden)
		return
	}

	payments, err := h.payments.ListPayments(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

type checkoutSessionBody struct {
	PackageID int64  `json:"package_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// createCheckoutSession handles POST /payment-checkout-session
func (h *Handler) createCheckoutSession(c *gin.Context) {
	var body checkoutSessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	url, err := h.payments.CreateCheckout(c.Request.Context(), body.PackageID, body.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// paymentSuccess handles PATCH /payment-success
func (h *Handler) paymentSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id missing"})
		return
	}

	result, err := h.payments.Reconcile(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Payment successful",
		"package_updated": result.PackageUpdated,
		"payment":         result.Payment,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

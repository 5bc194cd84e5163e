package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/forecast"
	"countcast-backend/internal/repository"
	"countcast-backend/internal/service"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
}

func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type snapshotRequest struct {
	SKU  string `json:"sku" binding:"required"`
	Date string `json:"date" binding:"required"`
	Qty  int    `json:"qty"`
}

type purchaseOrderRequest struct {
	SKU          string `json:"sku" binding:"required"`
	PONumber     string `json:"po_number"`
	OrderDate    string `json:"order_date" binding:"required"`
	Qty          int    `json:"qty" binding:"required"`
	ETA          string `json:"eta"`
	Received     bool   `json:"received"`
	ReceivedDate string `json:"received_date"`
	Vendor       string `json:"vendor"`
}

type receiptRequest struct {
	Received     bool   `json:"received"`
	ReceivedDate string `json:"received_date"`
}

type settingsRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	LeadTimeDays int     `json:"lead_time_days"`
	MinDays      int     `json:"min_days"`
	TargetMonths float64 `json:"target_months"`
}

// ListSnapshots returns every stored inventory count
func (h *InventoryHandler) ListSnapshots(c *gin.Context) {
	snapshots, err := h.inventoryService.ListSnapshots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch snapshots"})
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

// CreateSnapshot records a new physical count
func (h *InventoryHandler) CreateSnapshot(c *gin.Context) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date, ok := forecast.ParseDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	snapshot := &domain.Snapshot{
		SKU:  strings.TrimSpace(req.SKU),
		Date: date,
		Qty:  req.Qty,
	}
	if err := h.inventoryService.CreateSnapshot(c.Request.Context(), snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// DeleteSnapshot removes a count by id
func (h *InventoryHandler) DeleteSnapshot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteSnapshot(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "failed to delete snapshot")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPurchaseOrders returns every purchase order
func (h *InventoryHandler) ListPurchaseOrders(c *gin.Context) {
	orders, err := h.inventoryService.ListPurchaseOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch purchase orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreatePurchaseOrder records a new restock order
func (h *InventoryHandler) CreatePurchaseOrder(c *gin.Context) {
	var req purchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	orderDate, ok := forecast.ParseDate(req.OrderDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_date must be YYYY-MM-DD"})
		return
	}

	po := &domain.PurchaseOrder{
		SKU:       strings.TrimSpace(req.SKU),
		PONumber:  strings.TrimSpace(req.PONumber),
		OrderDate: orderDate,
		Qty:       req.Qty,
		Received:  req.Received,
		Vendor:    strings.TrimSpace(req.Vendor),
	}

	// Optional dates: an absent or malformed value stays unset, never day zero.
	if eta, ok := forecast.ParseDate(req.ETA); ok {
		po.ETA = eta
	}
	if req.Received {
		receivedDate, ok := forecast.ParseDate(req.ReceivedDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "received_date is required when received is true"})
			return
		}
		po.ReceivedDate = receivedDate
	}

	if err := h.inventoryService.CreatePurchaseOrder(c.Request.Context(), po); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, po)
}

// DeletePurchaseOrder removes an order by id
func (h *InventoryHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.inventoryService.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "failed to delete purchase order")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetReceipt toggles an order's received state
func (h *InventoryHandler) SetReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req receiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	receivedOn, dateOK := forecast.ParseDate(req.ReceivedDate)
	if req.Received && !dateOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "received_date is required when marking received"})
		return
	}

	po, err := h.inventoryService.SetReceipt(c.Request.Context(), id, req.Received, receivedOn)
	if err != nil {
		respondRepoError(c, err, "failed to update receipt")
		return
	}

	c.JSON(http.StatusOK, po)
}

// ListSettings returns every per-SKU replenishment policy
func (h *InventoryHandler) ListSettings(c *gin.Context) {
	settings, err := h.inventoryService.ListSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpsertSettings creates or replaces the policy for one SKU
func (h *InventoryHandler) UpsertSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	settings := &domain.SkuSettings{
		SKU:          strings.TrimSpace(req.SKU),
		LeadTimeDays: req.LeadTimeDays,
		MinDays:      req.MinDays,
		TargetMonths: req.TargetMonths,
	}
	if err := h.inventoryService.UpsertSettings(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondRepoError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

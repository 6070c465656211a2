package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bijuli-pos/internal/database"
	"bijuli-pos/internal/models"
	"bijuli-pos/internal/receipt"

	"github.com/gin-gonic/gin"
)

// OrderSummary is one row of the order history screen
type OrderSummary struct {
	ID           uint   `json:"id"`
	CustomerName string `json:"customer_name"`
	StaffName    string `json:"staff_name"`
	TotalAmount  string `json:"total_amount"`
	Status       string `json:"status"`
	OrderDate    string `json:"order_date"`
}

// --- GET: /api/orders --- newest first, with customer/staff names joined in
func GetOrders(c *gin.Context) {
	var summaries []OrderSummary

	err := database.DB.Table("orders").
		Select("orders.id, COALESCE(customers.name, '') as customer_name, COALESCE(users.username, '') as staff_name, orders.total_amount, orders.status, orders.order_date").
		Joins("LEFT JOIN customers ON orders.customer_id = customers.id").
		Joins("LEFT JOIN users ON orders.user_id = users.id").
		Order("orders.order_date DESC").
		Scan(&summaries).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// --- GET: /api/orders/:id/receipt ---
func GetReceipt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID"})
		return
	}

	view, err := assembler.Build(uint(id))
	if errors.Is(err, receipt.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build receipt"})
		return
	}

	c.JSON(http.StatusOK, view)
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- PUT: /api/orders/:id/status ---
// Orders are immutable after commit except for this one field, and only
// along pending -> paid -> shipped.
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Order ID"})
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change status from " + order.Status + " to " + req.Status})
		return
	}

	if err := database.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "order_id": order.ID, "status": req.Status})
}

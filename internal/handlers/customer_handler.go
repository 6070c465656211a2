package handlers

import (
	"net/http"
	"strconv"

	"bijuli-pos/internal/database"
	"bijuli-pos/internal/models"

	"github.com/gin-gonic/gin"
)

var customerTypes = map[string]bool{
	"Standard":  true,
	"Student":   true,
	"VIP":       true,
	"Corporate": true,
}

type CustomerInput struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	CustomerType string `json:"customer_type"`
}

// --- GET: List all customers (checkout page picks from these) ---
func GetCustomers(c *gin.Context) {
	var customers []models.Customer

	if err := database.DB.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// --- POST: Register a customer (quick-add from checkout or admin screen) ---
func AddCustomer(c *gin.Context) {
	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	cType := input.CustomerType
	if cType == "" {
		cType = "Standard"
	}
	if !customerTypes[cType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown customer type"})
		return
	}

	customer := models.Customer{
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		CustomerType: cType,
		// New customers always start at zero points
	}

	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// --- PUT: Update contact details / type ---
// Loyalty points are deliberately not editable here: only a committed order
// changes the balance.
func UpdateCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Customer ID"})
		return
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	if input.CustomerType != "" && !customerTypes[input.CustomerType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown customer type"})
		return
	}

	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.Email = input.Email
	if input.CustomerType != "" {
		customer.CustomerType = input.CustomerType
	}

	if err := database.DB.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully", "customer": customer})
}

// --- DELETE: Remove a customer. Their past orders keep a NULL customer ref. ---
func DeleteCustomer(c *gin.Context) {
	id := c.Param("id")

	if err := database.DB.Delete(&models.Customer{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

package handlers

import (
	"net/http"
	"time"

	"stocksnap/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StockHandler struct {
	DB *gorm.DB
}

// StockInput is shared by create and update so both paths validate the same
// way. Quantity is a pointer so zero survives the required check.
type StockInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required,gte=0"`
	Company  string `json:"company" binding:"required"`
}

func (h *StockHandler) List(c *gin.Context) {
	var stocks []models.Stock
	if err := h.DB.Order("id").Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stock information."})
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func (h *StockHandler) Create(c *gin.Context) {
	var input StockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, quantity, and company are required."})
		return
	}

	stock := models.Stock{
		Name:      input.Name,
		Quantity:  *input.Quantity,
		Company:   input.Company,
		DateAdded: time.Now(),
	}

	tx := h.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&stock).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add stock. Please try again later."})
		return
	}
	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{"message": "Stock added successfully.", "id": stock.ID})
}

func (h *StockHandler) Update(c *gin.Context) {
	stockID := c.Param("id")

	var input StockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, quantity, and company are required."})
		return
	}

	var existing models.Stock
	if err := h.DB.Where("id = ?", stockID).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found."})
		return
	}

	tx := h.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Map form so a zero quantity is written rather than skipped.
	updates := map[string]interface{}{
		"name":     input.Name,
		"quantity": *input.Quantity,
		"company":  input.Company,
	}

	if err := tx.Model(&existing).Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock information."})
		return
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully."})
}

func (h *StockHandler) Delete(c *gin.Context) {
	stockID := c.Param("id")

	var stock models.Stock
	if err := h.DB.Where("id = ?", stockID).First(&stock).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found."})
		return
	}

	tx := h.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&stock).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stock."})
		return
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Stock deleted successfully."})
}

package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"valentino-backend/models"
	"valentino-backend/services"
	"valentino-backend/utils"
)

// CheckoutInput starts a checkout for a single product
type CheckoutInput struct {
	ProductID     uint    `json:"productId"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerName  *string `json:"customerName"`
}

// ProductInput is shared by product create and update. Price arrives in
// dollars and is stored as integer cents.
type ProductInput struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Active      *bool    `json:"active"`
	InStock     *bool    `json:"in_stock"`
}

// productResponse overrides the stored cent price with its dollar value.
type productResponse struct {
	models.Product
	Price float64 `json:"price"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{Product: p, Price: utils.CentsToDollars(p.Price)}
}

type orderRow struct {
	models.Order
	ProductName  string  `json:"product_name"`
	ProductImage *string `json:"product_image"`
}

type orderResponse struct {
	orderRow
	Amount float64 `json:"amount"`
}

type StoreController struct {
	DB       *gorm.DB
	Payments services.PaymentProvider
}

func NewStoreController(db *gorm.DB, payments services.PaymentProvider) *StoreController {
	return &StoreController{DB: db, Payments: payments}
}

// ListProducts returns active products, newest first. Public.
func (ctl *StoreController) ListProducts(c *gin.Context) {
	var products []models.Product
	if err := ctl.DB.Where("active = ?", true).Order("created_at DESC").Find(&products).Error; err != nil {
		log.Printf("Error fetching products: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}
	c.JSON(http.StatusOK, responses)
}

// GetProduct returns one active product. Public.
func (ctl *StoreController) GetProduct(c *gin.Context) {
	var product models.Product
	err := ctl.DB.Where("id = ? AND active = ?", c.Param("id"), true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			log.Printf("Error fetching product: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Checkout creates a checkout session for an in-stock product and records
// a pending order with the product's current price. Public.
func (ctl *StoreController) Checkout(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == 0 || input.CustomerEmail == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Product ID and customer email are required")
		return
	}

	var product models.Product
	err := ctl.DB.Where("id = ? AND active = ? AND in_stock = ?", input.ProductID, true, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found or out of stock")
		} else {
			log.Printf("Error fetching product: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}

	customerName := ""
	if input.CustomerName != nil {
		customerName = *input.CustomerName
	}
	session, err := ctl.Payments.CreateCheckoutSession(&product, input.CustomerEmail, customerName)
	if err != nil {
		log.Printf("Error creating checkout: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	order := models.Order{
		ProductID:       product.ID,
		StripeSessionID: session.SessionID,
		CustomerEmail:   input.CustomerEmail,
		CustomerName:    input.CustomerName,
		Amount:          product.Price,
		Status:          models.OrderPending,
	}
	if err := ctl.DB.Create(&order).Error; err != nil {
		log.Printf("Error creating order: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.SessionID,
		"url":       session.RedirectURL,
		"mock":      !ctl.Payments.Enabled(),
	})
}

// Webhook applies payment-provider events to orders. Trusted via the
// provider's signature check; a no-op acknowledgment when payments are
// disabled.
func (ctl *StoreController) Webhook(c *gin.Context) {
	if !ctl.Payments.Enabled() {
		log.Println("[MOCK] Webhook received (payments disabled)")
		c.JSON(http.StatusOK, gin.H{"received": true, "mock": true})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read webhook payload")
		return
	}

	event, err := ctl.Payments.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		utils.RespondWithError(c, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	// Record the event first; a replayed delivery is acknowledged without
	// touching the order again.
	record := models.WebhookEvent{
		EventID:   event.ID,
		EventType: event.Type,
		Payload:   datatypes.JSON(event.Raw),
	}
	if err := ctl.DB.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
			return
		}
		log.Printf("Error recording webhook event: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to process webhook")
		return
	}

	switch event.Type {
	case services.EventCheckoutCompleted:
		updates := map[string]interface{}{"status": models.OrderCompleted}
		if event.PaymentIntentID != "" {
			updates["stripe_payment_intent_id"] = event.PaymentIntentID
		}
		if err := ctl.DB.Model(&models.Order{}).
			Where("stripe_session_id = ?", event.SessionID).
			Updates(updates).Error; err != nil {
			log.Printf("Error updating order for session %s: %v", event.SessionID, err)
		}
	case services.EventAsyncPaymentFailed:
		if err := ctl.DB.Model(&models.Order{}).
			Where("stripe_session_id = ?", event.SessionID).
			Update("status", models.OrderFailed).Error; err != nil {
			log.Printf("Error updating order for session %s: %v", event.SessionID, err)
		}
	}

	now := time.Now()
	if err := ctl.DB.Model(&record).Update("processed_at", &now).Error; err != nil {
		log.Printf("Error marking webhook event processed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// AdminListProducts returns every product, inactive included. Admin only.
func (ctl *StoreController) AdminListProducts(c *gin.Context) {
	var products []models.Product
	if err := ctl.DB.Order("created_at DESC").Find(&products).Error; err != nil {
		log.Printf("Error fetching products: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}
	c.JSON(http.StatusOK, responses)
}

// AdminGetProduct returns one product regardless of visibility. Admin only.
func (ctl *StoreController) AdminGetProduct(c *gin.Context) {
	var product models.Product
	if err := ctl.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			log.Printf("Error fetching product: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch product")
		}
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// CreateProduct adds a catalog entry. Admin only.
func (ctl *StoreController) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" || input.Price == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Name and price are required")
		return
	}
	if *input.Price < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
		return
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       utils.DollarsToCents(*input.Price),
		ImageURL:    input.ImageURL,
		Active:      true,
		InStock:     true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if err := ctl.DB.Create(&product).Error; err != nil {
		log.Printf("Error creating product: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// UpdateProduct overwrites a catalog entry. Admin only.
func (ctl *StoreController) UpdateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" || input.Price == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Name and price are required")
		return
	}
	if *input.Price < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
		return
	}

	active, inStock := true, true
	if input.Active != nil {
		active = *input.Active
	}
	if input.InStock != nil {
		inStock = *input.InStock
	}

	result := ctl.DB.Model(&models.Product{}).
		Where("id = ?", c.Param("id")).
		Updates(map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"price":       utils.DollarsToCents(*input.Price),
			"image_url":   input.ImageURL,
			"active":      active,
			"in_stock":    inStock,
		})
	if result.Error != nil {
		log.Printf("Error updating product: %v", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	var product models.Product
	if err := ctl.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		log.Printf("Error fetching updated product: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// DeleteProduct removes a catalog entry. Admin only.
func (ctl *StoreController) DeleteProduct(c *gin.Context) {
	result := ctl.DB.Where("id = ?", c.Param("id")).Delete(&models.Product{})
	if result.Error != nil {
		log.Printf("Error deleting product: %v", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ListOrders returns all orders joined with product name and image,
// newest first. Admin only.
func (ctl *StoreController) ListOrders(c *gin.Context) {
	var rows []orderRow
	err := ctl.DB.Table("orders").
		Select("orders.*, products.name AS product_name, products.image_url AS product_image").
		Joins("JOIN products ON orders.product_id = products.id").
		Order("orders.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error fetching orders: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	responses := make([]orderResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, orderResponse{orderRow: row, Amount: utils.CentsToDollars(row.Amount)})
	}
	c.JSON(http.StatusOK, responses)
}

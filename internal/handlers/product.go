package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/example/kethai/internal/middleware"
	"github.com/example/kethai/internal/models"
	"github.com/example/kethai/internal/utils"
)

// ProductStore is the persistence surface for product CRUD.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, farmerID *uuid.UUID, limit, offset int) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FarmerFinder resolves the owning farmer of new listings.
type FarmerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
}

// ProductHandler manages product CRUD. Ownership is always resolved through
// the session token's identity id claim.
type ProductHandler struct {
	products ProductStore
	farmers  FarmerFinder
	validate *utils.RequestValidator
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(products ProductStore, farmers FarmerFinder, validate *utils.RequestValidator) *ProductHandler {
	return &ProductHandler{products: products, farmers: farmers, validate: validate}
}

type productCreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// CreateProduct adds a listing owned by the authenticated farmer.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	farmerID, ok := middleware.GetCurrentIdentityID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req productCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	farmer, err := h.farmers.FindByID(c.Context(), farmerID)
	if err != nil {
		return err
	}
	if farmer.Kind != models.KindFarmer {
		return models.ErrIdentityNotFound
	}

	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      pq.StringArray(req.Images),
		FarmerID:    farmer.ID,
	}
	if err := h.products.Create(c.Context(), &product); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetProduct returns a single listing.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.products.FindByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(product)
}

// ListProducts returns paginated listings, optionally for one farmer.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var farmerID *uuid.UUID
	if v := c.Query("farmer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid farmer_id")
		}
		farmerID = &id
	}

	products, total, err := h.products.List(c.Context(), farmerID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type productUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Images      []string `json:"images"`
}

// UpdateProduct applies partial changes to an owned listing.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	farmerID, ok := middleware.GetCurrentIdentityID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req productUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	product, err := h.products.FindByID(c.Context(), id)
	if err != nil {
		return err
	}
	if product.FarmerID != farmerID {
		return models.ErrForbidden
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must be greater than 0")
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Images != nil {
		product.Images = pq.StringArray(req.Images)
	}

	if err := h.products.Update(c.Context(), product); err != nil {
		return err
	}

	return c.JSON(product)
}

// DeleteProduct removes an owned listing.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	farmerID, ok := middleware.GetCurrentIdentityID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.products.FindByID(c.Context(), id)
	if err != nil {
		return err
	}
	if product.FarmerID != farmerID {
		return models.ErrForbidden
	}

	if err := h.products.Delete(c.Context(), product.ID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

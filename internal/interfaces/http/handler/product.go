package handler

import (
	"context"

	catalogapp "github.com/dripnest/storefront/internal/application/catalog"
	identityapp "github.com/dripnest/storefront/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const productNotFound = "Product not found"

// ProfileReader looks up the reviewer's display name
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error)
}

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService ProductService
	profiles       ProfileReader
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService, profiles ProfileReader) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		profiles:       profiles,
	}
}

// List godoc
// @Summary      List products
// @Description  Paginated list of active products
// @Tags         products
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(12)
// @Param        category query string false "Category"
// @Param        search query string false "Search in name, description and tags"
// @Param        minPrice query number false "Minimum price"
// @Param        maxPrice query number false "Maximum price"
// @Param        sortBy query string false "Sort field" Enums(createdAt, price, rating, name)
// @Param        sortOrder query string false "Sort order" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Failure      500 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	q := catalogapp.ProductListQuery{
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		MinPrice:  queryDecimal(c, "minPrice"),
		MaxPrice:  queryDecimal(c, "maxPrice"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	result, err := h.productService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, result.Products, result.Pagination)
}

// Featured godoc
// @Summary      Featured products
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products/featured [get]
func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.productService.Featured(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", productNotFound)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Create godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Description  Partial update; omitted fields keep their values
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", productNotFound)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", productNotFound)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Message(c, "Product deleted successfully")
}

// AddReview godoc
// @Summary      Review a product
// @Description  One review per user; the product rating is recomputed
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.AddReviewRequest true "Review"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/reviews [post]
func (h *ProductHandler) AddReview(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", productNotFound)
	if !ok {
		return
	}
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req catalogapp.AddReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	profile, err := h.profiles.GetProfile(ctx, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := h.productService.AddReview(ctx, id, userID, profile.Name, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// CreateImageUploadURL godoc
// @Summary      Presign a product image upload
// @Description  Returns a short-lived PUT URL for the object store and the public URL of the image
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ImageUploadRequest true "Image"
// @Success      200 {object} dto.Response{data=catalogapp.ImageUploadResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/images/upload-url [post]
func (h *ProductHandler) CreateImageUploadURL(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id", productNotFound)
	if !ok {
		return
	}
	var req catalogapp.ImageUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	upload, err := h.productService.CreateImageUploadURL(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

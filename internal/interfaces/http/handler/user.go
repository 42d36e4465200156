package handler

import (
	identityapp "github.com/dripnest/storefront/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the signed-in user's profile, address book and wishlist
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile godoc
// @Summary      Get my profile
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateProfile godoc
// @Summary      Update my profile
// @Description  Sending addresses replaces the whole address book
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile changes"
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// AddAddress godoc
// @Summary      Add an address
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.AddressRequest true "Address"
// @Success      201 {object} dto.Response{data=[]identityapp.AddressResponse}
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/addresses [post]
func (h *UserHandler) AddAddress(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req identityapp.AddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	addresses, err := h.userService.AddAddress(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, addresses)
}

// UpdateAddress godoc
// @Summary      Update an address
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Param        request body identityapp.UpdateAddressRequest true "Changes"
// @Success      200 {object} dto.Response{data=[]identityapp.AddressResponse}
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/addresses/{id} [put]
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.ParamUUID(c, "id", "Address not found")
	if !ok {
		return
	}
	var req identityapp.UpdateAddressRequest
	if !h.BindJSON(c, &req) {
		return
	}

	addresses, err := h.userService.UpdateAddress(c.Request.Context(), userID, addressID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addresses)
}

// DeleteAddress godoc
// @Summary      Delete an address
// @Tags         users
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]identityapp.AddressResponse}
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/addresses/{id} [delete]
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.ParamUUID(c, "id", "Address not found")
	if !ok {
		return
	}

	addresses, err := h.userService.DeleteAddress(c.Request.Context(), userID, addressID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addresses)
}

// AddToWishlist godoc
// @Summary      Add a product to my wishlist
// @Tags         users
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]identityapp.WishlistItemResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/wishlist/{productId} [post]
func (h *UserHandler) AddToWishlist(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.ParamUUID(c, "productId", productNotFound)
	if !ok {
		return
	}

	items, err := h.userService.AddToWishlist(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// RemoveFromWishlist godoc
// @Summary      Remove a product from my wishlist
// @Tags         users
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]identityapp.WishlistItemResponse}
// @Security     BearerAuth
// @Router       /users/wishlist/{productId} [delete]
func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	productID, ok := h.ParamUUID(c, "productId", productNotFound)
	if !ok {
		return
	}

	items, err := h.userService.RemoveFromWishlist(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// GetWishlist godoc
// @Summary      Get my wishlist
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identityapp.WishlistItemResponse}
// @Security     BearerAuth
// @Router       /users/wishlist [get]
func (h *UserHandler) GetWishlist(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	items, err := h.userService.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

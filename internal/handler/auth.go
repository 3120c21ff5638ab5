package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opentrees/api/internal/geocode"
	"opentrees/api/internal/middleware"
	"opentrees/api/internal/model"
	"opentrees/api/internal/service"
)

// AuthHandler handles registration, login and identity requests.
type AuthHandler struct {
	authService *service.AuthService
	geocoder    geocode.Geocoder
}

// NewAuthHandler creates a new auth handler. The geocoder backs the
// diagnostic lookup endpoint.
func NewAuthHandler(authService *service.AuthService, geocoder geocode.Geocoder) *AuthHandler {
	return &AuthHandler{authService: authService, geocoder: geocoder}
}

// Register creates a user account
// @Summary Self-registration
// @Description Register an account; the role is always "user"
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body model.RegisterRequest true "Credentials"
// @Success 201 {object} model.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Self-registration never honors a caller-chosen role.
	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, model.RoleUser)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// AdminRegister creates an account with an explicit role
// @Summary Admin registration
// @Description Create an account with a caller-specified role
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body model.RegisterRequest true "Credentials and role"
// @Success 201 {object} model.User
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/register [post]
func (h *AuthHandler) AdminRegister(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login issues a session token
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body model.LoginRequest true "Credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: *user})
}

// Me echoes the authenticated identity
// @Summary Identity echo
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /protected [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":  c.GetUint(middleware.CtxUserID),
		"username": c.GetString(middleware.CtxUsername),
		"role":     c.GetString(middleware.CtxRole),
	})
}

// TestGeocode resolves an address without touching the store
// @Summary Geocoder diagnostic
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Param address body object true "Address"
// @Success 200 {object} map[string]float64
// @Failure 404 {object} map[string]string
// @Router /test_geocode [post]
func (h *AuthHandler) TestGeocode(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lat, lon, err := h.geocoder.Geocode(c.Request.Context(), req.Address)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"latitude": lat, "longitude": lon})
}

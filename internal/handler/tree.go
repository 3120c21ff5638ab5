package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"opentrees/api/internal/model"
	"opentrees/api/internal/service"
)

// TreeHandler handles tree record requests.
type TreeHandler struct {
	treeService   *service.TreeService
	exportService *service.ExportService
}

// NewTreeHandler creates a new tree handler.
func NewTreeHandler(treeService *service.TreeService, exportService *service.ExportService) *TreeHandler {
	return &TreeHandler{treeService: treeService, exportService: exportService}
}

// Create creates a new tree record
// @Summary Add tree
// @Description Create a tree record, geocoding the address when coordinates are absent
// @Tags Trees
// @Accept json
// @Produce json
// @Param tree body model.CreateTreeRequest true "Tree data"
// @Success 201 {object} model.Tree
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /add_tree [post]
func (h *TreeHandler) Create(c *gin.Context) {
	var req model.CreateTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tree, err := h.treeService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tree)
}

// Update applies a partial update
// @Summary Update tree
// @Description Update the mutable fields of a tree record
// @Tags Trees
// @Accept json
// @Produce json
// @Param id path int true "Tree ID"
// @Param fields body model.UpdateTreeRequest true "Fields to change"
// @Success 200 {object} model.Tree
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tree/{id} [patch]
func (h *TreeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req model.UpdateTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tree, err := h.treeService.Update(c.Request.Context(), uint(id), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// Get returns a tree by system id
// @Summary Get tree
// @Tags Trees
// @Produce json
// @Param id path int true "Tree ID"
// @Success 200 {object} model.Tree
// @Failure 404 {object} map[string]string
// @Router /tree/{id} [get]
func (h *TreeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	tree, err := h.treeService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// GetByCustomID returns a tree by caller-assigned id
// @Summary Get tree by custom id
// @Tags Trees
// @Produce json
// @Param custom_id path string true "Custom ID"
// @Success 200 {object} model.Tree
// @Failure 404 {object} map[string]string
// @Router /tree/custom/{custom_id} [get]
func (h *TreeHandler) GetByCustomID(c *gin.Context) {
	tree, err := h.treeService.GetByCustomID(c.Request.Context(), c.Param("custom_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// List returns trees matching the optional filters
// @Summary List trees
// @Description Filter by case-insensitive substring on city and address, or by exact condition
// @Tags Trees
// @Produce json
// @Param city query string false "City substring"
// @Param address query string false "Address substring"
// @Param condition query string false "Exact condition"
// @Success 200 {array} model.Tree
// @Router /trees [get]
func (h *TreeHandler) List(c *gin.Context) {
	filter := model.TreeFilter{
		City:      c.Query("city"),
		Address:   c.Query("address"),
		Condition: c.Query("condition"),
	}

	trees, err := h.treeService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trees)
}

// Delete removes a tree record
// @Summary Delete tree
// @Tags Trees
// @Produce json
// @Param id path int true "Tree ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tree/{id} [delete]
func (h *TreeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.treeService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("tree %d deleted", id)})
}

// Cities returns the distinct city list
// @Summary List cities
// @Tags Trees
// @Produce json
// @Success 200 {array} string
// @Router /cities [get]
func (h *TreeHandler) Cities(c *gin.Context) {
	cities, err := h.treeService.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cities)
}

// Streets returns the distinct addresses for a city
// @Summary List streets
// @Tags Trees
// @Produce json
// @Param city path string true "City"
// @Success 200 {array} string
// @Router /streets/{city} [get]
func (h *TreeHandler) Streets(c *gin.Context) {
	streets, err := h.treeService.Streets(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, streets)
}

// Export downloads the inventory as a spreadsheet
// @Summary Export inventory
// @Tags Trees
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /export [get]
func (h *TreeHandler) Export(c *gin.Context) {
	buf, err := h.exportService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("trees_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

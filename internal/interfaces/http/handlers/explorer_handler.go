package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/rxndb-explorer/internal/application/explorer"
)

// ExplorerHandler serves the reaction-database query API.
type ExplorerHandler struct {
	svc *explorer.Service
}

// NewExplorerHandler builds the handler.
func NewExplorerHandler(svc *explorer.Service) *ExplorerHandler {
	return &ExplorerHandler{svc: svc}
}

// FilterRequest is the body of the filter and find-similar endpoints.  The
// filter endpoint also accepts it as query parameters on GET.
type FilterRequest struct {
	explorer.FilterQuery
	// Annotate augments every row with its similarity group and color.
	Annotate bool `json:"annotate,omitempty" form:"annotate"`
}

func bindFilterRequest(c *gin.Context, req *FilterRequest) error {
	if c.Request.Method == http.MethodGet {
		return c.ShouldBindQuery(req)
	}
	return c.ShouldBindJSON(req)
}

// PhasesResponse lists the selectable phases.
type PhasesResponse struct {
	Phases  []string `json:"phases"`
	Initial []string `json:"initial"`
}

// Phases handles GET /api/v1/phases.
func (h *ExplorerHandler) Phases(c *gin.Context) {
	c.JSON(http.StatusOK, PhasesResponse{
		Phases:  h.svc.Phases(c.Request.Context()),
		Initial: h.svc.InitialPhases(c.Request.Context()),
	})
}

// Filter handles GET and POST /api/v1/reactions.
func (h *ExplorerHandler) Filter(c *gin.Context) {
	var req FilterRequest
	if err := bindFilterRequest(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Annotate {
		rows, err := h.svc.Annotated(ctx, req.FilterQuery)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reactions": rows, "count": len(rows)})
		return
	}

	rows, err := h.svc.Filter(ctx, req.FilterQuery)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": rows, "count": len(rows)})
}

// FindSimilar handles POST /api/v1/reactions/similar.
func (h *ExplorerHandler) FindSimilar(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	rows, err := h.svc.FindSimilar(c.Request.Context(), req.FilterQuery)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": rows, "count": len(rows)})
}

// Midpoints handles GET /api/v1/reactions/midpoints.
func (h *ExplorerHandler) Midpoints(c *gin.Context) {
	ids := c.QueryArray("id")
	mps := h.svc.Midpoints(c.Request.Context(), ids)
	c.JSON(http.StatusOK, gin.H{"midpoints": mps, "count": len(mps)})
}

// Groups handles GET /api/v1/groups.
func (h *ExplorerHandler) Groups(c *gin.Context) {
	groups, err := h.svc.Groups(c.Request.Context(), c.Query("method"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

// Reload handles POST /api/v1/reload.
func (h *ExplorerHandler) Reload(c *gin.Context) {
	if err := h.svc.Reload(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "reloaded",
		"rows":   len(h.svc.Rows(c.Request.Context())),
	})
}

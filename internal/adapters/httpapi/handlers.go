package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/logger"
	"github.com/example/fta/internal/ports/primary"
	"github.com/example/fta/internal/version"
)

// Handlers serves the investigation and fault tree endpoints.
type Handlers struct {
	investigations primary.InvestigationService
	trees          primary.FaultTreeService
	log            *logger.Logger
}

// NewHandlers creates handlers over the two primary services.
func NewHandlers(investigations primary.InvestigationService, trees primary.FaultTreeService, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handlers{
		investigations: investigations,
		trees:          trees,
		log:            log,
	}
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.ShortCommit()})
}

// HandleListInvestigations handles GET /v1/investigations.
//
// Query parameters: on_hold (bool), limit (int).
func (h *Handlers) HandleListInvestigations(c *gin.Context) {
	log := requestLogger(c, h.log)

	filters := primary.InvestigationFilters{}
	if v := c.Query("on_hold"); v != "" {
		onHold, err := strconv.ParseBool(v)
		if err != nil {
			writeBindError(c, log, err)
			return
		}
		filters.OnHold = onHold
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeBindError(c, log, fmt.Errorf("limit must be a non-negative integer, got %q", v))
			return
		}
		filters.Limit = limit
	}

	investigations, err := h.investigations.ListInvestigations(c.Request.Context(), filters)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investigations": investigations})
}

// HandleCreateInvestigation handles POST /v1/investigations.
func (h *Handlers) HandleCreateInvestigation(c *gin.Context) {
	log := requestLogger(c, h.log)

	var req primary.CreateInvestigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}

	resp, err := h.investigations.CreateInvestigation(c.Request.Context(), req)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// HandleGetInvestigation handles GET /v1/investigations/:id.
func (h *Handlers) HandleGetInvestigation(c *gin.Context) {
	inv, err := h.investigations.GetInvestigation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, requestLogger(c, h.log), err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// HandleCheckIntegrity handles POST /v1/investigations/:id/check.
func (h *Handlers) HandleCheckIntegrity(c *gin.Context) {
	report, err := h.investigations.CheckIntegrity(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, requestLogger(c, h.log), err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleAuditLog handles GET /v1/investigations/:id/audit.
func (h *Handlers) HandleAuditLog(c *gin.Context) {
	log := requestLogger(c, h.log)

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBindError(c, log, err)
			return
		}
		limit = n
	}

	entries, err := h.investigations.GetAuditLog(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// HandleGetTree handles GET /v1/investigations/:id/tree.
//
// Responds with the numbered tree contract. An investigation with no root
// yet is 404 with code NO_ROOT.
func (h *Handlers) HandleGetTree(c *gin.Context) {
	view, err := h.trees.GetTree(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, requestLogger(c, h.log), err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleCreateNode handles POST /v1/investigations/:id/nodes.
func (h *Handlers) HandleCreateNode(c *gin.Context) {
	log := requestLogger(c, h.log)

	var req primary.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}
	req.InvestigationID = c.Param("id")

	resp, err := h.trees.CreateNode(c.Request.Context(), req)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// HandleGetNode handles GET /v1/nodes/:id.
func (h *Handlers) HandleGetNode(c *gin.Context) {
	node, err := h.trees.GetNode(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, requestLogger(c, h.log), err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// HandleDeleteNode handles DELETE /v1/nodes/:id.
func (h *Handlers) HandleDeleteNode(c *gin.Context) {
	resp, err := h.trees.DeleteNode(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, requestLogger(c, h.log), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTransitionStatus handles POST /v1/nodes/:id/status.
func (h *Handlers) HandleTransitionStatus(c *gin.Context) {
	log := requestLogger(c, h.log)

	var req primary.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}
	req.NodeID = c.Param("id")

	resp, err := h.trees.TransitionStatus(c.Request.Context(), req)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleLinkClassification handles PUT /v1/nodes/:id/classification.
func (h *Handlers) HandleLinkClassification(c *gin.Context) {
	log := requestLogger(c, h.log)

	var req primary.LinkClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}
	req.NodeID = c.Param("id")

	if err := h.trees.LinkClassification(c.Request.Context(), req); err != nil {
		writeError(c, log, err)
		return
	}
	h.respondNode(c, req.NodeID)
}

// HandleSetCauseRole handles PUT /v1/nodes/:id/role.
func (h *Handlers) HandleSetCauseRole(c *gin.Context) {
	log := requestLogger(c, h.log)

	var body SetCauseRoleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, log, err)
		return
	}
	role, err := roleFromBody(body)
	if err != nil {
		writeError(c, log, err)
		return
	}
	req := primary.SetCauseRoleRequest{NodeID: c.Param("id"), Role: role}

	if err := h.trees.SetCauseRole(c.Request.Context(), req); err != nil {
		writeError(c, log, err)
		return
	}
	h.respondNode(c, req.NodeID)
}

// roleFromBody resolves the requested role. The flags map through
// faulttree.RoleFromFlags; mixing them with role is rejected.
func roleFromBody(body SetCauseRoleBody) (string, error) {
	hasFlags := body.IsBasicCause != nil || body.IsContributingCause != nil
	if !hasFlags {
		return body.Role, nil
	}
	if body.Role != "" {
		return "", &faulttree.ValidationError{
			Rule:    faulttree.RuleInvalidRequest,
			Message: "send either role or the cause flags, not both",
		}
	}
	role, err := faulttree.RoleFromFlags(
		body.IsBasicCause != nil && *body.IsBasicCause,
		body.IsContributingCause != nil && *body.IsContributingCause,
	)
	if err != nil {
		return "", err
	}
	return string(role), nil
}

// HandleSetRecommendation handles PUT /v1/nodes/:id/recommendation.
func (h *Handlers) HandleSetRecommendation(c *gin.Context) {
	log := requestLogger(c, h.log)

	var req primary.SetRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}
	req.NodeID = c.Param("id")

	if err := h.trees.SetRecommendation(c.Request.Context(), req); err != nil {
		writeError(c, log, err)
		return
	}
	h.respondNode(c, req.NodeID)
}

// HandleUpdateLabel handles PUT /v1/nodes/:id/label.
func (h *Handlers) HandleUpdateLabel(c *gin.Context) {
	log := requestLogger(c, h.log)

	var req primary.UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}
	req.NodeID = c.Param("id")

	if err := h.trees.UpdateLabel(c.Request.Context(), req); err != nil {
		writeError(c, log, err)
		return
	}
	h.respondNode(c, req.NodeID)
}

// HandleMoveNode handles POST /v1/nodes/:id/move.
func (h *Handlers) HandleMoveNode(c *gin.Context) {
	log := requestLogger(c, h.log)

	var req primary.MoveNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}
	req.NodeID = c.Param("id")

	if err := h.trees.MoveNode(c.Request.Context(), req); err != nil {
		writeError(c, log, err)
		return
	}
	h.respondNode(c, req.NodeID)
}

// respondNode answers a successful edit with the node's current state.
func (h *Handlers) respondNode(c *gin.Context, nodeID string) {
	node, err := h.trees.GetNode(c.Request.Context(), nodeID)
	if err != nil {
		writeError(c, requestLogger(c, h.log), err)
		return
	}
	c.JSON(http.StatusOK, node)
}

package handler

import (
	"strconv"
	"time"

	"stack-settlement/internal/adapter/http/dto"
	"stack-settlement/internal/adapter/http/middleware"
	"stack-settlement/internal/core/ports"
	"stack-settlement/pkg/apperror"
	"stack-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// RewardHandler handles milestone reward endpoints.
type RewardHandler struct {
	rewardSvc ports.RewardService
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewardSvc ports.RewardService) *RewardHandler {
	return &RewardHandler{rewardSvc: rewardSvc}
}

// List handles GET /api/v1/rewards.
func (h *RewardHandler) List(c *gin.Context) {
	views, err := h.rewardSvc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.RewardResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toRewardResponse(v))
	}
	response.OK(c, out)
}

// Balance handles GET /api/v1/rewards/balance.
func (h *RewardHandler) Balance(c *gin.Context) {
	bal, err := h.rewardSvc.Balance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RewardBalanceResponse{Balance: bal})
}

// Claim handles POST /api/v1/rewards/:id/claim.
func (h *RewardHandler) Claim(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperror.Validation("reward id must be a positive integer"))
		return
	}

	view, err := h.rewardSvc.Claim(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toRewardResponse(*view))
}

// GrantMilestones handles POST /api/v1/internal/rewards/milestones.
func (h *RewardHandler) GrantMilestones(c *gin.Context) {
	var req dto.GrantMilestonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	c.Set(middleware.CtxAuditResource, req.UserID)

	granted, err := h.rewardSvc.GrantMilestones(c.Request.Context(), req.UserID, req.MilestoneIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.GrantMilestonesResponse{Granted: granted})
}

func toRewardResponse(v ports.RewardView) dto.RewardResponse {
	resp := dto.RewardResponse{
		ID:          v.ID,
		MilestoneID: v.MilestoneID,
		Amount:      v.AmountDisplay,
		AmountRaw:   v.AmountRaw,
		Status:      string(v.Status),
		TxSignature: v.TxSignature,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
	}
	if v.ClaimedAt != nil {
		s := v.ClaimedAt.Format(time.RFC3339)
		resp.ClaimedAt = &s
	}
	return resp
}

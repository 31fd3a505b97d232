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

// BurnHandler handles token burn endpoints.
type BurnHandler struct {
	settlementSvc ports.SettlementService
}

// NewBurnHandler creates a new BurnHandler.
func NewBurnHandler(settlementSvc ports.SettlementService) *BurnHandler {
	return &BurnHandler{settlementSvc: settlementSvc}
}

// Upgrades handles GET /api/v1/burn/upgrades.
func (h *BurnHandler) Upgrades(c *gin.Context) {
	views := h.settlementSvc.Upgrades()
	out := make([]dto.UpgradeResponse, 0, len(views))
	for _, u := range views {
		out = append(out, dto.UpgradeResponse{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Icon:        u.Icon,
			Cost:        u.DisplayCost,
			CostRaw:     u.Cost,
			EffectType:  string(u.Effect.Type),
			EffectValue: u.Effect.Value,
		})
	}
	response.OK(c, out)
}

// Leaderboard handles GET /api/v1/burn/leaderboard.
func (h *BurnHandler) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, apperror.Validation("limit must be an integer"))
			return
		}
		limit = n
	}

	entries, err := h.settlementSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.LeaderboardEntryResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, dto.LeaderboardEntryResponse{
			Rank:           i + 1,
			UserID:         e.UserID,
			TotalBurned:    e.TotalBurnedDisplay,
			TotalBurnedRaw: e.TotalBurnedRaw,
		})
	}
	response.OK(c, out)
}

// Purchased handles GET /api/v1/burn/purchased.
func (h *BurnHandler) Purchased(c *gin.Context) {
	ids, err := h.settlementSvc.Purchased(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"purchased": ids})
}

// SpendableBalance handles GET /api/v1/burn/spendable-balance.
func (h *BurnHandler) SpendableBalance(c *gin.Context) {
	bal, err := h.settlementSvc.SpendableBalance(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SpendableBalanceResponse{
		Spendable:      bal.SpendableDisplay,
		SpendableRaw:   strconv.FormatUint(bal.SpendableRaw, 10),
		TotalBurned:    bal.TotalBurnedDisplay,
		TotalBurnedRaw: bal.TotalBurnedRaw,
	})
}

// FuelCell handles GET /api/v1/burn/fuel-cell.
func (h *BurnHandler) FuelCell(c *gin.Context) {
	info, err := h.settlementSvc.FuelCellInfo(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FuelCellResponse{
		ID:             info.ID,
		Name:           info.Name,
		Description:    info.Description,
		Icon:           info.Icon,
		TimesPurchased: info.TimesPurchased,
		Cost:           info.DisplayCost,
		CostRaw:        info.Cost,
	})
}

// Prepare handles POST /api/v1/burn/prepare.
func (h *BurnHandler) Prepare(c *gin.Context) {
	var req dto.PrepareBurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	c.Set(middleware.CtxAuditResource, req.ItemID)

	result, err := h.settlementSvc.Prepare(c.Request.Context(), middleware.UserID(c), req.ItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	pending := result.PendingSigners
	if pending == nil {
		pending = []string{}
	}
	response.OK(c, dto.PrepareBurnResponse{
		Transaction:    result.Transaction,
		ItemID:         result.ItemID,
		BurnAmount:     result.BurnAmountDisplay,
		BurnAmountRaw:  result.BurnAmountRaw,
		Blockhash:      result.Blockhash,
		FeePayer:       result.FeePayer,
		PendingSigners: pending,
	})
}

// Confirm handles POST /api/v1/burn/confirm.
func (h *BurnHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmBurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	c.Set(middleware.CtxAuditResource, req.ItemID)

	result, err := h.settlementSvc.Confirm(c.Request.Context(), ports.ConfirmRequest{
		UserID:    middleware.UserID(c),
		ItemID:    req.ItemID,
		Signature: req.Signature,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PurchaseResponse{
		ID:          result.ID,
		UserID:      result.UserID,
		ItemID:      result.ItemID,
		Amount:      result.AmountDisplay,
		AmountRaw:   result.AmountRaw,
		TxSignature: result.TxSignature,
		CreatedAt:   result.CreatedAt.Format(time.RFC3339),
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stack-settlement/internal/adapter/http/dto"
	"stack-settlement/internal/adapter/http/middleware"
	"stack-settlement/internal/core/domain"
	"stack-settlement/internal/core/ports"
	"stack-settlement/internal/core/ports/mocks"
	"stack-settlement/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testUser = "user-1"

func newAuthedContext(method, path string, body []byte) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, testUser)
	return w, c
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Burn Handler Tests ---

func TestPrepare_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockSettlementService(ctrl)
	h := NewBurnHandler(svc)

	svc.EXPECT().Prepare(gomock.Any(), testUser, "golden_touch").Return(&ports.PrepareResult{
		Transaction:       "AQID",
		ItemID:            "golden_touch",
		BurnAmountRaw:     domain.Tokens(1000),
		BurnAmountDisplay: 1000,
		Blockhash:         "hash",
		FeePayer:          "payer",
		PendingSigners:    []string{"owner"},
	}, nil)

	body, _ := json.Marshal(dto.PrepareBurnRequest{ItemID: "golden_touch"})
	w, c := newAuthedContext(http.MethodPost, "/api/v1/burn/prepare", body)

	h.Prepare(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "AQID", data["transaction"])
	assert.Equal(t, "golden_touch", data["item_id"])
	assert.Equal(t, 1000.0, data["burn_amount"])
	assert.Equal(t, []interface{}{"owner"}, data["pending_signers"])
	assert.Equal(t, "golden_touch", c.GetString(middleware.CtxAuditResource))
}

func TestPrepare_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewBurnHandler(mocks.NewMockSettlementService(ctrl))

	for _, body := range []string{`{}`, `{"item_id":"golden touch"}`, `not json`} {
		w, c := newAuthedContext(http.MethodPost, "/api/v1/burn/prepare", []byte(body))
		h.Prepare(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body=%s", body)
		assert.Equal(t, "REQ_001", decodeError(t, w)["error_code"])
	}
}

func TestPrepare_InsufficientFundsCarriesDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockSettlementService(ctrl)
	h := NewBurnHandler(svc)

	svc.EXPECT().Prepare(gomock.Any(), testUser, "golden_touch").
		Return(nil, apperror.ErrInsufficientFunds(domain.Tokens(1000), domain.Tokens(5), "1000", "5"))

	body, _ := json.Marshal(dto.PrepareBurnRequest{ItemID: "golden_touch"})
	w, c := newAuthedContext(http.MethodPost, "/api/v1/burn/prepare", body)

	h.Prepare(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "BURN_004", resp["error_code"])
	details := resp["details"].(map[string]interface{})
	assert.Equal(t, float64(domain.Tokens(1000)), details["required_raw"])
	assert.Equal(t, float64(domain.Tokens(5)), details["available_raw"])
}

func TestConfirm_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockSettlementService(ctrl)
	h := NewBurnHandler(svc)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.EXPECT().Confirm(gomock.Any(), ports.ConfirmRequest{UserID: testUser, ItemID: "diamond_hands"}).
		Return(&ports.PurchaseResult{
			ID:            11,
			UserID:        testUser,
			ItemID:        "diamond_hands",
			AmountRaw:     domain.Tokens(100),
			AmountDisplay: 100,
			CreatedAt:     created,
		}, nil)

	body, _ := json.Marshal(dto.ConfirmBurnRequest{ItemID: "diamond_hands"})
	w, c := newAuthedContext(http.MethodPost, "/api/v1/burn/confirm", body)

	h.Confirm(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(11), data["id"])
	assert.Equal(t, testUser, data["user_id"])
	assert.Equal(t, "diamond_hands", data["item_id"])
	assert.Equal(t, float64(domain.Tokens(100)), data["amount_raw"])
	assert.Equal(t, 100.0, data["amount"])
	assert.Equal(t, "2026-03-01T12:00:00Z", data["created_at"])
	assert.NotContains(t, data, "tx_signature")
}

func TestConfirm_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.ErrAlreadyPurchased(), http.StatusConflict, "BURN_002"},
		{apperror.ErrBurnNotDetected(), http.StatusConflict, "BURN_005"},
		{apperror.ErrNoWallet(), http.StatusBadRequest, "BURN_003"},
		{apperror.ErrLedger(errors.New("timeout")), http.StatusServiceUnavailable, "LEDGER_001"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockSettlementService(ctrl)
			h := NewBurnHandler(svc)

			svc.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			body, _ := json.Marshal(dto.ConfirmBurnRequest{ItemID: "diamond_hands"})
			w, c := newAuthedContext(http.MethodPost, "/api/v1/burn/confirm", body)
			h.Confirm(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w)["error_code"])
		})
	}
}

func TestSpendableBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockSettlementService(ctrl)
	h := NewBurnHandler(svc)

	svc.EXPECT().SpendableBalance(gomock.Any(), testUser).Return(&ports.SpendableBalance{
		SpendableRaw:       18_000_000_000_000_000_000,
		SpendableDisplay:   18_000_000_000,
		TotalBurnedRaw:     domain.Tokens(1000),
		TotalBurnedDisplay: 1000,
	}, nil)

	w, c := newAuthedContext(http.MethodGet, "/api/v1/burn/spendable-balance", nil)
	h.SpendableBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "18000000000000000000", data["spendable_raw"])
	assert.Equal(t, 1000.0, data["total_burned"])
}

func TestLeaderboard_RanksAndParsesLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockSettlementService(ctrl)
	h := NewBurnHandler(svc)

	svc.EXPECT().Leaderboard(gomock.Any(), 2).Return([]ports.LeaderboardView{
		{UserID: "whale", TotalBurnedRaw: domain.Tokens(5000), TotalBurnedDisplay: 5000},
		{UserID: "dolphin", TotalBurnedRaw: domain.Tokens(900), TotalBurnedDisplay: 900},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/burn/leaderboard?limit=2", nil)
	h.Leaderboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []dto.LeaderboardEntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 1, resp.Data[0].Rank)
	assert.Equal(t, domain.Tokens(5000), resp.Data[0].TotalBurnedRaw)
	assert.Equal(t, "dolphin", resp.Data[1].UserID)
}

func TestLeaderboard_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewBurnHandler(mocks.NewMockSettlementService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/burn/leaderboard?limit=ten", nil)
	h.Leaderboard(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Reward Handler Tests ---

func TestClaim_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockRewardService(ctrl)
	h := NewRewardHandler(svc)

	claimedAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	sig := "claim-sig"
	svc.EXPECT().Claim(gomock.Any(), testUser, int64(5)).Return(&ports.RewardView{
		Reward: domain.Reward{
			ID:          5,
			UserID:      testUser,
			MilestoneID: "score_1k",
			AmountRaw:   domain.Tokens(50),
			Status:      domain.RewardStatusClaimed,
			ClaimedAt:   &claimedAt,
			TxSignature: &sig,
		},
		AmountDisplay: 50,
	}, nil)

	w, c := newAuthedContext(http.MethodPost, "/api/v1/rewards/5/claim", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Claim(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "claimed", data["status"])
	assert.Equal(t, "claim-sig", data["tx_signature"])
	assert.Equal(t, "2026-03-02T09:30:00Z", data["claimed_at"])
}

func TestClaim_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewRewardHandler(mocks.NewMockRewardService(ctrl))

	for _, id := range []string{"abc", "0", "-3"} {
		w, c := newAuthedContext(http.MethodPost, "/api/v1/rewards/"+id+"/claim", nil)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Claim(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id=%s", id)
	}
}

func TestClaim_AlreadyClaimed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockRewardService(ctrl)
	h := NewRewardHandler(svc)

	svc.EXPECT().Claim(gomock.Any(), testUser, int64(5)).Return(nil, apperror.ErrAlreadyClaimed())

	w, c := newAuthedContext(http.MethodPost, "/api/v1/rewards/5/claim", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.Claim(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REWARD_002", decodeError(t, w)["error_code"])
}

func TestGrantMilestones_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockRewardService(ctrl)
	h := NewRewardHandler(svc)

	svc.EXPECT().GrantMilestones(gomock.Any(), testUser, []string{"score_100", "taps_100"}).
		Return([]string{"score_100"}, nil)

	body, _ := json.Marshal(dto.GrantMilestonesRequest{UserID: testUser, MilestoneIDs: []string{"score_100", "taps_100"}})
	w, c := newAuthedContext(http.MethodPost, "/api/v1/internal/rewards/milestones", body)
	h.GrantMilestones(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"score_100"}, decodeData(t, w)["granted"])
	assert.Equal(t, testUser, c.GetString(middleware.CtxAuditResource))
}

func TestGrantMilestones_RequiresUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockRewardService(ctrl)
	h := NewRewardHandler(svc)

	w, c := newAuthedContext(http.MethodPost, "/api/v1/internal/rewards/milestones", []byte(`{"milestone_ids":["score_100"]}`))
	h.GrantMilestones(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRewardBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockRewardService(ctrl)
	h := NewRewardHandler(svc)

	svc.EXPECT().Balance(gomock.Any(), testUser).Return(42.5, nil)

	w, c := newAuthedContext(http.MethodGet, "/api/v1/rewards/balance", nil)
	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 42.5, decodeData(t, w)["balance"])
}

// --- Fee payer / health ---

func TestFeePayerBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockFeePayerService(ctrl)
	svc.EXPECT().Balance(gomock.Any()).Return(&ports.FeePayerBalance{
		Address: "payer", Lamports: 2_000_000_000, SOL: 2, Funded: true,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/fee-payer/balance", nil)
	FeePayerBalance(svc)(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["funded"])
	assert.Equal(t, false, data["low_balance"])
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Name().Return("postgresql").AnyTimes()
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	rd := mocks.NewMockHealthChecker(ctrl)
	rd.EXPECT().Name().Return("redis").AnyTimes()
	rd.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	HealthCheck(pg, rd)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}

// --- Router wiring ---

func TestSetupRouter_AuthAndRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settlement := mocks.NewMockSettlementService(ctrl)
	rewards := mocks.NewMockRewardService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)

	r := SetupRouter(RouterDeps{
		SettlementSvc: settlement,
		RewardSvc:     rewards,
		TokenSvc:      tokens,
	})
	gin.SetMode(gin.TestMode)

	settlement.EXPECT().Upgrades().Return([]ports.UpgradeView{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/burn/upgrades", nil))
	assert.Equal(t, http.StatusOK, w.Code, "catalog is public")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/burn/prepare", bytes.NewReader([]byte(`{"item_id":"golden_touch"}`))))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "prepare needs a session")

	tokens.EXPECT().Validate("tok").Return(&ports.TokenClaims{UserID: testUser}, nil)
	rewards.EXPECT().List(gomock.Any(), testUser).Return([]ports.RewardView{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rewards", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []interface{}{}, resp["data"])
}

func TestSetupRouter_ConfirmPassesUserFromToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settlement := mocks.NewMockSettlementService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)

	r := SetupRouter(RouterDeps{SettlementSvc: settlement, TokenSvc: tokens, AuditSvc: audit})
	gin.SetMode(gin.TestMode)

	tokens.EXPECT().Validate("tok").Return(&ports.TokenClaims{UserID: "user-9"}, nil)
	settlement.EXPECT().Confirm(gomock.Any(), ports.ConfirmRequest{UserID: "user-9", ItemID: "auto_claim"}).
		Return(&ports.PurchaseResult{ID: 1, UserID: "user-9", ItemID: "auto_claim"}, nil)
	audited := make(chan *domain.AuditLog, 1)
	audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		audited <- entry
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/burn/confirm", bytes.NewReader([]byte(`{"item_id":"auto_claim"}`)))
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	entry := <-audited
	assert.Equal(t, domain.AuditActionBurnConfirm, entry.Action)
	assert.Equal(t, "auto_claim", entry.ResourceID)
}

func TestSetupRouter_MilestoneGrantRejectsUserSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rewards := mocks.NewMockRewardService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)

	r := SetupRouter(RouterDeps{
		SettlementSvc: mocks.NewMockSettlementService(ctrl),
		RewardSvc:     rewards,
		TokenSvc:      tokens,
		AuditSvc:      audit,
		ServiceKey:    "game-server-key",
	})
	gin.SetMode(gin.TestMode)

	body := `{"user_id":"user-1","milestone_ids":["score_100"]}`
	post := func(path string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	userSession := map[string]string{"Authorization": "Bearer tok"}

	// No Validate expectation: user sessions are never consulted for grants.
	w := post("/api/v1/rewards/milestones", userSession)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = post("/api/v1/internal/rewards/milestones", userSession)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_001", decodeError(t, w)["error_code"])

	w = post("/api/v1/internal/rewards/milestones", map[string]string{
		"Authorization":             "Bearer tok",
		middleware.HeaderServiceKey: "guessed-key",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	rewards.EXPECT().GrantMilestones(gomock.Any(), testUser, []string{"score_100"}).Return([]string{"score_100"}, nil)
	audited := make(chan *domain.AuditLog, 1)
	audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		audited <- entry
	})

	w = post("/api/v1/internal/rewards/milestones", map[string]string{middleware.HeaderServiceKey: "game-server-key"})
	assert.Equal(t, http.StatusOK, w.Code)
	entry := <-audited
	assert.Equal(t, domain.AuditActionRewardGrant, entry.Action)
	assert.Equal(t, testUser, entry.ResourceID)
	assert.Nil(t, entry.UserID)
}

func TestSetupRouter_InternalRoutesOffWithoutServiceKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := SetupRouter(RouterDeps{
		SettlementSvc: mocks.NewMockSettlementService(ctrl),
		RewardSvc:     mocks.NewMockRewardService(ctrl),
		TokenSvc:      mocks.NewMockTokenService(ctrl),
	})
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/internal/rewards/milestones",
		bytes.NewReader([]byte(`{"user_id":"user-1","milestone_ids":["score_100"]}`)))
	req.Header.Set(middleware.HeaderServiceKey, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

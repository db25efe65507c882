package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles balance and top-up requests
type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(
	walletUseCase usecase.WalletUseCase,
	logger coreport.Logger,
) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// GetBalance handles the GET /users/:userId/balance endpoint
func (h *WalletHandler) GetBalance(c *gin.Context) {
	balance, err := h.walletUseCase.GetBalance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:   balance.UserID,
		WalletID: balance.WalletID,
		Balance:  balance.Balance,
	})
}

// GetTransactions handles the GET /users/:userId/transactions endpoint
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	txs, err := h.walletUseCase.GetTransactions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponses(txs))
}

// RequestTopUp handles the POST /users/:userId/topups endpoint
func (h *WalletHandler) RequestTopUp(c *gin.Context) {
	var req dto.TopUpRequest
	if !bindJSON(c, &req) {
		return
	}

	tx, err := h.walletUseCase.RequestTopUp(c.Request.Context(), c.Param("userId"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTransactionResponse(tx))
}

// GetPendingTopUps handles the GET /admin/topups/pending endpoint
func (h *WalletHandler) GetPendingTopUps(c *gin.Context) {
	txs, err := h.walletUseCase.GetPendingTopUps(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponses(txs))
}

// ApproveTopUp handles the POST /admin/topups/:transactionId/approve endpoint
func (h *WalletHandler) ApproveTopUp(c *gin.Context) {
	result, err := h.walletUseCase.ApproveTopUp(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TopUpDecisionResponse{
		Transaction:   dto.NewTransactionResponse(result.Transaction),
		ResultBalance: result.ResultBalance,
	})
}

// DeclineTopUp handles the POST /admin/topups/:transactionId/decline endpoint
func (h *WalletHandler) DeclineTopUp(c *gin.Context) {
	tx, err := h.walletUseCase.DeclineTopUp(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTransactionResponse(tx))
}

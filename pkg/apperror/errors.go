package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Burn settlement (BURN) ----

func ErrItemNotFound(itemID string) *AppError {
	return New("BURN_001", fmt.Sprintf("Upgrade %q not found", itemID), http.StatusNotFound)
}

func ErrAlreadyPurchased() *AppError {
	return New("BURN_002", "Upgrade already purchased", http.StatusConflict)
}

func ErrNoWallet() *AppError {
	return New("BURN_003", "No wallet address found. Please connect a wallet first.", http.StatusBadRequest)
}

// ErrInsufficientFunds reports the pre-flight shortfall in both raw and display units.
func ErrInsufficientFunds(requiredRaw, availableRaw int64, required, available string) *AppError {
	e := New("BURN_004", fmt.Sprintf("Not enough STACK. Need %s, have %s", required, available), http.StatusPaymentRequired)
	e.Details = map[string]any{
		"required_raw":  requiredRaw,
		"available_raw": availableRaw,
	}
	return e
}

func ErrBurnNotDetected() *AppError {
	return New("BURN_005", "Burn not detected on-chain. Please try again.", http.StatusConflict)
}

func ErrSignatureReused() *AppError {
	return New("BURN_006", "Transaction signature already used for another purchase", http.StatusConflict)
}

// ---- Rewards (REWARD) ----

func ErrRewardNotFound() *AppError {
	return New("REWARD_001", "Reward not found", http.StatusNotFound)
}

func ErrAlreadyClaimed() *AppError {
	return New("REWARD_002", "Reward already claimed", http.StatusConflict)
}

// ---- Chain (LEDGER) ----

// ErrLedger marks a transient chain RPC failure. Callers may retry with backoff.
func ErrLedger(err error) *AppError {
	return Wrap("LEDGER_001", "Solana RPC unavailable, please retry", http.StatusServiceUnavailable, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a REQ_001 validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

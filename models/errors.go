package models

import "errors"

var (
	ErrInvalidWindow      = errors.New("invalid market time windows")
	ErrInvalidStrikePrice = errors.New("strike price must be positive")
	ErrInvalidSymbol      = errors.New("invalid market symbol")
	ErrInvalidOracleFeed  = errors.New("invalid oracle feed reference")
	ErrInvalidMarketID    = errors.New("invalid market ID")
	ErrInvalidUserID      = errors.New("invalid user ID")

	ErrBettingClosed     = errors.New("betting window has closed")
	ErrDuplicatePosition = errors.New("user already holds a position in this market")
	ErrInvalidBetAmount  = errors.New("bet amount must be positive")
	ErrInvalidSide       = errors.New("side must be yes or no")
	ErrAmountOverflow    = errors.New("amount arithmetic overflow")

	ErrResolveTooEarly       = errors.New("grace period has not elapsed")
	ErrResolveWindowExpired  = errors.New("resolution window has expired")
	ErrMarketAlreadyResolved = errors.New("market is already resolved")
	ErrMarketRefundable      = errors.New("market is marked refundable")
	ErrMarketNotResolved     = errors.New("market outcome is still pending")
	ErrInvalidKeeper         = errors.New("caller is not the designated keeper")

	ErrOracleMalformed    = errors.New("oracle feed data is malformed")
	ErrOracleNotTrading   = errors.New("oracle feed is not trading")
	ErrOracleStale        = errors.New("oracle observation is stale")
	ErrOracleInvalidPrice = errors.New("oracle price is not positive")
	ErrOracleUntrusted    = errors.New("oracle confidence interval too wide")

	ErrNotAWinner     = errors.New("position is not on the winning side")
	ErrAlreadyClaimed = errors.New("position already claimed")
	ErrRefundNotOpen  = errors.New("refund window not open")

	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrRecordNotFound = errors.New("record not found")
	ErrUnauthorized   = errors.New("unauthorized")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
)

package settlement

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/flashpred/app/api"
	"github.com/joefazee/flashpred/internal/sanitizer"
	"github.com/joefazee/flashpred/models"
)

// Handler handles HTTP requests for the settlement engine
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
}

// NewHandler creates a new settlement handler
func NewHandler(service Service, htmlSanitizer sanitizer.HTMLStripperer) *Handler {
	return &Handler{
		service:   service,
		sanitizer: htmlSanitizer,
	}
}

// parseUUIDFromParam extracts and validates UUID from path parameter
func (h *Handler) parseUUIDFromParam(c *gin.Context, paramName string) (uuid.UUID, bool) {
	param := c.Param(paramName)
	id, err := uuid.Parse(param)
	if err != nil {
		api.BadRequestResponse(c, "Invalid "+paramName+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSONRequest binds JSON request body to the provided struct
func (h *Handler) bindJSONRequest(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return false
	}
	return true
}

// handleServiceError maps engine errors to HTTP responses
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Resource")
	case errors.Is(err, models.ErrBettingClosed),
		errors.Is(err, models.ErrDuplicatePosition),
		errors.Is(err, models.ErrMarketAlreadyResolved),
		errors.Is(err, models.ErrMarketRefundable),
		errors.Is(err, models.ErrMarketNotResolved),
		errors.Is(err, models.ErrResolveTooEarly),
		errors.Is(err, models.ErrResolveWindowExpired),
		errors.Is(err, models.ErrRefundNotOpen),
		errors.Is(err, models.ErrAlreadyClaimed):
		api.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrInvalidKeeper),
		errors.Is(err, models.ErrNotAWinner):
		api.ForbiddenResponse(c, err.Error())
	case errors.Is(err, models.ErrOracleMalformed),
		errors.Is(err, models.ErrOracleNotTrading),
		errors.Is(err, models.ErrOracleStale),
		errors.Is(err, models.ErrOracleInvalidPrice),
		errors.Is(err, models.ErrOracleUntrusted):
		api.ErrorResponse(c, http.StatusBadGateway, "ORACLE_ERROR", err.Error(), nil)
	case errors.Is(err, models.ErrInvalidWindow),
		errors.Is(err, models.ErrInvalidStrikePrice),
		errors.Is(err, models.ErrInvalidSymbol),
		errors.Is(err, models.ErrInvalidOracleFeed),
		errors.Is(err, models.ErrInvalidSide),
		errors.Is(err, models.ErrInvalidBetAmount),
		errors.Is(err, models.ErrInsufficientFunds):
		api.BadRequestResponse(c, err.Error())
	default:
		api.InternalErrorResponse(c, err.Error())
	}
}

// CreateMarket creates a new market
func (h *Handler) CreateMarket(c *gin.Context) {
	var req CreateMarketRequest
	if !h.bindJSONRequest(c, &req) {
		return
	}
	req.Symbol = h.sanitizer.StripHTML(req.Symbol)

	market, err := h.service.CreateMarket(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.CreatedResponse(c, "Market created successfully", market)
}

// GetMarkets lists all markets in creation order
func (h *Handler) GetMarkets(c *gin.Context) {
	markets, err := h.service.ListMarkets(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.ListResponse(c, "Markets retrieved successfully", markets, len(markets))
}

// GetMarketByID returns a single market
func (h *Handler) GetMarketByID(c *gin.Context) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}

	market, err := h.service.GetMarket(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Market retrieved successfully", market)
}

// PlaceBet stakes on one side of a market
func (h *Handler) PlaceBet(c *gin.Context) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}

	var req PlaceBetRequest
	if !h.bindJSONRequest(c, &req) {
		return
	}
	req.MarketID = id

	position, err := h.service.PlaceBet(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.CreatedResponse(c, "Bet placed successfully", position)
}

// ResolveMarket fixes the market outcome from the oracle
func (h *Handler) ResolveMarket(c *gin.Context) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if !h.bindJSONRequest(c, &req) {
		return
	}
	req.MarketID = id

	market, err := h.service.Resolve(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Market resolved successfully", market)
}

// ClaimWinnings pays a winning position
func (h *Handler) ClaimWinnings(c *gin.Context) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}

	var req ClaimRequest
	if !h.bindJSONRequest(c, &req) {
		return
	}
	req.MarketID = id

	settlement, err := h.service.Claim(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Winnings claimed successfully", settlement)
}

// RefundStake returns a stake after a missed resolution window
func (h *Handler) RefundStake(c *gin.Context) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}

	var req RefundRequest
	if !h.bindJSONRequest(c, &req) {
		return
	}
	req.MarketID = id

	settlement, err := h.service.Refund(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Stake refunded successfully", settlement)
}

// GetPosition returns one user's position in a market
func (h *Handler) GetPosition(c *gin.Context) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.parseUUIDFromParam(c, "user_id")
	if !ok {
		return
	}

	position, err := h.service.GetPosition(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Position retrieved successfully", position)
}

package handler

import (
	"net/http"
	"strings"

	"token-health-scan/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// ListTokens godoc
// @Summary      List watchlist tokens
// @Description  Returns all tokens currently tracked by the scanner
// @Tags         tokens
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/tokens [get]
func (h *Handler) ListTokens(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-tokens")
	defer span.End()

	tokens, err := h.tokens.ListTokens(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

type addTokenRequest struct {
	Address         string `json:"address" binding:"required"`
	Chain           string `json:"chain" binding:"required"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	TwitterHandle   string `json:"twitter_handle"`
	DiscordInvite   string `json:"discord_invite"`
	TelegramChannel string `json:"telegram_channel"`
	RepoOwner       string `json:"repo_owner"`
	RepoName        string `json:"repo_name"`
}

// AddToken godoc
// @Summary      Add a token to the watchlist
// @Description  Registers a token for scanning; upserts on repeated adds
// @Tags         tokens
// @Accept       json
// @Produce      json
// @Param        token  body  addTokenRequest  true  "Token to track"
// @Success      201  {object}  domain.Token
// @Failure      400  {object}  map[string]string
// @Router       /api/tokens [post]
func (h *Handler) AddToken(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.add-token")
	defer span.End()

	var req addTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chain := strings.ToLower(strings.TrimSpace(req.Chain))
	if !supportedChain(chain) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "unsupported chain: " + chain,
			"supported_chains": domain.SupportedChains,
		})
		return
	}
	span.SetAttributes(attribute.String("chain", chain), attribute.String("address", req.Address))

	token, err := h.tokens.UpsertToken(ctx, domain.Token{
		Address:         req.Address,
		Chain:           chain,
		Symbol:          req.Symbol,
		Name:            req.Name,
		TwitterHandle:   req.TwitterHandle,
		DiscordInvite:   req.DiscordInvite,
		TelegramChannel: req.TelegramChannel,
		RepoOwner:       req.RepoOwner,
		RepoName:        req.RepoName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, token)
}

// RemoveToken godoc
// @Summary      Remove a token from the watchlist
// @Tags         tokens
// @Produce      json
// @Param        chain    path  string  true  "Chain slug (e.g., eth, bsc)"
// @Param        address  path  string  true  "Contract address"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tokens/{chain}/{address} [delete]
func (h *Handler) RemoveToken(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.remove-token")
	defer span.End()

	chain := strings.ToLower(c.Param("chain"))
	address := c.Param("address")
	span.SetAttributes(attribute.String("chain", chain), attribute.String("address", address))

	if err := h.tokens.DeleteToken(ctx, chain, address); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetTokenHealth godoc
// @Summary      Get the health report for a token
// @Description  Returns the latest health report, scanning on demand when none is fresh
// @Tags         tokens
// @Produce      json
// @Param        chain    path  string  true  "Chain slug (e.g., eth, bsc)"
// @Param        address  path  string  true  "Contract address"
// @Success      200  {object}  domain.HealthReport
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tokens/{chain}/{address}/health [get]
func (h *Handler) GetTokenHealth(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-token-health")
	defer span.End()

	chain := strings.ToLower(c.Param("chain"))
	address := c.Param("address")
	span.SetAttributes(attribute.String("chain", chain), attribute.String("address", address))

	if !supportedChain(chain) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "unsupported chain: " + chain,
			"supported_chains": domain.SupportedChains,
		})
		return
	}

	report, err := h.scans.GetReport(ctx, chain, address)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ScanToken godoc
// @Summary      Force a fresh scan of one token
// @Tags         tokens
// @Produce      json
// @Param        chain    path  string  true  "Chain slug (e.g., eth, bsc)"
// @Param        address  path  string  true  "Contract address"
// @Success      200  {object}  domain.HealthReport
// @Failure      404  {object}  map[string]string
// @Router       /api/tokens/{chain}/{address}/scan [post]
func (h *Handler) ScanToken(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.scan-token")
	defer span.End()

	chain := strings.ToLower(c.Param("chain"))
	address := c.Param("address")
	span.SetAttributes(attribute.String("chain", chain), attribute.String("address", address))

	token, err := h.tokens.GetToken(ctx, chain, address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if token == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
		return
	}

	report, err := h.scans.ScanToken(ctx, *token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// RunScan godoc
// @Summary      Scan the whole watchlist
// @Description  Runs one scan cycle over every tracked token and returns counters
// @Tags         scan
// @Produce      json
// @Success      200  {object}  domain.ScanRunResult
// @Failure      500  {object}  map[string]string
// @Router       /api/scan/run [post]
func (h *Handler) RunScan(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.run-scan")
	defer span.End()

	result, err := h.scans.ScanAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func supportedChain(chain string) bool {
	for _, c := range domain.SupportedChains {
		if c == chain {
			return true
		}
	}
	return false
}

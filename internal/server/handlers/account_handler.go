package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandler lists the sales accounts.
type AccountHandler struct {
	sales  SalesService
	logger *zap.Logger
}

// NewAccountHandler constructs the account HTTP adapter.
func NewAccountHandler(salesSvc SalesService, logger *zap.Logger) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{sales: salesSvc, logger: logger}
}

// List returns the known accounts, seeding the defaults on first use.
func (h *AccountHandler) List(c *gin.Context) {
	names, err := h.sales.Accounts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed loading accounts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comptes": names})
}

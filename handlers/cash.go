package handlers

import (
	"net/http"
	"strconv"

	"salonbook/models"
	"salonbook/services/cash"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CashHandler serves the cash register.
type CashHandler struct {
	Service cash.CashService
}

func NewCashHandler(s cash.CashService) *CashHandler {
	return &CashHandler{Service: s}
}

func (h *CashHandler) OpenHandler(c *gin.Context) {
	var req struct {
		InitialBalance *float64 `json:"initialBalance" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.Service.Open(c.Request.Context(), businessID(c), *req.InitialBalance, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("cash session opened", zap.String("sessionID", session.ID))
	c.JSON(http.StatusCreated, session)
}

// CurrentHandler returns the open session with its ledger. A closed
// drawer answers 409.
func (h *CashHandler) CurrentHandler(c *gin.Context) {
	view, err := h.Service.Current(c.Request.Context(), businessID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CashHandler) ListHandler(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			utils.JSONError(c, http.StatusBadRequest, "limit must be a non-negative integer", raw)
			return
		}
		limit = n
	}
	sessions, err := h.Service.List(c.Request.Context(), businessID(c), models.SessionStatus(c.Query("status")), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *CashHandler) GetHandler(c *gin.Context) {
	view, err := h.Service.Get(c.Request.Context(), businessID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CashHandler) AddEntryHandler(c *gin.Context) {
	var input cash.EntryInput
	if !bindJSON(c, &input) {
		return
	}
	entry, err := h.Service.AddEntry(c.Request.Context(), businessID(c), c.Param("id"), input, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *CashHandler) CloseHandler(c *gin.Context) {
	var req struct {
		CountedBalance *float64 `json:"countedBalance" binding:"required"`
		Notes          string   `json:"notes"`
	}
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.Service.Close(c.Request.Context(), businessID(c), c.Param("id"), *req.CountedBalance, req.Notes, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *CashHandler) GetEntryHandler(c *gin.Context) {
	entry, err := h.Service.GetEntry(c.Request.Context(), businessID(c), c.Param("entryId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *CashHandler) AmendHandler(c *gin.Context) {
	var input cash.AmendInput
	if !bindJSON(c, &input) {
		return
	}
	entry, err := h.Service.Amend(c.Request.Context(), businessID(c), c.Param("entryId"), input, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *CashHandler) VoidHandler(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.Service.Void(c.Request.Context(), businessID(c), c.Param("entryId"), req.Reason, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gabrielflorianoo/VoiceCalc/internal/history"
)

func (s *Server) handleListPurchases(c *gin.Context) {
	rows, err := s.db.ListPurchases()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	items := make([]PurchaseDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, PurchaseFromModel(row))
	}
	c.JSON(http.StatusOK, PurchasesResponse{Items: items, Total: len(items)})
}

func (s *Server) handleAddPurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = defaultSaveLocation
	}
	p, err := s.db.AddPurchase(req.Amount, location)
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusCreated, PurchaseFromModel(*p))
}

func (s *Server) handleClearPurchases(c *gin.Context) {
	if err := s.db.ClearPurchases(); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	logrus.Info("purchase history cleared")
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGroupedPurchases(c *gin.Context) {
	recent := history.DefaultRecent
	if v := c.Query("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid recent value %q", v))
			return
		}
		recent = n
	}

	rows, err := s.db.ListPurchases()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	groups := history.GroupByLocation(rows)
	dtos := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, GroupFromModel(g, recent))
	}
	c.JSON(http.StatusOK, GroupedResponse{Groups: dtos, Total: len(rows)})
}

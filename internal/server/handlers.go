// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jeranaias/docildos/internal/api"
	"github.com/jeranaias/docildos/internal/logging"
)

// ============================================================================
// ERRORS
// ============================================================================

// ValidationIssue is one entry of a 422 detail list.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// abortDetail ends the request with {"detail": detail}.
func abortDetail(c *gin.Context, status int, detail any) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// abortStoreError maps a store error to its status code.
func (s *Server) abortStoreError(c *gin.Context, err error) {
	var transition *TransitionError
	var filter *FilterError
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrRecipeNotFound):
		abortDetail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidOrder), errors.As(err, &transition):
		abortDetail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &filter):
		abortDetail(c, http.StatusUnprocessableEntity, []ValidationIssue{{
			Loc:  []string{"query", filter.Param},
			Msg:  err.Error(),
			Type: "value_error",
		}})
	default:
		s.logger.Error("store failed", "path", c.Request.URL.Path, "error", err)
		abortDetail(c, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

// bindJSON decodes and validates the body, answering 422 on failure.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, validationIssues(err))
		return false
	}
	return true
}

func validationIssues(err error) []ValidationIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationIssue{{Loc: []string{"body"}, Msg: "JSON inválido: " + err.Error(), Type: "json_invalid"}}
	}
	out := make([]ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		loc := []string{"body"}
		// Namespace is "PedidoCreate.itens[0].quantidade"; drop the type name.
		if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
			loc = append(loc, strings.Split(path, ".")...)
		}
		out = append(out, ValidationIssue{Loc: loc, Msg: issueMessage(fe), Type: fe.Tag()})
	}
	return out
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório"
	case "gt", "gte", "min":
		return fmt.Sprintf("Valor abaixo do mínimo (%s)", fe.Param())
	case "datetime":
		return fmt.Sprintf("Formato inválido, esperado %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Valor deve ser um de: %s", fe.Param())
	}
	return "Valor inválido"
}

// pathID parses the :id parameter.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, []ValidationIssue{{
			Loc:  []string{"path", "id"},
			Msg:  "Deve ser um número inteiro",
			Type: "int_parsing",
		}})
		return 0, false
	}
	return id, true
}

// ============================================================================
// HEALTH
// ============================================================================

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ============================================================================
// PEDIDOS
// ============================================================================

func (s *Server) handleListOrders(c *gin.Context) {
	orders, err := s.store.ListOrders(c.Request.Context(), api.OrderFilter{
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
		Status:     api.StatusPedido(c.Query("status")),
		Cliente:    c.Query("cliente"),
	})
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleGetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := s.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req api.PedidoCreate
	if !bindJSON(c, &req) {
		return
	}
	order, err := s.store.CreateOrder(c.Request.Context(), req)
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	s.logger.Info("order created", "id", order.ID, "cliente", order.Cliente)
	c.JSON(http.StatusCreated, order)
}

func (s *Server) handleUpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req api.PedidoStatusUpdate
	if !bindJSON(c, &req) {
		return
	}
	order, err := s.store.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	s.logger.Info("order status changed", "id", id, "status", string(req.Status))
	c.JSON(http.StatusOK, order)
}

// ============================================================================
// RECEITAS
// ============================================================================

func (s *Server) handleListRecipes(c *gin.Context) {
	recipes, err := s.store.ListRecipes(c.Request.Context(), c.Query("nome"))
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) handleGetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := s.store.GetRecipe(c.Request.Context(), id)
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// ============================================================================
// STATS AND AGENDA
// ============================================================================

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleAgenda(c *gin.Context) {
	entries, err := s.store.Agenda(c.Request.Context(), api.AgendaFilter{
		DataInicio: c.Query("data_inicio"),
		DataFim:    c.Query("data_fim"),
	})
	if err != nil {
		s.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ============================================================================
// CHAT
// ============================================================================

// handleChat answers a message with the dispatcher. Requests without a
// session id get a fresh one, echoed in the X-Session-ID header.
func (s *Server) handleChat(c *gin.Context) {
	var req api.ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		abortDetail(c, http.StatusUnprocessableEntity, []ValidationIssue{{
			Loc:  []string{"body", "message"},
			Msg:  "Campo obrigatório",
			Type: "required",
		}})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	c.Header("X-Session-ID", req.SessionID)

	ctx := logging.WithFields(c.Request.Context(), logging.Fields{SessionID: req.SessionID})
	reply, err := s.dispatcher.Dispatch(ctx, req.Message)
	if err != nil {
		s.logger.ErrorContext(ctx, "chat dispatch failed", "error", err)
		abortDetail(c, http.StatusInternalServerError, "Erro ao processar a mensagem")
		return
	}

	resp := api.ChatResponse{Response: reply.Text}
	for _, card := range reply.Cards {
		resp.Cards = append(resp.Cards, api.CardPayload{Type: string(card.Type), Data: card.Data})
	}
	for _, a := range reply.Actions {
		resp.Actions = append(resp.Actions, api.Action{ID: a.ID, Label: a.Label})
	}
	c.JSON(http.StatusOK, resp)
}

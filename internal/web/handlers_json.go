package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vitos/ust_basket/internal/domain"
	"go.uber.org/zap"
)

const defaultRequestLimit = 50

func (s *Server) handleBasketJSON(w http.ResponseWriter, r *http.Request) {
	basket, _, err := s.compute(r, r.URL.Query().Get("contract"), r.URL.Query().Get("expiration"))
	if err != nil {
		s.writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, basket)
}

func (s *Server) handleContractsJSON(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, domain.Contracts())
}

func (s *Server) handleRequestsJSON(w http.ResponseWriter, r *http.Request) {
	limit := defaultRequestLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	logs, err := s.service.RecentRequests(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list request logs", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list requests"})
		return
	}
	if logs == nil {
		logs = []*domain.RequestLog{}
	}
	s.writeJSON(w, http.StatusOK, logs)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

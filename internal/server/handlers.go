package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"swap-ledger/internal/ledger"
	"swap-ledger/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeLedgerError maps business rule violations to HTTP statuses. Conflicts
// map to 409, every other rule violation to 400, infrastructure to 500.
func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	if lerr := ledger.AsError(err); lerr != nil {
		status := http.StatusBadRequest
		if lerr.Kind == ledger.KindConflict {
			status = http.StatusConflict
		}
		s.writeError(w, status, lerr.Message)
		return
	}
	if errors.Is(err, storage.ErrInvalidInput) {
		s.writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	s.logger.Error().Err(err).Msg("request failed")
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

// handleExtract accepts a screenshot as multipart field "image" and runs the
// extraction pipeline on it.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart field 'image' is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read image: "+err.Error())
		return
	}
	if len(image) == 0 {
		s.writeError(w, http.StatusBadRequest, "image is empty")
		return
	}
	if !strings.HasPrefix(http.DetectContentType(image), "image/") {
		s.writeError(w, http.StatusBadRequest, "uploaded file is not an image")
		return
	}

	report, err := s.orchestrator.ProcessImage(r.Context(), image)
	if err != nil {
		s.logger.Error().Err(err).Msg("extraction failed")
		s.writeError(w, http.StatusBadGateway, "extraction failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

// addTransactionRequest is a manual swap entry, bypassing OCR.
type addTransactionRequest struct {
	Timestamp  time.Time `json:"timestamp"`
	FromToken  string    `json:"from_token"`
	ToToken    string    `json:"to_token"`
	FromAmount float64   `json:"from_amount"`
	ToAmount   float64   `json:"to_amount"`
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "decode request: "+err.Error())
		return
	}
	if req.Timestamp.IsZero() || req.FromToken == "" || req.ToToken == "" {
		s.writeError(w, http.StatusBadRequest, "timestamp, from_token and to_token are required")
		return
	}

	receipt, err := s.ledger.AddSwap(r.Context(), ledger.SwapInput{
		Timestamp:  req.Timestamp,
		FromToken:  req.FromToken,
		ToToken:    req.ToToken,
		FromAmount: req.FromAmount,
		ToAmount:   req.ToAmount,
	})
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastReceipt(receipt)
	}
	s.writeJSON(w, http.StatusCreated, receipt)
}

// transactionResponse is the wire form of a stored transaction.
type transactionResponse struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Token      string    `json:"token"`
	Amount     float64   `json:"amount"`
	StableCoin string    `json:"stable_coin"`
	TotalUSD   float64   `json:"total_usd"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = transactionResponse{
			ID:         tx.ID,
			Timestamp:  tx.Timestamp,
			Token:      tx.Token,
			Amount:     tx.Amount,
			StableCoin: tx.StableCoin,
			TotalUSD:   tx.TotalUSD,
			CreatedAt:  tx.CreatedAt,
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

type registerTokenRequest struct {
	Name     string `json:"name"`
	IsStable bool   `json:"is_stable"`
}

func (s *Server) handleRegisterToken(w http.ResponseWriter, r *http.Request) {
	var req registerTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "decode request: "+err.Error())
		return
	}
	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	status, err := s.ledger.RegisterToken(r.Context(), req.Name, req.IsStable)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	code := http.StatusOK
	if status.Created {
		code = http.StatusCreated
	}
	s.writeJSON(w, code, status)
}

// tokenResponse is the wire form of a registry entry.
type tokenResponse struct {
	Name     string `json:"name"`
	IsStable bool   `json:"is_stable"`
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	tok, err := s.ledger.GetToken(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "token not found")
			return
		}
		s.writeLedgerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{Name: tok.Name, IsStable: tok.IsStable})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

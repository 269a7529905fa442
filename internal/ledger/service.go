// Package ledger implements the business rules for swap transactions:
// token registration, swap validation against the registry, sign
// resolution, and idempotent persistence.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/storage"
)

// Service validates swaps against the token registry and writes the
// normalized records to the transaction store.
type Service struct {
	tokens storage.TokenStore
	txs    storage.TransactionStore
	logger zerolog.Logger
}

// NewService creates a new ledger service.
func NewService(tokens storage.TokenStore, txs storage.TransactionStore, logger zerolog.Logger) *Service {
	return &Service{
		tokens: tokens,
		txs:    txs,
		logger: logger.With().Str("component", "ledger").Logger(),
	}
}

// SwapInput is one raw swap: two legs in arbitrary stable/non-stable order.
type SwapInput struct {
	Timestamp  time.Time
	FromToken  string
	ToToken    string
	FromAmount float64
	ToAmount   float64
}

// Receipt is the stored outcome of a successful swap, plus a human-readable
// summary.
type Receipt struct {
	Timestamp  time.Time `json:"timestamp"`
	Token      string    `json:"token"`
	Amount     float64   `json:"amount"`
	StableCoin string    `json:"stable_coin"`
	TotalUSD   float64   `json:"total_usd"`
	Message    string    `json:"message"`
}

// AddSwap validates a swap and stores the normalized transaction.
//
// Validation order: unknown from-token, unknown to-token, both legs stable,
// both legs non-stable. Each is a distinct terminating *Error. Whichever
// leg is stable becomes the stablecoin reference; the other becomes the
// stored token. Stablecoin on the from leg means a buy: amount = +to_amount,
// total_usd = -from_amount. Stablecoin on the to leg means a sell:
// amount = -from_amount, total_usd = +to_amount.
func (s *Service) AddSwap(ctx context.Context, in SwapInput) (*Receipt, error) {
	fromTok, err := s.lookupToken(ctx, in.FromToken)
	if err != nil {
		return nil, err
	}
	toTok, err := s.lookupToken(ctx, in.ToToken)
	if err != nil {
		return nil, err
	}

	if fromTok.IsStable && toTok.IsStable {
		return nil, &Error{
			Kind:    KindBothStable,
			Message: fmt.Sprintf("Both tokens cannot be stablecoins ('%s' and '%s' are)", in.FromToken, in.ToToken),
		}
	}
	if !fromTok.IsStable && !toTok.IsStable {
		return nil, &Error{
			Kind:    KindBothVolatile,
			Message: fmt.Sprintf("One of the tokens must be a stablecoin ('%s' and '%s' are not)", in.FromToken, in.ToToken),
		}
	}

	var tx domain.Transaction
	tx.Timestamp = in.Timestamp.UTC().Truncate(time.Second)
	if fromTok.IsStable {
		// Buy of the non-stablecoin: USD spent, token acquired.
		tx.Token = in.ToToken
		tx.StableCoin = in.FromToken
		tx.Amount = in.ToAmount
		tx.TotalUSD = -in.FromAmount
	} else {
		// Sell of the non-stablecoin: token disposed, USD received.
		tx.Token = in.FromToken
		tx.StableCoin = in.ToToken
		tx.Amount = -in.FromAmount
		tx.TotalUSD = in.ToAmount
	}

	if err := s.txs.Insert(ctx, &tx); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, &Error{
				Kind:    KindConflict,
				Message: fmt.Sprintf("Transaction for '%s' at '%s' already exists.", tx.Token, tx.Timestamp.Format("2006-01-02 15:04:05")),
			}
		}
		return nil, fmt.Errorf("store transaction: %w", err)
	}

	s.logger.Info().
		Str("token", tx.Token).
		Float64("amount", tx.Amount).
		Str("stable_coin", tx.StableCoin).
		Float64("total_usd", tx.TotalUSD).
		Time("timestamp", tx.Timestamp).
		Msg("transaction stored")

	return &Receipt{
		Timestamp:  tx.Timestamp,
		Token:      tx.Token,
		Amount:     tx.Amount,
		StableCoin: tx.StableCoin,
		TotalUSD:   tx.TotalUSD,
		Message: fmt.Sprintf("Transaction added: timestamp '%s', token '%s', amount '%v', stable_coin '%s', total_usd '%v'.",
			tx.Timestamp.Format("2006-01-02 15:04:05"), tx.Token, tx.Amount, tx.StableCoin, tx.TotalUSD),
	}, nil
}

func (s *Service) lookupToken(ctx context.Context, name string) (*domain.Token, error) {
	tok, err := s.tokens.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &Error{
				Kind:    KindUnknownToken,
				Message: fmt.Sprintf("'%s' is not recognized. Please add it first.", name),
			}
		}
		return nil, fmt.Errorf("lookup token %q: %w", name, err)
	}
	return tok, nil
}

// TokenStatus is the outcome of a registration call.
type TokenStatus struct {
	Name     string `json:"name"`
	IsStable bool   `json:"is_stable"`
	Created  bool   `json:"created"`
	Message  string `json:"message"`
}

// RegisterToken adds a token to the registry. Re-registering with the same
// stability flag is an idempotent success. A conflicting flag is rejected;
// registry entries have no update path.
func (s *Service) RegisterToken(ctx context.Context, name string, isStable bool) (*TokenStatus, error) {
	if name == "" {
		return nil, fmt.Errorf("register token: %w", storage.ErrInvalidInput)
	}

	existing, err := s.tokens.GetByName(ctx, name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup token %q: %w", name, err)
	}
	if existing != nil {
		return s.reconcileExisting(name, isStable, existing.IsStable)
	}

	err = s.tokens.Insert(ctx, &domain.Token{Name: name, IsStable: isStable})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Lost a registration race; reconcile against the winner.
			winner, getErr := s.tokens.GetByName(ctx, name)
			if getErr != nil {
				return nil, fmt.Errorf("lookup token %q after race: %w", name, getErr)
			}
			return s.reconcileExisting(name, isStable, winner.IsStable)
		}
		return nil, fmt.Errorf("insert token %q: %w", name, err)
	}

	s.logger.Info().Str("token", name).Bool("is_stable", isStable).Msg("token registered")

	return &TokenStatus{
		Name:     name,
		IsStable: isStable,
		Created:  true,
		Message:  fmt.Sprintf("Token '%s' marked as %s", name, stabilityLabel(isStable)),
	}, nil
}

func (s *Service) reconcileExisting(name string, requested, actual bool) (*TokenStatus, error) {
	if requested != actual {
		return nil, &Error{
			Kind:    KindConflict,
			Message: fmt.Sprintf("'%s' is already marked as a %s.", name, stabilityLabel(actual)),
		}
	}
	return &TokenStatus{
		Name:     name,
		IsStable: actual,
		Created:  false,
		Message:  fmt.Sprintf("Token '%s' already exists", name),
	}, nil
}

func stabilityLabel(isStable bool) string {
	if isStable {
		return "stablecoin"
	}
	return "non-stablecoin"
}

// GetToken retrieves a registry entry. Returns storage.ErrNotFound when the
// token is not registered.
func (s *Service) GetToken(ctx context.Context, name string) (*domain.Token, error) {
	return s.tokens.GetByName(ctx, name)
}

// ListTransactions returns all stored transactions, timestamp ascending.
func (s *Service) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.txs.List(ctx)
}

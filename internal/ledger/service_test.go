package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"swap-ledger/internal/storage"
	"swap-ledger/internal/storage/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewTokenStore(), memory.NewTransactionStore(), zerolog.Nop())
}

func registerTokens(t *testing.T, svc *Service, stable []string, volatile []string) {
	t.Helper()
	ctx := context.Background()
	for _, name := range stable {
		if _, err := svc.RegisterToken(ctx, name, true); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	for _, name := range volatile {
		if _, err := svc.RegisterToken(ctx, name, false); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
}

func TestAddSwap_BuySigns(t *testing.T) {
	svc := newTestService(t)
	registerTokens(t, svc, []string{"USDC"}, []string{"ETH"})
	ctx := context.Background()

	receipt, err := svc.AddSwap(ctx, SwapInput{
		Timestamp:  time.Date(2024, 5, 12, 14, 5, 33, 0, time.UTC),
		FromToken:  "USDC",
		ToToken:    "ETH",
		FromAmount: 50,
		ToAmount:   0.02,
	})
	if err != nil {
		t.Fatalf("AddSwap failed: %v", err)
	}

	if receipt.Token != "ETH" || receipt.StableCoin != "USDC" {
		t.Errorf("Token roles wrong: token=%s stable=%s", receipt.Token, receipt.StableCoin)
	}
	if receipt.Amount != 0.02 {
		t.Errorf("Buy amount should be +to_amount, got %v", receipt.Amount)
	}
	if receipt.TotalUSD != -50 {
		t.Errorf("Buy total_usd should be -from_amount, got %v", receipt.TotalUSD)
	}
}

func TestAddSwap_SellSigns(t *testing.T) {
	svc := newTestService(t)
	registerTokens(t, svc, []string{"USDT"}, []string{"AAVE"})
	ctx := context.Background()

	receipt, err := svc.AddSwap(ctx, SwapInput{
		Timestamp:  time.Date(2024, 5, 12, 14, 5, 33, 0, time.UTC),
		FromToken:  "AAVE",
		ToToken:    "USDT",
		FromAmount: 0.52,
		ToAmount:   1248,
	})
	if err != nil {
		t.Fatalf("AddSwap failed: %v", err)
	}

	if receipt.Token != "AAVE" || receipt.StableCoin != "USDT" {
		t.Errorf("Token roles wrong: token=%s stable=%s", receipt.Token, receipt.StableCoin)
	}
	if receipt.Amount != -0.52 {
		t.Errorf("Sell amount should be -from_amount, got %v", receipt.Amount)
	}
	if receipt.TotalUSD != 1248 {
		t.Errorf("Sell total_usd should be +to_amount, got %v", receipt.TotalUSD)
	}
}

func TestAddSwap_UnknownToken(t *testing.T) {
	svc := newTestService(t)
	registerTokens(t, svc, []string{"USDC"}, nil)
	ctx := context.Background()

	_, err := svc.AddSwap(ctx, SwapInput{
		Timestamp: time.Now(),
		FromToken: "USDC",
		ToToken:   "AAVE",
	})
	lerr := AsError(err)
	if lerr == nil || lerr.Kind != KindUnknownToken {
		t.Fatalf("Expected KindUnknownToken, got %v", err)
	}
	if lerr.Message != "'AAVE' is not recognized. Please add it first." {
		t.Errorf("Unexpected message: %s", lerr.Message)
	}
}

func TestAddSwap_BothStable(t *testing.T) {
	svc := newTestService(t)
	registerTokens(t, svc, []string{"USDC", "USDT"}, nil)

	_, err := svc.AddSwap(context.Background(), SwapInput{
		Timestamp: time.Now(), FromToken: "USDC", ToToken: "USDT", FromAmount: 1, ToAmount: 1,
	})
	lerr := AsError(err)
	if lerr == nil || lerr.Kind != KindBothStable {
		t.Fatalf("Expected KindBothStable, got %v", err)
	}
	if lerr.Message != "Both tokens cannot be stablecoins ('USDC' and 'USDT' are)" {
		t.Errorf("Unexpected message: %s", lerr.Message)
	}
}

func TestAddSwap_BothVolatile(t *testing.T) {
	svc := newTestService(t)
	registerTokens(t, svc, nil, []string{"ETH", "AAVE"})

	_, err := svc.AddSwap(context.Background(), SwapInput{
		Timestamp: time.Now(), FromToken: "ETH", ToToken: "AAVE", FromAmount: 1, ToAmount: 1,
	})
	lerr := AsError(err)
	if lerr == nil || lerr.Kind != KindBothVolatile {
		t.Fatalf("Expected KindBothVolatile, got %v", err)
	}
	if lerr.Message != "One of the tokens must be a stablecoin ('ETH' and 'AAVE' are not)" {
		t.Errorf("Unexpected message: %s", lerr.Message)
	}
}

func TestAddSwap_Duplicate(t *testing.T) {
	svc := newTestService(t)
	registerTokens(t, svc, []string{"USDC"}, []string{"ETH"})
	ctx := context.Background()

	in := SwapInput{
		Timestamp:  time.Date(2024, 5, 12, 14, 5, 33, 0, time.UTC),
		FromToken:  "USDC",
		ToToken:    "ETH",
		FromAmount: 50,
		ToAmount:   0.02,
	}

	if _, err := svc.AddSwap(ctx, in); err != nil {
		t.Fatalf("First AddSwap failed: %v", err)
	}

	_, err := svc.AddSwap(ctx, in)
	if !IsConflict(err) {
		t.Fatalf("Expected conflict, got %v", err)
	}
	lerr := AsError(err)
	if lerr.Message != "Transaction for 'ETH' at '2024-05-12 14:05:33' already exists." {
		t.Errorf("Unexpected message: %s", lerr.Message)
	}

	// The first transaction must be untouched.
	txs, err := svc.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("Expected 1 stored transaction, got %d", len(txs))
	}
}

func TestAddSwap_TruncatesToSecond(t *testing.T) {
	svc := newTestService(t)
	registerTokens(t, svc, []string{"USDC"}, []string{"ETH"})
	ctx := context.Background()

	receipt, err := svc.AddSwap(ctx, SwapInput{
		Timestamp:  time.Date(2024, 5, 12, 14, 5, 33, 987654321, time.UTC),
		FromToken:  "USDC",
		ToToken:    "ETH",
		FromAmount: 50,
		ToAmount:   0.02,
	})
	if err != nil {
		t.Fatalf("AddSwap failed: %v", err)
	}
	if receipt.Timestamp.Nanosecond() != 0 {
		t.Errorf("Timestamp should be truncated to seconds, got %s", receipt.Timestamp)
	}
}

func TestRegisterToken_Idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.RegisterToken(ctx, "USDC", true)
	if err != nil {
		t.Fatalf("RegisterToken failed: %v", err)
	}
	if !first.Created {
		t.Error("First registration should create")
	}
	if first.Message != "Token 'USDC' marked as stablecoin" {
		t.Errorf("Unexpected message: %s", first.Message)
	}

	second, err := svc.RegisterToken(ctx, "USDC", true)
	if err != nil {
		t.Fatalf("Re-registration with same flag failed: %v", err)
	}
	if second.Created {
		t.Error("Re-registration should not create")
	}
	if second.Message != "Token 'USDC' already exists" {
		t.Errorf("Unexpected message: %s", second.Message)
	}
}

func TestRegisterToken_FlagConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RegisterToken(ctx, "USDC", true); err != nil {
		t.Fatalf("RegisterToken failed: %v", err)
	}

	_, err := svc.RegisterToken(ctx, "USDC", false)
	if !IsConflict(err) {
		t.Fatalf("Expected conflict, got %v", err)
	}
	if AsError(err).Message != "'USDC' is already marked as a stablecoin." {
		t.Errorf("Unexpected message: %s", AsError(err).Message)
	}
}

func TestRegisterToken_EmptyName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RegisterToken(context.Background(), "", true)
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

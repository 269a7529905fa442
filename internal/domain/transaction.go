package domain

import "time"

// Transaction is one stored swap leg pair, normalized against the stablecoin
// reference. Corresponds to the transactions table in PostgreSQL.
//
// Sign convention: Amount and TotalUSD always carry opposite signs. A buy
// acquires the token for stablecoins (Amount positive, TotalUSD negative);
// a sell disposes of it (Amount negative, TotalUSD positive).
type Transaction struct {
	ID         int64     // BIGSERIAL primary key
	Timestamp  time.Time // when the swap happened, second precision
	Token      string    // the non-stablecoin leg's symbol
	Amount     float64   // signed token quantity
	StableCoin string    // the stablecoin leg's symbol
	TotalUSD   float64   // signed USD value
	CreatedAt  time.Time // record creation time
}

package domain

// Token is a registry entry mapping a token symbol to its stability flag.
// Corresponds to the tokens table in PostgreSQL.
type Token struct {
	Name     string // short symbol, case-sensitive, primary key
	IsStable bool   // true when the token is a USD-pegged stablecoin
}

package main

import "swap-ledger/internal/cli"

func main() {
	cli.Execute()
}

package models

// Portfolio represents a Prime portfolio
type Portfolio struct {
	Id   string
	Name string
}

// PrimeWallet represents a Prime custody wallet
type PrimeWallet struct {
	Id     string
	Name   string
	Symbol string
	Type   string
}

// DepositAddress represents a Prime deposit address
type DepositAddress struct {
	Id      string
	Address string
	Network string
	Asset   string
}

package wallet

// WalletTx is implemented by transactions that are sent by a controller on
// behalf of a wallet.
type WalletTx interface {
	// GetWalletID returns the ID of the wallet the transaction operates
	// on, or nil.
	GetWalletID() []byte
}

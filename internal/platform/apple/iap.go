package apple

import (
	"context"
	"errors"
	"fmt"

	"github.com/awa/go-iap/appstore"

	cfgpkg "github.com/quietleaf/mindlog/pkg/config"
)

// ReceiptInfo is the subset of Apple's latest_receipt_info entries billing
// needs to resolve the purchased product and the purchasing user.
type ReceiptInfo struct {
	ProductID             string `json:"product_id"`
	TransactionID         string `json:"transaction_id"`
	OriginalTransactionID string `json:"original_transaction_id"`
	AppAccountToken       string `json:"app_account_token"`
	PurchaseDateMs        string `json:"purchase_date_ms"`
	ExpiresDateMs         string `json:"expires_date_ms"`
}

type Receipt struct {
	LatestReceiptInfo []*ReceiptInfo `json:"latest_receipt_info"`
}

// VerifyReceipt verifies a client-supplied receipt with the App Store verify
// endpoint and returns the decoded latest transactions, newest first.
func VerifyReceipt(ctx context.Context, receiptData string, cfg *cfgpkg.AppleIAPConfig) (*Receipt, error) {
	if cfg == nil {
		return nil, errors.New("apple iap config is nil")
	}

	client := appstore.New()
	if !cfg.IsProd {
		client.ProductionURL = client.SandboxURL
	}

	var result Receipt
	err := client.Verify(ctx, appstore.IAPRequest{
		ReceiptData:            receiptData,
		Password:               cfg.SharedSecret,
		ExcludeOldTransactions: true,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to verify receipt: %w", err)
	}

	if len(result.LatestReceiptInfo) == 0 {
		return nil, errors.New("receipt contains no transactions")
	}
	return &result, nil
}

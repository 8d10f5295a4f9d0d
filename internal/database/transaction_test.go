package database

import (
	"context"
	"testing"
)

func TestTxFromContext_NoTx(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil tx from a bare context")
	}
}

func TestContextWithTx_Nil(t *testing.T) {
	// A nil transaction stored in the context must not be returned as
	// a usable Querier.
	ctx := ContextWithTx(context.Background(), nil)
	if tx := TxFromContext(ctx); tx != nil {
		t.Error("expected nil tx from context carrying a nil transaction")
	}
}

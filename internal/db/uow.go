package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// UnitOfWork is an opaque handle identifying one atomic unit of work. Every
// repository call that receives the same handle observes the same isolation
// snapshot; a read-modify-write sequence sharing a handle is serializable
// against concurrent units of work touching the same documents.
type UnitOfWork interface{}

// TxRunner executes a function inside a single unit of work, committing on
// nil and rolling back (and possibly retrying) on error or conflict.
type TxRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}

// firestoreTxRunner backs TxRunner with native Firestore transactions, which
// give the serializable semantics the membership invariants rely on: two
// transactions racing on the same container commit one at a time, and the
// loser re-runs against the winner's state.
type firestoreTxRunner struct {
	client *firestore.Client
}

// NewFirestoreTxRunner creates a TxRunner over the given Firestore client.
func NewFirestoreTxRunner(client *firestore.Client) TxRunner {
	return &firestoreTxRunner{client: client}
}

func (r *firestoreTxRunner) RunTransaction(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, tx)
	})
}

// firestoreTx unwraps the handle produced by firestoreTxRunner. Repositories
// in this package only accept handles from that runner.
func firestoreTx(uow UnitOfWork) (*firestore.Transaction, error) {
	tx, ok := uow.(*firestore.Transaction)
	if !ok || tx == nil {
		return nil, fmt.Errorf("unit of work is not a firestore transaction (got %T)", uow)
	}
	return tx, nil
}

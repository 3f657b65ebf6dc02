package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/models"
)

// Ledger is the transactional surface of the vote-weight ledger. Every
// workflow transition that touches more than one record runs inside a
// single InTx call; partial application is never visible.
type Ledger interface {
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the view of the ledger inside one atomic transaction.
// MemberForUpdate takes a row lock, so precondition checks made against
// the returned record hold until commit.
type LedgerTx interface {
	MemberForUpdate(ctx context.Context, id string) (*models.Member, error)
	UpdateMemberLedger(ctx context.Context, m *models.Member) error
	InsertRequest(ctx context.Context, r *models.DelegationRequest) error
	RequestForUpdate(ctx context.Context, id uuid.UUID) (*models.DelegationRequest, error)
	MarkRequestDecided(ctx context.Context, id uuid.UUID, status models.RequestStatus, decidedBy string, decidedAt time.Time) error
}

package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createProposal = `
INSERT INTO proposals (store_id, user_id, title, description, amount, status)
VALUES ($1, $2, $3, $4, $5, 'pending')
RETURNING id, store_id, user_id, title, description, amount, status, reviewed_by, reviewed_at, created_at
`

type CreateProposalParams struct {
	StoreID     uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description pgtype.Text
	Amount      pgtype.Numeric
}

func (q *Queries) CreateProposal(ctx context.Context, arg CreateProposalParams) (Proposal, error) {
	row := q.db.QueryRow(ctx, createProposal,
		arg.StoreID, arg.UserID, arg.Title, arg.Description, arg.Amount)
	var p Proposal
	err := scanProposal(row, &p)
	return p, err
}

const getProposal = `
SELECT id, store_id, user_id, title, description, amount, status, reviewed_by, reviewed_at, created_at
FROM proposals
WHERE id = $1 AND store_id = $2
`

type GetProposalParams struct {
	ID      uuid.UUID
	StoreID uuid.UUID
}

func (q *Queries) GetProposal(ctx context.Context, arg GetProposalParams) (Proposal, error) {
	row := q.db.QueryRow(ctx, getProposal, arg.ID, arg.StoreID)
	var p Proposal
	err := scanProposal(row, &p)
	return p, err
}

const listProposalsByStore = `
SELECT id, store_id, user_id, title, description, amount, status, reviewed_by, reviewed_at, created_at
FROM proposals
WHERE store_id = $1
  AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4
`

type ListProposalsByStoreParams struct {
	StoreID uuid.UUID
	Status  pgtype.Text
	Limit   int32
	Offset  int32
}

func (q *Queries) ListProposalsByStore(ctx context.Context, arg ListProposalsByStoreParams) ([]Proposal, error) {
	rows, err := q.db.Query(ctx, listProposalsByStore, arg.StoreID, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Proposal
	for rows.Next() {
		var p Proposal
		if err := scanProposal(rows, &p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const reviewProposal = `
UPDATE proposals
SET status = $3, reviewed_by = $4, reviewed_at = now()
WHERE id = $1 AND store_id = $2 AND status = 'pending'
RETURNING id, store_id, user_id, title, description, amount, status, reviewed_by, reviewed_at, created_at
`

type ReviewProposalParams struct {
	ID         uuid.UUID
	StoreID    uuid.UUID
	Status     string
	ReviewedBy pgtype.UUID
}

func (q *Queries) ReviewProposal(ctx context.Context, arg ReviewProposalParams) (Proposal, error) {
	row := q.db.QueryRow(ctx, reviewProposal, arg.ID, arg.StoreID, arg.Status, arg.ReviewedBy)
	var p Proposal
	err := scanProposal(row, &p)
	return p, err
}

func scanProposal(row scanner, p *Proposal) error {
	return row.Scan(&p.ID, &p.StoreID, &p.UserID, &p.Title, &p.Description, &p.Amount,
		&p.Status, &p.ReviewedBy, &p.ReviewedAt, &p.CreatedAt)
}

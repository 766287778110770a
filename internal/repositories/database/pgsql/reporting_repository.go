package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetAccountTotals sums base-currency debits and credits per account.
func (r *reportingRepository) GetAccountTotals(ctx context.Context, entityID string, filter domain.LineFilter) ([]domain.AccountTotal, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.base_amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN l.side = 'CREDIT' THEN l.base_amount ELSE 0 END), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE e.entity_id = $1
			AND e.entry_date <= $2
			AND ($3::date IS NULL OR e.entry_date >= $3::date)
			AND (NOT $4::boolean OR e.status = 'APPROVED')
			AND (cardinality($5::text[]) = 0 OR a.account_type = ANY($5::text[]))
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, entityID, filter.To, filter.From, filter.ApprovedOnly, typeStrings(filter.Types))
	if err != nil {
		return nil, fmt.Errorf("error querying account totals: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountTotal{}
	for rows.Next() {
		var row domain.AccountTotal
		var accountType string
		if err := rows.Scan(
			&row.AccountID,
			&row.Code,
			&row.Name,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning account total row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account total rows: %w", err)
	}
	return result, nil
}

package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
)

const entryColumns = `entry_id, entity_id, period_id, entry_date, description, source_module, source_id, status,
	approved_by, approved_at, reversal_of_entry_id, annotation, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, line_no, side, amount, currency_code, exchange_rate, base_amount, memo`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntityID,
		&m.PeriodID,
		&m.EntryDate,
		&m.Description,
		&m.SourceModule,
		&m.SourceID,
		&m.Status,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.ReversalOfEntryID,
		&m.Annotation,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return toDomainJournalEntry(m), nil
}

// loadLines attaches lines, ordered by line number, to the given entries.
func loadLines(ctx context.Context, q querier, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
		index[e.EntryID] = i
	}

	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return mapPgError(err, "query journal lines")
	}
	defer rows.Close()

	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.LineNo,
			&m.Side,
			&m.Amount,
			&m.CurrencyCode,
			&m.ExchangeRate,
			&m.BaseAmount,
			&m.Memo,
		); err != nil {
			return mapPgError(err, "scan journal line")
		}
		i := index[m.EntryID]
		entries[i].Lines = append(entries[i].Lines, toDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return mapPgError(err, "iterate journal lines")
	}
	return nil
}

func findEntry(ctx context.Context, q querier, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	entry, err := scanEntry(q.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, mapPgError(err, "find journal entry "+entryID)
	}
	entries := []domain.JournalEntry{entry}
	if err := loadLines(ctx, q, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func queryEntries(ctx context.Context, q querier, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "query journal entries")
	}
	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, mapPgError(err, "scan journal entry")
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "iterate journal entries")
	}

	if err := loadLines(ctx, q, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindJournalEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, r.Pool, entryID, false)
}

func (r *PgxJournalRepository) ListJournalEntriesBySource(ctx context.Context, entityID, sourceModule, sourceID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entity_id = $1 AND source_module = $2 AND ($3::text = '' OR source_id = $3::text)
		ORDER BY entry_date, created_at, entry_id;
	`
	return queryEntries(ctx, r.Pool, query, entityID, sourceModule, sourceID)
}

func (r *PgxJournalRepository) ListJournalEntriesByPeriod(ctx context.Context, periodID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE period_id = $1
		ORDER BY entry_date, created_at, entry_id;
	`
	return queryEntries(ctx, r.Pool, query, periodID)
}

// ListJournalEntriesByEntity pages newest first. One extra row is fetched to
// decide whether a next token is needed.
func (r *PgxJournalRepository) ListJournalEntriesByEntity(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{entityID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entity_id = $1`
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at, entry_id) < ($2, $3, $4)`
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	entries, err := queryEntries(ctx, r.Pool, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) <= limit {
		return entries, nil, nil
	}

	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.EntryCursor{
		EntryDate: last.EntryDate,
		CreatedAt: last.CreatedAt,
		EntryID:   last.EntryID,
	})
	return page, &token, nil
}

func (r *PgxJournalRepository) UpdateJournalAnnotation(ctx context.Context, entryID, annotation, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET annotation = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, annotation, at, userID)
	if err != nil {
		return mapPgError(err, "annotate journal entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

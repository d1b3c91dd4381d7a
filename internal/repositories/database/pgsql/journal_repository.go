package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/agencydesk/agency_backend/internal/apperrors"
	"github.com/agencydesk/agency_backend/internal/core/domain"
	portsrepo "github.com/agencydesk/agency_backend/internal/core/ports/repositories"
	"github.com/agencydesk/agency_backend/internal/models"
	"github.com/agencydesk/agency_backend/internal/utils/mapping"
	"github.com/agencydesk/agency_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, entry_no, entry_date, status, description, reference, posted_by, posted_at, original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const insertEntryQuery = `
	INSERT INTO journal_entries (` + entryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

const insertItemQuery = `
	INSERT INTO journal_entry_items (item_id, entry_id, account_id, item_type, amount, description, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// scanEntry reads one journal entry row into a model.
func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var postedBy, originalID, reversingID sql.NullString
	var postedAt sql.NullTime
	err := row.Scan(
		&m.EntryID,
		&m.EntryNo,
		&m.EntryDate,
		&m.Status,
		&m.Description,
		&m.Reference,
		&postedBy,
		&postedAt,
		&originalID,
		&reversingID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if postedBy.Valid {
		m.PostedBy = &postedBy.String
	}
	if postedAt.Valid {
		m.PostedAt = &postedAt.Time
	}
	if originalID.Valid {
		m.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingEntryID = &reversingID.String
	}
	return m, nil
}

func execInsertEntry(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	_, err := tx.Exec(ctx, insertEntryQuery,
		m.EntryID,
		m.EntryNo,
		m.EntryDate,
		m.Status,
		m.Description,
		m.Reference,
		m.PostedBy,
		m.PostedAt,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// queueItemInserts batches the item inserts and sends them on tx.
func queueItemInserts(ctx context.Context, tx pgx.Tx, entryID string, items []domain.JournalEntryItem) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		modelItem := mapping.ToModelJournalEntryItem(item)
		batch.Queue(insertItemQuery,
			modelItem.ItemID,
			modelItem.EntryID,
			modelItem.AccountID,
			modelItem.ItemType,
			modelItem.Amount,
			modelItem.Description,
			modelItem.CreatedAt,
			modelItem.CreatedBy,
			modelItem.LastUpdatedAt,
			modelItem.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute item batch for entry %s: %w", entryID, err)
	}
	return nil
}

// lockAccounts takes row locks on the given accounts in a deterministic order
// so concurrent postings touching the same accounts cannot deadlock.
func lockAccounts(ctx context.Context, tx pgx.Tx, accountIDs []string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	sorted := make([]string, len(accountIDs))
	copy(sorted, accountIDs)
	sort.Strings(sorted)

	query := `
		SELECT account_id FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan locked account row: %w", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating locked account rows: %w", err)
	}
	if locked != len(sorted) {
		return fmt.Errorf("%w: one or more accounts missing during balance update", apperrors.ErrNotFound)
	}
	return nil
}

// applyBalanceChanges runs atomic increments against the locked accounts. The
// delta is applied in SQL rather than read-modify-write in Go, so the stored
// balances stay correct under concurrent postings.
func applyBalanceChanges(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	query := `
		UPDATE accounts
		SET current_balance = current_balance + $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	for _, id := range accountIDs {
		batch.Queue(query, id, balanceChanges[id], now, userID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to apply balance changes: %w", err)
	}
	return nil
}

// SaveEntry persists a draft entry together with all its items within a DB transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits

	if err := execInsertEntry(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		return err
	}
	if err := queueItemInserts(ctx, tx, entry.EntryID, items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateEntry persists header changes to a draft entry. A non-nil items slice
// replaces the existing item set wholesale in the same transaction.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalEntryItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelEntry := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    reference = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.Reference,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update entry %s: %w", modelEntry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Missing or no longer a draft; the service distinguishes the two
		// before calling, so treat a race here as a conflict.
		return fmt.Errorf("%w: entry %s was not updatable", apperrors.ErrConflict, modelEntry.EntryID)
	}

	if items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_items WHERE entry_id = $1;`, modelEntry.EntryID); err != nil {
			return fmt.Errorf("failed to clear items for entry %s: %w", modelEntry.EntryID, err)
		}
		if err := queueItemInserts(ctx, tx, modelEntry.EntryID, items); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// PostEntry flips a draft entry to POSTED and applies the balance changes to
// the referenced accounts, all in one transaction.
func (r *PgxEntryRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	if err := lockAccounts(ctx, tx, accountIDs); err != nil {
		return err
	}

	modelEntry := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET status = 'POSTED',
		    posted_by = $2,
		    posted_at = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.PostedBy,
		modelEntry.PostedAt,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to post entry %s: %w", modelEntry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Another request posted or deleted the draft first.
		return fmt.Errorf("%w: entry %s is no longer a draft", apperrors.ErrConflict, modelEntry.EntryID)
	}

	if err := applyBalanceChanges(ctx, tx, balanceChanges, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists a posted counter-entry, applies its balance changes,
// and flips the original entry to REVERSED with the reversal linkage, all in
// one transaction.
func (r *PgxEntryRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, items []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal, original domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	if err := lockAccounts(ctx, tx, accountIDs); err != nil {
		return err
	}

	// Flip the original first; a zero row count means a concurrent reversal won.
	query := `
		UPDATE journal_entries
		SET status = 'REVERSED',
		    reversing_entry_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, query,
		original.EntryID,
		reversing.EntryID,
		reversing.LastUpdatedAt,
		reversing.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", original.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is no longer posted", apperrors.ErrConflict, original.EntryID)
	}

	if err := execInsertEntry(ctx, tx, mapping.ToModelJournalEntry(reversing)); err != nil {
		return err
	}
	if err := queueItemInserts(ctx, tx, reversing.EntryID, items); err != nil {
		return err
	}
	if err := applyBalanceChanges(ctx, tx, balanceChanges, reversing.CreatedBy, reversing.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteEntry removes a draft entry and all its items.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_items WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete items for entry %s: %w", entryID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entry_id = $1;
	`
	modelEntry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	domainEntry := mapping.ToDomainJournalEntry(modelEntry)
	return &domainEntry, nil
}

// FindItemsByEntryID retrieves all line items of an entry.
func (r *PgxEntryRepository) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryItem, error) {
	query := `
		SELECT item_id, entry_id, account_id, item_type, amount, description, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entry_items
		WHERE entry_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	items := []models.JournalEntryItem{}
	for rows.Next() {
		var m models.JournalEntryItem
		err := rows.Scan(
			&m.ItemID,
			&m.EntryID,
			&m.AccountID,
			&m.ItemType,
			&m.Amount,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row for entry %s: %w", entryID, err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows for entry %s: %w", entryID, err)
	}

	return mapping.ToDomainJournalEntryItemSlice(items), nil
}

// ListEntries retrieves a paginated list of journal entries using token-based
// pagination, newest first, optionally filtered by status.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to decide whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE 1=1
	`
	args := []interface{}{}
	if status != nil {
		args = append(args, string(*status))
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}

	// Ordering must be stable for the cursor to work.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %w", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, lastEntryDate, lastCreatedAt)
		baseQuery += fmt.Sprintf(" AND (entry_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	domainEntries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		domainEntries[i] = mapping.ToDomainJournalEntry(m)
	}

	return domainEntries, nextTokenVal, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"
	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/atolonline/internal/core/audit"
)

const table = "fiscal_exchange_log"

var columns = []string{
	"id",
	"correlation_id",
	"service",
	"operation",
	"request_method",
	"request_url",
	"request_headers",
	"request_body",
	"response_status",
	"response_headers",
	"response_body",
	"duration_ms",
	"error_message",
	"created_at",
}

// Repository implements audit.Repository on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ audit.Repository = (*Repository)(nil)

// NewRepository creates a repository. A nil logger disables its diagnostics.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Repository{pool: pool, log: log}
}

// Save inserts one exchange.
func (r *Repository) Save(ctx context.Context, e audit.Exchange) error {
	query, args, err := insertQuery(e)
	if err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to insert exchange into audit log",
			"correlation_id", e.CorrelationID,
			"operation", e.Operation,
			"response_status", e.ResponseStatus,
			"error", err,
		)
		return fmt.Errorf("insert exchange: %w", err)
	}

	r.log.Debug("Exchange saved to audit log",
		"correlation_id", e.CorrelationID,
		"operation", e.Operation,
		"duration_ms", e.DurationMs,
	)
	return nil
}

// Find returns exchanges matching f, newest first.
func (r *Repository) Find(ctx context.Context, f audit.Filter) ([]audit.Exchange, error) {
	query, args, err := selectQuery(f)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []audit.Exchange
	for rows.Next() {
		e, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchanges: %w", err)
	}
	return exchanges, nil
}

func insertQuery(e audit.Exchange) (string, []any, error) {
	requestHeaders, err := json.Marshal(e.RequestHeaders)
	if err != nil {
		return "", nil, fmt.Errorf("marshal request headers: %w", err)
	}
	responseHeaders, err := json.Marshal(e.ResponseHeaders)
	if err != nil {
		return "", nil, fmt.Errorf("marshal response headers: %w", err)
	}

	query, args, err := sq.Insert(table).
		Columns(columns[1:13]...).
		Values(
			e.CorrelationID,
			e.Service,
			e.Operation,
			e.RequestMethod,
			e.RequestURL,
			requestHeaders,
			nullableJSON(e.RequestBody),
			e.ResponseStatus,
			responseHeaders,
			nullableJSON(e.ResponseBody),
			e.DurationMs,
			zeronull.Text(e.ErrorMessage),
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert: %w", err)
	}
	return query, args, nil
}

func selectQuery(f audit.Filter) (string, []any, error) {
	stmt := sq.Select(columns...).From(table).PlaceholderFormat(sq.Dollar)

	if f.CorrelationID != "" {
		stmt = stmt.Where(sq.Eq{"correlation_id": f.CorrelationID})
	}
	if f.Operation != "" {
		stmt = stmt.Where(sq.Eq{"operation": f.Operation})
	}
	if !f.Since.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"created_at": f.Since})
	}
	if f.Limit > 0 {
		stmt = stmt.Limit(f.Limit)
	}

	query, args, err := stmt.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}

func scanExchange(row pgx.Row) (audit.Exchange, error) {
	var (
		e                               audit.Exchange
		requestHeaders, responseHeaders []byte
		requestBody, responseBody       []byte
	)

	err := row.Scan(
		&e.ID,
		&e.CorrelationID,
		&e.Service,
		&e.Operation,
		&e.RequestMethod,
		&e.RequestURL,
		&requestHeaders,
		&requestBody,
		&e.ResponseStatus,
		&responseHeaders,
		&responseBody,
		&e.DurationMs,
		(*zeronull.Text)(&e.ErrorMessage),
		&e.CreatedAt,
	)
	if err != nil {
		return audit.Exchange{}, fmt.Errorf("scan exchange: %w", err)
	}

	if err := json.Unmarshal(requestHeaders, &e.RequestHeaders); err != nil {
		return audit.Exchange{}, fmt.Errorf("unmarshal request headers: %w", err)
	}
	if err := json.Unmarshal(responseHeaders, &e.ResponseHeaders); err != nil {
		return audit.Exchange{}, fmt.Errorf("unmarshal response headers: %w", err)
	}
	e.RequestBody = requestBody
	e.ResponseBody = responseBody
	return e, nil
}

func nullableJSON(body json.RawMessage) any {
	if len(body) == 0 {
		return nil
	}
	return []byte(body)
}

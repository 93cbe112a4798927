package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/grace/internal/model"
	"github.com/sandeepkv93/grace/internal/session"
)

const sqliteTimeLayout = time.RFC3339Nano

// MemoryDSN keeps the archive in process memory for the lifetime of the app.
const MemoryDSN = "file:grace-history?mode=memory&cache=shared"

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens dsn and applies the migrations. An in-memory dsn is pinned
// to a single connection so the database outlives idle pool churn.
func OpenSQLite(dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if isMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Archive stores conv and its messages in one transaction.
func (r *SQLiteRepository) Archive(ctx context.Context, conv session.Conversation) error {
	if conv.ID == "" {
		return errors.New("storage: conversation id is empty")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (id, archived_at) VALUES (?, ?)`,
		conv.ID, mustTime(conv.ArchivedAt),
	); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	for i, msg := range conv.Messages {
		atts, err := encodeAttachments(msg.Attachments)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO messages (conversation_id, position, id, role, content, created_at, attachments)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			conv.ID, i, msg.ID, string(msg.Role), msg.Content, mustTime(msg.Timestamp), atts,
		); err != nil {
			return fmt.Errorf("insert message %s: %w", msg.ID, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) List(ctx context.Context) ([]session.Conversation, error) {
	return r.ListConversations(ctx, ConversationListFilter{})
}

// Clear empties the archive.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages; DELETE FROM conversations`)
	return err
}

func (r *SQLiteRepository) GetConversation(ctx context.Context, id string) (session.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, archived_at FROM conversations WHERE id = ?`, id)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Conversation{}, ErrNotFound
		}
		return session.Conversation{}, err
	}
	msgs, err := r.listMessages(ctx, conv.ID)
	if err != nil {
		return session.Conversation{}, err
	}
	conv.Messages = msgs
	return conv, nil
}

func (r *SQLiteRepository) DeleteConversation(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) ListConversations(ctx context.Context, filter ConversationListFilter) ([]session.Conversation, error) {
	query := `SELECT id, archived_at FROM conversations ORDER BY seq ASC`
	args := make([]any, 0, 2)
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]session.Conversation, 0)
	for rows.Next() {
		conv, scanErr := scanConversation(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, conv)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Release the cursor before the per-conversation queries; a pinned
	// in-memory pool has a single connection.
	_ = rows.Close()

	for i := range out {
		msgs, err := r.listMessages(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Messages = msgs
	}
	return out, nil
}

func (r *SQLiteRepository) CountConversations(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SQLiteRepository) listMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, role, content, created_at, attachments
		FROM messages WHERE conversation_id = ? ORDER BY position ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		msg, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

// encodeAttachments stores attachment lists as a JSON column. Empty lists
// are stored as NULL.
func encodeAttachments(atts []model.Attachment) (any, error) {
	if len(atts) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(atts)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	return string(raw), nil
}

func decodeAttachments(v sql.NullString) ([]model.Attachment, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var out []model.Attachment
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(s scanner) (session.Conversation, error) {
	var out session.Conversation
	var archived string
	if err := s.Scan(&out.ID, &archived); err != nil {
		return session.Conversation{}, err
	}
	archivedAt, err := parseRequiredTime(archived)
	if err != nil {
		return session.Conversation{}, err
	}
	out.ArchivedAt = archivedAt
	return out, nil
}

func scanMessage(s scanner) (model.Message, error) {
	var out model.Message
	var role string
	var created string
	var atts sql.NullString
	if err := s.Scan(&out.ID, &role, &out.Content, &created, &atts); err != nil {
		return model.Message{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Message{}, err
	}
	attachments, err := decodeAttachments(atts)
	if err != nil {
		return model.Message{}, err
	}
	out.Role = model.Role(role)
	out.Timestamp = createdAt
	out.Attachments = attachments
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

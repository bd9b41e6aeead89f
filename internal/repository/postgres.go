package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/utils"

	"github.com/lib/pq"
)

// PostgresRepo implements AuctionDB, NotificationDB and WishlistDB on PostgreSQL.
// Conditional updates carry their guard in the WHERE clause so each state
// transition is a single statement.
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// ConnectPostgres opens and pings a connection pool
func ConnectPostgres(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// RunMigrations applies every *.sql file in migrationsDir in name order.
// Migrations are written to be re-runnable.
func RunMigrations(db *sql.DB, migrationsDir string) error {
	if migrationsDir == "" {
		return fmt.Errorf("migrations directory not specified")
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
		utils.Info("applied migration", map[string]any{"file": name})
	}
	return nil
}

func (r *PostgresRepo) Close() error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

const auctionColumns = `id, title, description, images, category, starting_price, current_price,
	start_time, end_time, status, payment_status, notified, winner_kind, winner_id,
	created_by_kind, created_by_id, creator_name, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (model.Auction, error) {
	var (
		a          model.Auction
		images     []string
		winnerKind sql.NullString
		winnerID   sql.NullString
		ownerKind  string
	)
	err := row.Scan(
		&a.AuctionID, &a.Title, &a.Description, pq.Array(&images), &a.Category,
		&a.StartingPrice, &a.CurrentPrice, &a.StartTime, &a.EndTime, &a.Status,
		&a.PaymentStatus, &a.Notified, &winnerKind, &winnerID,
		&ownerKind, &a.CreatedBy.ID, &a.CreatorName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return model.Auction{}, err
	}
	a.Images = images
	a.CreatedBy.Kind = model.AccountKind(ownerKind)
	if winnerID.Valid {
		a.Winner = &model.Identity{Kind: model.AccountKind(winnerKind.String), ID: winnerID.String}
	}
	return a, nil
}

// CreateAuction inserts an auction and any bids it already carries
func (r *PostgresRepo) CreateAuction(ctx context.Context, a model.Auction) error {
	var winnerKind, winnerID sql.NullString
	if a.Winner != nil {
		winnerKind = sql.NullString{String: string(a.Winner.Kind), Valid: true}
		winnerID = sql.NullString{String: a.Winner.ID, Valid: true}
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO auctions (`+auctionColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		a.AuctionID, a.Title, a.Description, pq.Array(a.Images), a.Category,
		a.StartingPrice, a.CurrentPrice, a.StartTime, a.EndTime, a.Status,
		a.PaymentStatus, a.Notified, winnerKind, winnerID,
		a.CreatedBy.Kind, a.CreatedBy.ID, a.CreatorName, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("create auction %s: %w", a.AuctionID, biddingerrors.ErrConflict)
		}
		return fmt.Errorf("failed to create auction: %w", err)
	}

	for _, b := range a.Bids {
		if err := insertBid(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertBid(ctx context.Context, tx *sql.Tx, b model.Bid) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO bids (id, auction_id, bidder_kind, bidder_id, bidder_name, amount, bid_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.BidID, b.AuctionID, b.Bidder.Kind, b.Bidder.ID, b.BidderName, b.Amount, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bid %s: %w", b.BidID, err)
	}
	return nil
}

// GetAuction loads one auction with its bids
func (r *PostgresRepo) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, auctionID)
	a, err := scanAuction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
		}
		return model.Auction{}, fmt.Errorf("failed to get auction: %w", err)
	}

	list := []model.Auction{a}
	if err := r.loadBids(ctx, list); err != nil {
		return model.Auction{}, err
	}
	return list[0], nil
}

// ListAuctions returns matching auctions, latest end time first
func (r *PostgresRepo) ListAuctions(ctx context.Context, filter AuctionFilter) ([]model.Auction, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.CreatedBy != nil {
		where = append(where, fmt.Sprintf("created_by_kind = %s AND created_by_id = %s",
			arg(filter.CreatedBy.Kind), arg(filter.CreatedBy.ID)))
	}
	if filter.Winner != nil {
		where = append(where, fmt.Sprintf("winner_kind = %s AND winner_id = %s",
			arg(filter.Winner.Kind), arg(filter.Winner.ID)))
	}
	if len(filter.IDs) > 0 {
		where = append(where, "id = ANY("+arg(pq.Array(filter.IDs))+")")
	}

	query := `SELECT ` + auctionColumns + ` FROM auctions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY end_time DESC, id"

	return r.queryAuctions(ctx, query, args...)
}

func (r *PostgresRepo) queryAuctions(ctx context.Context, query string, args ...any) ([]model.Auction, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	defer rows.Close()

	auctions := make([]model.Auction, 0)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auction: %w", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auctions: %w", err)
	}

	if err := r.loadBids(ctx, auctions); err != nil {
		return nil, err
	}
	return auctions, nil
}

// loadBids fills the Bids field of each auction in acceptance order
func (r *PostgresRepo) loadBids(ctx context.Context, auctions []model.Auction) error {
	if len(auctions) == 0 {
		return nil
	}

	index := make(map[string]int, len(auctions))
	ids := make([]string, len(auctions))
	for i, a := range auctions {
		index[a.AuctionID] = i
		ids[i] = a.AuctionID
		auctions[i].Bids = []model.Bid{}
	}

	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, auction_id, bidder_kind, bidder_id, bidder_name, amount, bid_time
        FROM bids
        WHERE auction_id = ANY($1)
        ORDER BY seq`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load bids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b    model.Bid
			kind string
		)
		if err := rows.Scan(&b.BidID, &b.AuctionID, &kind, &b.Bidder.ID, &b.BidderName, &b.Amount, &b.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan bid: %w", err)
		}
		b.Bidder.Kind = model.AccountKind(kind)
		i := index[b.AuctionID]
		auctions[i].Bids = append(auctions[i].Bids, b)
	}
	return rows.Err()
}

// ownership reads the fields needed to explain why a conditional update matched nothing
func (r *PostgresRepo) ownership(ctx context.Context, auctionID string) (owner model.Identity, status model.AuctionStatus, err error) {
	var kind string
	err = r.DB.QueryRowContext(ctx,
		`SELECT created_by_kind, created_by_id, status FROM auctions WHERE id = $1`, auctionID,
	).Scan(&kind, &owner.ID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return owner, status, biddingerrors.ErrAuctionNotFound
	}
	owner.Kind = model.AccountKind(kind)
	return owner, status, err
}

// DeleteAuction removes an active, unexpired auction owned by owner
func (r *PostgresRepo) DeleteAuction(ctx context.Context, auctionID string, owner model.Identity, now time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
        DELETE FROM auctions
        WHERE id = $1 AND created_by_kind = $2 AND created_by_id = $3 AND status = 'active' AND end_time > $4`,
		auctionID, owner.Kind, owner.ID, now)
	if err != nil {
		return fmt.Errorf("failed to delete auction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	return expiredOnMiss(r.explainOwnerMiss(ctx, "delete auction", auctionID, owner), "delete auction", auctionID)
}

// expiredOnMiss turns the "owned and active but not matched" outcome of a
// guarded write into AuctionClosed: the only remaining guard is the end time
func expiredOnMiss(err error, op, auctionID string) error {
	if errors.Is(err, biddingerrors.ErrConflict) {
		return fmt.Errorf("%s %s: %w", op, auctionID, biddingerrors.ErrAuctionClosed)
	}
	return err
}

func (r *PostgresRepo) explainOwnerMiss(ctx context.Context, op, auctionID string, owner model.Identity) error {
	storedOwner, status, err := r.ownership(ctx, auctionID)
	switch {
	case err != nil:
		return fmt.Errorf("%s %s: %w", op, auctionID, err)
	case !storedOwner.Equal(owner):
		return fmt.Errorf("%s %s: %w", op, auctionID, biddingerrors.ErrNotAuctionOwner)
	case status != model.StatusActive:
		return fmt.Errorf("%s %s: %w", op, auctionID, biddingerrors.ErrAuctionClosed)
	default:
		return fmt.Errorf("%s %s: %w", op, auctionID, biddingerrors.ErrConflict)
	}
}

// RecordBid performs the compare-and-swap on current_price and appends the bid
func (r *PostgresRepo) RecordBid(ctx context.Context, bid model.Bid, expectedPrice float64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        UPDATE auctions
        SET current_price = $1, updated_at = $2
        WHERE id = $3 AND status = 'active' AND end_time > $2
          AND current_price = $4 AND $1 > current_price`,
		bid.Amount, bid.CreatedAt, bid.AuctionID, expectedPrice)
	if err != nil {
		return fmt.Errorf("failed to update current price: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM auctions WHERE id = $1)`, bid.AuctionID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check auction: %w", err)
		}
		if !exists {
			return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrAuctionNotFound)
		}
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrConflict)
	}

	if err := insertBid(ctx, tx, bid); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecordBiddedAuction adds the auction to the user's bidded set
func (r *PostgresRepo) RecordBiddedAuction(ctx context.Context, user model.Identity, auctionID string) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO bidded_auctions (user_kind, user_id, auction_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_kind, user_id, auction_id) DO NOTHING`,
		user.Kind, user.ID, auctionID)
	if err != nil {
		return fmt.Errorf("failed to record bidded auction: %w", err)
	}
	return nil
}

// BiddedAuctionIDs returns the auctions user has bid on, in first-bid order
func (r *PostgresRepo) BiddedAuctionIDs(ctx context.Context, user model.Identity) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT auction_id FROM bidded_auctions
        WHERE user_kind = $1 AND user_id = $2
        ORDER BY added_at, auction_id`, user.Kind, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bidded auctions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bidded auction: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CloseAuction force-closes an active auction on behalf of its owner
func (r *PostgresRepo) CloseAuction(ctx context.Context, auctionID string, owner model.Identity, now time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE auctions
        SET status = 'closed', end_time = $4, updated_at = $4
        WHERE id = $1 AND created_by_kind = $2 AND created_by_id = $3 AND status = 'active'`,
		auctionID, owner.Kind, owner.ID, now)
	if err != nil {
		return fmt.Errorf("failed to close auction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	return r.explainOwnerMiss(ctx, "close auction", auctionID, owner)
}

// ExpireAuctions closes active auctions whose end time has passed
func (r *PostgresRepo) ExpireAuctions(ctx context.Context, now time.Time, auctionIDs ...string) (int, error) {
	query := `UPDATE auctions SET status = 'closed', updated_at = $1 WHERE status = 'active' AND end_time <= $1`
	args := []any{now}
	if len(auctionIDs) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, pq.Array(auctionIDs))
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to expire auctions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired auctions: %w", err)
	}
	return int(n), nil
}

// PendingSettlement returns closed auctions not yet notified
func (r *PostgresRepo) PendingSettlement(ctx context.Context) ([]model.Auction, error) {
	return r.queryAuctions(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE status = 'closed' AND notified = FALSE ORDER BY end_time`)
}

// SettleAuction performs the one-time notified flip
func (r *PostgresRepo) SettleAuction(ctx context.Context, auctionID string, winner *model.Identity) (bool, error) {
	var winnerKind, winnerID sql.NullString
	if winner != nil {
		winnerKind = sql.NullString{String: string(winner.Kind), Valid: true}
		winnerID = sql.NullString{String: winner.ID, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, `
        UPDATE auctions
        SET status = 'closed', notified = TRUE, winner_kind = $2, winner_id = $3, updated_at = NOW()
        WHERE id = $1 AND notified = FALSE`,
		auctionID, winnerKind, winnerID)
	if err != nil {
		return false, fmt.Errorf("failed to settle auction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return true, nil
	}
	if _, _, err := r.ownership(ctx, auctionID); err != nil {
		return false, fmt.Errorf("settle auction %s: %w", auctionID, err)
	}
	return false, nil
}

// MarkPaid flips payment status to PAID for a settled auction with a winner
func (r *PostgresRepo) MarkPaid(ctx context.Context, auctionID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE auctions
        SET payment_status = 'PAID', updated_at = NOW()
        WHERE id = $1 AND status = 'closed' AND winner_id IS NOT NULL AND payment_status <> 'PAID'`,
		auctionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark auction paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return true, nil
	}

	a, err := r.GetAuction(ctx, auctionID)
	if err != nil {
		return false, fmt.Errorf("mark paid %s: %w", auctionID, err)
	}
	if a.Status != model.StatusClosed || a.Winner == nil {
		return false, fmt.Errorf("mark paid %s: %w", auctionID, biddingerrors.ErrNoWinner)
	}
	return false, nil
}

// InsertNotification stores a notification
func (r *PostgresRepo) InsertNotification(ctx context.Context, n model.Notification) error {
	var auctionID sql.NullString
	if n.AuctionID != "" {
		auctionID = sql.NullString{String: n.AuctionID, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO notifications (id, recipient_kind, recipient_id, type, message, is_read, auction_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.NotificationID, n.Recipient.Kind, n.Recipient.ID, n.Type, n.Message, n.IsRead, auctionID, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns the recipient's notifications, newest first
func (r *PostgresRepo) ListNotifications(ctx context.Context, recipient model.Identity) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, recipient_kind, recipient_id, type, message, is_read, auction_id, created_at
        FROM notifications
        WHERE recipient_kind = $1 AND recipient_id = $2
        ORDER BY created_at DESC, id DESC`, recipient.Kind, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]model.Notification, 0)
	for rows.Next() {
		var (
			n         model.Notification
			kind      string
			auctionID sql.NullString
		)
		if err := rows.Scan(&n.NotificationID, &kind, &n.Recipient.ID, &n.Type, &n.Message, &n.IsRead, &auctionID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Recipient.Kind = model.AccountKind(kind)
		n.AuctionID = auctionID.String
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkAllRead marks every unread notification of recipient as read
func (r *PostgresRepo) MarkAllRead(ctx context.Context, recipient model.Identity) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE notifications SET is_read = TRUE
        WHERE recipient_kind = $1 AND recipient_id = $2 AND is_read = FALSE`,
		recipient.Kind, recipient.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.RowsAffected()
}

// DeleteNotification removes a notification owned by recipient
func (r *PostgresRepo) DeleteNotification(ctx context.Context, notificationID string, recipient model.Identity) error {
	res, err := r.DB.ExecContext(ctx, `
        DELETE FROM notifications WHERE id = $1 AND recipient_kind = $2 AND recipient_id = $3`,
		notificationID, recipient.Kind, recipient.ID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, notificationID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if exists {
		return fmt.Errorf("delete notification %s: %w", notificationID, biddingerrors.ErrForbidden)
	}
	return fmt.Errorf("delete notification %s: %w", notificationID, biddingerrors.ErrNotificationNotFound)
}

// PurgeNotifications drops notifications created before olderThan
func (r *PostgresRepo) PurgeNotifications(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	return res.RowsAffected()
}

// AddToWishlist adds an entry unless the pair already exists
func (r *PostgresRepo) AddToWishlist(ctx context.Context, entry model.WishlistEntry) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
        INSERT INTO wishlist (user_kind, user_id, auction_id, added_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_kind, user_id, auction_id) DO NOTHING`,
		entry.User.Kind, entry.User.ID, entry.AuctionID, entry.AddedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return false, fmt.Errorf("add wishlist entry %s: %w", entry.AuctionID, biddingerrors.ErrAuctionNotFound)
		}
		return false, fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return n == 1, nil
}

// RemoveFromWishlist deletes the (user, auction) entry
func (r *PostgresRepo) RemoveFromWishlist(ctx context.Context, user model.Identity, auctionID string) error {
	res, err := r.DB.ExecContext(ctx, `
        DELETE FROM wishlist WHERE user_kind = $1 AND user_id = $2 AND auction_id = $3`,
		user.Kind, user.ID, auctionID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove wishlist entry %s: %w", auctionID, biddingerrors.ErrWishlistEntryNotFound)
	}
	return nil
}

// ListWishlist returns the user's entries, newest first
func (r *PostgresRepo) ListWishlist(ctx context.Context, user model.Identity) ([]model.WishlistEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT auction_id, added_at FROM wishlist
        WHERE user_kind = $1 AND user_id = $2
        ORDER BY added_at DESC, auction_id`, user.Kind, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	out := make([]model.WishlistEntry, 0)
	for rows.Next() {
		e := model.WishlistEntry{User: user}
		if err := rows.Scan(&e.AuctionID, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

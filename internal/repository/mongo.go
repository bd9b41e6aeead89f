package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	auctionsCollection      = "auctions"
	notificationsCollection = "notifications"
	wishlistCollection      = "wishlists"
	biddedCollection        = "bidded_auctions"
)

type identityDoc struct {
	Kind string `bson:"kind"`
	ID   string `bson:"id"`
}

func toIdentityDoc(i model.Identity) identityDoc {
	return identityDoc{Kind: string(i.Kind), ID: i.ID}
}

func (d identityDoc) identity() model.Identity {
	return model.Identity{Kind: model.AccountKind(d.Kind), ID: d.ID}
}

type bidDoc struct {
	ID         string      `bson:"bidId"`
	Bidder     identityDoc `bson:"bidder"`
	BidderName string      `bson:"bidderName"`
	Amount     float64     `bson:"amount"`
	BidTime    time.Time   `bson:"bidTime"`
}

// auctionDoc embeds bids in insertion order, so the array order is acceptance order
type auctionDoc struct {
	ID            string       `bson:"_id"`
	Title         string       `bson:"title"`
	Description   string       `bson:"description"`
	Images        []string     `bson:"images"`
	Category      string       `bson:"category"`
	StartingPrice float64      `bson:"startingPrice"`
	CurrentPrice  float64      `bson:"currentPrice"`
	StartTime     time.Time    `bson:"startTime"`
	EndTime       time.Time    `bson:"endTime"`
	Status        string       `bson:"status"`
	PaymentStatus string       `bson:"paymentStatus"`
	Notified      bool         `bson:"notified"`
	Winner        *identityDoc `bson:"winner"`
	CreatedBy     identityDoc  `bson:"createdBy"`
	CreatorName   string       `bson:"creatorName"`
	Bidders       []bidDoc     `bson:"bidders"`
	CreatedAt     time.Time    `bson:"createdAt"`
	UpdatedAt     time.Time    `bson:"updatedAt"`
}

func toAuctionDoc(a model.Auction) auctionDoc {
	d := auctionDoc{
		ID:            a.AuctionID,
		Title:         a.Title,
		Description:   a.Description,
		Images:        append([]string{}, a.Images...),
		Category:      string(a.Category),
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.CurrentPrice,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
		Notified:      a.Notified,
		CreatedBy:     toIdentityDoc(a.CreatedBy),
		CreatorName:   a.CreatorName,
		Bidders:       make([]bidDoc, 0, len(a.Bids)),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.Winner != nil {
		w := toIdentityDoc(*a.Winner)
		d.Winner = &w
	}
	for _, b := range a.Bids {
		d.Bidders = append(d.Bidders, toBidDoc(b))
	}
	return d
}

func toBidDoc(b model.Bid) bidDoc {
	return bidDoc{ID: b.BidID, Bidder: toIdentityDoc(b.Bidder), BidderName: b.BidderName, Amount: b.Amount, BidTime: b.CreatedAt}
}

func (d auctionDoc) auction() model.Auction {
	a := model.Auction{
		AuctionID:     d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Images:        d.Images,
		Category:      model.Category(d.Category),
		StartingPrice: d.StartingPrice,
		CurrentPrice:  d.CurrentPrice,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		Status:        model.AuctionStatus(d.Status),
		PaymentStatus: model.PaymentStatus(d.PaymentStatus),
		Notified:      d.Notified,
		CreatedBy:     d.CreatedBy.identity(),
		CreatorName:   d.CreatorName,
		Bids:          make([]model.Bid, 0, len(d.Bidders)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Winner != nil {
		w := d.Winner.identity()
		a.Winner = &w
	}
	for _, b := range d.Bidders {
		a.Bids = append(a.Bids, model.Bid{
			BidID:      b.ID,
			AuctionID:  d.ID,
			Bidder:     b.Bidder.identity(),
			BidderName: b.BidderName,
			Amount:     b.Amount,
			CreatedAt:  b.BidTime,
		})
	}
	return a
}

type notificationDoc struct {
	ID        string      `bson:"_id"`
	Recipient identityDoc `bson:"recipient"`
	Type      string      `bson:"type"`
	Message   string      `bson:"message"`
	IsRead    bool        `bson:"isRead"`
	AuctionID string      `bson:"relatedAuction,omitempty"`
	CreatedAt time.Time   `bson:"createdAt"`
}

type wishlistDoc struct {
	ID        string      `bson:"_id"`
	User      identityDoc `bson:"user"`
	AuctionID string      `bson:"auction"`
	AddedAt   time.Time   `bson:"addedAt"`
}

type biddedDoc struct {
	ID        string      `bson:"_id"`
	User      identityDoc `bson:"user"`
	AuctionID string      `bson:"auction"`
	AddedAt   time.Time   `bson:"addedAt"`
}

// MongoRepo implements AuctionDB, NotificationDB and WishlistDB on MongoDB.
// Each state transition is one filtered update on a single document.
type MongoRepo struct {
	db *mongo.Database
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{db: db}
}

// ConnectMongo opens and pings a client
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the lookup indexes, the wishlist uniqueness index and
// the TTL index that expires notifications after retention
func (r *MongoRepo) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	_, err := r.db.Collection(auctionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endTime", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy.kind", Value: 1}, {Key: "createdBy.id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create auction indexes: %w", err)
	}

	_, err = r.db.Collection(notificationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient.kind", Value: 1}, {Key: "recipient.id", Value: 1}, {Key: "createdAt", Value: -1}}},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(retention / time.Second)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	_, err = r.db.Collection(wishlistCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user.kind", Value: 1}, {Key: "user.id", Value: 1}, {Key: "auction", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "auction", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create wishlist indexes: %w", err)
	}
	return nil
}

func (r *MongoRepo) auctions() *mongo.Collection {
	return r.db.Collection(auctionsCollection)
}

func ownerFilter(auctionID string, owner model.Identity) bson.M {
	return bson.M{"_id": auctionID, "createdBy.kind": string(owner.Kind), "createdBy.id": owner.ID}
}

// CreateAuction inserts an auction document
func (r *MongoRepo) CreateAuction(ctx context.Context, a model.Auction) error {
	if _, err := r.auctions().InsertOne(ctx, toAuctionDoc(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create auction %s: %w", a.AuctionID, biddingerrors.ErrConflict)
		}
		return fmt.Errorf("failed to create auction: %w", err)
	}
	return nil
}

// GetAuction loads one auction with its bids
func (r *MongoRepo) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	var doc auctionDoc
	if err := r.auctions().FindOne(ctx, bson.M{"_id": auctionID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
		}
		return model.Auction{}, fmt.Errorf("failed to get auction: %w", err)
	}
	return doc.auction(), nil
}

// ListAuctions returns matching auctions, latest end time first
func (r *MongoRepo) ListAuctions(ctx context.Context, filter AuctionFilter) ([]model.Auction, error) {
	q := bson.M{}
	if filter.Category != "" {
		q["category"] = string(filter.Category)
	}
	if filter.CreatedBy != nil {
		q["createdBy.kind"] = string(filter.CreatedBy.Kind)
		q["createdBy.id"] = filter.CreatedBy.ID
	}
	if filter.Winner != nil {
		q["winner.kind"] = string(filter.Winner.Kind)
		q["winner.id"] = filter.Winner.ID
	}
	if len(filter.IDs) > 0 {
		q["_id"] = bson.M{"$in": filter.IDs}
	}

	opts := options.Find().SetSort(bson.D{{Key: "endTime", Value: -1}, {Key: "_id", Value: 1}})
	return r.findAuctions(ctx, q, opts)
}

func (r *MongoRepo) findAuctions(ctx context.Context, q bson.M, opts *options.FindOptions) ([]model.Auction, error) {
	cursor, err := r.auctions().Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	var docs []auctionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode auctions: %w", err)
	}

	out := make([]model.Auction, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.auction())
	}
	return out, nil
}

func (r *MongoRepo) explainOwnerMiss(ctx context.Context, op, auctionID string, owner model.Identity) error {
	a, err := r.GetAuction(ctx, auctionID)
	switch {
	case err != nil:
		return fmt.Errorf("%s %s: %w", op, auctionID, err)
	case !a.CreatedBy.Equal(owner):
		return fmt.Errorf("%s %s: %w", op, auctionID, biddingerrors.ErrNotAuctionOwner)
	case a.Status != model.StatusActive:
		return fmt.Errorf("%s %s: %w", op, auctionID, biddingerrors.ErrAuctionClosed)
	default:
		return fmt.Errorf("%s %s: %w", op, auctionID, biddingerrors.ErrConflict)
	}
}

// DeleteAuction removes an active, unexpired auction owned by owner and its
// wishlist entries
func (r *MongoRepo) DeleteAuction(ctx context.Context, auctionID string, owner model.Identity, now time.Time) error {
	q := ownerFilter(auctionID, owner)
	q["status"] = string(model.StatusActive)
	q["endTime"] = bson.M{"$gt": now}

	res, err := r.auctions().DeleteOne(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to delete auction: %w", err)
	}
	if res.DeletedCount == 0 {
		return expiredOnMiss(r.explainOwnerMiss(ctx, "delete auction", auctionID, owner), "delete auction", auctionID)
	}

	if _, err := r.db.Collection(wishlistCollection).DeleteMany(ctx, bson.M{"auction": auctionID}); err != nil {
		return fmt.Errorf("failed to delete wishlist entries for auction %s: %w", auctionID, err)
	}
	return nil
}

// RecordBid performs the compare-and-swap on currentPrice and pushes the bid
func (r *MongoRepo) RecordBid(ctx context.Context, bid model.Bid, expectedPrice float64) error {
	q := bson.M{
		"_id":          bid.AuctionID,
		"status":       string(model.StatusActive),
		"endTime":      bson.M{"$gt": bid.CreatedAt},
		"currentPrice": bson.M{"$eq": expectedPrice, "$lt": bid.Amount},
	}
	update := bson.M{
		"$set":  bson.M{"currentPrice": bid.Amount, "updatedAt": bid.CreatedAt},
		"$push": bson.M{"bidders": toBidDoc(bid)},
	}

	res, err := r.auctions().UpdateOne(ctx, q, update)
	if err != nil {
		return fmt.Errorf("failed to record bid: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.auctions().CountDocuments(ctx, bson.M{"_id": bid.AuctionID})
	if err != nil {
		return fmt.Errorf("failed to check auction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrAuctionNotFound)
	}
	return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrConflict)
}

// RecordBiddedAuction adds the auction to the user's bidded set
func (r *MongoRepo) RecordBiddedAuction(ctx context.Context, user model.Identity, auctionID string) error {
	doc := biddedDoc{
		ID:        wishlistKey(user, auctionID),
		User:      toIdentityDoc(user),
		AuctionID: auctionID,
		AddedAt:   time.Now().UTC(),
	}
	_, err := r.db.Collection(biddedCollection).UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to record bidded auction: %w", err)
	}
	return nil
}

// BiddedAuctionIDs returns the auctions user has bid on, in first-bid order
func (r *MongoRepo) BiddedAuctionIDs(ctx context.Context, user model.Identity) ([]string, error) {
	cursor, err := r.db.Collection(biddedCollection).Find(ctx,
		bson.M{"user.kind": string(user.Kind), "user.id": user.ID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}, {Key: "auction", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bidded auctions: %w", err)
	}

	var docs []biddedDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bidded auctions: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.AuctionID)
	}
	return ids, nil
}

// CloseAuction force-closes an active auction on behalf of its owner
func (r *MongoRepo) CloseAuction(ctx context.Context, auctionID string, owner model.Identity, now time.Time) error {
	q := ownerFilter(auctionID, owner)
	q["status"] = string(model.StatusActive)

	res, err := r.auctions().UpdateOne(ctx, q, bson.M{"$set": bson.M{
		"status":    string(model.StatusClosed),
		"endTime":   now,
		"updatedAt": now,
	}})
	if err != nil {
		return fmt.Errorf("failed to close auction: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	return r.explainOwnerMiss(ctx, "close auction", auctionID, owner)
}

// ExpireAuctions closes active auctions whose end time has passed
func (r *MongoRepo) ExpireAuctions(ctx context.Context, now time.Time, auctionIDs ...string) (int, error) {
	q := bson.M{"status": string(model.StatusActive), "endTime": bson.M{"$lte": now}}
	if len(auctionIDs) > 0 {
		q["_id"] = bson.M{"$in": auctionIDs}
	}

	res, err := r.auctions().UpdateMany(ctx, q, bson.M{"$set": bson.M{
		"status":    string(model.StatusClosed),
		"updatedAt": now,
	}})
	if err != nil {
		return 0, fmt.Errorf("failed to expire auctions: %w", err)
	}
	return int(res.ModifiedCount), nil
}

// PendingSettlement returns closed auctions not yet notified
func (r *MongoRepo) PendingSettlement(ctx context.Context) ([]model.Auction, error) {
	return r.findAuctions(ctx,
		bson.M{"status": string(model.StatusClosed), "notified": false},
		options.Find().SetSort(bson.D{{Key: "endTime", Value: 1}}),
	)
}

// SettleAuction performs the one-time notified flip
func (r *MongoRepo) SettleAuction(ctx context.Context, auctionID string, winner *model.Identity) (bool, error) {
	set := bson.M{
		"status":    string(model.StatusClosed),
		"notified":  true,
		"updatedAt": time.Now().UTC(),
	}
	if winner != nil {
		set["winner"] = toIdentityDoc(*winner)
	}

	res, err := r.auctions().UpdateOne(ctx, bson.M{"_id": auctionID, "notified": false}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to settle auction: %w", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	n, err := r.auctions().CountDocuments(ctx, bson.M{"_id": auctionID})
	if err != nil {
		return false, fmt.Errorf("failed to check auction: %w", err)
	}
	if n == 0 {
		return false, fmt.Errorf("settle auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return false, nil
}

// MarkPaid flips payment status to PAID for a settled auction with a winner
func (r *MongoRepo) MarkPaid(ctx context.Context, auctionID string) (bool, error) {
	q := bson.M{
		"_id":           auctionID,
		"status":        string(model.StatusClosed),
		"winner":        bson.M{"$ne": nil},
		"paymentStatus": bson.M{"$ne": string(model.PaymentPaid)},
	}
	res, err := r.auctions().UpdateOne(ctx, q, bson.M{"$set": bson.M{
		"paymentStatus": string(model.PaymentPaid),
		"updatedAt":     time.Now().UTC(),
	}})
	if err != nil {
		return false, fmt.Errorf("failed to mark auction paid: %w", err)
	}
	if res.MatchedCount == 1 {
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
func (r *MongoRepo) InsertNotification(ctx context.Context, n model.Notification) error {
	doc := notificationDoc{
		ID:        n.NotificationID,
		Recipient: toIdentityDoc(n.Recipient),
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		AuctionID: n.AuctionID,
		CreatedAt: n.CreatedAt,
	}
	if _, err := r.db.Collection(notificationsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListNotifications returns the recipient's notifications, newest first
func (r *MongoRepo) ListNotifications(ctx context.Context, recipient model.Identity) ([]model.Notification, error) {
	cursor, err := r.db.Collection(notificationsCollection).Find(ctx,
		bson.M{"recipient.kind": string(recipient.Kind), "recipient.id": recipient.ID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	out := make([]model.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.Notification{
			NotificationID: d.ID,
			Recipient:      d.Recipient.identity(),
			Type:           model.NotificationType(d.Type),
			Message:        d.Message,
			IsRead:         d.IsRead,
			AuctionID:      d.AuctionID,
			CreatedAt:      d.CreatedAt,
		})
	}
	return out, nil
}

// MarkAllRead marks every unread notification of recipient as read
func (r *MongoRepo) MarkAllRead(ctx context.Context, recipient model.Identity) (int64, error) {
	res, err := r.db.Collection(notificationsCollection).UpdateMany(ctx,
		bson.M{"recipient.kind": string(recipient.Kind), "recipient.id": recipient.ID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

// DeleteNotification removes a notification owned by recipient
func (r *MongoRepo) DeleteNotification(ctx context.Context, notificationID string, recipient model.Identity) error {
	coll := r.db.Collection(notificationsCollection)
	res, err := coll.DeleteOne(ctx, bson.M{
		"_id":            notificationID,
		"recipient.kind": string(recipient.Kind),
		"recipient.id":   recipient.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if res.DeletedCount == 1 {
		return nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{"_id": notificationID})
	if err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("delete notification %s: %w", notificationID, biddingerrors.ErrForbidden)
	}
	return fmt.Errorf("delete notification %s: %w", notificationID, biddingerrors.ErrNotificationNotFound)
}

// PurgeNotifications drops notifications created before olderThan. The TTL
// index normally gets there first; this covers deployments without it.
func (r *MongoRepo) PurgeNotifications(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.Collection(notificationsCollection).DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": olderThan}})
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	return res.DeletedCount, nil
}

// AddToWishlist adds an entry unless the pair already exists
func (r *MongoRepo) AddToWishlist(ctx context.Context, entry model.WishlistEntry) (bool, error) {
	doc := wishlistDoc{
		ID:        wishlistKey(entry.User, entry.AuctionID),
		User:      toIdentityDoc(entry.User),
		AuctionID: entry.AuctionID,
		AddedAt:   entry.AddedAt,
	}
	if _, err := r.db.Collection(wishlistCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return true, nil
}

// RemoveFromWishlist deletes the (user, auction) entry
func (r *MongoRepo) RemoveFromWishlist(ctx context.Context, user model.Identity, auctionID string) error {
	res, err := r.db.Collection(wishlistCollection).DeleteOne(ctx, bson.M{"_id": wishlistKey(user, auctionID)})
	if err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("remove wishlist entry %s: %w", auctionID, biddingerrors.ErrWishlistEntryNotFound)
	}
	return nil
}

// ListWishlist returns the user's entries, newest first
func (r *MongoRepo) ListWishlist(ctx context.Context, user model.Identity) ([]model.WishlistEntry, error) {
	cursor, err := r.db.Collection(wishlistCollection).Find(ctx,
		bson.M{"user.kind": string(user.Kind), "user.id": user.ID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}, {Key: "auction", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}

	var docs []wishlistDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	out := make([]model.WishlistEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.WishlistEntry{User: d.User.identity(), AuctionID: d.AuctionID, AddedAt: d.AddedAt})
	}
	return out, nil
}

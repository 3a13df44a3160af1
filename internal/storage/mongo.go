package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// Collection names
const (
	colUsers       = "users"
	colTenants     = "tenants"
	colTrucks      = "trucks"
	colLoads       = "loads"
	colBookings    = "bookings"
	colBilties     = "bilties"
	colPayments    = "payments"
	colBilling     = "billingrecords"
	colAssignments = "driverassignments"
	colLoginLogs   = "loginlogs"
	colSystemLogs  = "systemlogs"
)

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
	logger       *zap.Logger
}

// NewMongoStore wraps db and ensures the unique indexes exist.
// Multi-document transactions need a replica set; pass transactions=false
// against a standalone server and WithTx runs fn without a session.
func NewMongoStore(ctx context.Context, client *mongo.Client, dbName string, transactions bool, logger *zap.Logger) (*MongoStore, error) {
	s := &MongoStore{
		client:       client,
		db:           client.Database(dbName),
		transactions: transactions,
		logger:       logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	sparseUnique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetSparse(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}

	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			unique(bson.D{{Key: "email", Value: 1}}),
			sparseUnique(bson.D{{Key: "firebaseUid", Value: 1}}),
			plain(bson.D{{Key: "phone", Value: 1}}),
		},
		colTenants:  {unique(bson.D{{Key: "name", Value: 1}})},
		colTrucks:   {unique(bson.D{{Key: "vehicleNumber", Value: 1}}), plain(bson.D{{Key: "isAvailable", Value: 1}, {Key: "capacity", Value: 1}})},
		colLoads:    {plain(bson.D{{Key: "customer", Value: 1}}), plain(bson.D{{Key: "status", Value: 1}})},
		colBookings: {plain(bson.D{{Key: "customer", Value: 1}}), plain(bson.D{{Key: "driver", Value: 1}})},
		colBilties:  {unique(bson.D{{Key: "booking", Value: 1}}), unique(bson.D{{Key: "lrNumber", Value: 1}})},
		colPayments: {unique(bson.D{{Key: "booking", Value: 1}})},
		colBilling:  {unique(bson.D{{Key: "booking", Value: 1}})},
		colAssignments: {
			plain(bson.D{{Key: "booking", Value: 1}}),
		},
		colSystemLogs: {plain(bson.D{{Key: "createdAt", Value: -1}})},
	}

	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func mapMongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

func (s *MongoStore) insert(ctx context.Context, col string, doc interface{}) error {
	_, err := s.db.Collection(col).InsertOne(ctx, doc)
	return mapMongoErr(err)
}

func (s *MongoStore) replace(ctx context.Context, col, id string, doc interface{}) error {
	res, err := s.db.Collection(col).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func findOne[T any](ctx context.Context, s *MongoStore, col string, filter bson.M) (*T, error) {
	var out T
	if err := s.db.Collection(col).FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, mapMongoErr(err)
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, s *MongoStore, col string, filter bson.M, opts *options.FindOptions) ([]*T, error) {
	cursor, err := s.db.Collection(col).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]*T, 0)
	for cursor.Next(ctx) {
		var row T
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, cursor.Err()
}

func newestFirst(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

// User operations
func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return s.insert(ctx, colUsers, user)
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s, colUsers, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s, colUsers, bson.M{"email": email})
}

func (s *MongoStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return findOne[models.User](ctx, s, colUsers, bson.M{"phone": phone})
}

func (s *MongoStore) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return findOne[models.User](ctx, s, colUsers, bson.M{"firebaseUid": uid})
}

func (s *MongoStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, colUsers, user.ID, user)
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return findMany[models.User](ctx, s, colUsers, bson.M{}, newestFirst(0))
}

// Tenant operations
func (s *MongoStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	stamp(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	return s.insert(ctx, colTenants, tenant)
}

func (s *MongoStore) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	return findOne[models.Tenant](ctx, s, colTenants, bson.M{"_id": id})
}

func (s *MongoStore) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	return findMany[models.Tenant](ctx, s, colTenants, bson.M{}, newestFirst(0))
}

func (s *MongoStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	tenant.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, colTenants, tenant.ID, tenant)
}

// Truck operations
func (s *MongoStore) CreateTruck(ctx context.Context, truck *models.Truck) error {
	stamp(&truck.ID, &truck.CreatedAt, &truck.UpdatedAt)
	return s.insert(ctx, colTrucks, truck)
}

func (s *MongoStore) GetTruck(ctx context.Context, id string) (*models.Truck, error) {
	return findOne[models.Truck](ctx, s, colTrucks, bson.M{"_id": id})
}

func (s *MongoStore) ListTrucks(ctx context.Context, filter models.TruckFilter) ([]*models.Truck, error) {
	query := bson.M{}
	if filter.DriverID != "" {
		query["driver"] = filter.DriverID
	}
	if filter.AvailableOnly {
		query["isAvailable"] = true
	}
	return findMany[models.Truck](ctx, s, colTrucks, query, newestFirst(0))
}

func (s *MongoStore) FindMatchingTrucks(ctx context.Context, minCapacity float64) ([]*models.Truck, error) {
	query := bson.M{"isAvailable": true, "capacity": bson.M{"$gte": minCapacity}}
	opts := options.Find().SetSort(bson.D{{Key: "capacity", Value: 1}, {Key: "_id", Value: 1}})
	return findMany[models.Truck](ctx, s, colTrucks, query, opts)
}

// conditionalSet applies update only when filter matches, else ErrConflict.
func (s *MongoStore) conditionalSet(ctx context.Context, col string, filter, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
	res, err := s.db.Collection(col).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (s *MongoStore) ClaimTruck(ctx context.Context, id string) error {
	return s.conditionalSet(ctx, colTrucks, bson.M{"_id": id, "isAvailable": true}, bson.M{"isAvailable": false})
}

func (s *MongoStore) ReleaseTruck(ctx context.Context, id string) error {
	if err := s.conditionalSet(ctx, colTrucks, bson.M{"_id": id}, bson.M{"isAvailable": true}); err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Load operations
func (s *MongoStore) CreateLoad(ctx context.Context, load *models.Load) error {
	if load.Status == "" {
		load.Status = models.LoadStatusPending
	}
	stamp(&load.ID, &load.CreatedAt, &load.UpdatedAt)
	return s.insert(ctx, colLoads, load)
}

func (s *MongoStore) GetLoad(ctx context.Context, id string) (*models.Load, error) {
	return findOne[models.Load](ctx, s, colLoads, bson.M{"_id": id})
}

func (s *MongoStore) ListLoads(ctx context.Context, filter models.LoadFilter) ([]*models.Load, error) {
	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return findMany[models.Load](ctx, s, colLoads, query, newestFirst(0))
}

func (s *MongoStore) TransitionLoad(ctx context.Context, id, from, to string) error {
	return s.conditionalSet(ctx, colLoads, bson.M{"_id": id, "status": from}, bson.M{"status": to})
}

func (s *MongoStore) SetLoadStatus(ctx context.Context, id, status string) error {
	if err := s.conditionalSet(ctx, colLoads, bson.M{"_id": id}, bson.M{"status": status}); err != nil {
		if errors.Is(err, ErrConflict) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Booking operations
func (s *MongoStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	stamp(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	return s.insert(ctx, colBookings, booking)
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return findOne[models.Booking](ctx, s, colBookings, bson.M{"_id": id})
}

func (s *MongoStore) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer"] = filter.CustomerID
	}
	if filter.DriverID != "" {
		query["driver"] = filter.DriverID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		query["paymentStatus"] = filter.PaymentStatus
	}
	return findMany[models.Booking](ctx, s, colBookings, query, newestFirst(0))
}

func (s *MongoStore) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, colBookings, booking.ID, booking)
}

// Bilty operations
func (s *MongoStore) CreateBilty(ctx context.Context, bilty *models.Bilty) error {
	stamp(&bilty.ID, &bilty.CreatedAt, &bilty.UpdatedAt)
	return s.insert(ctx, colBilties, bilty)
}

func (s *MongoStore) GetBilty(ctx context.Context, id string) (*models.Bilty, error) {
	return findOne[models.Bilty](ctx, s, colBilties, bson.M{"_id": id})
}

func (s *MongoStore) GetBiltyByBooking(ctx context.Context, bookingID string) (*models.Bilty, error) {
	return findOne[models.Bilty](ctx, s, colBilties, bson.M{"booking": bookingID})
}

func (s *MongoStore) GetBiltyByLRNumber(ctx context.Context, lrNumber string) (*models.Bilty, error) {
	return findOne[models.Bilty](ctx, s, colBilties, bson.M{"lrNumber": lrNumber})
}

func (s *MongoStore) ListBilties(ctx context.Context) ([]*models.Bilty, error) {
	return findMany[models.Bilty](ctx, s, colBilties, bson.M{}, newestFirst(0))
}

func (s *MongoStore) UpdateBilty(ctx context.Context, bilty *models.Bilty) error {
	bilty.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, colBilties, bilty.ID, bilty)
}

func (s *MongoStore) DeleteBilty(ctx context.Context, id string) (*models.Bilty, error) {
	var out models.Bilty
	err := s.db.Collection(colBilties).FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &out, nil
}

// Payment operations
func (s *MongoStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	stamp(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	return s.insert(ctx, colPayments, payment)
}

func (s *MongoStore) GetPaymentByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	return findOne[models.Payment](ctx, s, colPayments, bson.M{"booking": bookingID})
}

func (s *MongoStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, colPayments, payment.ID, payment)
}

// Billing operations
func (s *MongoStore) CreateBillingRecord(ctx context.Context, record *models.BillingRecord) error {
	stamp(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	return s.insert(ctx, colBilling, record)
}

func (s *MongoStore) GetBillingRecordByBooking(ctx context.Context, bookingID string) (*models.BillingRecord, error) {
	return findOne[models.BillingRecord](ctx, s, colBilling, bson.M{"booking": bookingID})
}

func (s *MongoStore) UpdateBillingRecord(ctx context.Context, record *models.BillingRecord) error {
	record.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, colBilling, record.ID, record)
}

// Assignment operations
func (s *MongoStore) CreateAssignment(ctx context.Context, assignment *models.DriverAssignment) error {
	stamp(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	return s.insert(ctx, colAssignments, assignment)
}

func (s *MongoStore) GetAssignmentByBooking(ctx context.Context, bookingID string) (*models.DriverAssignment, error) {
	return findOne[models.DriverAssignment](ctx, s, colAssignments, bson.M{"booking": bookingID})
}

func (s *MongoStore) UpdateAssignment(ctx context.Context, assignment *models.DriverAssignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	return s.replace(ctx, colAssignments, assignment.ID, assignment)
}

// Audit operations
func (s *MongoStore) CreateLoginLog(ctx context.Context, entry *models.LoginLog) error {
	stamp(&entry.ID, &entry.CreatedAt, nil)
	return s.insert(ctx, colLoginLogs, entry)
}

func (s *MongoStore) ListLoginLogs(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	return findMany[models.LoginLog](ctx, s, colLoginLogs, bson.M{}, newestFirst(limit))
}

func (s *MongoStore) CreateSystemLog(ctx context.Context, entry *models.SystemLog) error {
	stamp(&entry.ID, &entry.CreatedAt, nil)
	return s.insert(ctx, colSystemLogs, entry)
}

func (s *MongoStore) ListSystemLogs(ctx context.Context, limit int) ([]*models.SystemLog, error) {
	return findMany[models.SystemLog](ctx, s, colSystemLogs, bson.M{}, newestFirst(limit))
}

func (s *MongoStore) ClearSystemLogs(ctx context.Context) (int64, error) {
	res, err := s.db.Collection(colSystemLogs).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// WithTx runs fn inside a multi-document transaction. The session context
// passed to fn carries the session, so every call on tx joins it.
func (s *MongoStore) WithTx(ctx context.Context, fn TxFunc) error {
	if !s.transactions {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	if err != nil {
		s.logger.Debug("transaction aborted", zap.Error(err))
	}
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

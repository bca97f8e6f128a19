package models

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/joshua-takyi/jirani/internal/apperrors"
)

var requestColumns = []interface{}{
	goqu.I("sr.id"), goqu.I("sr.user_id"), goqu.I("sr.provider_id"), goqu.I("sr.details"),
	goqu.I("sr.status"), goqu.I("sr.booking_date"), goqu.I("sr.created_at"), goqu.I("sr.updated_at"),
}

type RequestRepo interface {
	CreateRequest(ctx context.Context, req *ServiceRequest) (*ServiceRequest, error)
	GetRequest(ctx context.Context, id int64) (*ServiceRequest, error)
	// ListRequestsBySeeker returns newest first; an empty status means all.
	ListRequestsBySeeker(ctx context.Context, seekerID int64, status Status) ([]*ServiceRequest, error)
	ListRequestsByProvider(ctx context.Context, providerID int64, status Status) ([]*ServiceRequest, error)
	SetRequestStatus(ctx context.Context, id int64, status Status) error
	// TransitionRequestStatus moves id from one status to another and
	// reports false when the row was no longer in from.
	TransitionRequestStatus(ctx context.Context, id int64, from, to Status) (bool, error)
	ProviderSummary(ctx context.Context, providerID int64) (*SummaryStats, error)
}

func (r *MySQLRepo) requests() *goqu.SelectDataset {
	return r.from(goqu.T(RequestsTable).As("sr"))
}

func (r *MySQLRepo) CreateRequest(ctx context.Context, req *ServiceRequest) (*ServiceRequest, error) {
	now := time.Now().UTC()
	rec := goqu.Record{
		"user_id":      req.UserID,
		"provider_id":  req.ProviderID,
		"details":      orNull(req.Details),
		"status":       string(StatusPending),
		"booking_date": orNull(req.BookingDate),
		"created_at":   now,
		"updated_at":   now,
	}

	id, _, err := r.exec(ctx, r.db, r.insert(RequestsTable).Rows(rec))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create service request", err)
	}
	return r.GetRequest(ctx, id)
}

func (r *MySQLRepo) GetRequest(ctx context.Context, id int64) (*ServiceRequest, error) {
	var req ServiceRequest
	err := r.get(ctx, r.db, &req, r.requests().Select(requestColumns...).Where(goqu.I("sr.id").Eq(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Request not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service request", err)
	}
	return &req, nil
}

func (r *MySQLRepo) ListRequestsBySeeker(ctx context.Context, seekerID int64, status Status) ([]*ServiceRequest, error) {
	cols := append(append([]interface{}{}, requestColumns...),
		goqu.I("sp.name").As("provider_name"),
		goqu.I("sp.category").As("provider_category"),
	)
	ds := r.requests().
		Join(goqu.T(ProvidersTable).As("sp"), goqu.On(goqu.I("sp.id").Eq(goqu.I("sr.provider_id")))).
		Where(goqu.I("sr.user_id").Eq(seekerID))
	if status != "" {
		ds = ds.Where(goqu.I("sr.status").Eq(string(status)))
	}
	ds = ds.Select(cols...).Order(goqu.I("sr.created_at").Desc(), goqu.I("sr.id").Desc())

	out := []*ServiceRequest{}
	if err := r.selectAll(ctx, r.db, &out, ds); err != nil {
		return nil, apperrors.NewInternalError("failed to list seeker requests", err)
	}
	return out, nil
}

func (r *MySQLRepo) ListRequestsByProvider(ctx context.Context, providerID int64, status Status) ([]*ServiceRequest, error) {
	cols := append(append([]interface{}{}, requestColumns...),
		goqu.I("u.username").As("customer_name"),
		goqu.I("u.phone_number").As("customer_phone"),
	)
	ds := r.requests().
		Join(goqu.T(UsersTable).As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("sr.user_id")))).
		Where(goqu.I("sr.provider_id").Eq(providerID))
	if status != "" {
		ds = ds.Where(goqu.I("sr.status").Eq(string(status)))
	}
	ds = ds.Select(cols...).Order(goqu.I("sr.created_at").Desc(), goqu.I("sr.id").Desc())

	out := []*ServiceRequest{}
	if err := r.selectAll(ctx, r.db, &out, ds); err != nil {
		return nil, apperrors.NewInternalError("failed to list provider requests", err)
	}
	return out, nil
}

func (r *MySQLRepo) SetRequestStatus(ctx context.Context, id int64, status Status) error {
	ds := r.update(RequestsTable).
		Set(goqu.Record{"status": string(status), "updated_at": time.Now().UTC()}).
		Where(goqu.C("id").Eq(id))
	if _, _, err := r.exec(ctx, r.db, ds); err != nil {
		return apperrors.NewInternalError("failed to update request status", err)
	}
	return nil
}

func (r *MySQLRepo) TransitionRequestStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	ds := r.update(RequestsTable).
		Set(goqu.Record{"status": string(to), "updated_at": time.Now().UTC()}).
		Where(goqu.C("id").Eq(id), goqu.C("status").Eq(string(from)))
	_, affected, err := r.exec(ctx, r.db, ds)
	if err != nil {
		return false, apperrors.NewInternalError("failed to update request status", err)
	}
	return affected > 0, nil
}

// ProviderSummary aggregates requests and their reviews. Counts are
// distinct so a request with several reviews is counted once.
func (r *MySQLRepo) ProviderSummary(ctx context.Context, providerID int64) (*SummaryStats, error) {
	ds := r.requests().
		LeftJoin(goqu.T(ReviewsTable).As("r"), goqu.On(goqu.I("r.request_id").Eq(goqu.I("sr.id")))).
		Select(
			goqu.COUNT(goqu.DISTINCT(goqu.I("sr.id"))).As("total_requests"),
			goqu.L("COUNT(DISTINCT CASE WHEN sr.status = ? THEN sr.id END)", string(StatusCompleted)).As("completed_requests"),
			goqu.AVG(goqu.I("r.rating")).As("average_rating"),
			goqu.COUNT(goqu.DISTINCT(goqu.I("r.id"))).As("total_reviews"),
		).
		Where(goqu.I("sr.provider_id").Eq(providerID))

	var stats SummaryStats
	if err := r.get(ctx, r.db, &stats, ds); err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate provider summary", err)
	}
	return &stats, nil
}

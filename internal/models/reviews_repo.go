package models

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/joshua-takyi/jirani/internal/apperrors"
)

type ReviewsRepo interface {
	// CreateReview stores the review and refreshes the provider's cached rating.
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	ListReviews(ctx context.Context) ([]*Review, error)
	ListReviewsByProvider(ctx context.Context, providerID int64) ([]*Review, error)
}

func (r *MySQLRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	created := *review
	created.CreatedAt = time.Now().UTC()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		rec := goqu.Record{
			"request_id":  orNull(review.RequestID),
			"user_id":     review.UserID,
			"provider_id": review.ProviderID,
			"review":      review.Review,
			"rating":      review.Rating,
			"created_at":  created.CreatedAt,
		}
		id, _, err := r.exec(ctx, tx, r.insert(ReviewsTable).Rows(rec))
		if err != nil {
			return apperrors.NewInternalError("failed to insert review", err)
		}
		created.ID = id

		avg := r.from(ReviewsTable).
			Select(goqu.L("COALESCE(AVG(rating), 0)")).
			Where(goqu.C("provider_id").Eq(review.ProviderID))
		ds := r.update(ProvidersTable).
			Set(goqu.Record{"rating": avg}).
			Where(goqu.C("id").Eq(review.ProviderID))
		if _, _, err := r.exec(ctx, tx, ds); err != nil {
			return apperrors.NewInternalError("failed to refresh provider rating", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *MySQLRepo) reviews() *goqu.SelectDataset {
	return r.from(goqu.T(ReviewsTable).As("r")).
		Join(goqu.T(UsersTable).As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("r.user_id")))).
		Join(goqu.T(ProvidersTable).As("sp"), goqu.On(goqu.I("sp.id").Eq(goqu.I("r.provider_id")))).
		LeftJoin(goqu.T(RequestsTable).As("sr"), goqu.On(goqu.I("sr.id").Eq(goqu.I("r.request_id")))).
		Select(
			goqu.I("r.id"), goqu.I("r.request_id"), goqu.I("r.user_id"), goqu.I("r.provider_id"),
			goqu.I("r.review"), goqu.I("r.rating"), goqu.I("r.created_at"),
			goqu.I("u.username"),
			goqu.I("sp.name").As("provider_name"),
			goqu.I("sp.category"),
			goqu.I("sr.details").As("request_details"),
		)
}

func (r *MySQLRepo) ListReviews(ctx context.Context) ([]*Review, error) {
	out := []*Review{}
	if err := r.selectAll(ctx, r.db, &out, r.reviews().Order(goqu.I("r.id").Asc())); err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	return out, nil
}

func (r *MySQLRepo) ListReviewsByProvider(ctx context.Context, providerID int64) ([]*Review, error) {
	ds := r.reviews().
		Where(goqu.I("r.provider_id").Eq(providerID)).
		Order(goqu.I("r.created_at").Desc(), goqu.I("r.id").Desc())

	out := []*Review{}
	if err := r.selectAll(ctx, r.db, &out, ds); err != nil {
		return nil, apperrors.NewInternalError("failed to list provider reviews", err)
	}
	return out, nil
}

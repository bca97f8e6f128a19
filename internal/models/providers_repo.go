package models

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/joshua-takyi/jirani/internal/apperrors"
)

var providerColumns = []interface{}{
	"id", "user_id", "name", "category", "phone_number", "description", "price",
	"location", "lat", "lon", "image", "rating", "created_at",
}

// haversine distance in kilometres from (?, ?) to the row's lat/lon.
const distanceExpr = `6371 * ACOS(LEAST(1, COS(RADIANS(?)) * COS(RADIANS(lat)) * COS(RADIANS(lon) - RADIANS(?)) + SIN(RADIANS(?)) * SIN(RADIANS(lat))))`

type ProviderRepo interface {
	GetProviderByID(ctx context.Context, id int64) (*ServiceProvider, error)
	GetProviderByUserID(ctx context.Context, userID int64) (*ServiceProvider, error)
	ProviderExists(ctx context.Context, id int64) (bool, error)
	CreateProvider(ctx context.Context, provider *ServiceProvider) (*ServiceProvider, error)
	UpdateProvider(ctx context.Context, userID int64, update ProviderUpdate) (*ServiceProvider, error)
	ListServices(ctx context.Context, providerID int64) ([]Service, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListProviders(ctx context.Context, filter ProviderFilter) ([]*ServiceProvider, error)
}

func (r *MySQLRepo) GetProviderByID(ctx context.Context, id int64) (*ServiceProvider, error) {
	return r.getProvider(ctx, r.db, goqu.C("id").Eq(id))
}

func (r *MySQLRepo) GetProviderByUserID(ctx context.Context, userID int64) (*ServiceProvider, error) {
	return r.getProvider(ctx, r.db, goqu.C("user_id").Eq(userID))
}

func (r *MySQLRepo) getProvider(ctx context.Context, q queryExecer, where goqu.Expression) (*ServiceProvider, error) {
	var provider ServiceProvider
	err := r.get(ctx, q, &provider, r.from(ProvidersTable).Select(providerColumns...).Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Provider profile not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}
	return &provider, nil
}

func (r *MySQLRepo) ProviderExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	ds := r.from(ProvidersTable).Select(goqu.COUNT("id")).Where(goqu.C("id").Eq(id))
	if err := r.get(ctx, r.db, &count, ds); err != nil {
		return false, apperrors.NewInternalError("failed to check provider", err)
	}
	return count > 0, nil
}

// CreateProvider inserts the profile and its default service in one
// transaction. An existing profile for the same user is a conflict.
func (r *MySQLRepo) CreateProvider(ctx context.Context, provider *ServiceProvider) (*ServiceProvider, error) {
	var created *ServiceProvider
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var existing int64
		check := r.from(ProvidersTable).Select(goqu.COUNT("id")).Where(goqu.C("user_id").Eq(provider.UserID))
		if err := r.get(ctx, tx, &existing, check); err != nil {
			return apperrors.NewInternalError("failed to check existing provider", err)
		}
		if existing > 0 {
			return apperrors.NewConflictError("Profile exists; use update")
		}

		rec := goqu.Record{
			"user_id":      provider.UserID,
			"name":         provider.Name,
			"category":     provider.Category,
			"phone_number": provider.PhoneNumber,
			"description":  orNull(provider.Description),
			"price":        provider.Price,
			"location":     orNull(provider.Location),
			"lat":          orNull(provider.Lat),
			"lon":          orNull(provider.Lon),
			"image":        orNull(provider.Image),
			"created_at":   time.Now().UTC(),
		}
		id, _, err := r.exec(ctx, tx, r.insert(ProvidersTable).Rows(rec))
		if err != nil {
			if isDuplicateEntry(err) {
				return apperrors.NewConflictError("Profile exists; use update")
			}
			return apperrors.NewInternalError("failed to insert provider", err)
		}

		svc := goqu.Record{
			"provider_id": id,
			"name":        DefaultServiceName,
			"price":       DefaultServicePrice,
		}
		if _, _, err := r.exec(ctx, tx, r.insert(ServicesTable).Rows(svc)); err != nil {
			return apperrors.NewInternalError("failed to insert default service", err)
		}

		created, err = r.getProvider(ctx, tx, goqu.C("id").Eq(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *MySQLRepo) UpdateProvider(ctx context.Context, userID int64, update ProviderUpdate) (*ServiceProvider, error) {
	rec := update.Record()
	if len(rec) == 0 {
		return nil, apperrors.NewValidationError("No updatable fields provided")
	}

	ds := r.update(ProvidersTable).Set(rec).Where(goqu.C("user_id").Eq(userID))
	if _, _, err := r.exec(ctx, r.db, ds); err != nil {
		return nil, apperrors.NewInternalError("failed to update provider", err)
	}

	return r.GetProviderByUserID(ctx, userID)
}

func (r *MySQLRepo) ListServices(ctx context.Context, providerID int64) ([]Service, error) {
	services := []Service{}
	ds := r.from(ServicesTable).
		Select("id", "provider_id", "name", "price").
		Where(goqu.C("provider_id").Eq(providerID)).
		Order(goqu.C("id").Asc())
	if err := r.selectAll(ctx, r.db, &services, ds); err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	return services, nil
}

func (r *MySQLRepo) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	ds := r.from(ProvidersTable).
		Select(goqu.C("category")).
		Distinct().
		Order(goqu.C("category").Asc())
	if err := r.selectAll(ctx, r.db, &categories, ds); err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}
	return categories, nil
}

func (r *MySQLRepo) ListProviders(ctx context.Context, filter ProviderFilter) ([]*ServiceProvider, error) {
	cols := append([]interface{}{}, providerColumns...)
	ds := r.from(ProvidersTable)

	if filter.Category != "" {
		ds = ds.Where(goqu.C("category").Eq(filter.Category))
	}
	if filter.MinRating > 0 {
		ds = ds.Where(goqu.C("rating").Gte(filter.MinRating))
	}

	if filter.Near != nil {
		lat, lon := filter.Near.Latitude, filter.Near.Longitude
		cols = append(cols, goqu.L(distanceExpr, lat, lon, lat).As("distance_km"))
		ds = ds.Order(
			goqu.L("lat IS NULL").Asc(),
			goqu.C("distance_km").Asc(),
			goqu.C("rating").Desc(),
		)
	} else {
		ds = ds.Order(goqu.C("rating").Desc(), goqu.C("name").Asc())
	}

	providers := []*ServiceProvider{}
	if err := r.selectAll(ctx, r.db, &providers, ds.Select(cols...)); err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	return providers, nil
}

package services

import (
	"context"
	"strings"

	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/joshua-takyi/jirani/internal/models"
)

// BookingService owns the service request lifecycle for both sides.
type BookingService struct {
	requests  models.RequestRepo
	providers models.ProviderRepo
	// strict enforces lifecycle adjacency on provider status updates.
	strict bool
}

func NewBookingService(requests models.RequestRepo, providers models.ProviderRepo, strict bool) *BookingService {
	return &BookingService{
		requests:  requests,
		providers: providers,
		strict:    strict,
	}
}

func (bs *BookingService) CreateBooking(ctx context.Context, seekerID int64, in models.BookingInput) (*models.ServiceRequest, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	bookingDate, err := models.ParseBookingDate(in.BookingDate)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	exists, err := bs.providers.ProviderExists(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewValidationError("Provider does not exist")
	}

	req := &models.ServiceRequest{
		UserID:      seekerID,
		ProviderID:  in.ServiceID,
		BookingDate: bookingDate,
	}
	if details := strings.TrimSpace(in.Details); details != "" {
		req.Details = &details
	}
	return bs.requests.CreateRequest(ctx, req)
}

func (bs *BookingService) ListMyBookings(ctx context.Context, seekerID int64) ([]*models.ServiceRequest, error) {
	return bs.requests.ListRequestsBySeeker(ctx, seekerID, "")
}

// CancelBooking cancels a pending request owned by the seeker. The update is
// conditional on the request still being pending.
func (bs *BookingService) CancelBooking(ctx context.Context, seekerID, requestID int64) (*models.ServiceRequest, error) {
	req, err := bs.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != seekerID {
		return nil, apperrors.NewForbiddenError("Not authorized to cancel this booking")
	}
	if req.Status != models.StatusPending {
		return nil, apperrors.NewConflictError("Only pending bookings can be cancelled")
	}

	ok, err := bs.requests.TransitionRequestStatus(ctx, requestID, models.StatusPending, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("Only pending bookings can be cancelled")
	}
	return bs.requests.GetRequest(ctx, requestID)
}

func (bs *BookingService) ListProviderRequests(ctx context.Context, providerID int64) ([]*models.ServiceRequest, error) {
	return bs.requests.ListRequestsByProvider(ctx, providerID, "")
}

func (bs *BookingService) UpdateRequestStatus(ctx context.Context, providerID, requestID int64, status models.Status) (*models.ServiceRequest, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status")
	}

	req, err := bs.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ProviderID != providerID {
		return nil, apperrors.NewForbiddenError("Not authorized to update this request")
	}

	if bs.strict {
		if !req.Status.CanTransitionTo(status) {
			return nil, apperrors.NewConflictError("Cannot change status from " + req.Status.String() + " to " + status.String())
		}
		ok, err := bs.requests.TransitionRequestStatus(ctx, requestID, req.Status, status)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.NewConflictError("Request status changed concurrently")
		}
	} else if err := bs.requests.SetRequestStatus(ctx, requestID, status); err != nil {
		return nil, err
	}

	return bs.requests.GetRequest(ctx, requestID)
}

func (bs *BookingService) CompletedForSeeker(ctx context.Context, seekerID int64) ([]*models.ServiceRequest, error) {
	return bs.requests.ListRequestsBySeeker(ctx, seekerID, models.StatusCompleted)
}

func (bs *BookingService) CompletedForProvider(ctx context.Context, providerID int64) ([]*models.ServiceRequest, error) {
	return bs.requests.ListRequestsByProvider(ctx, providerID, models.StatusCompleted)
}

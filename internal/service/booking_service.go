package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/kypgh/fitbook-client/internal/api"
	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/kypgh/fitbook-client/internal/dto"
	"go.uber.org/zap"
)

// bookingService implements BookingService against the class and booking
// endpoints
type bookingService struct {
	client *api.Client
	logger *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(client *api.Client, logger *zap.Logger) BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bookingService{client: client, logger: logger}
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}

// Brand fetches a studio brand's public profile
func (s *bookingService) Brand(ctx context.Context, brandID string) (*domain.Brand, error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/brands/"+brandID, nil)
	if apiErr != nil {
		return nil, apiErr
	}

	brand, apiErr := api.ProcessResponse(body, api.IsBrandData, api.TransformBrand)
	if apiErr != nil {
		return nil, apiErr
	}
	return &brand, nil
}

// Classes lists bookable classes, one page at a time
func (s *bookingService) Classes(ctx context.Context, page int) (api.Page[domain.ClassInfo], error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/classes", pageQuery(page))
	if apiErr != nil {
		return api.Page[domain.ClassInfo]{}, apiErr
	}

	result, apiErr := api.ProcessPaginatedResponse(body, "classes", api.ArrayOf(api.IsClassInfoData), api.TransformClassInfos)
	if apiErr != nil {
		return api.Page[domain.ClassInfo]{}, apiErr
	}
	return result, nil
}

// Sessions lists upcoming sessions of a class
func (s *bookingService) Sessions(ctx context.Context, classID string, page int) (api.Page[domain.Session], error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/classes/"+classID+"/sessions", pageQuery(page))
	if apiErr != nil {
		return api.Page[domain.Session]{}, apiErr
	}

	result, apiErr := api.ProcessPaginatedResponse(body, "sessions", api.ArrayOf(api.IsSessionData), api.TransformSessions)
	if apiErr != nil {
		return api.Page[domain.Session]{}, apiErr
	}
	return result, nil
}

// Bookings lists the client's bookings
func (s *bookingService) Bookings(ctx context.Context, page int) (api.Page[domain.Booking], error) {
	body, apiErr := s.client.Get(ctx, "/api/v1/bookings", pageQuery(page))
	if apiErr != nil {
		return api.Page[domain.Booking]{}, apiErr
	}

	result, apiErr := api.ProcessPaginatedResponse(body, "bookings", api.ArrayOf(api.IsBookingData), api.TransformBookings)
	if apiErr != nil {
		return api.Page[domain.Booking]{}, apiErr
	}
	return result, nil
}

// Book reserves a spot on a session
func (s *bookingService) Book(ctx context.Context, sessionID string) (*domain.Booking, error) {
	req := dto.BookingRequest{
		SessionID:      sessionID,
		IdempotencyKey: uuid.NewString(),
	}

	body, apiErr := s.client.Post(ctx, "/api/v1/bookings", req)
	if apiErr != nil {
		return nil, apiErr
	}

	booking, apiErr := api.ProcessResponse(body, api.IsBookingData, api.TransformBooking)
	if apiErr != nil {
		return nil, apiErr
	}

	s.logger.Info("session booked",
		zap.String("session_id", sessionID),
		zap.String("booking_id", booking.ID),
	)
	return &booking, nil
}

// CancelBooking cancels a booking
func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	body, apiErr := s.client.Delete(ctx, "/api/v1/bookings/"+bookingID)
	if apiErr != nil {
		return apiErr
	}

	if !api.IsSuccess(body) {
		if extracted := api.ExtractError(body); extracted != nil {
			return extracted
		}
		return &api.Error{Kind: api.ValidationError, Message: "Invalid response format"}
	}
	return nil
}

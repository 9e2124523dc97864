package acceptance

import (
	"context"

	"github.com/kypgh/fitbook-client/internal/api"
)

func (s *Suite) TestBrand() {
	s.register("brand@example.com")
	ctx := context.Background()

	brand, err := s.App.Bookings().Brand(ctx, "brand-1")
	s.Require().NoError(err)
	s.Equal("brand-1", brand.ID)
	s.Equal("FitBook Studio", brand.Name)
	s.Equal("hello@fitbook.app", brand.Email)
	s.Equal("active", brand.Status)

	_, err = s.App.Bookings().Brand(ctx, "missing")
	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.ValidationError, apiErr.Kind)
	s.Equal("NOT_FOUND", apiErr.Code)
}

func (s *Suite) TestClasses_Pagination() {
	s.register("classes@example.com")
	ctx := context.Background()

	first, err := s.App.Bookings().Classes(ctx, 1)
	s.Require().NoError(err)
	s.Len(first.Items, 2)
	s.Equal(1, first.Pagination.CurrentPage)
	s.Equal(2, first.Pagination.TotalPages)
	s.Equal(3, first.Pagination.TotalItems)

	s.Equal("cls-1", first.Items[0].ID)
	s.Equal("Morning Yoga", first.Items[0].Name)
	s.Equal(60, first.Items[0].DurationMinutes)
	s.Equal("cls-2", first.Items[1].ID)

	second, err := s.App.Bookings().Classes(ctx, 2)
	s.Require().NoError(err)
	s.Len(second.Items, 1)
	s.Equal(2, second.Pagination.CurrentPage)
	s.Equal("cls-3", second.Items[0].ID)
}

func (s *Suite) TestSessions() {
	s.register("sessions@example.com")

	sessions, err := s.App.Bookings().Sessions(context.Background(), "cls-1", 1)
	s.Require().NoError(err)
	s.Len(sessions.Items, 2)
	s.Equal("cls-1", sessions.Items[0].ClassID)
	s.False(sessions.Items[0].StartsAt.IsZero())
	s.Equal("scheduled", sessions.Items[0].Status)
}

func (s *Suite) TestBookAndCancel() {
	s.register("booking@example.com")
	ctx := context.Background()

	booking, err := s.App.Bookings().Book(ctx, "ses-cls-1-1")
	s.Require().NoError(err)
	s.NotEmpty(booking.ID)
	s.Equal("ses-cls-1-1", booking.SessionID)
	s.Equal("confirmed", booking.Status)
	s.False(booking.BookedAt.IsZero())

	list, err := s.App.Bookings().Bookings(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(list.Items, 1)
	s.Equal(booking.ID, list.Items[0].ID)

	s.Require().NoError(s.App.Bookings().CancelBooking(ctx, booking.ID))

	list, err = s.App.Bookings().Bookings(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(list.Items, 1)
	s.Equal("cancelled", list.Items[0].Status)
}

func (s *Suite) TestCancelUnknownBooking() {
	s.register("cancel404@example.com")

	err := s.App.Bookings().CancelBooking(context.Background(), "missing")

	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.ValidationError, apiErr.Kind)
	s.Equal("NOT_FOUND", apiErr.Code)
}

func (s *Suite) TestUnauthenticatedRequestIsRejected() {
	_, err := s.App.Bookings().Classes(context.Background(), 1)

	var apiErr *api.Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(api.AuthenticationError, apiErr.Kind)
}

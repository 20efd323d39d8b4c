package shipments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BearBump/trackbook/internal/broker/messages"
	"github.com/BearBump/trackbook/internal/integrations/carrier"
	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/storage"
	"github.com/BearBump/trackbook/internal/storage/memkv"
	"github.com/BearBump/trackbook/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	shipmentsmocks "github.com/BearBump/trackbook/internal/services/shipments/mocks"
)

type ServiceSuite struct {
	suite.Suite

	carrier *shipmentsmocks.MockCarrierClient
	events  *shipmentsmocks.MockChangePublisher
	rl      *shipmentsmocks.MockRateLimiter
	st      *store.Store[models.Shipment]
	svc     *Service
	now     time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.carrier = &shipmentsmocks.MockCarrierClient{}
	s.events = &shipmentsmocks.MockChangePublisher{}
	s.rl = &shipmentsmocks.MockRateLimiter{}
	s.st = store.New[models.Shipment](memkv.New(), storage.ShipmentsKey)
	s.now = time.Date(2025, 3, 3, 15, 4, 0, 0, time.UTC)
	s.svc = New(s.st, s.carrier).
		WithEvents(s.events).
		WithClock(func() time.Time { return s.now })
}

func (s *ServiceSuite) inTransit() carrier.TrackingResult {
	return carrier.TrackingResult{
		Status:            models.ShipmentStatusInTransit,
		EstimatedDelivery: "Sat, Mar 8",
		Timeline: []models.TimelineEvent{
			{Status: "Order Placed", Location: "Seattle, WA", Date: "Mar 2, 3:04 AM", Icon: "📝"},
			{Status: "Package Picked Up", Location: "Memphis, TN", Date: "Mar 2, 3:04 PM", Icon: "📦"},
			{Status: "In Transit", Location: "Los Angeles, CA", Date: "Mar 3, 3:04 AM", Icon: "🚚"},
		},
	}
}

func (s *ServiceSuite) TestSubmit_UsesCarrierResultAndPublishes() {
	s.carrier.On("GetTracking", mock.Anything, "UPS", "1Z999AA10123456784").Return(s.inTransit(), nil).Once()
	s.events.On("RecordChanged", mock.Anything, models.RecordKindShipment, messages.ActionAdded, "1741014240000", mock.Anything).Once()

	sh, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: "1Z999AA10123456784", Carrier: "UPS"})
	s.Require().NoError(err)
	s.Require().Equal("1741014240000", sh.ID)
	s.Require().Equal(models.ShipmentStatusInTransit, sh.Status)
	s.Require().Equal("Sat, Mar 8", sh.EstimatedDelivery)
	s.Require().Len(sh.Timeline, 3)
	s.Require().Equal(s.now, sh.AddedDate)

	s.carrier.AssertExpectations(s.T())
	s.events.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestSubmit_ValidationDoesNotReachCarrier() {
	_, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: " ", Carrier: "UPS"})
	s.Require().Error(err)

	s.carrier.AssertNotCalled(s.T(), "GetTracking", mock.Anything, mock.Anything, mock.Anything)
	s.events.AssertNotCalled(s.T(), "RecordChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestSubmit_CarrierErrorLeavesStoreEmpty() {
	s.carrier.On("GetTracking", mock.Anything, "DHL", "X").Return(carrier.TrackingResult{}, errors.New("boom")).Once()

	_, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: "X", Carrier: "DHL"})
	s.Require().Error(err)
	s.Require().Contains(err.Error(), "carrier lookup")
	s.Require().Empty(s.st.All())
	s.events.AssertNotCalled(s.T(), "RecordChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestSubmit_EmptyCarrierResultDefaultsToPending() {
	s.carrier.On("GetTracking", mock.Anything, "USPS", "N").Return(carrier.TrackingResult{}, nil).Once()
	s.events.On("RecordChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once()

	sh, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: "N", Carrier: "USPS"})
	s.Require().NoError(err)
	s.Require().Equal(models.ShipmentStatusPending, sh.Status)
	s.Require().NotNil(sh.Timeline)
	s.Require().Empty(sh.Timeline)
}

func (s *ServiceSuite) TestSubmit_RateLimiterConsulted() {
	s.svc.WithRateLimiter(s.rl, 10)
	s.rl.On("Allow", mock.Anything, "rl:carrier:UPS:202503031504", int64(10), 70*time.Second).
		Return(true, int64(1), nil).Once()
	s.carrier.On("GetTracking", mock.Anything, "UPS", "A").Return(s.inTransit(), nil).Once()
	s.events.On("RecordChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once()

	_, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: "A", Carrier: "UPS"})
	s.Require().NoError(err)
	s.rl.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestSubmit_RateLimiterErrorIsNotFatal() {
	s.svc.WithRateLimiter(s.rl, 10)
	s.rl.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(false, int64(0), errors.New("redis down")).Once()
	s.carrier.On("GetTracking", mock.Anything, "UPS", "A").Return(s.inTransit(), nil).Once()
	s.events.On("RecordChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once()

	_, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: "A", Carrier: "UPS"})
	s.Require().NoError(err)
	s.Require().Len(s.st.All(), 1)
}

func (s *ServiceSuite) TestSubmit_OverLimitWaitsThenProceeds() {
	s.svc.WithRateLimiter(s.rl, 1)
	s.svc.rateLimitWait = time.Millisecond
	s.rl.On("Allow", mock.Anything, mock.Anything, int64(1), mock.Anything).
		Return(false, int64(2), nil).Once()
	s.carrier.On("GetTracking", mock.Anything, "UPS", "A").Return(s.inTransit(), nil).Once()
	s.events.On("RecordChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Once()

	_, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: "A", Carrier: "UPS"})
	s.Require().NoError(err)
	s.carrier.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestDelete_ConfirmFlow() {
	s.carrier.On("GetTracking", mock.Anything, "UPS", "A").Return(s.inTransit(), nil).Once()
	s.events.On("RecordChanged", mock.Anything, models.RecordKindShipment, messages.ActionAdded, mock.Anything, mock.Anything).Once()
	sh, err := s.svc.SubmitTracking(context.Background(), models.ShipmentCreateInput{TrackingNumber: "A", Carrier: "UPS"})
	s.Require().NoError(err)

	no := &shipmentsmocks.MockConfirmer{}
	no.On("Confirm", ConfirmDelete).Return(false).Once()
	removed, err := s.svc.DeleteTracking(context.Background(), sh.ID, no)
	s.Require().NoError(err)
	s.Require().False(removed)
	no.AssertExpectations(s.T())

	yes := &shipmentsmocks.MockConfirmer{}
	yes.On("Confirm", ConfirmDelete).Return(true).Once()
	s.events.On("RecordChanged", mock.Anything, models.RecordKindShipment, messages.ActionRemoved, sh.ID, mock.Anything).Once()
	removed, err = s.svc.DeleteTracking(context.Background(), sh.ID, yes)
	s.Require().NoError(err)
	s.Require().True(removed)
	s.Require().Empty(s.st.All())

	yes.AssertExpectations(s.T())
	s.events.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestDelete_UnknownIDDoesNotPrompt() {
	c := &shipmentsmocks.MockConfirmer{}
	removed, err := s.svc.DeleteTracking(context.Background(), "missing", c)
	s.Require().NoError(err)
	s.Require().False(removed)
	c.AssertNotCalled(s.T(), "Confirm", mock.Anything)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

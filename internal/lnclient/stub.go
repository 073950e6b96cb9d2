package lnclient

import "context"

// StubClient is a canned Client used in coordinator tests, in the same
// spirit as the teacher's test backends in internal/backend: fixed
// responses configured by the test, no network I/O.
type StubClient struct {
	Connected  bool
	Delta      uint32
	Routes     []Route
	RoutesErr  error
	Info       ChainInfo
	InfoErr    error
	PaymentRes PaymentResult
	PaymentErr error
	RouteRes   PaymentResult
	RouteErr   error

	// Calls records invocations for assertions.
	Calls []string
}

// NewStubClient returns a connected stub with the given final-hop CLTV delta.
func NewStubClient(cltvDelta uint32) *StubClient {
	return &StubClient{Connected: true, Delta: cltvDelta}
}

func (s *StubClient) IsConnected() bool { return s.Connected }

func (s *StubClient) CltvDelta() uint32 { return s.Delta }

func (s *StubClient) QueryRoutes(_ context.Context, _ uint64, _ uint32, _ int, _ []byte) ([]Route, error) {
	s.Calls = append(s.Calls, "QueryRoutes")
	if s.RoutesErr != nil {
		return nil, s.RoutesErr
	}
	return s.Routes, nil
}

func (s *StubClient) GetInfo(_ context.Context) (ChainInfo, error) {
	s.Calls = append(s.Calls, "GetInfo")
	if s.InfoErr != nil {
		return ChainInfo{}, s.InfoErr
	}
	return s.Info, nil
}

func (s *StubClient) SendPaymentSync(_ context.Context, _ SendPaymentRequest) (PaymentResult, error) {
	s.Calls = append(s.Calls, "SendPaymentSync")
	if s.PaymentErr != nil {
		return PaymentResult{}, s.PaymentErr
	}
	return s.PaymentRes, nil
}

func (s *StubClient) SendToRouteSync(_ context.Context, _ SendToRouteRequest) (PaymentResult, error) {
	s.Calls = append(s.Calls, "SendToRouteSync")
	if s.RouteErr != nil {
		return PaymentResult{}, s.RouteErr
	}
	return s.RouteRes, nil
}

var _ Client = (*StubClient)(nil)

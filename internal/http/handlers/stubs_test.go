package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
	mw "vendorconnect/internal/http/middleware"
	"vendorconnect/internal/service/nearby"
)

var (
	vendor   = domain.Actor{ID: 1, Role: domain.RoleVendor}
	supplier = domain.Actor{ID: 2, Role: domain.RoleSupplier}
)

type request struct {
	method string
	target string
	body   any
	actor  *domain.Actor
	params map[string]string
}

func serve(t *testing.T, h http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	switch b := req.body.(type) {
	case nil:
		body = &bytes.Buffer{}
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	}

	r := httptest.NewRequest(req.method, req.target, body)
	ctx := r.Context()
	if len(req.params) > 0 {
		rc := chi.NewRouteContext()
		for k, v := range req.params {
			rc.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rc)
	}
	if req.actor != nil {
		ctx = mw.WithActor(ctx, *req.actor)
	}

	rr := httptest.NewRecorder()
	h(rr, r.WithContext(ctx))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

func ptr[T any](v T) *T { return &v }

type stubUserUsecase struct {
	getFn            func(ctx context.Context, id int64) (*domain.User, error)
	updateLocationFn func(ctx context.Context, actor domain.Actor, loc domain.Location, address *string) (*domain.User, error)
}

func (s *stubUserUsecase) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserUsecase) UpdateLocation(ctx context.Context, actor domain.Actor, loc domain.Location, address *string) (*domain.User, error) {
	return s.updateLocationFn(ctx, actor, loc, address)
}

type stubNearbyUsecase struct {
	suppliersFn   func(ctx context.Context, actor domain.Actor, q nearby.Query) ([]geo.Match[domain.User], error)
	vendorsFn     func(ctx context.Context, actor domain.Actor, q nearby.Query) ([]geo.Match[domain.User], error)
	groupOrdersFn func(ctx context.Context, q nearby.Query) ([]geo.Match[domain.GroupOrder], error)
	transportsFn  func(ctx context.Context, q domain.TransportQuery) ([]geo.Match[domain.Transport], error)
}

func (s *stubNearbyUsecase) Suppliers(ctx context.Context, actor domain.Actor, q nearby.Query) ([]geo.Match[domain.User], error) {
	return s.suppliersFn(ctx, actor, q)
}

func (s *stubNearbyUsecase) Vendors(ctx context.Context, actor domain.Actor, q nearby.Query) ([]geo.Match[domain.User], error) {
	return s.vendorsFn(ctx, actor, q)
}

func (s *stubNearbyUsecase) GroupOrders(ctx context.Context, q nearby.Query) ([]geo.Match[domain.GroupOrder], error) {
	return s.groupOrdersFn(ctx, q)
}

func (s *stubNearbyUsecase) Transports(ctx context.Context, q domain.TransportQuery) ([]geo.Match[domain.Transport], error) {
	return s.transportsFn(ctx, q)
}

type stubGroupOrderUsecase struct {
	createFn        func(ctx context.Context, actor domain.Actor, g *domain.GroupOrder) (*domain.GroupOrder, error)
	getFn           func(ctx context.Context, id int64) (*domain.GroupOrder, error)
	listInitiatedFn func(ctx context.Context, actor domain.Actor, status *domain.GroupOrderStatus, page domain.Page) ([]domain.GroupOrder, error)
	joinFn          func(ctx context.Context, actor domain.Actor, id int64, amount float64) (domain.GroupOrderParticipant, error)
	cancelFn        func(ctx context.Context, actor domain.Actor, id, participationID int64) (domain.GroupOrderParticipant, error)
	transitionFn    func(ctx context.Context, actor domain.Actor, id int64, to domain.GroupOrderStatus) (*domain.GroupOrder, error)
}

func (s *stubGroupOrderUsecase) Create(ctx context.Context, actor domain.Actor, g *domain.GroupOrder) (*domain.GroupOrder, error) {
	return s.createFn(ctx, actor, g)
}

func (s *stubGroupOrderUsecase) Get(ctx context.Context, id int64) (*domain.GroupOrder, error) {
	return s.getFn(ctx, id)
}

func (s *stubGroupOrderUsecase) ListInitiated(
	ctx context.Context, actor domain.Actor, status *domain.GroupOrderStatus, page domain.Page,
) ([]domain.GroupOrder, error) {
	return s.listInitiatedFn(ctx, actor, status, page)
}

func (s *stubGroupOrderUsecase) Join(ctx context.Context, actor domain.Actor, id int64, amount float64) (domain.GroupOrderParticipant, error) {
	return s.joinFn(ctx, actor, id, amount)
}

func (s *stubGroupOrderUsecase) CancelParticipation(ctx context.Context, actor domain.Actor, id, participationID int64) (domain.GroupOrderParticipant, error) {
	return s.cancelFn(ctx, actor, id, participationID)
}

func (s *stubGroupOrderUsecase) TransitionStatus(ctx context.Context, actor domain.Actor, id int64, to domain.GroupOrderStatus) (*domain.GroupOrder, error) {
	return s.transitionFn(ctx, actor, id, to)
}

type stubTransportUsecase struct {
	createFn             func(ctx context.Context, actor domain.Actor, t *domain.Transport) (*domain.Transport, error)
	getFn                func(ctx context.Context, id int64) (*domain.Transport, error)
	listInitiatedFn      func(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error)
	listParticipationsFn func(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error)
	joinFn               func(ctx context.Context, actor domain.Actor, id int64, cargo domain.Cargo) (domain.TransportParticipant, error)
	setStatusFn          func(ctx context.Context, actor domain.Actor, id, pid int64, status domain.ParticipationStatus) (domain.TransportParticipant, error)
	cancelFn             func(ctx context.Context, actor domain.Actor, id, pid int64) (domain.TransportParticipant, error)
	transitionFn         func(ctx context.Context, actor domain.Actor, id int64, to domain.TransportStatus) (*domain.Transport, error)
}

func (s *stubTransportUsecase) Create(ctx context.Context, actor domain.Actor, t *domain.Transport) (*domain.Transport, error) {
	return s.createFn(ctx, actor, t)
}

func (s *stubTransportUsecase) Get(ctx context.Context, id int64) (*domain.Transport, error) {
	return s.getFn(ctx, id)
}

func (s *stubTransportUsecase) ListInitiated(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error) {
	return s.listInitiatedFn(ctx, actor, page)
}

func (s *stubTransportUsecase) ListParticipations(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error) {
	return s.listParticipationsFn(ctx, actor, page)
}

func (s *stubTransportUsecase) Join(ctx context.Context, actor domain.Actor, id int64, cargo domain.Cargo) (domain.TransportParticipant, error) {
	return s.joinFn(ctx, actor, id, cargo)
}

func (s *stubTransportUsecase) SetParticipantStatus(
	ctx context.Context, actor domain.Actor, id, pid int64, status domain.ParticipationStatus,
) (domain.TransportParticipant, error) {
	return s.setStatusFn(ctx, actor, id, pid, status)
}

func (s *stubTransportUsecase) CancelParticipation(ctx context.Context, actor domain.Actor, id, pid int64) (domain.TransportParticipant, error) {
	return s.cancelFn(ctx, actor, id, pid)
}

func (s *stubTransportUsecase) TransitionStatus(ctx context.Context, actor domain.Actor, id int64, to domain.TransportStatus) (*domain.Transport, error) {
	return s.transitionFn(ctx, actor, id, to)
}

type stubDeliveryUsecase struct {
	getFn    func(ctx context.Context, id int64) (*domain.Delivery, error)
	updateFn func(ctx context.Context, actor domain.Actor, id int64, to domain.DeliveryStatus) (*domain.Delivery, error)
}

func (s *stubDeliveryUsecase) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	return s.getFn(ctx, id)
}

func (s *stubDeliveryUsecase) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, to domain.DeliveryStatus) (*domain.Delivery, error) {
	return s.updateFn(ctx, actor, id, to)
}

type stubProductUsecase struct {
	getFn    func(ctx context.Context, id int64) (*domain.Product, error)
	listFn   func(ctx context.Context, f domain.ProductFilter, page domain.Page) ([]domain.Product, error)
	createFn func(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error)
	updateFn func(ctx context.Context, actor domain.Actor, id int64, patch domain.ProductPatch) (*domain.Product, error)
	deleteFn func(ctx context.Context, actor domain.Actor, id int64) error
}

func (s *stubProductUsecase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductUsecase) List(ctx context.Context, f domain.ProductFilter, page domain.Page) ([]domain.Product, error) {
	return s.listFn(ctx, f, page)
}

func (s *stubProductUsecase) Create(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error) {
	return s.createFn(ctx, actor, p)
}

func (s *stubProductUsecase) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubProductUsecase) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubOrderUsecase struct {
	createFn func(ctx context.Context, actor domain.Actor, o *domain.Order) (*domain.Order, error)
	getFn    func(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error)
	listFn   func(ctx context.Context, actor domain.Actor, f domain.OrderFilter, page domain.Page) ([]domain.Order, error)
	updateFn func(ctx context.Context, actor domain.Actor, id int64, to domain.OrderStatus) (*domain.Order, error)
}

func (s *stubOrderUsecase) Create(ctx context.Context, actor domain.Actor, o *domain.Order) (*domain.Order, error) {
	return s.createFn(ctx, actor, o)
}

func (s *stubOrderUsecase) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubOrderUsecase) List(ctx context.Context, actor domain.Actor, f domain.OrderFilter, page domain.Page) ([]domain.Order, error) {
	return s.listFn(ctx, actor, f, page)
}

func (s *stubOrderUsecase) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, to domain.OrderStatus) (*domain.Order, error) {
	return s.updateFn(ctx, actor, id, to)
}

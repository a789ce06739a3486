package handlers

import (
	"strings"

	"github.com/samber/lo"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
)

func (p placeRequest) toDomain() domain.Place {
	return domain.Place{
		Address:  strings.TrimSpace(p.Address),
		Location: domain.Location{Latitude: *p.Latitude, Longitude: *p.Longitude},
	}
}

func placeFromDomain(p domain.Place) placeDTO {
	return placeDTO{Address: p.Address, Latitude: p.Location.Latitude, Longitude: p.Location.Longitude}
}

func userFromDomain(u domain.User) userDTO {
	out := userDTO{
		ID:           u.ID,
		Name:         u.Name,
		BusinessName: u.BusinessName,
		Phone:        u.Phone,
		Email:        u.Email,
		Role:         string(u.Role),
		IsVerified:   u.IsVerified,
		Address:      u.Address,
	}
	if u.Location != nil {
		out.Location = &placeDTO{Latitude: u.Location.Latitude, Longitude: u.Location.Longitude}
	}
	return out
}

func nearbyUsersFromDomain(ms []geo.Match[domain.User]) []nearbyUserDTO {
	return lo.Map(ms, func(m geo.Match[domain.User], _ int) nearbyUserDTO {
		return nearbyUserDTO{userDTO: userFromDomain(m.Item), DistanceKm: m.DistanceKm}
	})
}

func (req createGroupOrderRequest) toDomain() *domain.GroupOrder {
	return &domain.GroupOrder{
		Name:             strings.TrimSpace(req.Name),
		Description:      strings.TrimSpace(req.Description),
		MinParticipants:  req.MinParticipants,
		MaxParticipants:  req.MaxParticipants,
		TargetAmount:     req.TargetAmount,
		DiscountRate:     req.DiscountRate,
		Deadline:         req.Deadline.UTC(),
		DeliveryDate:     req.DeliveryDate,
		LocationRadiusKm: req.LocationRadiusKm,
		Location:         domain.Location{Latitude: *req.Latitude, Longitude: *req.Longitude},
		Items: lo.Map(req.Items, func(it groupOrderItemRequest, _ int) domain.GroupOrderItem {
			return domain.GroupOrderItem{
				ProductID:              it.ProductID,
				TotalQuantity:          it.Quantity,
				BulkDiscountPrice:      it.BulkDiscountPrice,
				MinQuantityForDiscount: it.MinQuantityForDiscount,
			}
		}),
	}
}

func groupOrderFromDomain(g domain.GroupOrder) groupOrderDTO {
	return groupOrderDTO{
		ID:                  g.ID,
		Name:                g.Name,
		Description:         g.Description,
		InitiatorID:         g.InitiatorID,
		Status:              string(g.Status),
		MinParticipants:     g.MinParticipants,
		MaxParticipants:     g.MaxParticipants,
		CurrentParticipants: g.CurrentParticipants,
		TargetAmount:        g.TargetAmount,
		CurrentAmount:       g.CurrentAmount,
		DiscountRate:        g.DiscountRate,
		Deadline:            g.Deadline,
		DeliveryDate:        g.DeliveryDate,
		LocationRadiusKm:    g.LocationRadiusKm,
		Location:            placeDTO{Latitude: g.Location.Latitude, Longitude: g.Location.Longitude},
		Items: lo.Map(g.Items, func(it domain.GroupOrderItem, _ int) groupOrderItemDTO {
			return groupOrderItemDTO{
				ID:                     it.ID,
				ProductID:              it.ProductID,
				SupplierID:             it.SupplierID,
				TotalQuantity:          it.TotalQuantity,
				UnitPrice:              it.UnitPrice,
				BulkDiscountPrice:      it.BulkDiscountPrice,
				MinQuantityForDiscount: it.MinQuantityForDiscount,
			}
		}),
		Participants: lo.Map(g.Participants, func(p domain.GroupOrderParticipant, _ int) groupOrderParticipantDTO {
			return groupOrderParticipantFromDomain(p)
		}),
		CreatedAt: g.CreatedAt,
	}
}

func groupOrderParticipantFromDomain(p domain.GroupOrderParticipant) groupOrderParticipantDTO {
	return groupOrderParticipantDTO{
		ID:       p.ID,
		UserID:   p.UserID,
		Amount:   p.Amount,
		Status:   string(p.Status),
		JoinedAt: p.JoinedAt,
	}
}

func groupOrdersFromDomain(gs []domain.GroupOrder) []groupOrderDTO {
	return lo.Map(gs, func(g domain.GroupOrder, _ int) groupOrderDTO { return groupOrderFromDomain(g) })
}

func nearbyGroupOrdersFromDomain(ms []geo.Match[domain.GroupOrder]) []nearbyGroupOrderDTO {
	return lo.Map(ms, func(m geo.Match[domain.GroupOrder], _ int) nearbyGroupOrderDTO {
		return nearbyGroupOrderDTO{groupOrderDTO: groupOrderFromDomain(m.Item), DistanceKm: m.DistanceKm}
	})
}

func (req createTransportRequest) toDomain() *domain.Transport {
	unit := strings.TrimSpace(req.CapacityUnit)
	if unit == "" {
		unit = "kg"
	}
	return &domain.Transport{
		Name:                 strings.TrimSpace(req.Name),
		Description:          strings.TrimSpace(req.Description),
		VehicleType:          strings.TrimSpace(req.VehicleType),
		Capacity:             req.Capacity,
		CapacityUnit:         unit,
		Cost:                 req.Cost,
		Source:               req.Source.toDomain(),
		Destination:          req.Destination.toDomain(),
		DepartureTime:        req.DepartureTime.UTC(),
		EstimatedArrivalTime: req.EstimatedArrivalTime.UTC(),
		MaxParticipants:      req.MaxParticipants,
		DriverName:           strings.TrimSpace(req.DriverName),
		DriverContact:        strings.TrimSpace(req.DriverContact),
	}
}

func (req joinTransportRequest) toDomain() domain.Cargo {
	return domain.Cargo{
		OrderID: req.OrderID,
		Pickup:  req.Pickup.toDomain(),
		Drop:    req.Drop.toDomain(),
		Weight:  req.CargoWeight,
		Volume:  req.CargoVolume,
	}
}

func transportFromDomain(t domain.Transport) transportDTO {
	return transportDTO{
		ID:                   t.ID,
		Name:                 t.Name,
		Description:          t.Description,
		VehicleType:          t.VehicleType,
		Capacity:             t.Capacity,
		CapacityUnit:         t.CapacityUnit,
		RemainingCapacity:    t.RemainingCapacity(),
		Cost:                 t.Cost,
		Status:               string(t.Status),
		Source:               placeFromDomain(t.Source),
		Destination:          placeFromDomain(t.Destination),
		DepartureTime:        t.DepartureTime,
		EstimatedArrivalTime: t.EstimatedArrivalTime,
		CurrentCapacityUsed:  t.CurrentCapacityUsed,
		MaxParticipants:      t.MaxParticipants,
		CurrentParticipants:  t.CurrentParticipants,
		InitiatorID:          t.InitiatorID,
		DriverName:           t.DriverName,
		DriverContact:        t.DriverContact,
		Participants: lo.Map(t.Participants, func(p domain.TransportParticipant, _ int) transportParticipantDTO {
			return transportParticipantFromDomain(p)
		}),
		CreatedAt: t.CreatedAt,
	}
}

func transportParticipantFromDomain(p domain.TransportParticipant) transportParticipantDTO {
	return transportParticipantDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		OrderID:     p.Cargo.OrderID,
		Pickup:      placeFromDomain(p.Cargo.Pickup),
		Drop:        placeFromDomain(p.Cargo.Drop),
		CargoWeight: p.Cargo.Weight,
		CargoVolume: p.Cargo.Volume,
		CostShare:   p.CostShare,
		Status:      string(p.Status),
		JoinedAt:    p.JoinedAt,
	}
}

func transportsFromDomain(ts []domain.Transport) []transportDTO {
	return lo.Map(ts, func(t domain.Transport, _ int) transportDTO { return transportFromDomain(t) })
}

func nearbyTransportsFromDomain(ms []geo.Match[domain.Transport]) []nearbyTransportDTO {
	return lo.Map(ms, func(m geo.Match[domain.Transport], _ int) nearbyTransportDTO {
		return nearbyTransportDTO{transportDTO: transportFromDomain(m.Item), DistanceKm: m.DistanceKm}
	})
}

func deliveryFromDomain(d domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:           d.ID,
		GroupOrderID: d.GroupOrderID,
		DeliveryDate: d.DeliveryDate,
		Status:       string(d.Status),
		TrackingLink: d.TrackingLink,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (req createProductRequest) toDomain() *domain.Product {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	return &domain.Product{
		Name:             req.Name,
		Description:      strings.TrimSpace(req.Description),
		Category:         req.Category,
		SubCategory:      req.SubCategory,
		Unit:             req.Unit,
		MinOrderQuantity: req.MinOrderQuantity,
		Price:            req.Price,
		DiscountedPrice:  req.DiscountedPrice,
		Stock:            req.Stock,
		Images:           req.Images,
		IsAvailable:      available,
	}
}

func (req updateProductRequest) toDomain() domain.ProductPatch {
	return domain.ProductPatch{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		SubCategory:      req.SubCategory,
		Unit:             req.Unit,
		MinOrderQuantity: req.MinOrderQuantity,
		Price:            req.Price,
		DiscountedPrice:  req.DiscountedPrice,
		Stock:            req.Stock,
		Images:           req.Images,
		IsAvailable:      req.IsAvailable,
	}
}

func productFromDomain(p domain.Product) productDTO {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productDTO{
		ID:               p.ID,
		SupplierID:       p.SupplierID,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		SubCategory:      p.SubCategory,
		Unit:             p.Unit,
		MinOrderQuantity: p.MinOrderQuantity,
		Price:            p.Price,
		DiscountedPrice:  p.DiscountedPrice,
		Stock:            p.Stock,
		Images:           images,
		IsAvailable:      p.IsAvailable,
		CreatedAt:        p.CreatedAt,
	}
}

func productsFromDomain(ps []domain.Product) []productDTO {
	return lo.Map(ps, func(p domain.Product, _ int) productDTO { return productFromDomain(p) })
}

func (req createOrderRequest) toDomain() *domain.Order {
	o := &domain.Order{
		GroupOrderID:    req.GroupOrderID,
		TransportID:     req.TransportID,
		DeliveryAddress: req.DeliveryAddress,
		DeliverySlot:    strings.TrimSpace(req.DeliverySlot),
		Notes:           strings.TrimSpace(req.Notes),
		Items: lo.Map(req.Items, func(it orderItemRequest, _ int) domain.OrderItem {
			return domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
		}),
	}
	if req.DeliveryDate != nil {
		d := req.DeliveryDate.UTC()
		o.DeliveryDate = &d
	}
	return o
}

func orderFromDomain(o domain.Order) orderDTO {
	return orderDTO{
		ID:              o.ID,
		VendorID:        o.VendorID,
		GroupOrderID:    o.GroupOrderID,
		TransportID:     o.TransportID,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		DeliveryAddress: o.DeliveryAddress,
		DeliveryDate:    o.DeliveryDate,
		DeliverySlot:    o.DeliverySlot,
		Notes:           o.Notes,
		Items: lo.Map(o.Items, func(it domain.OrderItem, _ int) orderItemDTO {
			return orderItemDTO{
				ID:         it.ID,
				ProductID:  it.ProductID,
				SupplierID: it.SupplierID,
				Quantity:   it.Quantity,
				UnitPrice:  it.UnitPrice,
				TotalPrice: it.TotalPrice,
			}
		}),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func ordersFromDomain(list []domain.Order) []orderDTO {
	return lo.Map(list, func(o domain.Order, _ int) orderDTO { return orderFromDomain(o) })
}

package handlers

import (
	"time"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type placeRequest struct {
	Address   string   `json:"address" validate:"max=500"`
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

type placeDTO struct {
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type updateLocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Address   *string  `json:"address,omitempty" validate:"omitempty,max=500"`
}

type userDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	BusinessName string    `json:"business_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	Address      string    `json:"address,omitempty"`
	Location     *placeDTO `json:"location,omitempty"`
}

type nearbyUserDTO struct {
	userDTO
	DistanceKm float64 `json:"distance_km"`
}

type createGroupOrderRequest struct {
	Name             string                  `json:"name" validate:"required,max=200"`
	Description      string                  `json:"description" validate:"max=2000"`
	MinParticipants  int                     `json:"min_participants" validate:"gte=0"`
	MaxParticipants  *int                    `json:"max_participants,omitempty" validate:"omitempty,gte=1"`
	TargetAmount     *float64                `json:"target_amount,omitempty" validate:"omitempty,gte=0"`
	DiscountRate     *float64                `json:"discount_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Deadline         time.Time               `json:"deadline" validate:"required"`
	DeliveryDate     *time.Time              `json:"delivery_date,omitempty"`
	LocationRadiusKm float64                 `json:"location_radius_km" validate:"gte=0"`
	Latitude         *float64                `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude        *float64                `json:"longitude" validate:"required,min=-180,max=180"`
	Items            []groupOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type groupOrderItemRequest struct {
	ProductID              int64    `json:"product_id" validate:"required,gt=0"`
	Quantity               float64  `json:"quantity" validate:"gt=0"`
	BulkDiscountPrice      *float64 `json:"bulk_discount_price,omitempty" validate:"omitempty,gte=0"`
	MinQuantityForDiscount *float64 `json:"min_quantity_for_discount,omitempty" validate:"omitempty,gt=0"`
}

type joinGroupOrderRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

type groupOrderDTO struct {
	ID                  int64                      `json:"id"`
	Name                string                     `json:"name"`
	Description         string                     `json:"description,omitempty"`
	InitiatorID         int64                      `json:"initiator_id"`
	Status              string                     `json:"status"`
	MinParticipants     int                        `json:"min_participants"`
	MaxParticipants     *int                       `json:"max_participants,omitempty"`
	CurrentParticipants int                        `json:"current_participants"`
	TargetAmount        *float64                   `json:"target_amount,omitempty"`
	CurrentAmount       float64                    `json:"current_amount"`
	DiscountRate        *float64                   `json:"discount_rate,omitempty"`
	Deadline            time.Time                  `json:"deadline"`
	DeliveryDate        *time.Time                 `json:"delivery_date,omitempty"`
	LocationRadiusKm    float64                    `json:"location_radius_km"`
	Location            placeDTO                   `json:"location"`
	Items               []groupOrderItemDTO        `json:"items"`
	Participants        []groupOrderParticipantDTO `json:"participants,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
}

type nearbyGroupOrderDTO struct {
	groupOrderDTO
	DistanceKm float64 `json:"distance_km"`
}

type groupOrderItemDTO struct {
	ID                     int64    `json:"id"`
	ProductID              int64    `json:"product_id"`
	SupplierID             int64    `json:"supplier_id"`
	TotalQuantity          float64  `json:"total_quantity"`
	UnitPrice              float64  `json:"unit_price"`
	BulkDiscountPrice      *float64 `json:"bulk_discount_price,omitempty"`
	MinQuantityForDiscount *float64 `json:"min_quantity_for_discount,omitempty"`
}

type groupOrderParticipantDTO struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	Amount   float64   `json:"amount"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

type createTransportRequest struct {
	Name                 string       `json:"name" validate:"required,max=200"`
	Description          string       `json:"description" validate:"max=2000"`
	VehicleType          string       `json:"vehicle_type" validate:"required,max=100"`
	Capacity             float64      `json:"capacity" validate:"gt=0"`
	CapacityUnit         string       `json:"capacity_unit" validate:"omitempty,max=20"`
	Cost                 float64      `json:"cost" validate:"gte=0"`
	Source               placeRequest `json:"source"`
	Destination          placeRequest `json:"destination"`
	DepartureTime        time.Time    `json:"departure_time" validate:"required"`
	EstimatedArrivalTime time.Time    `json:"estimated_arrival_time" validate:"required,gtfield=DepartureTime"`
	MaxParticipants      int          `json:"max_participants" validate:"gte=1"`
	DriverName           string       `json:"driver_name" validate:"max=200"`
	DriverContact        string       `json:"driver_contact" validate:"max=100"`
}

type joinTransportRequest struct {
	OrderID     *int64       `json:"order_id,omitempty" validate:"omitempty,gt=0"`
	Pickup      placeRequest `json:"pickup"`
	Drop        placeRequest `json:"drop"`
	CargoWeight float64      `json:"cargo_weight" validate:"gt=0"`
	CargoVolume *float64     `json:"cargo_volume,omitempty" validate:"omitempty,gte=0"`
}

type participantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type transportDTO struct {
	ID                   int64                     `json:"id"`
	Name                 string                    `json:"name"`
	Description          string                    `json:"description,omitempty"`
	VehicleType          string                    `json:"vehicle_type"`
	Capacity             float64                   `json:"capacity"`
	CapacityUnit         string                    `json:"capacity_unit"`
	RemainingCapacity    float64                   `json:"remaining_capacity"`
	Cost                 float64                   `json:"cost"`
	Status               string                    `json:"status"`
	Source               placeDTO                  `json:"source"`
	Destination          placeDTO                  `json:"destination"`
	DepartureTime        time.Time                 `json:"departure_time"`
	EstimatedArrivalTime time.Time                 `json:"estimated_arrival_time"`
	CurrentCapacityUsed  float64                   `json:"current_capacity_used"`
	MaxParticipants      int                       `json:"max_participants"`
	CurrentParticipants  int                       `json:"current_participants"`
	InitiatorID          int64                     `json:"initiator_id"`
	DriverName           string                    `json:"driver_name,omitempty"`
	DriverContact        string                    `json:"driver_contact,omitempty"`
	Participants         []transportParticipantDTO `json:"participants,omitempty"`
	CreatedAt            time.Time                 `json:"created_at"`
}

type nearbyTransportDTO struct {
	transportDTO
	DistanceKm float64 `json:"distance_km"`
}

type transportParticipantDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	OrderID     *int64    `json:"order_id,omitempty"`
	Pickup      placeDTO  `json:"pickup"`
	Drop        placeDTO  `json:"drop"`
	CargoWeight float64   `json:"cargo_weight"`
	CargoVolume *float64  `json:"cargo_volume,omitempty"`
	CostShare   float64   `json:"cost_share"`
	Status      string    `json:"status"`
	JoinedAt    time.Time `json:"joined_at"`
}

type deliveryDTO struct {
	ID           int64      `json:"id"`
	GroupOrderID int64      `json:"group_order_id"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Status       string     `json:"status"`
	TrackingLink string     `json:"tracking_link"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type createProductRequest struct {
	Name             string   `json:"name" validate:"required,max=200"`
	Description      string   `json:"description" validate:"max=2000"`
	Category         string   `json:"category" validate:"required,max=100"`
	SubCategory      string   `json:"sub_category" validate:"max=100"`
	Unit             string   `json:"unit" validate:"omitempty,max=20"`
	MinOrderQuantity float64  `json:"min_order_quantity" validate:"gte=0"`
	Price            float64  `json:"price" validate:"gte=0"`
	DiscountedPrice  *float64 `json:"discounted_price,omitempty" validate:"omitempty,gte=0"`
	Stock            int      `json:"stock" validate:"gte=0"`
	Images           []string `json:"images" validate:"max=20,dive,url"`
	IsAvailable      *bool    `json:"is_available,omitempty"`
}

type updateProductRequest struct {
	Name             *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category         *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	SubCategory      *string  `json:"sub_category,omitempty" validate:"omitempty,max=100"`
	Unit             *string  `json:"unit,omitempty" validate:"omitempty,max=20"`
	MinOrderQuantity *float64 `json:"min_order_quantity,omitempty" validate:"omitempty,gt=0"`
	Price            *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DiscountedPrice  *float64 `json:"discounted_price,omitempty" validate:"omitempty,gte=0"`
	Stock            *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Images           []string `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
	IsAvailable      *bool    `json:"is_available,omitempty"`
}

type productDTO struct {
	ID               int64     `json:"id"`
	SupplierID       int64     `json:"supplier_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category"`
	SubCategory      string    `json:"sub_category,omitempty"`
	Unit             string    `json:"unit"`
	MinOrderQuantity float64   `json:"min_order_quantity"`
	Price            float64   `json:"price"`
	DiscountedPrice  *float64  `json:"discounted_price,omitempty"`
	Stock            int       `json:"stock"`
	Images           []string  `json:"images"`
	IsAvailable      bool      `json:"is_available"`
	CreatedAt        time.Time `json:"created_at"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	GroupOrderID    *int64             `json:"group_order_id,omitempty" validate:"omitempty,gt=0"`
	TransportID     *int64             `json:"transport_id,omitempty" validate:"omitempty,gt=0"`
	DeliveryAddress string             `json:"delivery_address" validate:"required,max=500"`
	DeliveryDate    *time.Time         `json:"delivery_date,omitempty"`
	DeliverySlot    string             `json:"delivery_slot" validate:"max=50"`
	Notes           string             `json:"notes" validate:"max=2000"`
}

type orderItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
}

type orderDTO struct {
	ID              int64          `json:"id"`
	VendorID        int64          `json:"vendor_id"`
	GroupOrderID    *int64         `json:"group_order_id,omitempty"`
	TransportID     *int64         `json:"transport_id,omitempty"`
	TotalAmount     float64        `json:"total_amount"`
	Status          string         `json:"status"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryDate    *time.Time     `json:"delivery_date,omitempty"`
	DeliverySlot    string         `json:"delivery_slot,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Items           []orderItemDTO `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type orderItemDTO struct {
	ID         int64   `json:"id"`
	ProductID  int64   `json:"product_id"`
	SupplierID int64   `json:"supplier_id"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

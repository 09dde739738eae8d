package models

import "slices"

// Status enums are closed sets known at compile time. Any value may be set by any permitted actor;
// there is no transition graph.

type ItemStatus string

const (
	ItemAvailable        ItemStatus = "AVAILABLE"
	ItemInUse            ItemStatus = "IN_USE"
	ItemUnderMaintenance ItemStatus = "UNDER_MAINTENANCE"
	ItemLost             ItemStatus = "LOST"
	ItemDisposed         ItemStatus = "DISPOSED"
)

var itemStatuses = []string{
	string(ItemAvailable), string(ItemInUse), string(ItemUnderMaintenance), string(ItemLost), string(ItemDisposed),
}

func ItemStatusValues() []string  { return slices.Clone(itemStatuses) }
func (s ItemStatus) Valid() bool { return slices.Contains(itemStatuses, string(s)) }

type SupplyItemStatus string

const (
	SupplyInStock    SupplyItemStatus = "IN_STOCK"
	SupplyLowStock   SupplyItemStatus = "LOW_STOCK"
	SupplyOutOfStock SupplyItemStatus = "OUT_OF_STOCK"
	SupplyOrdered    SupplyItemStatus = "ORDERED"
	SupplyExpired    SupplyItemStatus = "EXPIRED"
)

var supplyStatuses = []string{
	string(SupplyInStock), string(SupplyLowStock), string(SupplyOutOfStock), string(SupplyOrdered), string(SupplyExpired),
}

func SupplyItemStatusValues() []string  { return slices.Clone(supplyStatuses) }
func (s SupplyItemStatus) Valid() bool { return slices.Contains(supplyStatuses, string(s)) }

type VehicleStatus string

const (
	VehicleAvailable        VehicleStatus = "AVAILABLE"
	VehicleInUse            VehicleStatus = "IN_USE"
	VehicleUnderMaintenance VehicleStatus = "UNDER_MAINTENANCE"
)

var vehicleStatuses = []string{
	string(VehicleAvailable), string(VehicleInUse), string(VehicleUnderMaintenance),
}

func VehicleStatusValues() []string  { return slices.Clone(vehicleStatuses) }
func (s VehicleStatus) Valid() bool { return slices.Contains(vehicleStatuses, string(s)) }

type VenueStatus string

const (
	VenueAvailable        VenueStatus = "AVAILABLE"
	VenueInUse            VenueStatus = "IN_USE"
	VenueUnderMaintenance VenueStatus = "UNDER_MAINTENANCE"
	VenueUnavailable      VenueStatus = "UNAVAILABLE"
)

var venueStatuses = []string{
	string(VenueAvailable), string(VenueInUse), string(VenueUnderMaintenance), string(VenueUnavailable),
}

func VenueStatusValues() []string  { return slices.Clone(venueStatuses) }
func (s VenueStatus) Valid() bool { return slices.Contains(venueStatuses, string(s)) }

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestReviewed  RequestStatus = "REVIEWED"
	RequestOnHold    RequestStatus = "ON_HOLD"
	RequestCompleted RequestStatus = "COMPLETED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
)

var requestStatuses = []string{
	string(RequestPending), string(RequestApproved), string(RequestReviewed), string(RequestOnHold),
	string(RequestCompleted), string(RequestRejected), string(RequestCancelled),
}

func RequestStatusValues() []string  { return slices.Clone(requestStatuses) }
func (s RequestStatus) Valid() bool { return slices.Contains(requestStatuses, string(s)) }

type RequestType string

const (
	RequestJob       RequestType = "JOB"
	RequestBorrow    RequestType = "BORROW"
	RequestTransport RequestType = "TRANSPORT"
	RequestVenue     RequestType = "VENUE"
	RequestSupply    RequestType = "SUPPLY"
)

var requestTypes = []string{
	string(RequestJob), string(RequestBorrow), string(RequestTransport), string(RequestVenue), string(RequestSupply),
}

func RequestTypeValues() []string  { return slices.Clone(requestTypes) }
func (t RequestType) Valid() bool { return slices.Contains(requestTypes, string(t)) }

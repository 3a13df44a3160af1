package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

// FleetService handles loads posted by customers and trucks posted by drivers.
type FleetService struct {
	store  storage.Store
	logger *zap.Logger
}

func NewFleetService(store storage.Store, logger *zap.Logger) *FleetService {
	return &FleetService{store: store, logger: logger.Named("fleet")}
}

// PostLoadInput is a customer's shipment request.
type PostLoadInput struct {
	CustomerID       string
	TenantID         string
	Material         string
	RequiredCapacity float64
	From             string
	To               string
	ConsignorName    string
	ConsigneeName    string
}

// PostLoad creates a pending load owned by the customer.
func (s *FleetService) PostLoad(ctx context.Context, in PostLoadInput) (*models.Load, error) {
	if in.RequiredCapacity <= 0 {
		return nil, Invalid("Capacity must be greater than 0.")
	}

	load := &models.Load{
		TenantID:         in.TenantID,
		CustomerID:       in.CustomerID,
		Material:         strings.TrimSpace(in.Material),
		RequiredCapacity: in.RequiredCapacity,
		From:             strings.TrimSpace(in.From),
		To:               strings.TrimSpace(in.To),
		ConsignorName:    strings.TrimSpace(in.ConsignorName),
		ConsigneeName:    strings.TrimSpace(in.ConsigneeName),
		Status:           models.LoadStatusPending,
	}
	if err := s.store.CreateLoad(ctx, load); err != nil {
		return nil, err
	}

	s.logger.Info("load posted", zap.String("load_id", load.ID), zap.Float64("capacity", load.RequiredCapacity))
	return load, nil
}

// ListLoads returns loads newest first, optionally by status.
func (s *FleetService) ListLoads(ctx context.Context, status string) ([]*models.Load, error) {
	if status != "" && !models.IsValidLoadStatus(status) {
		return nil, Invalid("Invalid load status.")
	}
	return s.store.ListLoads(ctx, models.LoadFilter{Status: status})
}

// ListCustomerLoads returns the customer's own loads.
func (s *FleetService) ListCustomerLoads(ctx context.Context, customerID string) ([]*models.Load, error) {
	return s.store.ListLoads(ctx, models.LoadFilter{CustomerID: customerID})
}

// PostTruckInput is a driver's vehicle listing.
type PostTruckInput struct {
	DriverID        string
	TenantID        string
	VehicleNumber   string
	Capacity        float64
	VehicleType     string
	CurrentLocation string
}

// PostTruck lists an available truck for the driver.
func (s *FleetService) PostTruck(ctx context.Context, in PostTruckInput) (*models.Truck, error) {
	if in.Capacity <= 0 {
		return nil, Invalid("Capacity must be greater than 0.")
	}

	truck := &models.Truck{
		TenantID:        in.TenantID,
		DriverID:        in.DriverID,
		VehicleNumber:   models.NormalizeVehicleNumber(in.VehicleNumber),
		Capacity:        in.Capacity,
		VehicleType:     strings.TrimSpace(in.VehicleType),
		CurrentLocation: strings.TrimSpace(in.CurrentLocation),
		IsAvailable:     true,
	}
	if err := s.store.CreateTruck(ctx, truck); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, Conflict("Vehicle number already registered.")
		}
		return nil, err
	}

	s.logger.Info("truck posted", zap.String("truck_id", truck.ID), zap.String("vehicle_number", truck.VehicleNumber))
	return truck, nil
}

// ListAvailableTrucks returns trucks that can still be booked.
func (s *FleetService) ListAvailableTrucks(ctx context.Context) ([]*models.Truck, error) {
	return s.store.ListTrucks(ctx, models.TruckFilter{AvailableOnly: true})
}

// ListDriverTrucks returns the driver's own trucks.
func (s *FleetService) ListDriverTrucks(ctx context.Context, driverID string) ([]*models.Truck, error) {
	return s.store.ListTrucks(ctx, models.TruckFilter{DriverID: driverID})
}

// MatchTrucks ranks available trucks for a load, smallest sufficient first.
func (s *FleetService) MatchTrucks(ctx context.Context, loadID string) ([]*models.Truck, error) {
	if !models.IsID(loadID) {
		return nil, NotFound("Load not found.")
	}
	load, err := s.store.GetLoad(ctx, loadID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, NotFound("Load not found.")
	}
	if err != nil {
		return nil, err
	}
	return s.store.FindMatchingTrucks(ctx, load.RequiredCapacity)
}

package services

import (
	"errors"
	"time"

	"github.com/bhumi3292/DreamDwell-web/models"
	"github.com/bhumi3292/DreamDwell-web/utils"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// CalendarService is the availability/booking coordinator. Every write to the
// availabilities and bookings tables goes through here; handlers never mutate
// those tables directly, so the ownership and conflict rules cannot be
// bypassed.
type CalendarService struct {
	db *gorm.DB
}

func NewCalendarService(db *gorm.DB) *CalendarService {
	return &CalendarService{db: db}
}

// UpsertAvailability creates the (landlord, property, date) record or merges
// the given slots into the existing one. The slot set is always stored as a
// sorted union without duplicates.
func (cs *CalendarService) UpsertAvailability(landlordID, propertyID uint, date time.Time, slots []string) (*models.Availability, bool, error) {
	slots = CleanSlots(slots)
	if propertyID == 0 || len(slots) == 0 {
		return nil, false, utils.ValidationError("Property ID, date, and at least one time slot are required.")
	}
	day := utils.NormalizeDate(date)

	var property models.Property
	if err := cs.db.Where("id = ? AND landlord_id = ?", propertyID, landlordID).First(&property).Error; err != nil {
		return nil, false, utils.NotFoundError("Property not found or does not belong to you.")
	}

	var availability models.Availability
	err := cs.db.Where("landlord_id = ? AND property_id = ? AND date = ?", landlordID, propertyID, day).
		First(&availability).Error
	if err == nil {
		availability.SetSlots(MergeSlots(availability.Slots(), slots))
		if saveErr := cs.db.Save(&availability).Error; saveErr != nil {
			return nil, false, saveErr
		}
		return &availability, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	availability = models.Availability{LandlordID: landlordID, PropertyID: propertyID, Date: day}
	availability.SetSlots(slots)
	if err := cs.db.Create(&availability).Error; err != nil {
		return nil, false, err
	}
	return &availability, true, nil
}

// ListLandlordAvailabilities returns the landlord's records, earliest day first.
func (cs *CalendarService) ListLandlordAvailabilities(landlordID uint) ([]models.Availability, error) {
	var rows []models.Availability
	err := cs.db.Where("landlord_id = ?", landlordID).
		Preload("Property").
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

// ReplaceSlots replaces the availability's slot list wholesale. Removing a
// slot that an active booking occupies is refused.
func (cs *CalendarService) ReplaceSlots(availabilityID, landlordID uint, newSlots []string) (*models.Availability, error) {
	availability, err := cs.ownedAvailability(availabilityID, landlordID)
	if err != nil {
		return nil, err
	}

	newSlots = CleanSlots(newSlots)
	removed := RemovedSlots(availability.Slots(), newSlots)
	if len(removed) > 0 {
		var held int64
		cs.db.Model(&models.Booking{}).
			Where("property_id = ? AND date = ? AND time_slot IN ? AND status IN ?",
				availability.PropertyID, availability.Date, removed, models.ActiveStatuses).
			Count(&held)
		if held > 0 {
			return nil, utils.ConflictError("Cannot remove time slot(s) that already have pending or confirmed bookings.")
		}
	}

	availability.SetSlots(newSlots)
	if err := cs.db.Save(availability).Error; err != nil {
		return nil, err
	}
	return availability, nil
}

// RemoveAvailability deletes the record unless any active booking still
// references its property and day.
func (cs *CalendarService) RemoveAvailability(availabilityID, landlordID uint) error {
	availability, err := cs.ownedAvailability(availabilityID, landlordID)
	if err != nil {
		return err
	}

	var held int64
	cs.db.Model(&models.Booking{}).
		Where("property_id = ? AND date = ? AND status IN ?",
			availability.PropertyID, availability.Date, models.ActiveStatuses).
		Count(&held)
	if held > 0 {
		return utils.ConflictError("Cannot delete availability because there are existing pending or confirmed bookings for this date. Please cancel bookings first.")
	}

	return cs.db.Delete(availability).Error
}

// FindSlotsFor returns the offered slot set for a property and day, empty if
// no availability record exists.
func (cs *CalendarService) FindSlotsFor(propertyID uint, date time.Time) ([]string, error) {
	day := utils.NormalizeDate(date)

	var availability models.Availability
	err := cs.db.Where("property_id = ? AND date = ?", propertyID, day).First(&availability).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return availability.Slots(), nil
}

// AvailableSlotsFor computes offered − actively booked for a property and day.
func (cs *CalendarService) AvailableSlotsFor(propertyID uint, date time.Time) ([]string, error) {
	day := utils.NormalizeDate(date)

	offered, err := cs.FindSlotsFor(propertyID, day)
	if err != nil {
		return nil, err
	}
	if len(offered) == 0 {
		return []string{}, nil
	}

	var booked []string
	if err := cs.db.Model(&models.Booking{}).
		Where("property_id = ? AND date = ? AND status IN ?", propertyID, day, models.ActiveStatuses).
		Pluck("time_slot", &booked).Error; err != nil {
		return nil, err
	}

	return AvailableSlots(offered, booked), nil
}

// BookVisit creates a pending booking for the tenant. The existence check
// against active bookings is a fast friendly error; the partial unique index
// on (property, date, time_slot) is the authoritative guard, and its violation
// is translated into the same conflict error.
func (cs *CalendarService) BookVisit(tenantID, propertyID uint, date time.Time, timeSlot string) (*models.Booking, error) {
	if propertyID == 0 || timeSlot == "" {
		return nil, utils.ValidationError("Property ID, date, and time slot are required.")
	}
	day := utils.NormalizeDate(date)

	var availability models.Availability
	err := cs.db.Where("property_id = ? AND date = ?", propertyID, day).First(&availability).Error
	if err != nil || !slices.Contains(availability.Slots(), timeSlot) {
		return nil, utils.ValidationError("The requested time slot is not available or does not exist on the landlord's schedule.")
	}

	var existing int64
	cs.db.Model(&models.Booking{}).
		Where("property_id = ? AND date = ? AND time_slot = ? AND status IN ?",
			propertyID, day, timeSlot, models.ActiveStatuses).
		Count(&existing)
	if existing > 0 {
		return nil, utils.ConflictError("This time slot is already booked. Please choose another.")
	}

	// Landlord comes from the availability record, never from the request.
	booking := models.Booking{
		TenantID:   tenantID,
		LandlordID: availability.LandlordID,
		PropertyID: propertyID,
		Date:       day,
		TimeSlot:   timeSlot,
		Status:     models.BookingPending,
	}
	if err := cs.db.Create(&booking).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, utils.ConflictError("This time slot is already booked. Please choose another.")
		}
		return nil, err
	}

	return &booking, nil
}

// SetStatus transitions a booking on behalf of its landlord, validating the
// transition table.
func (cs *CalendarService) SetStatus(bookingID, actorID uint, newStatus string) (*models.Booking, error) {
	if !models.ValidStatus(newStatus) {
		return nil, utils.ValidationError("Invalid booking status provided.")
	}

	var booking models.Booking
	if err := cs.db.First(&booking, bookingID).Error; err != nil {
		return nil, utils.NotFoundError("Booking not found or does not belong to your properties.")
	}
	if booking.LandlordID != actorID {
		return nil, utils.NotFoundError("Booking not found or does not belong to your properties.")
	}

	if booking.Status != models.BookingPending && newStatus == models.BookingPending {
		return nil, utils.ValidationError("Cannot revert a booking to pending status once it has been processed.")
	}
	if !models.CanTransition("landlord", booking.Status, newStatus) {
		return nil, utils.ValidationError("Booking cannot move from '%s' to '%s'.", booking.Status, newStatus)
	}

	booking.Status = newStatus
	if err := cs.db.Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking cancels on behalf of either party. Only an active booking can
// be cancelled; everything else has already released its slot.
func (cs *CalendarService) CancelBooking(bookingID, actorID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := cs.db.First(&booking, bookingID).Error; err != nil {
		return nil, utils.NotFoundError("Booking not found.")
	}

	if booking.TenantID != actorID && booking.LandlordID != actorID {
		return nil, utils.AuthorizationError("Access denied: You are not authorized to cancel this booking.")
	}

	if !booking.IsActive() {
		return nil, utils.ValidationError("Booking cannot be cancelled from '%s' status.", booking.Status)
	}

	booking.Status = models.BookingCancelled
	if err := cs.db.Save(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListTenantBookings returns the tenant's bookings sorted by date then slot.
func (cs *CalendarService) ListTenantBookings(tenantID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := cs.db.Where("tenant_id = ?", tenantID).
		Preload("Property").
		Preload("Landlord").
		Order("date ASC, time_slot ASC").
		Find(&bookings).Error
	return bookings, err
}

// ListLandlordBookings returns the landlord's bookings sorted by date then slot.
func (cs *CalendarService) ListLandlordBookings(landlordID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := cs.db.Where("landlord_id = ?", landlordID).
		Preload("Property").
		Preload("Tenant").
		Order("date ASC, time_slot ASC").
		Find(&bookings).Error
	return bookings, err
}

func (cs *CalendarService) ownedAvailability(availabilityID, landlordID uint) (*models.Availability, error) {
	var availability models.Availability
	if err := cs.db.First(&availability, availabilityID).Error; err != nil {
		return nil, utils.NotFoundError("Availability not found or does not belong to you.")
	}
	if availability.LandlordID != landlordID {
		return nil, utils.NotFoundError("Availability not found or does not belong to you.")
	}
	return &availability, nil
}

// isUniqueViolation unwraps the postgres error behind a failed insert.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

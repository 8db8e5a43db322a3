package routes

import (
	"net/http"
	"time"

	"github.com/bhumi3292/DreamDwell-web/models"
	"github.com/bhumi3292/DreamDwell-web/services"
	"github.com/bhumi3292/DreamDwell-web/storage"
	"github.com/bhumi3292/DreamDwell-web/utils"

	"github.com/kataras/iris/v12"
)

type CreateAvailabilityInput struct {
	PropertyID uint     `json:"propertyId" validate:"required"`
	Date       string   `json:"date" validate:"required"`
	TimeSlots  []string `json:"timeSlots" validate:"required,min=1"`
}

type UpdateAvailabilityInput struct {
	TimeSlots []string `json:"timeSlots"`
}

type BookVisitInput struct {
	PropertyID uint   `json:"propertyId" validate:"required"`
	Date       string `json:"date" validate:"required"`
	TimeSlot   string `json:"timeSlot" validate:"required"`
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// parseDateInput accepts YYYY-MM-DD or a full RFC3339 timestamp; either way
// the result is normalized to UTC midnight.
func parseDateInput(s string) (time.Time, bool) {
	if day, err := utils.ParseDay(s); err == nil {
		return day, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return utils.NormalizeDate(t), true
	}
	return time.Time{}, false
}

// CreateAvailability lets a landlord create or merge slots for a property+date.
func CreateAvailability(ctx iris.Context) {
	landlordID := ctx.Values().Get("userID").(uint)

	var input CreateAvailabilityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	date, ok := parseDateInput(input.Date)
	if !ok {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid date format."})
		return
	}

	availability, created, err := services.NewCalendarService(storage.DB).
		UpsertAvailability(landlordID, input.PropertyID, date, input.TimeSlots)
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}

	if created {
		ctx.StatusCode(http.StatusCreated)
		ctx.JSON(iris.Map{"success": true, "message": "Availability created successfully.", "availability": availability})
		return
	}
	ctx.JSON(iris.Map{"success": true, "message": "Availability updated successfully.", "availability": availability})
}

// GetLandlordAvailabilities lists the landlord's availability records.
func GetLandlordAvailabilities(ctx iris.Context) {
	landlordID := ctx.Values().Get("userID").(uint)

	availabilities, err := services.NewCalendarService(storage.DB).ListLandlordAvailabilities(landlordID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "availabilities": availabilities})
}

// UpdateAvailability replaces an availability's slot list.
func UpdateAvailability(ctx iris.Context) {
	landlordID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid availability ID."})
		return
	}

	var input UpdateAvailabilityInput
	if readErr := ctx.ReadJSON(&input); readErr != nil || input.TimeSlots == nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Time slots must be an array."})
		return
	}

	availability, svcErr := services.NewCalendarService(storage.DB).ReplaceSlots(id, landlordID, input.TimeSlots)
	if svcErr != nil {
		// Removal blocked by an active booking reads as 400 on this endpoint.
		utils.HandleServiceErrorStatus(ctx, svcErr, http.StatusBadRequest)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Availability updated successfully.", "availability": availability})
}

// DeleteAvailability removes an availability record.
func DeleteAvailability(ctx iris.Context) {
	landlordID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid availability ID."})
		return
	}

	if svcErr := services.NewCalendarService(storage.DB).RemoveAvailability(id, landlordID); svcErr != nil {
		utils.HandleServiceErrorStatus(ctx, svcErr, http.StatusBadRequest)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Availability deleted successfully."})
}

// GetAvailableSlotsForProperty returns offered minus actively booked slots for
// one property and day.
func GetAvailableSlotsForProperty(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid property ID."})
		return
	}

	dateStr := ctx.URLParam("date")
	if dateStr == "" {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Date is required to find available slots."})
		return
	}
	date, ok := parseDateInput(dateStr)
	if !ok {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid date format."})
		return
	}

	slots, svcErr := services.NewCalendarService(storage.DB).AvailableSlotsFor(propertyID, date)
	if svcErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":        true,
		"date":           date,
		"property":       propertyID,
		"availableSlots": slots,
	})
}

// BookVisit creates a pending visit booking for the tenant.
func BookVisit(ctx iris.Context) {
	tenantID := ctx.Values().Get("userID").(uint)

	var input BookVisitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	date, ok := parseDateInput(input.Date)
	if !ok {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid date format."})
		return
	}

	booking, err := services.NewCalendarService(storage.DB).
		BookVisit(tenantID, input.PropertyID, date, input.TimeSlot)
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}

	var tenant models.User
	if dbErr := storage.DB.First(&tenant, tenantID).Error; dbErr == nil {
		go services.NewNotificationService().NotifyVisitRequested(booking, tenant.FullName())
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "message": "Visit booked successfully. Awaiting landlord confirmation.", "booking": booking})
}

// GetTenantBookings lists the tenant's bookings.
func GetTenantBookings(ctx iris.Context) {
	tenantID := ctx.Values().Get("userID").(uint)

	bookings, err := services.NewCalendarService(storage.DB).ListTenantBookings(tenantID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "bookings": bookings})
}

// GetLandlordBookings lists bookings across the landlord's properties.
func GetLandlordBookings(ctx iris.Context) {
	landlordID := ctx.Values().Get("userID").(uint)

	bookings, err := services.NewCalendarService(storage.DB).ListLandlordBookings(landlordID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "bookings": bookings})
}

// UpdateBookingStatus transitions a booking on the landlord's behalf.
func UpdateBookingStatus(ctx iris.Context) {
	landlordID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid booking ID."})
		return
	}

	var input UpdateBookingStatusInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	booking, svcErr := services.NewCalendarService(storage.DB).SetStatus(id, landlordID, input.Status)
	if svcErr != nil {
		utils.HandleServiceErrorStatus(ctx, svcErr, http.StatusBadRequest)
		return
	}

	go services.NewNotificationService().NotifyStatusChanged(booking)

	ctx.JSON(iris.Map{"success": true, "message": "Booking status updated to " + booking.Status + ".", "booking": booking})
}

// DeleteBooking cancels a booking on behalf of either party.
func DeleteBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid booking ID."})
		return
	}

	booking, svcErr := services.NewCalendarService(storage.DB).CancelBooking(id, userID)
	if svcErr != nil {
		utils.HandleServiceErrorStatus(ctx, svcErr, http.StatusBadRequest)
		return
	}

	go services.NewNotificationService().NotifyStatusChanged(booking)

	ctx.JSON(iris.Map{"success": true, "message": "Booking cancelled successfully."})
}

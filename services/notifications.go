package services

import (
	"fmt"
	"log"

	"github.com/bhumi3292/DreamDwell-web/models"
	"github.com/bhumi3292/DreamDwell-web/storage"
)

// NotificationService persists in-app notification rows for booking lifecycle
// events.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyVisitRequested tells the landlord a tenant asked for a visit.
func (ns *NotificationService) NotifyVisitRequested(booking *models.Booking, tenantName string) {
	ns.create(models.Notification{
		UserID:  booking.LandlordID,
		Type:    "visit_requested",
		Title:   "New visit request",
		Message: fmt.Sprintf("%s requested a visit on %s at %s.", tenantName, booking.Date.Format("January 2, 2006"), booking.TimeSlot),
		RefType: "booking",
		RefID:   booking.ID,
	})
}

// NotifyStatusChanged tells the tenant their booking moved to a new status.
func (ns *NotificationService) NotifyStatusChanged(booking *models.Booking) {
	ns.create(models.Notification{
		UserID:  booking.TenantID,
		Type:    "visit_" + booking.Status,
		Title:   "Visit booking " + booking.Status,
		Message: fmt.Sprintf("Your visit on %s at %s is now %s.", booking.Date.Format("January 2, 2006"), booking.TimeSlot, booking.Status),
		RefType: "booking",
		RefID:   booking.ID,
	})
}

func (ns *NotificationService) create(n models.Notification) {
	if err := storage.DB.Create(&n).Error; err != nil {
		log.Printf("failed to store notification for user %d: %v", n.UserID, err)
	}
}

package appointment

import (
	"github.com/BruksfildServices01/booking-engine/internal/domain/client"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

var (
	ErrSlotNoLongerAvailable    = httperr.ErrConflict("slot_no_longer_available")
	ErrIdentityResolutionFailed = client.ErrIdentityResolutionFailed
	ErrInvalidTransition        = httperr.ErrTransition("invalid_transition")
	ErrAlreadyTerminal          = httperr.ErrTransition("already_terminal")

	ErrAppointmentNotFound  = httperr.ErrNotFound("appointment_not_found")
	ErrTenantNotFound       = httperr.ErrNotFound("tenant_not_found")
	ErrServiceNotFound      = httperr.ErrBusiness("service_not_found")
	ErrCatalogItemNotFound  = httperr.ErrBusiness("catalog_item_not_found")
	ErrProfessionalNotFound = httperr.ErrBusiness("professional_not_found")

	ErrInvalidDateOrTime  = httperr.ErrBusiness("invalid_date_or_time")
	ErrInvalidStatus      = httperr.ErrBusiness("invalid_status")
	ErrInvalidOrigin      = httperr.ErrBusiness("invalid_origin")
	ErrClientNameRequired = httperr.ErrBusiness("client_name_required")
	ErrClientPhoneMissing = httperr.ErrBusiness("client_phone_required")
	ErrInvalidQuantity    = httperr.ErrBusiness("invalid_quantity")
	ErrNoLineItems        = httperr.ErrBusiness("line_items_required")
	ErrNegativePrice      = httperr.ErrBusiness("invalid_price")

	ErrInvalidOperatingHours = httperr.ErrBusiness("invalid_operating_hours")
)

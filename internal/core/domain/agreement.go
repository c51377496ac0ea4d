package domain

import "strings"

// AgreementType is the legal category of a document.
type AgreementType string

// Known agreement types.
const (
	AgreementResidentialLease AgreementType = "residential_lease"
	AgreementCommercialLease  AgreementType = "commercial_lease"
	AgreementPayingGuest      AgreementType = "pg_hostel"
	AgreementMaintenance      AgreementType = "maintenance"
	AgreementEmployment       AgreementType = "employment"
	AgreementService          AgreementType = "service"
	AgreementPurchase         AgreementType = "purchase"
	AgreementPartnership      AgreementType = "partnership"
	AgreementOther            AgreementType = "other"

	// AgreementUnknown is recorded when classification failed.
	AgreementUnknown AgreementType = "unknown"
)

// UnknownAgreementLabel is reported when the classifier could not answer.
const UnknownAgreementLabel = "Unknown Agreement Type"

// IsValid returns true if the agreement type is recognised.
func (t AgreementType) IsValid() bool {
	switch t {
	case AgreementResidentialLease, AgreementCommercialLease, AgreementPayingGuest,
		AgreementMaintenance, AgreementEmployment, AgreementService,
		AgreementPurchase, AgreementPartnership, AgreementOther, AgreementUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t AgreementType) String() string {
	return string(t)
}

// Label returns the human-readable category name.
func (t AgreementType) Label() string {
	switch t {
	case AgreementResidentialLease:
		return "Residential Rental/Lease Agreement"
	case AgreementCommercialLease:
		return "Commercial Lease Agreement"
	case AgreementPayingGuest:
		return "Paying Guest (PG) or Hostel Contract"
	case AgreementMaintenance:
		return "Maintenance Agreement with Housing Society"
	case AgreementEmployment:
		return "Employment Agreement"
	case AgreementService:
		return "Service Agreement"
	case AgreementPurchase:
		return "Purchase Agreement"
	case AgreementPartnership:
		return "Partnership Agreement"
	case AgreementOther:
		return "Other"
	default:
		return UnknownAgreementLabel
	}
}

// ClassifiableAgreementTypes returns the categories offered to the classifier,
// in the numbered order used by its prompt.
func ClassifiableAgreementTypes() []AgreementType {
	return []AgreementType{
		AgreementResidentialLease,
		AgreementCommercialLease,
		AgreementPayingGuest,
		AgreementMaintenance,
		AgreementEmployment,
		AgreementService,
		AgreementPurchase,
		AgreementPartnership,
		AgreementOther,
	}
}

// agreementRoute maps label substrings to a type. Order matters: the first
// route with a matching substring wins.
type agreementRoute struct {
	needles []string
	kind    AgreementType
}

var agreementRoutes = []agreementRoute{
	{[]string{"Residential Rental"}, AgreementResidentialLease},
	{[]string{"Commercial Lease"}, AgreementCommercialLease},
	{[]string{"Lease Agreement"}, AgreementResidentialLease},
	{[]string{"Paying Guest", "Hostel"}, AgreementPayingGuest},
	{[]string{"Maintenance Agreement", "Housing Society"}, AgreementMaintenance},
	{[]string{"Employment Agreement"}, AgreementEmployment},
	{[]string{"Service Agreement"}, AgreementService},
	{[]string{"Purchase Agreement"}, AgreementPurchase},
	{[]string{"Partnership Agreement"}, AgreementPartnership},
}

// AgreementTypeFromLabel resolves a classifier answer such as
// "2. Commercial Lease Agreement" to a type. Matching is case-sensitive.
// Labels that match no known category resolve to AgreementOther, and the
// unknown placeholder resolves to AgreementUnknown.
func AgreementTypeFromLabel(label string) AgreementType {
	if strings.TrimSpace(label) == "" || label == UnknownAgreementLabel {
		return AgreementUnknown
	}
	for _, route := range agreementRoutes {
		for _, needle := range route.needles {
			if strings.Contains(label, needle) {
				return route.kind
			}
		}
	}
	return AgreementOther
}

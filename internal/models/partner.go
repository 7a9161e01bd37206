package models

// PartnerCode identifies one of the two company partners.
type PartnerCode string

const (
	PartnerA PartnerCode = "partner_a"
	PartnerB PartnerCode = "partner_b"
)

// CompanyCode is the beneficiary tag used when an internal budget
// allocation belongs to the company itself rather than a partner.
const CompanyCode = "company"

func (p PartnerCode) Valid() bool {
	return p == PartnerA || p == PartnerB
}

// Other returns the opposite partner.
func (p PartnerCode) Other() PartnerCode {
	if p == PartnerA {
		return PartnerB
	}
	return PartnerA
}

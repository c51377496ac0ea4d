package domain

// Word bands requested from the generator. They are targets, not limits.
const (
	ShortSummaryMinWords    = 200
	ShortSummaryMaxWords    = 250
	DetailedSummaryMinWords = 600
	DetailedSummaryMaxWords = 700
)

// TemplateSection is one numbered section of a detailed summary.
type TemplateSection struct {
	Title    string
	MinWords int
	MaxWords int
	Points   []string
}

// TemplateDescriptor describes what a summary of one agreement category
// must cover. A single renderer turns descriptors into prompts.
type TemplateDescriptor struct {
	// Type is the agreement category the template serves.
	Type AgreementType

	// Specialty completes "You are a legal document analyst specializing in ...".
	// Empty for the generic template.
	Specialty string

	// Subject names the document in the instructions, e.g. "rental agreement document".
	Subject string

	// MustInclude lists mandatory points for the short summary.
	MustInclude []string

	// AlsoInclude lists secondary points for the short summary.
	AlsoInclude []string

	// ShortFocus is the closing emphasis line for the short summary.
	ShortFocus string

	// Sections lists the detailed summary sections in order.
	Sections []TemplateSection
}

var riskPoints = []string{
	"Identify any unfair or problematic clauses",
	"Highlight potential legal issues",
	"Note any one-sided terms",
	"Suggest areas for negotiation",
}

func risks(extra ...string) TemplateSection {
	points := append(append([]string{}, riskPoints...), extra...)
	return TemplateSection{Title: "POTENTIAL ISSUES & RISKS", MinWords: 70, MaxWords: 90, Points: points}
}

var templates = map[AgreementType]TemplateDescriptor{
	AgreementResidentialLease: {
		Type:      AgreementResidentialLease,
		Specialty: "rental agreements",
		Subject:   "rental agreement document",
		MustInclude: []string{
			"Rent amount and payment terms",
			"Security deposit details",
			"Notice period requirements",
			"Lock-in period (if any)",
			"Renewal terms and conditions",
			"Penalties and late fees",
		},
		AlsoInclude: []string{
			"Property details and address",
			"Tenant and landlord obligations",
			"Maintenance responsibilities",
			"Any special conditions or restrictions",
		},
		ShortFocus: "Focus on the most important terms that affect the tenant's rights and obligations.",
		Sections: []TemplateSection{
			{"PROPERTY DETAILS & PARTIES", 50, 70, []string{
				"Complete property address and description",
				"Landlord and tenant names/details",
				"Lease term and commencement date",
			}},
			{"FINANCIAL TERMS", 100, 120, []string{
				"Monthly rent amount and payment schedule",
				"Security deposit amount and refund conditions",
				"Additional charges (utilities, maintenance, etc.)",
				"Late payment penalties and grace periods",
			}},
			{"LEASE TERMS & CONDITIONS", 120, 150, []string{
				"Lock-in period details and early termination penalties",
				"Notice period requirements for both parties",
				"Renewal terms and conditions",
				"Subletting and assignment restrictions",
			}},
			{"OBLIGATIONS & RESPONSIBILITIES", 100, 120, []string{
				"Tenant obligations (maintenance, cleanliness, etc.)",
				"Landlord responsibilities (repairs, services, etc.)",
				"Property use restrictions and house rules",
				"Pet policies and guest restrictions",
			}},
			{"MAINTENANCE & REPAIRS", 80, 100, []string{
				"Who handles what type of repairs",
				"Emergency maintenance procedures",
				"Tenant's responsibility limits",
				"Property condition requirements",
			}},
			{"TERMINATION & DEFAULT", 80, 100, []string{
				"Grounds for termination",
				"Default procedures and remedies",
				"Security deposit deductions",
				"Move-out requirements",
			}},
			risks(),
		},
	},
	AgreementCommercialLease: {
		Type:      AgreementCommercialLease,
		Specialty: "commercial lease agreements",
		Subject:   "commercial lease document",
		MustInclude: []string{
			"Base rent and additional charges (CAM, utilities, taxes)",
			"Security deposit and guarantees",
			"Term length and renewal options",
			"Use restrictions and permitted activities",
			"Operating hours and access rights",
			"Maintenance and repair responsibilities",
			"Insurance requirements",
			"Assignment and subletting rights",
			"Default and termination provisions",
		},
		ShortFocus: "Focus on business-critical terms and financial obligations.",
		Sections: []TemplateSection{
			{"PREMISES & PARTIES", 50, 70, []string{
				"Property description and square footage",
				"Landlord and tenant business details",
				"Lease term and commencement date",
			}},
			{"FINANCIAL TERMS", 120, 150, []string{
				"Base rent amount and payment schedule",
				"Common Area Maintenance (CAM) charges breakdown",
				"Additional charges (utilities, taxes, insurance)",
				"Security deposit and personal guarantees",
				"Rent escalation clauses and adjustments",
			}},
			{"LEASE TERMS & USE", 100, 120, []string{
				"Permitted use of premises",
				"Operating hours and access rights",
				"Assignment and subletting restrictions",
				"Renewal options and terms",
				"Early termination provisions",
			}},
			{"MAINTENANCE & REPAIRS", 80, 100, []string{
				"Landlord maintenance responsibilities",
				"Tenant maintenance obligations",
				"Emergency repair procedures",
				"Building systems and HVAC maintenance",
				"Common area maintenance",
			}},
			{"INSURANCE & LIABILITY", 80, 100, []string{
				"Required insurance coverage amounts",
				"Additional insured requirements",
				"Liability and indemnity provisions",
				"Property damage coverage",
				"Business interruption considerations",
			}},
			{"DEFAULT & TERMINATION", 80, 100, []string{
				"Default events and cure periods",
				"Termination procedures and notice",
				"Remedies and enforcement",
				"Holdover provisions",
				"Surrender and restoration requirements",
			}},
			risks("Business impact considerations"),
		},
	},
	AgreementPayingGuest: {
		Type:      AgreementPayingGuest,
		Specialty: "paying guest (PG) and hostel contracts",
		Subject:   "PG/hostel contract",
		MustInclude: []string{
			"Monthly rent and advance payment requirements",
			"Security deposit amount and refund terms",
			"Notice period for vacating",
			"Lock-in period and early termination fees",
			"Meal plans and food charges (if applicable)",
			"House rules and restrictions",
			"Maintenance and cleaning responsibilities",
			"Guest policy and visitor restrictions",
			"Payment due dates and late fees",
		},
		ShortFocus: "Focus on accommodation-specific terms and living conditions.",
		Sections: []TemplateSection{
			{"ACCOMMODATION DETAILS & PARTIES", 50, 70, []string{
				"Property address and room description",
				"Owner/manager and tenant details",
				"Contract term and commencement date",
				"Type of accommodation (PG/Hostel)",
			}},
			{"FINANCIAL TERMS", 100, 120, []string{
				"Monthly rent and advance payment requirements",
				"Security deposit amount and refund conditions",
				"Additional charges (meals, utilities, etc.)",
				"Late payment penalties and grace periods",
				"Refund policies for early termination",
			}},
			{"LIVING TERMS & CONDITIONS", 120, 150, []string{
				"Lock-in period details and early termination fees",
				"Notice period requirements for vacating",
				"House rules and restrictions",
				"Meal plans and food charges (if applicable)",
				"Guest policy and visitor restrictions",
			}},
			{"FACILITIES & SERVICES", 80, 100, []string{
				"What facilities are included",
				"Meal services and timings",
				"Cleaning and maintenance services",
				"Internet and utility provisions",
				"Common area access and rules",
			}},
			{"TENANT OBLIGATIONS", 80, 100, []string{
				"Maintenance and cleaning responsibilities",
				"Noise and behavior restrictions",
				"Property care requirements",
				"Compliance with house rules",
				"Reporting maintenance issues",
			}},
			{"TERMINATION & MOVE-OUT", 80, 100, []string{
				"Grounds for termination",
				"Move-out procedures and notice",
				"Security deposit return process",
				"Property inspection requirements",
				"Final settlement procedures",
			}},
			risks("Living condition concerns"),
		},
	},
	AgreementMaintenance: {
		Type:      AgreementMaintenance,
		Specialty: "maintenance agreements with housing societies",
		Subject:   "maintenance agreement",
		MustInclude: []string{
			"Monthly maintenance charges and breakdown",
			"Security deposit requirements",
			"Notice period for termination",
			"Lock-in period (if any)",
			"Renewal terms and conditions",
			"Penalties for late payment",
			"Services covered under maintenance",
			"Additional charges for extra services",
			"Dispute resolution procedures",
			"Society rules and regulations",
		},
		ShortFocus: "Focus on maintenance services and financial obligations.",
		Sections: []TemplateSection{
			{"AGREEMENT OVERVIEW", 50, 70, []string{
				"Society name and property details",
				"Resident and society details",
				"Agreement term and commencement date",
			}},
			{"MAINTENANCE CHARGES", 100, 120, []string{
				"Monthly maintenance amount and breakdown",
				"Service charges and additional fees",
				"Payment schedule and due dates",
				"Late payment penalties and interest",
			}},
			{"SERVICES COVERED", 120, 150, []string{
				"What maintenance services are included",
				"Common area maintenance details",
				"Security and safety services",
				"Utility and infrastructure maintenance",
				"Additional services available",
			}},
			{"RESPONSIBILITIES", 100, 120, []string{
				"Society maintenance obligations",
				"Resident responsibilities",
				"Emergency maintenance procedures",
				"Complaint handling process",
				"Quality standards and timelines",
			}},
			{"FINANCIAL TERMS", 80, 100, []string{
				"Security deposit requirements",
				"Escalation clauses",
				"Refund policies",
				"Additional charge procedures",
				"Dispute resolution for charges",
			}},
			{"TERMINATION & DEFAULT", 80, 100, []string{
				"Grounds for termination",
				"Notice period requirements",
				"Default procedures and remedies",
				"Exit requirements and final settlement",
			}},
			risks("Service quality concerns"),
		},
	},
	AgreementEmployment: {
		Type:      AgreementEmployment,
		Specialty: "employment agreements",
		Subject:   "employment agreement",
		MustInclude: []string{
			"Job role and responsibilities",
			"Salary and benefits",
			"Probation period (if any)",
			"Notice period and termination terms",
			"Working hours, leave, and holidays",
			"Confidentiality and non-compete clauses",
			"Dispute resolution process",
		},
		Sections: []TemplateSection{
			{"EMPLOYMENT DETAILS", 50, 70, []string{
				"Employee and employer details",
				"Job title, role, and location",
				"Start date and probation period",
				"Employment type and status",
			}},
			{"COMPENSATION & BENEFITS", 100, 120, []string{
				"Base salary and payment schedule",
				"Allowances and variable pay",
				"Bonuses, incentives, and benefits",
				"Deductions and reimbursements",
				"Performance evaluation criteria",
			}},
			{"TERMS & CONDITIONS", 120, 150, []string{
				"Working hours and schedule",
				"Leave policy and holidays",
				"Confidentiality clauses",
				"Intellectual property ownership",
				"Code of conduct requirements",
				"Dress code and workplace policies",
			}},
			{"OBLIGATIONS & RESTRICTIONS", 100, 120, []string{
				"Non-compete and non-solicit clauses",
				"Conflict of interest rules",
				"Performance expectations",
				"Reporting duties and hierarchy",
				"Training and development requirements",
			}},
			{"TERMINATION & NOTICE", 80, 100, []string{
				"Grounds for termination",
				"Notice period requirements",
				"Severance and exit pay",
				"Return of company property",
				"Dispute resolution process",
			}},
			{"WORKPLACE POLICIES", 80, 100, []string{
				"Health and safety requirements",
				"Technology and equipment usage",
				"Social media policies",
				"Grievance procedures",
				"Equal opportunity policies",
			}},
			risks("Employee rights concerns"),
		},
	},
	AgreementService: {
		Type:      AgreementService,
		Specialty: "service agreements",
		Subject:   "service agreement",
		MustInclude: []string{
			"Scope of services",
			"Service fees and payment terms",
			"Duration of the contract",
			"Termination clauses",
			"Service-level commitments (SLAs, if any)",
			"Liability and indemnity terms",
			"Renewal or extension terms",
		},
		Sections: []TemplateSection{
			{"PARTIES & PURPOSE", 50, 70, []string{
				"Service provider and client details",
				"Scope of services and purpose",
				"Agreement duration and effective date",
				"Service location and delivery method",
			}},
			{"SCOPE & DELIVERABLES", 120, 150, []string{
				"Detailed service scope and description",
				"Specific deliverables and timelines",
				"Service levels and performance metrics (SLAs)",
				"Quality standards and requirements",
				"Change management procedures",
			}},
			{"FINANCIAL TERMS", 100, 120, []string{
				"Service fees and payment schedule",
				"Taxes, reimbursements, and additional costs",
				"Penalties for delays or non-performance",
				"Escalation clauses and adjustments",
				"Currency and payment methods",
			}},
			{"OBLIGATIONS & RESPONSIBILITIES", 100, 120, []string{
				"Service provider duties and commitments",
				"Client responsibilities and cooperation",
				"Compliance with laws and regulations",
				"Confidentiality and data protection",
				"Insurance and liability requirements",
			}},
			{"PERFORMANCE & MONITORING", 80, 100, []string{
				"Performance measurement criteria",
				"Reporting requirements and frequency",
				"Monitoring and audit rights",
				"Issue escalation procedures",
				"Continuous improvement expectations",
			}},
			{"TERMINATION & DISPUTE RESOLUTION", 80, 100, []string{
				"Grounds for termination",
				"Notice period and transition requirements",
				"Refund policies and penalties",
				"Dispute resolution procedures",
				"Governing law and jurisdiction",
			}},
			risks("Service quality and SLA concerns"),
		},
	},
	AgreementPurchase: {
		Type:      AgreementPurchase,
		Specialty: "purchase agreements",
		Subject:   "purchase agreement",
		MustInclude: []string{
			"Parties involved (buyer/seller)",
			"Goods/services purchased",
			"Purchase price and payment schedule",
			"Delivery and inspection terms",
			"Warranties and guarantees",
			"Risk of loss and insurance",
			"Default and remedies",
			"Termination and dispute resolution",
		},
		Sections: []TemplateSection{
			{"PARTIES & TRANSACTION", 50, 70, []string{
				"Buyer and seller details",
				"Goods or services being purchased",
				"Transaction value and currency",
				"Effective date and duration",
			}},
			{"PURCHASE DETAILS", 100, 120, []string{
				"Detailed description of items",
				"Quantity, specifications, and quality standards",
				"Delivery requirements and timelines",
				"Inspection and acceptance criteria",
				"Packaging and labeling requirements",
			}},
			{"FINANCIAL TERMS", 120, 150, []string{
				"Purchase price and payment schedule",
				"Taxes, duties, and additional costs",
				"Currency and exchange rate provisions",
				"Late payment penalties and interest",
				"Refund and cancellation policies",
			}},
			{"DELIVERY & PERFORMANCE", 100, 120, []string{
				"Delivery method and location",
				"Risk of loss and insurance requirements",
				"Performance guarantees and warranties",
				"Force majeure and delay provisions",
				"Acceptance and rejection procedures",
			}},
			{"QUALITY & WARRANTIES", 80, 100, []string{
				"Quality standards and specifications",
				"Warranty terms and duration",
				"Defect liability and remedies",
				"Testing and inspection rights",
				"Quality assurance procedures",
			}},
			{"DEFAULT & REMEDIES", 80, 100, []string{
				"Events of default",
				"Available remedies and enforcement",
				"Liquidated damages and penalties",
				"Termination procedures",
				"Dispute resolution process",
			}},
			risks("Quality and delivery concerns"),
		},
	},
	AgreementPartnership: {
		Type:      AgreementPartnership,
		Specialty: "partnership agreements",
		Subject:   "partnership agreement",
		MustInclude: []string{
			"Names of partners",
			"Capital contributions of each partner",
			"Profit/loss sharing ratio",
			"Roles and responsibilities",
			"Decision-making and voting rights",
			"Withdrawal or admission of partners",
			"Dispute resolution process",
			"Dissolution/exit terms",
		},
		Sections: []TemplateSection{
			{"PARTNERSHIP OVERVIEW", 50, 70, []string{
				"Partnership name and business purpose",
				"Names and details of all partners",
				"Partnership type and structure",
				"Effective date and duration",
			}},
			{"CAPITAL & FINANCIAL TERMS", 100, 120, []string{
				"Capital contributions of each partner",
				"Profit and loss sharing ratios",
				"Additional capital requirements",
				"Financial reporting and audit rights",
				"Banking and financial arrangements",
			}},
			{"RIGHTS & RESPONSIBILITIES", 120, 150, []string{
				"Management and decision-making rights",
				"Voting rights and procedures",
				"Roles and responsibilities of each partner",
				"Performance expectations and standards",
				"Conflict of interest provisions",
			}},
			{"OPERATIONS & MANAGEMENT", 100, 120, []string{
				"Day-to-day operations management",
				"Major decision approval requirements",
				"Meeting and communication procedures",
				"Record keeping and documentation",
				"Compliance and regulatory requirements",
			}},
			{"PARTNER CHANGES", 80, 100, []string{
				"Admission of new partners",
				"Withdrawal and retirement procedures",
				"Transfer of partnership interests",
				"Buyout provisions and valuation",
				"Succession planning",
			}},
			{"DISSOLUTION & EXIT", 80, 100, []string{
				"Grounds for dissolution",
				"Winding up procedures",
				"Asset distribution and settlement",
				"Continuation of business options",
				"Post-dissolution obligations",
			}},
			risks("Partnership stability concerns"),
		},
	},
}

var genericTemplate = TemplateDescriptor{
	Type:    AgreementOther,
	Subject: "legal document",
	MustInclude: []string{
		"Key terms and conditions",
		"Important obligations and rights",
		"Financial terms and penalties",
		"Duration and termination provisions",
		"Any special conditions",
	},
	Sections: []TemplateSection{
		{"DOCUMENT OVERVIEW", 50, 70, []string{
			"Document type and purpose",
			"Parties involved",
			"Key dates and duration",
		}},
		{"MAIN TERMS & CONDITIONS", 120, 150, []string{
			"Primary obligations and rights",
			"Key financial terms",
			"Duration and scope",
		}},
		{"DETAILED CLAUSE ANALYSIS", 150, 180, []string{
			"Important clauses explained",
			"Specific terms and conditions",
			"Any special provisions",
		}},
		{"OBLIGATIONS & RESPONSIBILITIES", 100, 120, []string{
			"What each party must do",
			"Performance requirements",
			"Compliance obligations",
		}},
		{"FINANCIAL TERMS", 80, 100, []string{
			"Payment schedules",
			"Penalties and fees",
			"Financial obligations",
		}},
		{"TERMINATION & DEFAULT", 80, 100, []string{
			"How the agreement can end",
			"Default procedures",
			"Consequences of breach",
		}},
		risks(),
	},
}

// TemplateFor returns the summary template for an agreement type.
// Types without a dedicated template, including AgreementUnknown, get the
// generic template.
func TemplateFor(t AgreementType) TemplateDescriptor {
	if tmpl, ok := templates[t]; ok {
		return tmpl
	}
	return genericTemplate
}

// IsGeneric reports whether the descriptor is the fallback template.
func (d TemplateDescriptor) IsGeneric() bool {
	return d.Specialty == ""
}

// SectionWords returns the summed word bands of the detailed sections.
func (d TemplateDescriptor) SectionWords() (minWords, maxWords int) {
	for _, s := range d.Sections {
		minWords += s.MinWords
		maxWords += s.MaxWords
	}
	return minWords, maxWords
}

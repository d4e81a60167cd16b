package property

// Field names of a stored property record. These keys are persisted and
// exchanged through export/import; renaming one is a breaking change.
const (
	// Identity, opaque to the engine.
	Address    = "address"
	City       = "city"
	Province   = "province"
	PostalCode = "postalCode"

	// Acquisition.
	PurchasePrice = "purchasePrice"
	NumberOfUnits = "numberOfUnits"
	StructureType = "structureType"

	// Revenue.
	AnnualRent      = "annualRent"
	ParkingRevenue  = "parkingRevenue"
	InternetRevenue = "internetRevenue"
	StorageRevenue  = "storageRevenue"
	OtherRevenue    = "otherRevenue"

	// Baseline expenses.
	VacancyRate        = "vacancyRate"
	MunicipalTaxes     = "municipalTaxes"
	SchoolTaxes        = "schoolTaxes"
	Insurance          = "insurance"
	ElectricityHeating = "electricityHeating"
	Maintenance        = "maintenance"
	ManagementRate     = "managementRate"
	Concierge          = "concierge"
	OtherExpenses      = "otherExpenses"

	// Advanced utility breakdown, replacing ElectricityHeating.
	Electricity = "electricity"
	Heating     = "heating"
	Water       = "water"

	// Advanced service contracts and other itemized categories.
	SnowRemoval    = "snowRemoval"
	Landscaping    = "landscaping"
	Elevator       = "elevator"
	Extermination  = "extermination"
	FireInspection = "fireInspection"
	Garbage        = "garbage"
	Cleaning       = "cleaning"
	Security       = "security"
	Accounting     = "accounting"
	Legal          = "legal"
	Advertising    = "advertising"
	Telecom        = "telecom"

	// Financing.
	FinancingType     = "financingType"
	DebtCoverageRatio = "debtCoverageRatio"
	QualificationRate = "qualificationRate"
	MortgageRate      = "mortgageRate"
	Amortization      = "amortization"
	Term              = "term"

	// Derived / locked.
	WelcomeTax   = "welcomeTax"
	CMHCAnalysis = "cmhcAnalysis"
	CMHCTax      = "cmhcTax"

	// Projection overrides (percent per year).
	AppreciationRate    = "appreciationRate"
	RentIncreaseRate    = "rentIncreaseRate"
	ExpenseIncreaseRate = "expenseIncreaseRate"
)

// RevenueFields lists every revenue line item summed into gross revenue.
var RevenueFields = []string{
	AnnualRent,
	ParkingRevenue,
	InternetRevenue,
	StorageRevenue,
	OtherRevenue,
}

// BaselineExpenseFields lists the fixed expenses used in simple mode.
var BaselineExpenseFields = []string{
	MunicipalTaxes,
	SchoolTaxes,
	Insurance,
	ElectricityHeating,
	Maintenance,
	Concierge,
	OtherExpenses,
}

// UtilityBreakdownFields replace ElectricityHeating in advanced mode.
var UtilityBreakdownFields = []string{
	Electricity,
	Heating,
	Water,
}

// ServiceExpenseFields are added on top of the baseline in advanced mode.
var ServiceExpenseFields = []string{
	SnowRemoval,
	Landscaping,
	Elevator,
	Extermination,
	FireInspection,
	Garbage,
	Cleaning,
	Security,
	Accounting,
	Legal,
	Advertising,
	Telecom,
}

// IdentityFields are carried through unchanged and ordered first on export.
var IdentityFields = []string{
	Address,
	City,
	Province,
	PostalCode,
	StructureType,
}

package model

// SchemaVersion identifies which tables a snapshot is expected to carry.
type SchemaVersion int

const (
	// SchemaV1 carries the five core sources plus the currency index.
	SchemaV1 SchemaVersion = 1
	// SchemaV2 adds the payment-commission and network-cost tables.
	SchemaV2 SchemaVersion = 2
)

// Table names used in MissingColumnError.
const (
	TableStores            = "stores"
	TableSales             = "sales"
	TableContribution      = "contribution"
	TableHeadcount         = "headcount"
	TableRoleCosts         = "roleCosts"
	TableRent              = "rent"
	TableOtherCosts        = "otherCosts"
	TablePaymentCommission = "paymentCommission"
	TableNetwork           = "network"
	TableCurrencyIndex     = "uf"
)

// Inputs gathers every source table of one computation run. A nil slice
// means the table was not supplied; an empty slice is a supplied, empty table.
type Inputs struct {
	Schema            SchemaVersion
	Stores            []Store
	Sales             []MonthlyFact
	Contribution      []MonthlyFact
	Headcount         []Headcount
	RoleCosts         []RoleCost
	Rent              []RentTerms
	OtherCosts        []BannerRate
	PaymentCommission []BannerRate
	Network           *NetworkCost
	CurrencyIndex     []IndexPoint
}

// Validate checks once that every table required by the schema version is
// present, returning a *MissingColumnError for the first absent one.
func (in *Inputs) Validate() error {
	type requirement struct {
		name    string
		present bool
	}
	required := []requirement{
		{TableStores, in.Stores != nil},
		{TableSales, in.Sales != nil},
		{TableContribution, in.Contribution != nil},
		{TableHeadcount, in.Headcount != nil},
		{TableRoleCosts, in.RoleCosts != nil},
		{TableRent, in.Rent != nil},
		{TableOtherCosts, in.OtherCosts != nil},
		{TableCurrencyIndex, in.CurrencyIndex != nil},
	}
	if in.Schema >= SchemaV2 {
		required = append(required,
			requirement{TablePaymentCommission, in.PaymentCommission != nil},
			requirement{TableNetwork, in.Network != nil},
		)
	}
	for _, table := range required {
		if !table.present {
			return &MissingColumnError{Table: table.name}
		}
	}

	for _, fact := range in.Sales {
		if fact.Store == "" {
			return &MissingColumnError{Table: TableSales, Column: "store"}
		}
		if fact.Month.IsZero() {
			return &MissingColumnError{Table: TableSales, Column: "month"}
		}
	}
	for _, fact := range in.Contribution {
		if fact.Store == "" {
			return &MissingColumnError{Table: TableContribution, Column: "store"}
		}
		if fact.Month.IsZero() {
			return &MissingColumnError{Table: TableContribution, Column: "month"}
		}
	}
	for _, store := range in.Stores {
		if store.Name == "" {
			return &MissingColumnError{Table: TableStores, Column: "store"}
		}
	}
	return nil
}

// HasPaymentCommission reports whether the payment-commission table exists.
func (in *Inputs) HasPaymentCommission() bool {
	return in.PaymentCommission != nil
}

// Package dataset decodes input snapshots: the already-typed tables the
// EERR engine runs on, stored as one YAML document.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Snapshot is the decoded input document. A table key absent from the
// document decodes to a nil slice, which the engine reports as missing.
type Snapshot struct {
	Schema            int                `yaml:"schema"`
	Stores            []StoreRecord      `yaml:"stores"`
	Sales             []FactRecord       `yaml:"sales"`
	Contribution      []FactRecord       `yaml:"contribution"`
	Headcount         []HeadcountRecord  `yaml:"headcount"`
	RoleCosts         []RoleCostRecord   `yaml:"roleCosts"`
	Rent              []RentRecord       `yaml:"rent"`
	OtherCosts        []BannerRateRecord `yaml:"otherCosts"`
	PaymentCommission []BannerRateRecord `yaml:"paymentCommission"`
	Network           *NetworkRecord     `yaml:"network"`
	UF                []IndexRecord      `yaml:"uf"`
}

// StoreRecord is one row of the store dictionary.
type StoreRecord struct {
	Store  string `yaml:"store"`
	Banner string `yaml:"banner"`
}

// FactRecord is one monthly sales or contribution value. Month is YYYY-MM.
type FactRecord struct {
	Store    string   `yaml:"store"`
	Month    string   `yaml:"month"`
	Scenario string   `yaml:"scenario"`
	Value    *float64 `yaml:"value"`
}

// HeadcountRecord is the staffing plan of a store.
type HeadcountRecord struct {
	Store string       `yaml:"store"`
	Roles []RoleRecord `yaml:"roles"`
}

// RoleRecord is the headcount of one role.
type RoleRecord struct {
	Role  string  `yaml:"role"`
	Count float64 `yaml:"count"`
}

// RoleCostRecord is the cost profile of a role. Fixed lists the fixed pay
// components, which are summed.
type RoleCostRecord struct {
	Role       string    `yaml:"role"`
	Fixed      []float64 `yaml:"fixed"`
	Commission float64   `yaml:"commission"`
}

// RentRecord holds the lease terms of a store.
type RentRecord struct {
	Store          string   `yaml:"store"`
	VMMUF          float64  `yaml:"vmmUF"`
	Percentage     float64  `yaml:"percentage"`
	PromotionPct   float64  `yaml:"promotionPct"`
	GGCC           float64  `yaml:"ggcc"`
	DecemberFactor *float64 `yaml:"decemberFactor"`
}

// BannerRateRecord is a banner-level rate.
type BannerRateRecord struct {
	Banner string  `yaml:"banner"`
	Rate   float64 `yaml:"rate"`
}

// NetworkRecord is the shared network and systems spend.
type NetworkRecord struct {
	MonthlySpend float64 `yaml:"monthlySpend"`
	RetailShare  float64 `yaml:"retailShare"`
}

// IndexRecord is one daily currency-index quote. Date is YYYY-MM-DD.
type IndexRecord struct {
	Date  string  `yaml:"date"`
	Value float64 `yaml:"value"`
}

// Decode reads a snapshot document. Unknown keys are rejected so a typo in
// a table name does not silently drop the table.
func Decode(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("snapshot is empty")
		}
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Load reads the snapshot file at path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	snap, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

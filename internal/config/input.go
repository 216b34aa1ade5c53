package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// dateLayouts are the earliest-date formats accepted in input files
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// portfolioFile is the on-disk layout of a portfolio input file
type portfolioFile struct {
	Customers []customerRecord `yaml:"customers"`
}

type customerRecord struct {
	Name  string       `yaml:"name"`
	Plans []planRecord `yaml:"plans"`
}

type planRecord struct {
	PlanID        string          `yaml:"plan_id"`
	MonthlyAmount decimal.Decimal `yaml:"monthly_amount"`
	Frequency     string          `yaml:"frequency"`
	TotalOriginal decimal.Decimal `yaml:"total_original"`
	TotalOpen     decimal.Decimal `yaml:"total_open"`
	EarliestDate  string          `yaml:"earliest_date"`
	HasIssues     bool            `yaml:"has_issues"`
	Class         string          `yaml:"class"`
}

// InputParser handles parsing of portfolio input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a portfolio from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Portfolio, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a portfolio document. JSON is accepted as a YAML subset.
func (ip *InputParser) Parse(data []byte) (*domain.Portfolio, error) {
	var file portfolioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	portfolio, err := ip.toPortfolio(file)
	if err != nil {
		return nil, err
	}
	if err := ip.ValidatePortfolio(portfolio); err != nil {
		return nil, fmt.Errorf("portfolio validation failed: %w", err)
	}
	return portfolio, nil
}

func (ip *InputParser) toPortfolio(file portfolioFile) (*domain.Portfolio, error) {
	portfolio := &domain.Portfolio{Customers: make([]*domain.Customer, 0, len(file.Customers))}
	for i, rec := range file.Customers {
		name := strings.TrimSpace(rec.Name)
		customer := &domain.Customer{Name: name, Plans: make([]domain.PaymentPlan, 0, len(rec.Plans))}
		for j, pr := range rec.Plans {
			earliest, err := parseEarliestDate(pr.EarliestDate)
			if err != nil {
				return nil, fmt.Errorf("customer %d (%s) plan %d: %w", i, name, j, err)
			}
			customer.Plans = append(customer.Plans, domain.PaymentPlan{
				CustomerName:  name,
				PlanID:        strings.TrimSpace(pr.PlanID),
				MonthlyAmount: pr.MonthlyAmount,
				Frequency:     domain.ParseFrequency(pr.Frequency),
				TotalOriginal: pr.TotalOriginal,
				TotalOpen:     pr.TotalOpen,
				EarliestDate:  earliest,
				HasIssues:     pr.HasIssues,
				Class:         strings.TrimSpace(pr.Class),
			})
		}
		portfolio.Customers = append(portfolio.Customers, customer)
	}
	return portfolio, nil
}

// parseEarliestDate returns nil for a blank date; a missing date makes a plan
// ineligible rather than invalid.
func parseEarliestDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid earliest_date %q (expected YYYY-MM-DD)", s)
}

// ValidatePortfolio validates a loaded portfolio
func (ip *InputParser) ValidatePortfolio(portfolio *domain.Portfolio) error {
	if portfolio == nil || len(portfolio.Customers) == 0 {
		return fmt.Errorf("at least one customer is required")
	}

	seen := make(map[string]bool)
	for i, c := range portfolio.Customers {
		if err := ip.validateCustomer(c); err != nil {
			return fmt.Errorf("customer %d (%s) validation failed: %w", i, c.Name, err)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return fmt.Errorf("duplicate customer name %q", c.Name)
		}
		seen[key] = true
	}
	return nil
}

func (ip *InputParser) validateCustomer(c *domain.Customer) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Plans) == 0 {
		return fmt.Errorf("at least one plan is required")
	}

	ids := make(map[string]bool)
	for _, p := range c.Plans {
		if err := p.Validate(); err != nil {
			return err
		}
		if ids[p.PlanID] {
			return fmt.Errorf("duplicate plan id %q", p.PlanID)
		}
		ids[p.PlanID] = true
	}
	return nil
}

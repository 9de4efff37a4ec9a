package domain

import "time"

// PerformanceYearConfig holds one payer's configuration for a single
// performance year. At most one row exists per payer and year.
type PerformanceYearConfig struct {
	PubID             string    `json:"pubId"`
	PayerPubID        string    `json:"payerPubId"`
	PerformanceYear   int       `json:"performanceYear"`
	ProgramStart      time.Time `json:"programStart"`
	ProgramEnd        time.Time `json:"programEnd"`
	EligibilitySource string    `json:"eligibilitySource"`
	PaymentModel      string    `json:"paymentModel"`
	RiskAdjusted      bool      `json:"riskAdjusted"`
	IsActive          bool      `json:"isActive"`
	Audit
}

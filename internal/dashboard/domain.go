// Package dashboard builds role-shaped receivables summaries in the wire
// format the frontend charts consume directly.
package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/mannuking/Project-Radius/internal/invoice"
)

// Dataset is one line or slice of a chart.
type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// ChartSeries is the labels-plus-datasets shape chart libraries consume.
type ChartSeries struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// WorklistItem is one actionable row on a collector or biller queue.
type WorklistItem struct {
	CustomerName  string  `json:"customerName"`
	InvoiceNumber string  `json:"invoiceNumber"`
	InvoiceAmount float64 `json:"invoiceAmount"`
	DueDate       string  `json:"dueDate"`
	DaysOverdue   int     `json:"daysOverdue"`
	Status        string  `json:"status"`
	DisputeCode   string  `json:"disputeCode,omitempty"`
	RootCause     string  `json:"rootCause,omitempty"`
	OutcomeStatus string  `json:"outcomeStatus,omitempty"`
}

// AdminSummary is the business-wide view.
type AdminSummary struct {
	TotalSales                float64     `json:"totalSales"`
	AccountsReceivable        float64     `json:"accountsReceivable"`
	OverdueReceivables        float64     `json:"overdueReceivables"`
	OverduePercentage         float64     `json:"overduePercentage"`
	MonthlyPerformance        ChartSeries `json:"monthlyPerformance"`
	InvoiceStatus             ChartSeries `json:"invoiceStatus"`
	TopCustomersBySales       ChartSeries `json:"topCustomersBySales"`
	TopCustomersByReceivables ChartSeries `json:"topCustomersByReceivables"`
	AgingBuckets              ChartSeries `json:"agingBuckets"`
	OverdueBalanceByCollector ChartSeries `json:"overdueBalanceByCollector"`
}

// RiskStatus splits the book's balance into risk tiers, each a fraction of
// the total balance.
type RiskStatus struct {
	High     float64 `json:"high"`
	Moderate float64 `json:"moderate"`
	InRange  float64 `json:"inRange"`
}

// OverdueCompany is one ranked entry in the manager view.
type OverdueCompany struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ManagerSummary is the portfolio health view.
type ManagerSummary struct {
	TotalBalance           float64          `json:"totalBalance"`
	TotalAccounts          int              `json:"totalAccounts"`
	BalanceDistribution    ChartSeries      `json:"balanceDistribution"`
	DSOAverage             int              `json:"dsoAverage"`
	RiskStatus             RiskStatus       `json:"riskStatus"`
	TopOverdueCompanies    []OverdueCompany `json:"topOverdueCompanies"`
	OverdueByCountry       ChartSeries      `json:"overdueByCountry"`
	OverdueByCustomerGroup ChartSeries      `json:"overdueByCustomerGroup"`
}

// CollectorSummary is one collector's working view.
type CollectorSummary struct {
	TotalAssigned         int            `json:"totalAssigned"`
	TotalAssignedAmount   float64        `json:"totalAssignedAmount"`
	TotalOverdue          int            `json:"totalOverdue"`
	TotalOverdueAmount    float64        `json:"totalOverdueAmount"`
	OverduePercentage     float64        `json:"overduePercentage"`
	AgingBuckets          ChartSeries    `json:"agingBuckets"`
	StatusDistribution    ChartSeries    `json:"statusDistribution"`
	TopCustomersByOverdue ChartSeries    `json:"topCustomersByOverdue"`
	Worklist              []WorklistItem `json:"worklist"`
}

// BillerSummary is one biller's dispute-focused view.
type BillerSummary struct {
	TotalAssigned           int            `json:"totalAssigned"`
	TotalAssignedAmount     float64        `json:"totalAssignedAmount"`
	TotalDisputed           int            `json:"totalDisputed"`
	TotalDisputedAmount     float64        `json:"totalDisputedAmount"`
	DisputedPercentage      float64        `json:"disputedPercentage"`
	RootCauseDistribution   ChartSeries    `json:"rootCauseDistribution"`
	DisputeCodeDistribution ChartSeries    `json:"disputeCodeDistribution"`
	TopCustomersByDisputed  ChartSeries    `json:"topCustomersByDisputed"`
	OutcomeDistribution     ChartSeries    `json:"outcomeDistribution"`
	Worklist                []WorklistItem `json:"worklist"`
}

// Input carries everything an aggregator needs. Records are expected to be
// pre-scoped to the subject (the whole book for admin and manager, one
// user's book for collector and biller).
type Input struct {
	Records   []invoice.Record
	UserNames map[uuid.UUID]string
	AsOf      time.Time
}

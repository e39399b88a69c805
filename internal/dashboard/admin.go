package dashboard

import (
	"github.com/mannuking/Project-Radius/internal/invoice"
)

// outstandingAssumedShare estimates the outstanding slice of monthly sales.
// Inherited business assumption: roughly 30% of a month's billings remain
// unpaid at any point. TODO: replace with an actual per-month open balance
// once payment application dates are imported.
const outstandingAssumedShare = 0.3

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var adminAgingLabels = []string{"0-30", "31-60", "61-90", "90+"}

// Admin aggregates the whole book into the business-wide view. Accounts
// receivable is the full booked amount, so it matches total sales and the
// overdue percentage reads against the whole book. Aging covers every
// invoice; paid rows sit at zero days overdue inside the 0-30 bucket.
func Admin(in Input) AdminSummary {
	records := in.Records
	invoice.RefreshAll(records, in.AsOf)

	var summary AdminSummary

	sales := make(map[string]float64)
	monthlyOverdue := make(map[string]float64)
	aging := make(map[string]float64)
	status := newGrouped()
	byCollector := newGrouped()
	topSales := newGrouped()

	status.add("Paid", 0)
	status.add("Open", 0)
	status.add("Overdue", 0)

	for _, rec := range records {
		summary.TotalSales += rec.InvoiceAmount
		summary.AccountsReceivable += rec.InvoiceAmount
		topSales.add(rec.CustomerName, rec.InvoiceAmount)
		aging[adminAgingLabel(rec.DaysOverdue)] += rec.InvoiceAmount

		if rec.InvoiceDate.Year() == in.AsOf.Year() {
			month := monthLabels[rec.InvoiceDate.Month()-1]
			sales[month] += rec.InvoiceAmount
			if rec.DaysOverdue > 0 {
				monthlyOverdue[month] += rec.InvoiceAmount
			}
		}

		switch rec.PaymentStatus {
		case invoice.StatusPaid:
			status.add("Paid", rec.InvoiceAmount)
		case invoice.StatusOverdue:
			status.add("Overdue", rec.InvoiceAmount)
		default:
			status.add("Open", rec.InvoiceAmount)
		}

		if rec.DaysOverdue > 0 {
			summary.OverdueReceivables += rec.InvoiceAmount
			name := "Unassigned"
			if n, ok := in.UserNames[rec.AssignedUserID]; ok && n != "" {
				name = n
			}
			byCollector.add(name, rec.InvoiceAmount)
		}
	}

	summary.TotalSales = round2(summary.TotalSales)
	summary.AccountsReceivable = round2(summary.AccountsReceivable)
	summary.OverdueReceivables = round2(summary.OverdueReceivables)
	summary.OverduePercentage = percentage(summary.OverdueReceivables, summary.AccountsReceivable)

	monthly := make([]float64, len(monthLabels))
	outstanding := make([]float64, len(monthLabels))
	overdue := make([]float64, len(monthLabels))
	for i, label := range monthLabels {
		monthly[i] = round2(sales[label])
		outstanding[i] = round2(sales[label] * outstandingAssumedShare)
		overdue[i] = round2(monthlyOverdue[label])
	}
	summary.MonthlyPerformance = ChartSeries{
		Labels: append([]string{}, monthLabels...),
		Datasets: []Dataset{
			{Label: "Sales", Data: monthly},
			{Label: "Outstanding", Data: outstanding},
			{Label: "Overdue", Data: overdue},
		},
	}

	ranked := topSales.top(5)
	summary.InvoiceStatus = status.series("Amount")
	summary.TopCustomersBySales = ranked.series("Sales")
	summary.TopCustomersByReceivables = ranked.series("Receivables")
	summary.AgingBuckets = fixedSeries(adminAgingLabels, "Amount", aging)
	summary.OverdueBalanceByCollector = byCollector.series("Overdue Balance")

	return summary
}

func adminAgingLabel(daysOverdue int) string {
	switch {
	case daysOverdue <= 30:
		return "0-30"
	case daysOverdue <= 60:
		return "31-60"
	case daysOverdue <= 90:
		return "61-90"
	default:
		return "90+"
	}
}

package dashboard

import (
	"sort"

	"github.com/mannuking/Project-Radius/internal/invoice"
)

const worklistSize = 10

// Collector aggregates one collector's assigned book into their working
// view. Aging uses the same four buckets as the admin view, over the whole
// assigned set. The worklist is the whole assigned set ranked by days
// overdue, capped, so paid and not-yet-due rows can appear once the queue
// runs short of overdue ones.
func Collector(in Input) CollectorSummary {
	records := in.Records
	invoice.RefreshAll(records, in.AsOf)

	var summary CollectorSummary

	aging := make(map[string]float64)
	status := newGrouped()
	topOverdue := newGrouped()

	for _, rec := range records {
		summary.TotalAssigned++
		summary.TotalAssignedAmount += rec.InvoiceAmount
		status.add(string(rec.PaymentStatus), 1)
		aging[adminAgingLabel(rec.DaysOverdue)] += rec.InvoiceAmount

		if rec.DaysOverdue > 0 {
			summary.TotalOverdue++
			summary.TotalOverdueAmount += rec.InvoiceAmount
			topOverdue.add(rec.CustomerName, rec.InvoiceAmount)
		}
	}

	summary.TotalAssignedAmount = round2(summary.TotalAssignedAmount)
	summary.TotalOverdueAmount = round2(summary.TotalOverdueAmount)
	summary.OverduePercentage = percentage(summary.TotalOverdueAmount, summary.TotalAssignedAmount)
	summary.AgingBuckets = fixedSeries(adminAgingLabels, "Amount", aging)
	summary.StatusDistribution = status.series("Invoices")
	summary.TopCustomersByOverdue = topOverdue.top(5).series("Overdue")
	summary.Worklist = buildWorklist(records, func(invoice.Record) bool {
		return true
	}, false)

	return summary
}

// buildWorklist returns the top rows by days overdue, worst first. Ties keep
// input order. withDispute adds the dispute classification columns.
func buildWorklist(records []invoice.Record, keep func(invoice.Record) bool, withDispute bool) []WorklistItem {
	var eligible []invoice.Record
	for _, rec := range records {
		if keep(rec) {
			eligible = append(eligible, rec)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].DaysOverdue > eligible[j].DaysOverdue
	})
	if len(eligible) > worklistSize {
		eligible = eligible[:worklistSize]
	}

	out := make([]WorklistItem, 0, len(eligible))
	for _, rec := range eligible {
		item := WorklistItem{
			CustomerName:  rec.CustomerName,
			InvoiceNumber: rec.InvoiceNumber,
			InvoiceAmount: round2(rec.InvoiceAmount),
			DueDate:       rec.DueDate.Format("2006-01-02"),
			DaysOverdue:   rec.DaysOverdue,
			Status:        string(rec.PaymentStatus),
		}
		if withDispute {
			item.DisputeCode = orDefault(rec.DisputeCodeL1, "Unspecified")
			item.RootCause = orDefault(rec.RootCause, "Unspecified")
			item.OutcomeStatus = orDefault(rec.OutcomeStatus, "Pending")
		}
		out = append(out, item)
	}
	return out
}

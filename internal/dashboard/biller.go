package dashboard

import (
	"github.com/mannuking/Project-Radius/internal/invoice"
)

// Biller aggregates one biller's assigned book into the dispute-focused view.
func Biller(in Input) BillerSummary {
	records := in.Records
	invoice.RefreshAll(records, in.AsOf)

	var summary BillerSummary

	rootCauses := newGrouped()
	disputeCodes := newGrouped()
	outcomes := newGrouped()
	topDisputed := newGrouped()

	for _, rec := range records {
		summary.TotalAssigned++
		summary.TotalAssignedAmount += rec.InvoiceAmount

		if rec.PaymentStatus != invoice.StatusDisputed {
			continue
		}
		summary.TotalDisputed++
		summary.TotalDisputedAmount += rec.InvoiceAmount
		rootCauses.add(orDefault(rec.RootCause, "Unspecified"), 1)
		disputeCodes.add(orDefault(rec.DisputeCodeL1, "Unspecified"), 1)
		outcomes.add(orDefault(rec.OutcomeStatus, "Pending"), 1)
		topDisputed.add(rec.CustomerName, rec.InvoiceAmount)
	}

	summary.TotalAssignedAmount = round2(summary.TotalAssignedAmount)
	summary.TotalDisputedAmount = round2(summary.TotalDisputedAmount)
	summary.DisputedPercentage = percentage(float64(summary.TotalDisputed), float64(summary.TotalAssigned))
	summary.RootCauseDistribution = rootCauses.series("Disputes")
	summary.DisputeCodeDistribution = disputeCodes.series("Disputes")
	summary.TopCustomersByDisputed = topDisputed.top(5).series("Disputed")
	summary.OutcomeDistribution = outcomes.series("Disputes")
	summary.Worklist = buildWorklist(records, func(rec invoice.Record) bool {
		return rec.PaymentStatus == invoice.StatusDisputed
	}, true)

	return summary
}

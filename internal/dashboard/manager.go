package dashboard

import (
	"github.com/mannuking/Project-Radius/internal/invoice"
)

var balanceLabels = []string{"Before Due", "Overdue", "Non-Active"}

// Manager aggregates the whole book into the portfolio health view.
// Totals, DSO and risk tiers cover every invoice; paid rows sit at zero
// days overdue and land in the low-risk tier. The balance buckets overlap:
// Non-Active re-counts paid amounts already inside Before Due, so each
// slice reads against the whole book rather than a partition.
func Manager(in Input) ManagerSummary {
	records := in.Records
	invoice.RefreshAll(records, in.AsOf)

	var summary ManagerSummary

	balances := make(map[string]float64)
	customers := make(map[string]struct{})
	topOverdue := newGrouped()
	byCountry := newGrouped()
	byGroup := newGrouped()
	beforeByCountry := newGrouped()
	beforeByGroup := newGrouped()

	var (
		daysSum        int
		highAmount     float64
		moderateAmount float64
		inRangeAmount  float64
	)

	for _, rec := range records {
		customers[rec.CustomerID] = struct{}{}
		summary.TotalBalance += rec.InvoiceAmount
		daysSum += rec.DaysOverdue

		switch {
		case rec.DaysOverdue > 90:
			highAmount += rec.InvoiceAmount
		case rec.DaysOverdue > 30:
			moderateAmount += rec.InvoiceAmount
		default:
			inRangeAmount += rec.InvoiceAmount
		}

		if rec.PaymentStatus == invoice.StatusPaid {
			balances["Non-Active"] += rec.InvoiceAmount
		}

		country := orDefault(rec.CustomerType, "Unspecified")
		group := orDefault(rec.CustomerTerms, "Unspecified")

		if rec.DaysOverdue > 0 {
			balances["Overdue"] += rec.InvoiceAmount
			topOverdue.add(rec.CustomerName, rec.InvoiceAmount)
			byCountry.add(country, rec.InvoiceAmount)
			byGroup.add(group, rec.InvoiceAmount)
		} else {
			balances["Before Due"] += rec.InvoiceAmount
			beforeByCountry.add(country, rec.InvoiceAmount)
			beforeByGroup.add(group, rec.InvoiceAmount)
		}
	}

	summary.TotalBalance = round2(summary.TotalBalance)
	summary.TotalAccounts = len(customers)
	summary.BalanceDistribution = fixedSeries(balanceLabels, "Balance", balances)

	if len(records) > 0 {
		summary.DSOAverage = daysSum / len(records)
	}
	if summary.TotalBalance > 0 {
		summary.RiskStatus = RiskStatus{
			High:     round2(highAmount / summary.TotalBalance),
			Moderate: round2(moderateAmount / summary.TotalBalance),
			InRange:  round2(inRangeAmount / summary.TotalBalance),
		}
	}

	ranked := topOverdue.top(5)
	summary.TopOverdueCompanies = make([]OverdueCompany, 0, len(ranked.labels))
	for _, name := range ranked.labels {
		summary.TopOverdueCompanies = append(summary.TopOverdueCompanies, OverdueCompany{
			Name:   name,
			Amount: round2(ranked.totals[name]),
		})
	}

	summary.OverdueByCountry = splitSeries(byCountry, beforeByCountry)
	summary.OverdueByCustomerGroup = splitSeries(byGroup, beforeByGroup)

	return summary
}

// splitSeries renders overdue and before-due amounts over the union of both
// label sets, overdue labels first.
func splitSeries(overdue, before *grouped) ChartSeries {
	labels := append([]string{}, overdue.labels...)
	for _, label := range before.labels {
		if _, ok := overdue.totals[label]; !ok {
			labels = append(labels, label)
		}
	}
	overdueData := make([]float64, len(labels))
	beforeData := make([]float64, len(labels))
	for i, label := range labels {
		overdueData[i] = round2(overdue.totals[label])
		beforeData[i] = round2(before.totals[label])
	}
	return ChartSeries{
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Overdue", Data: overdueData},
			{Label: "Before Due", Data: beforeData},
		},
	}
}

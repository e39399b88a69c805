package invoice

import "time"

// DaysOverdue returns whole days elapsed past the due date as of the given
// time. Dates are compared at midnight UTC so intraday clock drift never
// shifts a bucket. Invoices not yet due return 0.
func DaysOverdue(dueDate, asOf time.Time) int {
	due := midnightUTC(dueDate)
	now := midnightUTC(asOf)
	days := int(now.Sub(due).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ClassifyAging maps days overdue onto an aging bucket.
func ClassifyAging(daysOverdue int) AgingBucket {
	switch {
	case daysOverdue <= 0:
		return BucketCurrent
	case daysOverdue <= 30:
		return Bucket1To30
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	case daysOverdue <= 120:
		return Bucket91To120
	default:
		return BucketOver120
	}
}

// Refresh recomputes the derived aging fields on a record as of the given
// time. Paid invoices always report zero days overdue and the Current bucket.
func (r *Record) Refresh(asOf time.Time) {
	if r.PaymentStatus == StatusPaid {
		r.DaysOverdue = 0
		r.AgingBucket = BucketCurrent
		return
	}
	r.DaysOverdue = DaysOverdue(r.DueDate, asOf)
	r.AgingBucket = ClassifyAging(r.DaysOverdue)
}

// RefreshAll recomputes aging for every record in place.
func RefreshAll(records []Record, asOf time.Time) {
	for i := range records {
		records[i].Refresh(asOf)
	}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

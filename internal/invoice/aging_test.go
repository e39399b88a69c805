package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassifyAging(t *testing.T) {
	cases := []struct {
		days int
		want AgingBucket
	}{
		{-5, BucketCurrent},
		{0, BucketCurrent},
		{1, Bucket1To30},
		{30, Bucket1To30},
		{31, Bucket31To60},
		{60, Bucket31To60},
		{61, Bucket61To90},
		{90, Bucket61To90},
		{91, Bucket91To120},
		{120, Bucket91To120},
		{121, BucketOver120},
		{400, BucketOver120},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyAging(tc.days), "days=%d", tc.days)
	}
}

func TestDaysOverdue(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 13, 45, 0, 0, time.UTC)

	require.Equal(t, 0, DaysOverdue(asOf, asOf))
	require.Equal(t, 0, DaysOverdue(asOf.AddDate(0, 0, 10), asOf), "future due date")
	require.Equal(t, 1, DaysOverdue(asOf.AddDate(0, 0, -1), asOf))
	require.Equal(t, 45, DaysOverdue(asOf.AddDate(0, 0, -45), asOf))
}

func TestDaysOverdueIgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	asOf := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
	require.Equal(t, 1, DaysOverdue(due, asOf))
}

func TestRefresh(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	rec := Record{PaymentStatus: StatusOverdue, DueDate: asOf.AddDate(0, 0, -45)}
	rec.Refresh(asOf)
	require.Equal(t, 45, rec.DaysOverdue)
	require.Equal(t, Bucket31To60, rec.AgingBucket)

	paid := Record{PaymentStatus: StatusPaid, DueDate: asOf.AddDate(0, 0, -200)}
	paid.Refresh(asOf)
	require.Equal(t, 0, paid.DaysOverdue)
	require.Equal(t, BucketCurrent, paid.AgingBucket)
}

func TestParsePaymentStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want PaymentStatus
	}{
		{"Paid", StatusPaid},
		{"Current", StatusPaid},
		{"paid", StatusPaid},
		{"Partial", StatusPartial},
		{"Partially Paid", StatusPartial},
		{"Disputed", StatusDisputed},
		{"Overdue", StatusOverdue},
		{"Overdue 61-90 days", StatusOverdue},
		{" overdue ", StatusOverdue},
		{"Written Off", StatusOther},
		{"", StatusOther},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParsePaymentStatus(tc.raw), "raw=%q", tc.raw)
	}
}

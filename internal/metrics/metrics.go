package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DonationsRecorded counts donation attempts by outcome.
	DonationsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donations_recorded_total",
			Help: "Donation ledger entries recorded, labelled by outcome",
		},
		[]string{"status"}, // accepted, rejected, failed
	)

	// CampaignTransitions counts lifecycle transitions by kind.
	CampaignTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_transitions_total",
			Help: "Campaign lifecycle transitions applied",
		},
		[]string{"transition"}, // created, approved, rejected, completed, withdrawn, deleted
	)

	// DonationRecordDuration tracks end-to-end donation recording latency.
	DonationRecordDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "donation_record_duration_seconds",
			Help:    "Duration of donation recording, insert plus ledger update",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
	)
)

// ObserveDonation records the outcome and latency of a donation attempt.
func ObserveDonation(status string, seconds float64) {
	DonationsRecorded.WithLabelValues(status).Inc()
	DonationRecordDuration.Observe(seconds)
}

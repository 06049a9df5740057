package domain

// ApplyDonation adds amount to the campaign's raised total and derives
// completion. It is the only code path allowed to grow RaisedAmount; the
// withdrawal transition is the only one allowed to clear it. Persistence
// layers must apply the same arithmetic as a single atomic update so
// concurrent donations never lose increments.
func ApplyDonation(c *Campaign, amount int64) {
	c.RaisedAmount += amount
	RecheckCompletion(c)
}

// RecheckCompletion promotes an active campaign to completed once its raised
// total meets the goal. Completion is a derived fact, re-evaluated on every
// read and on every write touching RaisedAmount or GoalAmount, so a fully
// funded campaign can never stay stuck in active.
func RecheckCompletion(c *Campaign) {
	if c.Status == CampaignStatusActive && c.RaisedAmount >= c.GoalAmount {
		c.Status = CampaignStatusCompleted
	}
}

// CanWithdraw reports whether the one-shot withdrawal guard holds.
func CanWithdraw(c *Campaign) bool {
	return !c.Withdrawn && c.RaisedAmount >= c.GoalAmount
}

package domain

import "testing"

func TestApplyDonationAccumulates(t *testing.T) {
	c := &Campaign{GoalAmount: 100, Status: CampaignStatusActive}

	for _, amount := range []int64{10, 25, 5} {
		ApplyDonation(c, amount)
	}

	if c.RaisedAmount != 40 {
		t.Fatalf("raised = %d, want 40", c.RaisedAmount)
	}
	if c.Status != CampaignStatusActive {
		t.Fatalf("status = %q, want active below goal", c.Status)
	}
}

func TestApplyDonationCompletesAtGoal(t *testing.T) {
	cases := []struct {
		name   string
		raised int64
		amount int64
		want   CampaignStatus
	}{
		{"below goal", 0, 99, CampaignStatusActive},
		{"exactly goal", 0, 100, CampaignStatusCompleted},
		{"over goal", 60, 50, CampaignStatusCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Campaign{GoalAmount: 100, RaisedAmount: tc.raised, Status: CampaignStatusActive}
			ApplyDonation(c, tc.amount)
			if c.Status != tc.want {
				t.Fatalf("status = %q, want %q", c.Status, tc.want)
			}
		})
	}
}

func TestRecheckCompletionOnlyPromotesActive(t *testing.T) {
	for _, status := range []CampaignStatus{
		CampaignStatusPending,
		CampaignStatusRejected,
		CampaignStatusWithdrawn,
		CampaignStatusClosed,
	} {
		c := &Campaign{GoalAmount: 100, RaisedAmount: 500, Status: status}
		RecheckCompletion(c)
		if c.Status != status {
			t.Fatalf("status %q changed to %q on recheck", status, c.Status)
		}
	}
}

func TestCanWithdraw(t *testing.T) {
	funded := &Campaign{GoalAmount: 100, RaisedAmount: 100}
	if !CanWithdraw(funded) {
		t.Fatal("fully funded campaign should be withdrawable")
	}

	short := &Campaign{GoalAmount: 100, RaisedAmount: 99}
	if CanWithdraw(short) {
		t.Fatal("underfunded campaign should not be withdrawable")
	}

	spent := &Campaign{GoalAmount: 100, RaisedAmount: 100, Withdrawn: true}
	if CanWithdraw(spent) {
		t.Fatal("second withdrawal should be blocked")
	}
}

package bidding

import (
	"testing"
	"time"

	model "auction-engine/internal/models"

	"github.com/peterldowns/testy/check"
)

func TestComputeWinner(t *testing.T) {
	t.Parallel()

	at := func(min int) time.Time { return t0.Add(time.Duration(min) * time.Minute) }

	tests := []struct {
		name   string
		bids   []model.Bid
		wantID string
	}{
		{name: "no_bids"},
		{
			name:   "single",
			bids:   []model.Bid{{BidID: "b1", Amount: 10, CreatedAt: at(0)}},
			wantID: "b1",
		},
		{
			name: "highest_amount",
			bids: []model.Bid{
				{BidID: "b1", Amount: 10, CreatedAt: at(0)},
				{BidID: "b2", Amount: 30, CreatedAt: at(1)},
				{BidID: "b3", Amount: 20, CreatedAt: at(2)},
			},
			wantID: "b2",
		},
		{
			name: "tie_goes_to_earliest",
			bids: []model.Bid{
				{BidID: "b1", Amount: 30, CreatedAt: at(5)},
				{BidID: "b2", Amount: 30, CreatedAt: at(1)},
			},
			wantID: "b2",
		},
		{
			name: "tie_same_time_goes_to_first",
			bids: []model.Bid{
				{BidID: "b1", Amount: 30, CreatedAt: at(1)},
				{BidID: "b2", Amount: 30, CreatedAt: at(1)},
			},
			wantID: "b1",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := computeWinner(tc.bids)
			if tc.wantID == "" {
				check.True(t, got == nil)
				return
			}
			if got == nil {
				t.Fatal("expected a winning bid")
			}
			check.Equal(t, tc.wantID, got.BidID)

			// same input, same answer
			again := computeWinner(tc.bids)
			check.Equal(t, got.BidID, again.BidID)
		})
	}
}

func TestComputeWinnerReturnsCopy(t *testing.T) {
	t.Parallel()

	bids := []model.Bid{{BidID: "b1", Amount: 10}}
	got := computeWinner(bids)
	got.Amount = 99
	check.Equal(t, 10.0, bids[0].Amount)
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	check.Equal(t, "₹160", formatAmount(160))
	check.Equal(t, "₹150.50", formatAmount(150.5))
	check.Equal(t, "₹0.99", formatAmount(0.99))
	check.Equal(t, "₹1000000", formatAmount(1e6))
}

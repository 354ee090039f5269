package core_test

import (
	"testing"

	"expense-forwarder/internal/core"

	"github.com/shopspring/decimal"
)

func members(ids ...int64) core.ParticipantSet {
	set := core.ParticipantSet{}
	for _, id := range ids {
		set.Members = append(set.Members, core.Identity{ID: id})
	}
	return set
}

func TestComputeShares_EqualSplit(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		set       core.ParticipantSet
		payerID   int64
		wantOwed  []string
		wantPaid  []string
	}{
		{
			name:     "45 three ways, principal pays",
			total:    "45.00",
			set:      members(1, 2, 3),
			payerID:  1,
			wantOwed: []string{"15.00", "15.00", "15.00"},
			wantPaid: []string{"45.00", "0.00", "0.00"},
		},
		{
			name:     "10 four ways",
			total:    "10.00",
			set:      members(1, 2, 3, 4),
			payerID:  1,
			wantOwed: []string{"2.50", "2.50", "2.50", "2.50"},
			wantPaid: []string{"10.00", "0.00", "0.00", "0.00"},
		},
		{
			// 10/3 is not exact to two decimals: the first participant in
			// resolution order absorbs the leftover cent.
			name:     "10 three ways with remainder",
			total:    "10.00",
			set:      members(1, 2, 3),
			payerID:  2,
			wantOwed: []string{"3.34", "3.33", "3.33"},
			wantPaid: []string{"0.00", "10.00", "0.00"},
		},
		{
			name:     "degenerate solo split",
			total:    "20.00",
			set:      members(7),
			payerID:  7,
			wantOwed: []string{"20.00"},
			wantPaid: []string{"20.00"},
		},
		{
			name:     "two remainder cents over five people",
			total:    "0.12",
			set:      members(1, 2, 3, 4, 5),
			payerID:  3,
			wantOwed: []string{"0.03", "0.03", "0.02", "0.02", "0.02"},
			wantPaid: []string{"0.00", "0.00", "0.12", "0.00", "0.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			payer := core.Identity{ID: tt.payerID}

			lines, warnings, err := core.ComputeShares(total, tt.set, payer, core.SplitEqual)
			if err != nil {
				t.Fatalf("ComputeShares: %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("expected no warnings for equal policy, got %v", warnings)
			}
			if len(lines) != len(tt.set.Members) {
				t.Fatalf("expected %d lines, got %d", len(tt.set.Members), len(lines))
			}

			paidSum := decimal.Zero
			owedSum := decimal.Zero
			paidPositive := 0
			for i, line := range lines {
				if line.OwedShare != tt.wantOwed[i] {
					t.Errorf("line %d owed = %s, want %s", i, line.OwedShare, tt.wantOwed[i])
				}
				if line.PaidShare != tt.wantPaid[i] {
					t.Errorf("line %d paid = %s, want %s", i, line.PaidShare, tt.wantPaid[i])
				}
				paidSum = paidSum.Add(decimal.RequireFromString(line.PaidShare))
				owedSum = owedSum.Add(decimal.RequireFromString(line.OwedShare))
				if line.PaidShare != "0.00" {
					paidPositive++
				}
			}

			// Split completeness: both sums reconcile to the total exactly.
			if !paidSum.Equal(total) {
				t.Errorf("paid shares sum to %s, want %s", paidSum, total)
			}
			if !owedSum.Equal(total) {
				t.Errorf("owed shares sum to %s, want %s", owedSum, total)
			}
			// Payer uniqueness: exactly one line carries the payment.
			if paidPositive != 1 {
				t.Errorf("expected exactly one paying line, got %d", paidPositive)
			}
		})
	}
}

func TestComputeShares_PolicyDowngrade(t *testing.T) {
	total := decimal.RequireFromString("30.00")
	set := members(1, 2, 3)
	payer := core.Identity{ID: 1}

	equal, _, err := core.ComputeShares(total, set, payer, core.SplitEqual)
	if err != nil {
		t.Fatalf("equal: %v", err)
	}

	for _, policy := range []core.SplitPolicy{core.SplitExact, core.SplitPercentage} {
		t.Run(string(policy), func(t *testing.T) {
			lines, warnings, err := core.ComputeShares(total, set, payer, policy)
			if err != nil {
				t.Fatalf("ComputeShares(%s): %v", policy, err)
			}
			if len(warnings) != 1 || warnings[0].Kind != core.WarnPolicyDowngrade {
				t.Fatalf("expected a single downgrade warning, got %v", warnings)
			}
			if len(lines) != len(equal) {
				t.Fatalf("expected %d lines, got %d", len(equal), len(lines))
			}
			for i := range lines {
				if lines[i] != equal[i] {
					t.Errorf("line %d = %+v, want same as equal split %+v", i, lines[i], equal[i])
				}
			}
		})
	}
}

func TestComputeShares_EmptySet(t *testing.T) {
	_, _, err := core.ComputeShares(decimal.RequireFromString("10.00"), core.ParticipantSet{}, core.Identity{ID: 1}, core.SplitEqual)
	if err == nil {
		t.Fatal("expected error for empty participant set, got nil")
	}
}

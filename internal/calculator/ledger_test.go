package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/veresiye/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDelta(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.MovementKind
		amount  string
		want    string
		wantErr bool
	}{
		{name: "debt raises balance", kind: models.KindDebt, amount: "12.50", want: "12.5"},
		{name: "payment lowers balance", kind: models.KindPayment, amount: "7", want: "-7"},
		{name: "unknown kind", kind: "gift", amount: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Delta(tt.kind, dec(tt.amount))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Delta() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Delta() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInverse(t *testing.T) {
	for _, kind := range []models.MovementKind{models.KindDebt, models.KindPayment} {
		m := models.Movement{Kind: kind, Amount: dec("33.33")}
		d, _ := Delta(m.Kind, m.Amount)
		inv, err := Inverse(m)
		if err != nil {
			t.Fatalf("Inverse(%s) error = %v", kind, err)
		}
		if !d.Add(inv).IsZero() {
			t.Errorf("Inverse(%s) = %s does not cancel %s", kind, inv, d)
		}
	}
}

func TestReplay(t *testing.T) {
	movements := []models.Movement{
		{ID: "1", Kind: models.KindDebt, Amount: dec("50")},
		{ID: "2", Kind: models.KindPayment, Amount: dec("70")},
		{ID: "3", Kind: models.KindDebt, Amount: dec("0.10")},
	}

	got, err := Replay(dec("100"), movements)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !got.Equal(dec("80.10")) {
		t.Errorf("Replay() = %s, want 80.10", got)
	}

	if got, _ := Replay(dec("-5"), nil); !got.Equal(dec("-5")) {
		t.Errorf("Replay() with no movements = %s, want opening balance", got)
	}

	_, err = Replay(decimal.Zero, []models.Movement{{ID: "bad", Kind: "refund", Amount: dec("1")}})
	if err == nil {
		t.Error("Replay() expected error for unknown kind")
	}
}

func TestSummarize(t *testing.T) {
	customers := []models.Customer{
		{ID: 1, Balance: dec("80")},
		{ID: 2, Balance: dec("0")},
		{ID: 3, Balance: dec("-15")},
		{ID: 4, Balance: dec("20.50")},
	}

	s := Summarize(customers)
	if s.DebtorCount != 2 {
		t.Errorf("DebtorCount = %d, want 2", s.DebtorCount)
	}
	if s.TotalOwing.StringFixed(2) != "100.50" {
		t.Errorf("TotalOwing = %s, want 100.50", s.TotalOwing.StringFixed(2))
	}
	if s.AverageOwing.StringFixed(2) != "50.25" {
		t.Errorf("AverageOwing = %s, want 50.25", s.AverageOwing.StringFixed(2))
	}

	empty := Summarize([]models.Customer{{Balance: dec("-1")}})
	if !empty.TotalOwing.IsZero() || !empty.AverageOwing.IsZero() || empty.DebtorCount != 0 {
		t.Errorf("Summarize() with no debtors = %+v, want zero", empty)
	}
}

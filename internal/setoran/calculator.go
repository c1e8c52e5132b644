package setoran

import "github.com/shopspring/decimal"

// LineItem is one expense or income row attached to a shift's setoran.
type LineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CalcInput holds the raw numbers of a setoran submission. All values
// are expected to be non-negative; the calculator clamps rather than
// erroring so a data-entry mistake never rejects a whole shift.
type CalcInput struct {
	StartMeter    decimal.Decimal
	EndMeter      decimal.Decimal
	QrisAmount    decimal.Decimal
	Expenses      []LineItem
	Income        []LineItem
	PricePerLiter decimal.Decimal
}

// CalcResult carries every derived total of a setoran.
type CalcResult struct {
	TotalLiters   decimal.Decimal
	GrossDeposit  decimal.Decimal
	CashPortion   decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	// NetTotal = CashPortion + TotalIncome - TotalExpenses. Deliberately
	// not clamped: a negative value is a real cash shortfall and must be
	// visible, not hidden.
	NetTotal decimal.Decimal

	ValidExpenses []LineItem
	ValidIncome   []LineItem
}

// Calculate derives all setoran totals from raw meter and payment input.
// Pure function: same input, same output, no I/O.
//
// A non-positive meter delta clamps liters to zero instead of failing.
// This tolerates pump meter resets and typos; whether it should instead
// be a hard validation error is a product question, not changed here.
func Calculate(in CalcInput) CalcResult {
	totalLiters := in.EndMeter.Sub(in.StartMeter)
	if totalLiters.IsNegative() {
		totalLiters = decimal.Zero
	}

	grossDeposit := totalLiters.Mul(in.PricePerLiter)

	// QRIS above the gross deposit clamps cash to zero; the difference
	// shows up in the net total, not as a negative cash figure.
	cashPortion := grossDeposit.Sub(in.QrisAmount)
	if cashPortion.IsNegative() {
		cashPortion = decimal.Zero
	}

	validExpenses := ValidItems(in.Expenses)
	validIncome := ValidItems(in.Income)

	totalExpenses := sumItems(validExpenses)
	totalIncome := sumItems(validIncome)

	return CalcResult{
		TotalLiters:   totalLiters,
		GrossDeposit:  grossDeposit,
		CashPortion:   cashPortion,
		TotalExpenses: totalExpenses,
		TotalIncome:   totalIncome,
		NetTotal:      cashPortion.Add(totalIncome).Sub(totalExpenses),
		ValidExpenses: validExpenses,
		ValidIncome:   validIncome,
	}
}

// ValidItems returns the items that count toward totals: non-empty
// description and strictly positive amount.
func ValidItems(items []LineItem) []LineItem {
	var out []LineItem
	for _, it := range items {
		if it.Description != "" && it.Amount.IsPositive() {
			out = append(out, it)
		}
	}
	return out
}

// IncompleteItems returns the indexes of partially-filled items: a
// description without a positive amount, or an amount without a
// description. Fully empty rows are blank form lines and are ignored.
// Callers must reject submissions containing incomplete items before
// calculating.
func IncompleteItems(items []LineItem) []int {
	var idx []int
	for i, it := range items {
		hasDesc := it.Description != ""
		hasAmount := it.Amount.IsPositive()
		if hasDesc != hasAmount {
			idx = append(idx, i)
		}
	}
	return idx
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

package core

// CategoryType classifies a category and, transitively, the transactions
// recorded under it.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "EXPENSE"
	CategoryTypeIncome  CategoryType = "INCOME"
)

func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeExpense, CategoryTypeIncome:
		return true
	default:
		return false
	}
}

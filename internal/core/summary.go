package core

// CategoryTotal is one row of the month-by-category breakdown: the
// category, its matching records, and their summed amount.
type CategoryTotal struct {
	Category Category
	Items    []Expense
	Total    Money
}

package dto

type ItemInput struct {
	ProductID int64
	Quantity  int
}

type LineOutput struct {
	LineID    int64
	ProductID int64
	Title     string
	Brand     string
	Thumbnail string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

type CartOutput struct {
	Lines []LineOutput
	Items int
	Total float64
}

type PurchaseOutput struct {
	ID        int64
	ProductID int64
	Title     string
	Quantity  int
	Total     float64
	Date      string
}

type HistoryOutput struct {
	Records        []PurchaseOutput
	TotalPurchases int
	TotalSpent     float64
}

type OutcomeOutput struct {
	Completed bool
	Reason    string
	Records   []PurchaseOutput
}

type ExportOutput struct {
	Paths []string
}

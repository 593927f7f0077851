package dto

type ListInput struct {
	Limit    int
	Skip     int
	Category string
	Query    string
}

type ProductOutput struct {
	ID                 int64
	Title              string
	Description        string
	Price              float64
	DiscountPercentage float64
	Rating             float64
	Stock              int
	Brand              string
	Category           string
	Thumbnail          string
	Images             []string
	DisplayPrice       float64
	DiscountedPrice    float64
}

type PageOutput struct {
	Products []ProductOutput
	Total    int
	Skip     int
	Limit    int
}

type DetailOutput struct {
	Product         ProductOutput
	Recommendations []ProductOutput
}

type CategoryOutput struct {
	Slug string
	Name string
}

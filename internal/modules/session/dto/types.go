package dto

type ProfileOutput struct {
	Name     string
	Email    string
	Phone    string
	JoinDate string
}

type StateOutput struct {
	StoreID        string
	CartItems      int
	CartLines      int
	Purchases      int
	TotalPurchases int
	TotalSpent     float64
	Authenticated  bool
	Profile        ProfileOutput
	Width          int
	Height         int
	ModalOpen      bool
}

type ViewportInput struct {
	Width  int
	Height int
}

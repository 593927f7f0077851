package domain

import (
	"fmt"

	catalogdomain "storefront/internal/modules/catalog/domain"
)

// Persisted keys. Each slice is written independently under its own key.
const (
	KeyCart            = "cart"
	KeyPurchaseHistory = "purchaseHistory"
	KeyAuthenticated   = "isAuthenticated"
)

// PurchaseDateLayout is ISO-8601 in UTC with millisecond precision.
const PurchaseDateLayout = "2006-01-02T15:04:05.000Z"

type CartLine struct {
	ID       int64                 `json:"id"`
	Product  catalogdomain.Product `json:"product"`
	Quantity int                   `json:"quantity"`
}

type PurchaseRecord struct {
	ID        int64                 `json:"id"`
	ProductID int64                 `json:"productId"`
	Product   catalogdomain.Product `json:"product"`
	Quantity  int                   `json:"quantity"`
	Total     float64               `json:"total"`
	Date      string                `json:"date"`
}

type UserProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	JoinDate string `json:"joinDate"`
}

type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type SessionState struct {
	Cart            []CartLine
	PurchaseHistory []PurchaseRecord
	TotalPurchases  int
	TotalSpent      float64
	UserData        *UserProfile
	Viewport        Viewport
	ModalOpen       bool
}

// PlaceholderProfile stands in for an identity lookup once the session is
// authenticated.
func PlaceholderProfile() *UserProfile {
	return &UserProfile{
		Name:     "John Doe",
		Email:    "john.doe@example.com",
		Phone:    "+1234567890",
		JoinDate: "2023-01-01",
	}
}

func InitialState() SessionState {
	return SessionState{Cart: []CartLine{}, PurchaseHistory: []PurchaseRecord{}}
}

// Totals sums quantity and total over history.
func Totals(history []PurchaseRecord) (int, float64) {
	purchases := 0
	spent := 0.0
	for _, record := range history {
		purchases += record.Quantity
		spent += record.Total
	}
	return purchases, spent
}

// Clone returns a copy whose slices and profile can be handed to callers.
func (s SessionState) Clone() SessionState {
	out := s
	out.Cart = append(make([]CartLine, 0, len(s.Cart)), s.Cart...)
	out.PurchaseHistory = append(make([]PurchaseRecord, 0, len(s.PurchaseHistory)), s.PurchaseHistory...)
	if s.UserData != nil {
		profile := *s.UserData
		out.UserData = &profile
	}
	return out
}

func (s SessionState) Authenticated() bool {
	return s.UserData != nil
}

// FindLine returns the index of the line holding productID, or -1.
func (s SessionState) FindLine(productID int64) int {
	for i, line := range s.Cart {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s SessionState) CartItemCount() int {
	count := 0
	for _, line := range s.Cart {
		count += line.Quantity
	}
	return count
}

// ValidateCart rejects carts that break the one-line-per-product or
// positive-quantity rules.
func ValidateCart(lines []CartLine) error {
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return fmt.Errorf("cart line %d has quantity %d", line.ID, line.Quantity)
		}
		if _, dup := seen[line.Product.ID]; dup {
			return fmt.Errorf("product %d appears twice in cart", line.Product.ID)
		}
		seen[line.Product.ID] = struct{}{}
	}
	return nil
}

func ValidateHistory(records []PurchaseRecord) error {
	for _, record := range records {
		if record.Quantity < 1 {
			return fmt.Errorf("purchase %d has quantity %d", record.ID, record.Quantity)
		}
		if record.Total < 0 {
			return fmt.Errorf("purchase %d has negative total", record.ID)
		}
	}
	return nil
}

// MaxID is the largest line or purchase id in the state.
func (s SessionState) MaxID() int64 {
	var highest int64
	for _, line := range s.Cart {
		if line.ID > highest {
			highest = line.ID
		}
	}
	for _, record := range s.PurchaseHistory {
		if record.ID > highest {
			highest = record.ID
		}
	}
	return highest
}

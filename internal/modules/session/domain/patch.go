package domain

// Field marks which top-level SessionState fields a Patch carries.
type Field uint8

const (
	FieldCart Field = 1 << iota
	FieldPurchaseHistory
	FieldTotalPurchases
	FieldTotalSpent
	FieldUserData
	FieldViewport
	FieldModalOpen
)

// Patch is a partial SessionState. Only fields marked present are applied;
// slices are replaced wholesale.
type Patch struct {
	fields Field
	state  SessionState
}

func (p Patch) Has(field Field) bool {
	return p.fields&field != 0
}

func (p Patch) Empty() bool {
	return p.fields == 0
}

func (p Patch) WithCart(lines []CartLine) Patch {
	p.fields |= FieldCart
	p.state.Cart = lines
	return p
}

// WithPurchaseHistory also sets both totals, recomputed from history, so
// the three fields always change together.
func (p Patch) WithPurchaseHistory(records []PurchaseRecord) Patch {
	p.fields |= FieldPurchaseHistory | FieldTotalPurchases | FieldTotalSpent
	p.state.PurchaseHistory = records
	p.state.TotalPurchases, p.state.TotalSpent = Totals(records)
	return p
}

func (p Patch) WithUserData(profile *UserProfile) Patch {
	p.fields |= FieldUserData
	p.state.UserData = profile
	return p
}

func (p Patch) WithViewport(viewport Viewport) Patch {
	p.fields |= FieldViewport
	p.state.Viewport = viewport
	return p
}

func (p Patch) WithModalOpen(open bool) Patch {
	p.fields |= FieldModalOpen
	p.state.ModalOpen = open
	return p
}

func (p Patch) Cart() []CartLine {
	return p.state.Cart
}

func (p Patch) PurchaseHistory() []PurchaseRecord {
	return p.state.PurchaseHistory
}

// Merge applies the present fields of patch over s.
func (s SessionState) Merge(patch Patch) SessionState {
	out := s
	if patch.Has(FieldCart) {
		out.Cart = nonNilCart(patch.state.Cart)
	}
	if patch.Has(FieldPurchaseHistory) {
		out.PurchaseHistory = nonNilHistory(patch.state.PurchaseHistory)
	}
	if patch.Has(FieldTotalPurchases) {
		out.TotalPurchases = patch.state.TotalPurchases
	}
	if patch.Has(FieldTotalSpent) {
		out.TotalSpent = patch.state.TotalSpent
	}
	if patch.Has(FieldUserData) {
		out.UserData = patch.state.UserData
	}
	if patch.Has(FieldViewport) {
		out.Viewport = patch.state.Viewport
	}
	if patch.Has(FieldModalOpen) {
		out.ModalOpen = patch.state.ModalOpen
	}
	return out
}

func nonNilCart(lines []CartLine) []CartLine {
	if lines == nil {
		return []CartLine{}
	}
	return lines
}

func nonNilHistory(records []PurchaseRecord) []PurchaseRecord {
	if records == nil {
		return []PurchaseRecord{}
	}
	return records
}

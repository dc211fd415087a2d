package payments

import "klinipay-service/internal/app/models"

// Selection tracks which of a patient's unpaid bills are checked for the
// merged payment. Derived reads recompute from the source slices on every
// call, so no stale count or total is ever observable.
type Selection struct {
	bills    []models.Bill
	selected map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{
		bills:    []models.Bill{},
		selected: map[string]struct{}{},
	}
}

// SetBills replaces the bill set and selects every bill. Select-all is the
// deliberate default: collections usually settle all outstanding bills at
// once, and the clerk deselects exceptions.
func (s *Selection) SetBills(bills []models.Bill) {
	s.bills = make([]models.Bill, len(bills))
	copy(s.bills, bills)
	s.selected = make(map[string]struct{}, len(bills))
	for _, bill := range s.bills {
		s.selected[bill.ID] = struct{}{}
	}
}

// Toggle flips membership for billID. Unknown ids are a no-op so the
// selected set can never point outside the bill set.
func (s *Selection) Toggle(billID string) {
	if !s.Contains(billID) {
		return
	}
	if _, ok := s.selected[billID]; ok {
		delete(s.selected, billID)
		return
	}
	s.selected[billID] = struct{}{}
}

func (s *Selection) SelectAll() {
	for _, bill := range s.bills {
		s.selected[bill.ID] = struct{}{}
	}
}

func (s *Selection) DeselectAll() {
	s.selected = make(map[string]struct{}, len(s.bills))
}

// Bills returns the full bill set in fetch order.
func (s *Selection) Bills() []models.Bill {
	out := make([]models.Bill, len(s.bills))
	copy(out, s.bills)
	return out
}

// SelectedBills returns the checked bills in fetch order.
func (s *Selection) SelectedBills() []models.Bill {
	out := make([]models.Bill, 0, len(s.selected))
	for _, bill := range s.bills {
		if _, ok := s.selected[bill.ID]; ok {
			out = append(out, bill)
		}
	}
	return out
}

// SelectedBillIDs returns the checked bill ids in fetch order.
func (s *Selection) SelectedBillIDs() []string {
	ids := make([]string, 0, len(s.selected))
	for _, bill := range s.bills {
		if _, ok := s.selected[bill.ID]; ok {
			ids = append(ids, bill.ID)
		}
	}
	return ids
}

// SelectedTotal is the sum of the checked bill amounts, recomputed per call.
func (s *Selection) SelectedTotal() float64 {
	var total float64
	for _, bill := range s.bills {
		if _, ok := s.selected[bill.ID]; ok {
			total += bill.Amount
		}
	}
	return total
}

// IsSelected reports whether billID is currently checked.
func (s *Selection) IsSelected(billID string) bool {
	_, ok := s.selected[billID]
	return ok
}

// Contains reports whether billID is part of the fetched bill set.
func (s *Selection) Contains(billID string) bool {
	for _, bill := range s.bills {
		if bill.ID == billID {
			return true
		}
	}
	return false
}

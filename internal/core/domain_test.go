package core

import "testing"

func TestParseTab(t *testing.T) {
	cases := []struct {
		in     string
		want   Tab
		wantOK bool
	}{
		{"add", TabAdd, true},
		{"view", TabView, true},
		{" Analytics ", TabAnalytics, true},
		{"", TabAdd, false},
		{"dashboard", TabAdd, false},
	}
	for _, tc := range cases {
		got, ok := ParseTab(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ParseTab(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
	for _, tab := range Tabs() {
		if tab.Label() == "" {
			t.Errorf("tab %q has no label", tab)
		}
	}
}

func TestExpenseDraftValidate(t *testing.T) {
	ok := ExpenseDraft{Name: "Coffee", Amount: "3.50", Category: "Food", Date: "2025-03-01"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	cases := []struct {
		name  string
		draft ExpenseDraft
		want  error
	}{
		{"empty name", ExpenseDraft{Name: " ", Amount: "1", Category: "A", Date: "2025-03-01"}, ErrEmptyName},
		{"zero amount", ExpenseDraft{Name: "x", Amount: "0", Category: "A", Date: "2025-03-01"}, ErrInvalidAmount},
		{"empty category", ExpenseDraft{Name: "x", Amount: "1", Category: "", Date: "2025-03-01"}, ErrEmptyCategory},
		{"bad date", ExpenseDraft{Name: "x", Amount: "1", Category: "A", Date: "03/01/2025"}, ErrInvalidDate},
	}
	for _, tc := range cases {
		if err := tc.draft.Validate(); err != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestExpenseListResultWithout(t *testing.T) {
	list := ExpenseListResult{
		TotalExpenses: 150,
		Expenses: []ExpenseRecord{
			{ID: 3, Name: "a", Amount: 50},
			{ID: 7, Name: "b", Amount: 60},
			{ID: 9, Name: "c", Amount: 40},
		},
	}

	got, removed := list.Without(7)
	if !removed {
		t.Fatal("expected id 7 to be removed")
	}
	if len(got.Expenses) != 2 || got.Expenses[0].ID != 3 || got.Expenses[1].ID != 9 {
		t.Fatalf("unexpected records: %+v", got.Expenses)
	}
	if got.TotalExpenses != 150 {
		t.Fatalf("total must not be recomputed, got %v", got.TotalExpenses)
	}
	if len(list.Expenses) != 3 {
		t.Fatal("original list must not be mutated")
	}

	same, removed := list.Without(42)
	if removed || len(same.Expenses) != 3 {
		t.Fatalf("unknown id must leave list unchanged: removed=%v len=%d", removed, len(same.Expenses))
	}
}

func TestDisplayDate(t *testing.T) {
	cases := map[string]string{
		"2025-01-05":               "01/05/2025",
		"2025-01-05T00:00:00.000Z": "01/05/2025",
		"yesterday":                "yesterday",
	}
	for in, want := range cases {
		if got := DisplayDate(in); got != want {
			t.Errorf("DisplayDate(%q) = %q, want %q", in, got, want)
		}
	}
}

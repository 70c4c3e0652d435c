package core

// CategoryAmount is one chart datum. It is also the item shape of the
// legacy summary endpoint.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryTotal is an aggregated category with its share of the largest one.
type CategoryTotal struct {
	Category string
	Total    Money
	// Width is the bar length in percent of the largest category.
	Width int
}

// Summary is what the analytics view renders.
type Summary struct {
	Total      Money
	ByCategory []CategoryTotal
}

// Summarize groups amounts by category in first-seen order and scales the
// bars against the largest category.
func Summarize(items []CategoryAmount) Summary {
	var s Summary
	index := make(map[string]int, len(items))
	for _, it := range items {
		m := MoneyFromAmount(it.Amount)
		s.Total = s.Total.Add(m)
		i, ok := index[it.Category]
		if !ok {
			index[it.Category] = len(s.ByCategory)
			s.ByCategory = append(s.ByCategory, CategoryTotal{Category: it.Category, Total: m})
			continue
		}
		s.ByCategory[i].Total = s.ByCategory[i].Total.Add(m)
	}

	var maxCents int64
	for _, c := range s.ByCategory {
		if c.Total.Cents > maxCents {
			maxCents = c.Total.Cents
		}
	}
	for i, c := range s.ByCategory {
		width := 0
		if maxCents > 0 && c.Total.Cents > 0 {
			width = int((c.Total.Cents*100 + maxCents/2) / maxCents) // rounded percent
			if width < 2 {                                           // keep tiny values visible
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		s.ByCategory[i].Width = width
	}
	return s
}

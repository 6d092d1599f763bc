package tally

import "github.com/okian/tallymap/internal/domain/model"

// Aggregate folds a region mapping into totals. It keeps no state between
// calls, so the same mapping always yields the same totals.
//
// Units count toward a party only when the region winner matches that
// party's label exactly. Raw ballots are summed over every region.
func Aggregate(regions model.Regions, labels model.Labels) model.Totals {
	var t model.Totals
	for _, r := range regions {
		switch labels.Classify(r.Winner) {
		case model.CategoryDem:
			t.DemUnits += r.Units
		case model.CategoryRep:
			t.RepUnits += r.Units
		}
		t.DemRaw += r.Dem
		t.RepRaw += r.Rep
	}

	t.DemSharePct, t.RepSharePct = Shares(t.DemRaw, t.RepRaw)
	return t
}

// Shares returns each party's percentage of dem+rep. When both are zero the
// denominator is taken as 1, so both shares are 0.
func Shares(dem, rep int) (demPct, repPct float64) {
	total := dem + rep
	if total == 0 {
		total = 1
	}
	return 100 * float64(dem) / float64(total), 100 * float64(rep) / float64(total)
}

// Categorize maps each region to its display key and category. codes is the
// region-name normalization table; a region missing from a non-empty table is
// left out. An empty table keys the result by region name.
func Categorize(regions model.Regions, labels model.Labels, codes map[string]string) map[string]model.Category {
	out := make(map[string]model.Category, len(regions))
	for name, r := range regions {
		key := name
		if len(codes) > 0 {
			code, ok := codes[name]
			if !ok {
				continue
			}
			key = code
		}
		out[key] = labels.Classify(r.Winner)
	}
	return out
}

// CountCategories returns how many regions fall in each category.
func CountCategories(regions model.Regions, labels model.Labels) map[model.Category]int {
	counts := map[model.Category]int{
		model.CategoryDem:       0,
		model.CategoryRep:       0,
		model.CategoryUndecided: 0,
	}
	for _, r := range regions {
		counts[labels.Classify(r.Winner)]++
	}
	return counts
}

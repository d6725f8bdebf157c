package dataset

import (
	"fmt"
	"sort"
)

// CategoryIndex is the sorted, deduplicated list of regions in a dataset.
type CategoryIndex []string

// DistinctCategories collects the region column of rows. Rows are expected to
// be data rows only; the header is never passed in.
func DistinctCategories(rows []Row) CategoryIndex {
	seen := make(map[string]struct{})
	out := CategoryIndex{}
	for _, row := range rows {
		if len(row) <= CategoryColumn {
			continue
		}
		v := row[CategoryColumn]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// At returns the region at index i.
func (c CategoryIndex) At(i int) (string, error) {
	if i < 0 || i >= len(c) {
		return "", fmt.Errorf("%w: %d (have %d regions)", ErrRegionIndexOutOfRange, i, len(c))
	}
	return c[i], nil
}

// FilterByCategory returns the rows whose region equals value, in their original order.
func FilterByCategory(rows []Row, value string) ([]Row, error) {
	var out []Row
	for _, row := range rows {
		if len(row) > CategoryColumn && row[CategoryColumn] == value {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, &NoMatchingRowsError{Category: value}
	}
	return out, nil
}

// FilterByCategoryIndex resolves index through the dataset's CategoryIndex and
// filters on the resulting region. The resolved region is returned alongside the rows.
func FilterByCategoryIndex(rows []Row, index int) ([]Row, string, error) {
	region, err := DistinctCategories(rows).At(index)
	if err != nil {
		return nil, "", err
	}
	out, err := FilterByCategory(rows, region)
	if err != nil {
		return nil, region, err
	}
	return out, region, nil
}

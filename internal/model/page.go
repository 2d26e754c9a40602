package model

import "strconv"

type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate slices items into the requested 1-based page. The page parameter
// is lenient: a missing or non-numeric value yields the first page and an
// out-of-range number (including zero or negative) yields the last page.
// An empty input still has one page.
func Paginate[T any](items []T, page string, size int) Page[T] {
	if size < 1 {
		size = 1
	}

	numPages := (len(items) + size - 1) / size
	if numPages == 0 {
		numPages = 1
	}

	number, err := strconv.Atoi(page)
	switch {
	case err != nil:
		number = 1
	case number < 1, number > numPages:
		number = numPages
	}

	start := (number - 1) * size
	end := min(start+size, len(items))

	pageItems := make([]T, 0, end-start)
	pageItems = append(pageItems, items[start:end]...)

	return Page[T]{
		Items:       pageItems,
		Number:      number,
		NumPages:    numPages,
		Count:       len(items),
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

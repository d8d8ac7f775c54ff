package warden

import "math"

// MinPerPage is the smallest page size the viewport heuristic yields.
const MinPerPage = 3

// TotalPages converts a total record count and a page size into a page count.
// The floor is 1 so that page index 0 is always valid, even for an empty
// result set. A non-positive perPage is a caller bug; it is floored to 1 to
// keep the function total.
func TotalPages(totalCount, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}

	pages := (totalCount + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}

	return pages
}

// PerPageForHeight derives a page size from the available vertical display
// space in pixels. Smaller viewports reserve more chrome, hence the larger
// coefficient below 1000px.
func PerPageForHeight(height int) int {
	coefficient := 100
	if height < 1000 {
		coefficient = 300
	}

	perPage := int(math.Ceil(float64(height-coefficient) / 100))
	if perPage < MinPerPage {
		perPage = MinPerPage
	}

	return perPage
}

package service

import (
	"strconv"
	"strings"
)

// PageSize is the number of tasks on one listing page.
const PageSize = 10

// Page describes one page of a listing.
type Page struct {
	Number      int
	NumPages    int
	Count       int64
	HasNext     bool
	HasPrevious bool
}

func (p Page) Offset() int {
	return (p.Number - 1) * PageSize
}

// paginate resolves a raw page parameter against count items. An empty value
// means page 1 and "last" means the final page. Anything else that is not a
// page number in range is ErrNotFound. An empty listing still has page 1.
func paginate(raw string, count int64) (Page, error) {
	numPages := int((count + PageSize - 1) / PageSize)
	if numPages == 0 {
		numPages = 1
	}

	number := 1
	switch raw = strings.TrimSpace(raw); raw {
	case "":
	case "last":
		number = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, ErrNotFound
		}
		number = n
	}
	if number < 1 || number > numPages {
		return Page{}, ErrNotFound
	}

	return Page{
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}, nil
}

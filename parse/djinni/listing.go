package djinni

import (
	"github.com/wenzapen/vacancies/document"
)

const (
	listingLinkSelector = ".job-list-item__link"
	nextPageSelector    = ".pagination > li:last-child > a"
)

// Listing is what one search results page leads to: the vacancies it lists
// and, unless it is the last page, the page after it. All URLs are absolute.
type Listing struct {
	Details []string
	Next    string
}

func (l Listing) HasNext() bool {
	return l.Next != ""
}

// HandleListing collects vacancy links and the next-page link. Links that do
// not resolve are skipped and reported as *MalformedLinkError.
func HandleListing(doc *document.Document) (Listing, []error) {
	var (
		listing Listing
		errs    []error
	)
	for _, href := range doc.Attrs(listingLinkSelector, "href") {
		u, err := doc.AbsoluteURL(href)
		if err != nil {
			errs = append(errs, &MalformedLinkError{Link: href, Err: err})
			continue
		}
		listing.Details = append(listing.Details, u)
	}

	if href, ok := doc.Attr(nextPageSelector, "href"); ok {
		u, err := doc.AbsoluteURL(href)
		if err != nil {
			errs = append(errs, &MalformedLinkError{Link: href, Err: err})
		} else {
			listing.Next = u
		}
	}
	return listing, errs
}

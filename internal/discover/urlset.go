package discover

// URLSet is an insertion-ordered set of URLs. Duplicates discovered
// across different sub-region pages collapse to their first occurrence.
type URLSet struct {
	seen map[string]struct{}
	urls []string
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add inserts a URL, returning true if it was not already present.
func (s *URLSet) Add(url string) bool {
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.urls = append(s.urls, url)
	return true
}

// Contains reports whether the URL is in the set.
func (s *URLSet) Contains(url string) bool {
	_, ok := s.seen[url]
	return ok
}

// URLs returns the URLs in first-seen order.
func (s *URLSet) URLs() []string {
	return s.urls
}

// Len returns the number of unique URLs.
func (s *URLSet) Len() int {
	return len(s.urls)
}

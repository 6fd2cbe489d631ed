package merge

import (
	"errors"
	"fmt"
)

// ErrUnknownDomain is returned when a domain mode is not one of the fixed
// enumeration. It is rejected before any file I/O happens.
var ErrUnknownDomain = errors.New("unknown domain")

// Domain identifies one category of upstream dataset.
type Domain string

const (
	Movies    Domain = "movies"
	TV        Domain = "tv"
	People    Domain = "people"
	Networks  Domain = "networks"
	Keywords  Domain = "keywords"
	Companies Domain = "companies"
)

// Domains lists every valid domain in a stable order.
func Domains() []Domain {
	return []Domain{Movies, TV, People, Networks, Keywords, Companies}
}

// ParseDomain validates a domain mode string.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	switch d {
	case Movies, TV, People, Networks, Keywords, Companies:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q (expected movies|tv|people|networks|keywords|companies)", ErrUnknownDomain, s)
}

// ExportObject returns the upstream export object name for the domain, as
// used in daily export file names (<object>_MM_DD_YYYY.json.gz).
func (d Domain) ExportObject() string {
	switch d {
	case Movies:
		return "movie_ids"
	case TV:
		return "tv_series_ids"
	case People:
		return "person_ids"
	case Networks:
		return "tv_network_ids"
	case Keywords:
		return "keyword_ids"
	case Companies:
		return "production_company_ids"
	}
	return ""
}

// StoreFile returns the default cumulative store filename for the domain.
func (d Domain) StoreFile() string {
	switch d {
	case Movies:
		return "movie_dumps.json"
	case TV:
		return "tv_dumps.json"
	case People:
		return "people_dumps.json"
	case Networks:
		return "network_dumps.json"
	case Keywords:
		return "keyword_dumps.json"
	case Companies:
		return "company_dumps.json"
	}
	return ""
}

func (d Domain) String() string { return string(d) }

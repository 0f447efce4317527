// Package catalog is the immutable list of App Store storefront regions.
package catalog

import (
	"fmt"
	"strings"
)

// Region is one storefront.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Catalog is an ordered, de-duplicated region list. It is never mutated after
// New returns and may be shared between goroutines.
type Catalog struct {
	regions []Region
	byCode  map[string]int
}

// New copies regions into a catalog. Codes are upper-cased; a repeated code
// keeps its first occurrence.
func New(regions []Region) *Catalog {
	c := &Catalog{
		regions: make([]Region, 0, len(regions)),
		byCode:  make(map[string]int, len(regions)),
	}
	for _, r := range regions {
		r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
		if r.Code == "" {
			continue
		}
		if _, dup := c.byCode[r.Code]; dup {
			continue
		}
		c.byCode[r.Code] = len(c.regions)
		c.regions = append(c.regions, r)
	}
	return c
}

// Default returns the built-in App Store catalog.
func Default() *Catalog { return New(defaultRegions) }

// All returns a copy of the regions in catalog order.
func (c *Catalog) All() []Region {
	out := make([]Region, len(c.regions))
	copy(out, c.regions)
	return out
}

func (c *Catalog) Len() int { return len(c.regions) }

// Lookup finds a region by its two-letter code, case-insensitively.
func (c *Catalog) Lookup(code string) (Region, bool) {
	i, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Region{}, false
	}
	return c.regions[i], true
}

// BaseRegion picks the storefront used for discovery and issued first during
// collection. The first two letters of the base currency name the region
// (USD -> US, GBP -> GB); when no such region exists the first catalog entry
// is used.
func (c *Catalog) BaseRegion(currencyCode string) Region {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(code) >= 2 {
		if r, ok := c.Lookup(code[:2]); ok {
			return r
		}
	}
	if len(c.regions) == 0 {
		return Region{}
	}
	return c.regions[0]
}

// Subset returns a catalog restricted to codes, in catalog order. An empty
// list returns c unchanged. Unknown codes are an error.
func (c *Catalog) Subset(codes []string) (*Catalog, error) {
	if len(codes) == 0 {
		return c, nil
	}
	want := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, ok := c.byCode[code]; !ok {
			return nil, fmt.Errorf("unknown region %q", code)
		}
		want[code] = struct{}{}
	}
	out := make([]Region, 0, len(want))
	for _, r := range c.regions {
		if _, ok := want[r.Code]; ok {
			out = append(out, r)
		}
	}
	return New(out), nil
}

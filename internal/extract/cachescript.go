package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// The App Store embeds its media API responses in a script tag as a JSON
// object whose values are themselves JSON-encoded strings.
const cacheScriptSelector = "script#shoebox-media-api-cache-apps"

type cacheDocument struct {
	D []cacheProduct `json:"d"`
}

type cacheProduct struct {
	Attributes struct {
		Name           string           `json:"name"`
		Price          *decimal.Decimal `json:"price"`
		CurrencyCode   string           `json:"currencyCode"`
		FormattedPrice string           `json:"formattedPrice"`
	} `json:"attributes"`
	Relationships struct {
		TopInApps *struct {
			Data []cacheInApp `json:"data"`
		} `json:"top-in-apps"`
	} `json:"relationships"`
}

func (c *cacheProduct) inApps() []cacheInApp {
	if c.Relationships.TopInApps == nil {
		return nil
	}
	return c.Relationships.TopInApps.Data
}

type cacheInApp struct {
	Attributes struct {
		Name      string       `json:"name"`
		OfferName string       `json:"offerName"`
		Offers    []cacheOffer `json:"offers"`
	} `json:"attributes"`
}

type cacheOffer struct {
	Price          *decimal.Decimal `json:"price"`
	CurrencyCode   string           `json:"currencyCode"`
	PriceFormatted string           `json:"priceFormatted"`
}

// loadProduct decodes the embedded cache and returns the product entry,
// preferring one that lists in-app purchases.
func loadProduct(p *Page) (*cacheProduct, error) {
	sel := p.doc.Find(cacheScriptSelector).First()
	if sel.Length() == 0 {
		return nil, errNotPresent
	}
	raw := strings.TrimSpace(sel.Text())
	if raw == "" {
		return nil, errNotPresent
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &outer); err != nil {
		return nil, fmt.Errorf("decoding cache script: %w", err)
	}

	// Keys are walked in sorted order so "first" is stable.
	keys := make([]string, 0, len(outer))
	for k := range outer {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var first *cacheProduct
	for _, k := range keys {
		var s string
		if err := json.Unmarshal(outer[k], &s); err != nil {
			continue
		}
		var doc cacheDocument
		if err := json.Unmarshal([]byte(s), &doc); err != nil || len(doc.D) == 0 {
			continue
		}
		product := &doc.D[0]
		if product.Relationships.TopInApps != nil && product.Relationships.TopInApps.Data != nil {
			return product, nil
		}
		if first == nil {
			first = product
		}
	}
	if first == nil {
		return nil, errors.New("no decodable entry in cache script")
	}
	return first, nil
}

// CatalogCache reads the embedded media API cache. It is the only strategy
// that can price an in-app purchase.
type CatalogCache struct{}

func (CatalogCache) Name() string { return "catalog_cache" }

func (CatalogCache) Extract(p *Page, item *Item) (Price, error) {
	product, err := loadProduct(p)
	if err != nil {
		return Price{}, err
	}

	if item == nil {
		a := product.Attributes
		return fullPrice(a.Price, a.CurrencyCode, a.FormattedPrice)
	}

	for _, iap := range product.inApps() {
		if iap.Attributes.OfferName != item.OfferName {
			continue
		}
		if len(iap.Attributes.Offers) == 0 {
			return Price{}, fmt.Errorf("in-app purchase %q has no offers", item.OfferName)
		}
		o := iap.Attributes.Offers[0]
		return fullPrice(o.Price, o.CurrencyCode, o.PriceFormatted)
	}
	return Price{}, errNotPresent
}

// InAppPurchases lists the in-app purchases advertised on the page.
func InAppPurchases(p *Page) ([]Item, error) {
	product, err := loadProduct(p)
	if errors.Is(err, errNotPresent) {
		return nil, errors.New("page has no catalog cache")
	}
	if err != nil {
		return nil, err
	}
	iaps := product.inApps()
	out := make([]Item, 0, len(iaps))
	for _, iap := range iaps {
		it := Item{Name: iap.Attributes.Name, OfferName: iap.Attributes.OfferName}
		if len(iap.Attributes.Offers) > 0 {
			it.Price = iap.Attributes.Offers[0].PriceFormatted
		}
		out = append(out, it)
	}
	return out, nil
}

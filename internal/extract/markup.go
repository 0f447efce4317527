package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// OpenGraph reads og:price:amount and og:price:currency.
type OpenGraph struct{}

func (OpenGraph) Name() string { return "open_graph" }

func (OpenGraph) Extract(p *Page, item *Item) (Price, error) {
	if item != nil {
		return Price{}, errBaseOnly
	}
	amountStr, ok := p.metaContent("og:price:amount")
	if !ok {
		return Price{}, errNotPresent
	}
	currency, ok := p.metaContent("og:price:currency")
	if !ok {
		return Price{}, errNotPresent
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return Price{}, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}
	return fullPrice(&amount, currency, "")
}

type ldOffer struct {
	Price         *decimal.Decimal `json:"price"`
	PriceCurrency string           `json:"priceCurrency"`
}

// LinkedData reads offers from schema.org JSON-LD blocks. offers may be an
// object or a list; the first block with a usable offer wins.
type LinkedData struct{}

func (LinkedData) Name() string { return "linked_data" }

func (LinkedData) Extract(p *Page, item *Item) (Price, error) {
	if item != nil {
		return Price{}, errBaseOnly
	}
	var (
		price   Price
		lastErr error = errNotPresent
	)
	p.doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var doc struct {
			Offers json.RawMessage `json:"offers"`
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &doc); err != nil || len(doc.Offers) == 0 {
			return true
		}
		offer, err := decodeOffer(doc.Offers)
		if err != nil {
			lastErr = err
			return true
		}
		got, err := fullPrice(offer.Price, offer.PriceCurrency, "")
		if err != nil {
			lastErr = err
			return true
		}
		price, lastErr = got, nil
		return false
	})
	if lastErr != nil {
		return Price{}, lastErr
	}
	return price, nil
}

func decodeOffer(raw json.RawMessage) (ldOffer, error) {
	var one ldOffer
	if err := json.Unmarshal(raw, &one); err == nil {
		return one, nil
	}
	var many []ldOffer
	if err := json.Unmarshal(raw, &many); err != nil {
		return ldOffer{}, fmt.Errorf("decoding offers: %w", err)
	}
	if len(many) == 0 {
		return ldOffer{}, errNotPresent
	}
	return many[0], nil
}

// LegacyLabel reads the price label of the older page header. It carries no
// structured amount, so the result is display-only.
type LegacyLabel struct{}

func (LegacyLabel) Name() string { return "legacy_label" }

func (LegacyLabel) Extract(p *Page, item *Item) (Price, error) {
	if item != nil {
		return Price{}, errBaseOnly
	}
	sel := p.doc.Find("li.inline-list__item.app-header__list__item--price").First()
	if sel.Length() == 0 {
		return Price{}, errNotPresent
	}
	label := strings.NewReplacer("\u00a0", " ", "&nbsp;", " ").Replace(sel.Text())
	label = strings.TrimSpace(label)
	if label == "" {
		return Price{}, errNotPresent
	}
	return Price{Kind: KindDisplayOnly, Display: label}, nil
}

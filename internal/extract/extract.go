// Package extract pulls a price out of one storefront page. Pages come in
// several historical layouts, so extraction is an ordered chain of strategies
// and the first one that yields a price wins.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// ErrNoPrice means no strategy found a price on the page. It is a per-region
// outcome, not a failure of the run.
var ErrNoPrice = errors.New("no price available for this region")

var (
	// errNotPresent is returned by a strategy whose markup is absent.
	errNotPresent = errors.New("not present")
	// errBaseOnly is returned by strategies that only describe the app itself
	// when an in-app purchase was requested.
	errBaseOnly = errors.New("base product only")
)

// Kind tells a full extraction apart from a display-only one.
type Kind int

const (
	KindFull Kind = iota + 1
	KindDisplayOnly
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindDisplayOnly:
		return "display_only"
	default:
		return "unknown"
	}
}

// Price is the result of a successful extraction. Amount and Currency are set
// only for KindFull.
type Price struct {
	Kind     Kind
	Amount   decimal.Decimal
	Currency string
	// Display is the storefront's own label when the page carries one.
	Display  string
	Strategy string
}

// Item identifies an in-app purchase. OfferName is the stable key across
// storefronts; Name is localized.
type Item struct {
	Name      string `json:"name"`
	OfferName string `json:"offer_name"`
	Price     string `json:"price,omitempty"`
}

// Page is a parsed storefront document.
type Page struct {
	doc *goquery.Document
}

// Parse builds a Page from raw HTML.
func Parse(raw string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Page{doc: doc}, nil
}

func (p *Page) metaContent(property string) (string, bool) {
	v, ok := p.doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Strategy reads a price in one page layout. item is nil for the app itself.
type Strategy interface {
	Name() string
	Extract(p *Page, item *Item) (Price, error)
}

// Extractor runs strategies in order.
type Extractor struct {
	strategies []Strategy
}

// New returns an extractor over the given strategies, or the default chain
// when none are given.
func New(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = []Strategy{CatalogCache{}, OpenGraph{}, LinkedData{}, LegacyLabel{}}
	}
	return &Extractor{strategies: strategies}
}

// Strategies lists strategy names in the order they are tried.
func (e *Extractor) Strategies() []string {
	out := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		out[i] = s.Name()
	}
	return out
}

// Extract parses raw and runs the chain. Empty input yields ErrNoPrice.
func (e *Extractor) Extract(raw string, item *Item) (Price, error) {
	if strings.TrimSpace(raw) == "" {
		return Price{}, ErrNoPrice
	}
	page, err := Parse(raw)
	if err != nil {
		return Price{}, fmt.Errorf("%w: %w", ErrNoPrice, err)
	}
	return e.ExtractPage(page, item)
}

// ExtractPage runs the chain over an already parsed page.
func (e *Extractor) ExtractPage(p *Page, item *Item) (Price, error) {
	var errs []error
	for _, s := range e.strategies {
		price, err := s.Extract(p, item)
		if err == nil {
			price.Strategy = s.Name()
			return price, nil
		}
		if errors.Is(err, errNotPresent) || errors.Is(err, errBaseOnly) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	if len(errs) == 0 {
		return Price{}, ErrNoPrice
	}
	return Price{}, fmt.Errorf("%w: %w", ErrNoPrice, errors.Join(errs...))
}

// AppName returns the og:title of the page, or "" when absent.
func AppName(p *Page) string {
	name, _ := p.metaContent("og:title")
	return name
}

func fullPrice(amount *decimal.Decimal, currency, display string) (Price, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if amount == nil || currency == "" {
		return Price{}, errNotPresent
	}
	if amount.IsNegative() {
		return Price{}, fmt.Errorf("negative amount %s", amount)
	}
	return Price{Kind: KindFull, Amount: *amount, Currency: currency, Display: display}, nil
}

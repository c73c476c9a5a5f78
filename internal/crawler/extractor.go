package crawler

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	scerrors "sjsage522/productscraper/pkg/errors"
)

// GoqueryExtractor extracts product nodes using CSS selectors
type GoqueryExtractor struct {
	Selectors Selectors
}

var _ PageExtractor = (*GoqueryExtractor)(nil)

// NewGoqueryExtractor creates an extractor for the given selectors
func NewGoqueryExtractor(selectors Selectors) *GoqueryExtractor {
	return &GoqueryExtractor{Selectors: selectors}
}

// Extract parses the HTML document and returns one node per product container
func (e *GoqueryExtractor) Extract(r io.Reader) ([]RawProductNode, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, scerrors.NewParsing("extractor", "HTML parsing error", err)
	}

	var nodes []RawProductNode
	doc.Find(e.Selectors.ProductList).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, e.extractNode(s))
	})

	return nodes, nil
}

// extractNode reads the fields of a single product container
func (e *GoqueryExtractor) extractNode(s *goquery.Selection) RawProductNode {
	sel := e.Selectors
	node := RawProductNode{
		Title: strings.TrimSpace(s.Find(sel.Title).First().Text()),
	}

	if id, exists := s.Find(sel.AddToCart).First().Attr(sel.ProductIDAttr); exists {
		node.ProductID = strings.TrimSpace(id)
	}

	priceSel := s.Find(sel.Price).First()
	if priceSel.Length() > 0 {
		node.HasPrice = true

		// A discounted price wins over the regular one
		if discounted := priceSel.Find(sel.DiscountedPrice).First(); discounted.Length() > 0 {
			node.Discounted = true
			node.PriceText = strings.TrimSpace(discounted.Text())
		} else {
			node.PriceText = strings.TrimSpace(priceSel.Find(sel.RegularPrice).First().Text())
		}
	}

	if src, exists := s.Find(sel.Image).First().Attr(sel.ImageAttr); exists {
		node.ImageURL = strings.TrimSpace(src)
	}

	return node
}

// ParsePrice strips the currency symbol, thousands separators and whitespace
// and parses what remains as a non-negative decimal number
func ParsePrice(text string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' || r == '₹' {
			return -1
		}
		return r
	}, text)

	start := strings.IndexFunc(cleaned, unicode.IsDigit)
	if start < 0 {
		return 0, fmt.Errorf("no number in price %q", text)
	}

	// Drop any remaining currency prefix such as "Rs." or "$". A dot right
	// before the first digit is a decimal point unless it ends a word.
	if start > 0 && cleaned[start-1] == '.' {
		prev, _ := utf8.DecodeLastRuneInString(cleaned[:start-1])
		if start == 1 || !unicode.IsLetter(prev) {
			start--
		}
	}
	if start > 0 && cleaned[start-1] == '-' {
		start--
	}
	cleaned = cleaned[start:]

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("negative price %q", text)
	}

	return price, nil
}

// Package vacancy loads the static list of open positions offered in the
// vacancy menu. The list is read once at startup and never mutated.
package vacancy

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/m3rciful/recruitbot/core/logger"
	"github.com/m3rciful/recruitbot/internal/i18n"
)

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Listing is one vacancy with its per-language labels. Fallback is the
// English label; it is always set and doubles as the canonical key.
type Listing struct {
	Labels   map[i18n.Language]string
	Fallback string
}

// Label returns the label for lang, or the English fallback when absent.
func (l Listing) Label(lang i18n.Language) string {
	if s := l.Labels[lang]; s != "" {
		return s
	}
	return l.Fallback
}

// Matches reports whether text equals the label for lang or the fallback.
func (l Listing) Matches(lang i18n.Language, text string) bool {
	return text == l.Label(lang) || text == l.Fallback
}

// Catalog is an immutable, ordered set of listings.
type Catalog struct {
	listings []Listing
}

// NewCatalog builds a catalog from listings, skipping entries without a fallback label.
func NewCatalog(listings ...Listing) *Catalog {
	c := &Catalog{listings: make([]Listing, 0, len(listings))}
	for _, l := range listings {
		if strings.TrimSpace(l.Fallback) == "" {
			continue
		}
		labels := make(map[i18n.Language]string, len(l.Labels))
		for lang, s := range l.Labels {
			labels[lang] = s
		}
		c.listings = append(c.listings, Listing{Labels: labels, Fallback: l.Fallback})
	}
	return c
}

// Len returns the number of listings; a nil catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.listings)
}

// Listings returns a copy of the listings in file order.
func (c *Catalog) Listings() []Listing {
	if c == nil {
		return nil
	}
	return append([]Listing(nil), c.listings...)
}

// Labels returns the display label of every listing for lang, in order.
func (c *Catalog) Labels(lang i18n.Language) []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.listings))
	for _, l := range c.listings {
		out = append(out, l.Label(lang))
	}
	return out
}

// Find returns the first listing whose localized label or fallback equals text.
func (c *Catalog) Find(lang i18n.Language, text string) (Listing, bool) {
	if c == nil {
		return Listing{}, false
	}
	for _, l := range c.listings {
		if l.Matches(lang, text) {
			return l, true
		}
	}
	return Listing{}, false
}

// Parse validates data against the vacancy schema and decodes it.
func Parse(data []byte) (*Catalog, error) {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("vacancy: parse: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("vacancy: schema validation failed: %s", strings.Join(msgs, "; "))
	}

	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("vacancy: decode: %w", err)
	}
	listings := make([]Listing, 0, len(raw))
	for _, entry := range raw {
		l := Listing{Labels: make(map[i18n.Language]string, len(i18n.Languages))}
		for code, label := range entry {
			lang, ok := i18n.ParseCode(code)
			if !ok || label == "" {
				continue
			}
			l.Labels[lang] = label
		}
		l.Fallback = l.Labels[i18n.English]
		listings = append(listings, l)
	}
	return NewCatalog(listings...), nil
}

// Load reads and parses the vacancy file at path. A missing or malformed file
// yields an empty catalog; the problem is logged and never returned.
func Load(ctx context.Context, path string) *Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn(ctx, logger.CompVacancy, "vacancy.load",
			slog.String("status", "fail"),
			slog.String("path", path),
			logger.ErrAttr(err),
		)
		return NewCatalog()
	}
	catalog, err := Parse(data)
	if err != nil {
		logger.Warn(ctx, logger.CompVacancy, "vacancy.load",
			slog.String("status", "fail"),
			slog.String("path", path),
			logger.ErrAttr(err),
		)
		return NewCatalog()
	}
	logger.Info(ctx, logger.CompVacancy, "vacancy.load",
		slog.String("status", "ok"),
		slog.String("path", path),
		slog.Int("vacancies", catalog.Len()),
	)
	return catalog
}

// Package policy decides which suppliers may provide which categories of
// catalog items. The rule set is data-driven: an in-house supplier identity,
// a service-keyword classifier and an article allow-list, all overridable
// from configuration.
package policy

import (
	"fmt"
	"strings"
)

// Category splits the catalog into labor (services) and goods (articles).
type Category string

// Category constants.
const (
	CategoryService Category = "service"
	CategoryArticle Category = "article"
)

// Decision is the outcome of an eligibility check. Detail names the rule
// that rejected the item; it is empty when Allowed is true.
type Decision struct {
	Allowed bool
	Detail  string
}

// Rules holds the supplier policy. All keyword matching is done on
// upper-cased text, so rules accept input in any case.
type Rules struct {
	inHouse         string
	serviceKeywords []string
	allowedArticles []string
}

// DefaultInHouseSupplier is the distinguished supplier identity that may
// provide services and a restricted article allow-list.
const DefaultInHouseSupplier = "GARCIA"

// defaultServiceKeywords classifies a catalog phrase as a service when any
// of these appear in it.
var defaultServiceKeywords = []string{
	"MANO DE OBRA",
	"SERVICIO",
	"REPARACION",
	"ALINEACION",
	"BALANCEO",
	"MONTAJE",
	"DESMONTAJE",
	"INSTALACION",
	"DIAGNOSTICO",
	"ESCANEO",
	"RECTIFICADO",
	"AFINACION",
	"LAVADO",
	"CAMBIO DE ACEITE",
	"REVISION",
}

// defaultAllowedArticles lists the article keywords the in-house supplier
// may sell: lubricants, rims, tires, wheel studs, nuts, valves, coolants,
// greases and penetrating oil.
var defaultAllowedArticles = []string{
	"ACEITE",
	"RIN",
	"RINES",
	"LLANTA",
	"LLANTAS",
	"BIRLO",
	"BIRLOS",
	"TUERCA",
	"TUERCAS",
	"VALVULA",
	"VALVULAS",
	"ANTICONGELANTE",
	"LIQUIDO",
	"GRASA",
	"WD-40",
	"AFLOJATODO",
}

// NewRules builds a rule set. Empty arguments fall back to the defaults so
// partial configuration stays safe.
func NewRules(inHouse string, serviceKeywords, allowedArticles []string) *Rules {
	if strings.TrimSpace(inHouse) == "" {
		inHouse = DefaultInHouseSupplier
	}
	if len(serviceKeywords) == 0 {
		serviceKeywords = defaultServiceKeywords
	}
	if len(allowedArticles) == 0 {
		allowedArticles = defaultAllowedArticles
	}
	return &Rules{
		inHouse:         strings.ToUpper(strings.TrimSpace(inHouse)),
		serviceKeywords: upperAll(serviceKeywords),
		allowedArticles: upperAll(allowedArticles),
	}
}

// Default returns the rule set matching the shop's current policy.
func Default() *Rules {
	return NewRules("", nil, nil)
}

// IsInHouse reports whether the supplier is the in-house identity
// (case- and whitespace-insensitive).
func (r *Rules) IsInHouse(supplier string) bool {
	return strings.ToUpper(strings.TrimSpace(supplier)) == r.inHouse
}

// Classify labels a catalog phrase as a service when it contains any
// service keyword, otherwise as an article.
func (r *Rules) Classify(phrase string) Category {
	up := strings.ToUpper(phrase)
	for _, kw := range r.serviceKeywords {
		if strings.Contains(up, kw) {
			return CategoryService
		}
	}
	return CategoryArticle
}

// ArticleAllowedInHouse reports whether the text names an article the
// in-house supplier may sell.
func (r *Rules) ArticleAllowedInHouse(text string) bool {
	up := strings.ToUpper(text)
	for _, kw := range r.allowedArticles {
		if strings.Contains(up, kw) {
			return true
		}
	}
	return false
}

// Check applies the supplier rules to an item of a known category:
//   - in-house supplier: services always allowed, articles only from the
//     allow-list
//   - any other named supplier: articles always, services never
//   - blank supplier: everything allowed (legacy permissive mode)
func (r *Rules) Check(category Category, description, supplier string) Decision {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return Decision{Allowed: true}
	}

	if r.IsInHouse(supplier) {
		if category == CategoryService {
			return Decision{Allowed: true}
		}
		if r.ArticleAllowedInHouse(description) {
			return Decision{Allowed: true}
		}
		return Decision{
			Detail: fmt.Sprintf("supplier %s does not sell this article category: %s", supplier, description),
		}
	}

	if category == CategoryService {
		return Decision{
			Detail: fmt.Sprintf("supplier %s cannot provide services", supplier),
		}
	}
	return Decision{Allowed: true}
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return out
}

package match

// productNouns is the curated parts/services vocabulary. A description's
// dominant keyword is the first of its tokens found here, regardless of the
// adjectives, positions ("DELANTERO", "TRASERO") or noise around it.
var productNouns = map[string]bool{
	"ROTULA": true, "AMORTIGUADOR": true, "HORQUILLA": true, "BUJE": true,
	"RESORTE": true, "MUELLE": true, "MAZA": true, "BALERO": true,
	"BARRA": true, "GOMA": true,
	"TERMINAL": true, "BIELETA": true, "CREMALLERA": true, "VARILLA": true,
	"BALATA": true, "BALATAS": true, "DISCO": true, "TAMBOR": true,
	"CALIPER": true, "BOOSTER": true, "CHICOTE": true, "CILINDRO": true,
	"BUJIA": true, "BUJIAS": true, "BOBINA": true, "CABLE": true,
	"FILTRO": true, "BANDA": true, "CADENA": true, "TENSOR": true,
	"POLEA": true, "EMPAQUE": true, "JUNTA": true, "FLECHA": true,
	"SOPORTE": true, "BOMBA": true, "INYECTOR": true, "SENSOR": true,
	"TAPA": true, "TAPON": true, "ROTOR": true,
	"RADIADOR": true, "TERMOSTATO": true, "MANGUERA": true,
	"MOTOVENTILADOR": true, "DEPOSITO": true, "ANTICONGELANTE": true,
	"CLUTCH": true, "COLLARIN": true, "PLATO": true, "CRUCETA": true,
	"BATERIA": true, "ALTERNADOR": true, "MARCHA": true, "FUSIBLE": true,
	"RELEVADOR": true, "FOCO": true, "FARO": true, "CALAVERA": true,
	"LIMPIAPARABRISAS": true,
	"MOFLE":            true, "CATALITICO": true, "CONVERTIDOR": true,
	"LLANTA": true, "LLANTAS": true, "RIN": true, "RINES": true,
	"CAMARA": true, "VALVULA": true, "VALVULAS": true,
	"BIRLO": true, "BIRLOS": true, "TUERCA": true, "TUERCAS": true,
	"TORNILLO": true, "ABRAZADERA": true, "BRIDA": true, "BRIDAS": true,
	"ACEITE": true, "GRASA": true, "LIQUIDO": true, "AFLOJATODO": true,
	"SELLADOR": true, "LIMPIADOR": true,
	"ALINEACION": true, "BALANCEO": true, "AFINACION": true,
	"DIAGNOSTICO": true, "ESCANEO": true, "RECTIFICADO": true,
}

// stopWords are articles/prepositions skipped by the fallback rule.
var stopWords = map[string]bool{
	"DE": true, "DEL": true, "LA": true, "EL": true, "LO": true,
	"LOS": true, "LAS": true, "UN": true, "UNA": true, "UNOS": true,
	"CON": true, "SIN": true, "PARA": true, "POR": true, "EN": true,
	"Y": true, "O": true, "A": true, "AL": true,
}

// extractRule is one classification rule for the primary token. Rules are
// disjoint and evaluated top-down; the first hit wins.
type extractRule struct {
	name  string
	apply func(tokens []string) (string, bool)
}

var extractRules = []extractRule{
	{
		name: "product_noun",
		apply: func(tokens []string) (string, bool) {
			for _, t := range tokens {
				if productNouns[t] {
					return t, true
				}
			}
			return "", false
		},
	},
	{
		name: "first_significant",
		apply: func(tokens []string) (string, bool) {
			for _, t := range tokens {
				if len(t) > 2 && !stopWords[t] {
					return t, true
				}
			}
			return "", false
		},
	},
	{
		name: "first_token",
		apply: func(tokens []string) (string, bool) {
			return tokens[0], true
		},
	},
}

// PrimaryToken classifies a description's dominant keyword: the first
// product noun, else the first non-stop-word token longer than two runes,
// else the first token verbatim. Empty only for empty input.
func PrimaryToken(description string) string {
	tokens := Tokens(description)
	if len(tokens) == 0 {
		return ""
	}
	for _, rule := range extractRules {
		if tok, ok := rule.apply(tokens); ok {
			return tok
		}
	}
	return tokens[0]
}

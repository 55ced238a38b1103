package charclass

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Names of properties and property values match loosely.
//
// https://www.unicode.org/reports/tr44/#Matching_Symbolic
var symValReplacer = strings.NewReplacer("_", "", "-", "", "\x20", "")

func normalizeSymbolicValue(s string) string {
	v := strings.ToLower(symValReplacer.Replace(s))
	if strings.HasPrefix(v, "is") && v != "is" {
		return v[2:]
	}
	return v
}

// https://www.unicode.org/reports/tr44/#Property_Index
var propertyNameAbbs = map[string]string{
	"generalcategory": "gc",
	"gc":              "gc",
	"script":          "sc",
	"sc":              "sc",
	"alphabetic":      "alpha",
	"alpha":           "alpha",
	"lowercase":       "lower",
	"lower":           "lower",
	"uppercase":       "upper",
	"upper":           "upper",
	"whitespace":      "wspace",
	"wspace":          "wspace",
	"space":           "wspace",
}

// https://www.unicode.org/reports/tr44/#Binary_Values_Table
var binaryValues = map[string]bool{
	"yes":   true,
	"y":     true,
	"true":  true,
	"t":     true,
	"no":    false,
	"n":     false,
	"false": false,
	"f":     false,
}

// https://www.unicode.org/reports/tr44/#GC_Values_Table
var generalCategoryLongNames = map[string]string{
	"letter":               "L",
	"casedletter":          "LC",
	"uppercaseletter":      "Lu",
	"lowercaseletter":      "Ll",
	"titlecaseletter":      "Lt",
	"modifierletter":       "Lm",
	"otherletter":          "Lo",
	"mark":                 "M",
	"combiningmark":        "M",
	"nonspacingmark":       "Mn",
	"spacingmark":          "Mc",
	"enclosingmark":        "Me",
	"number":               "N",
	"decimalnumber":        "Nd",
	"digit":                "Nd",
	"letternumber":         "Nl",
	"othernumber":          "No",
	"punctuation":          "P",
	"punct":                "P",
	"connectorpunctuation": "Pc",
	"dashpunctuation":      "Pd",
	"openpunctuation":      "Ps",
	"closepunctuation":     "Pe",
	"initialpunctuation":   "Pi",
	"finalpunctuation":     "Pf",
	"otherpunctuation":     "Po",
	"symbol":               "S",
	"mathsymbol":           "Sm",
	"currencysymbol":       "Sc",
	"modifiersymbol":       "Sk",
	"othersymbol":          "So",
	"separator":            "Z",
	"spaceseparator":       "Zs",
	"lineseparator":        "Zl",
	"paragraphseparator":   "Zp",
	"other":                "C",
	"control":              "Cc",
	"cntrl":                "Cc",
	"format":               "Cf",
	"surrogate":            "Cs",
	"privateuse":           "Co",
}

// compositeGeneralCategories lists the categories the unicode package has no table for.
var compositeGeneralCategories = map[string][]*unicode.RangeTable{
	// Cased_Letter
	"lc": {unicode.Lu, unicode.Ll, unicode.Lt},
}

// derivedCoreProperties lists the derived properties the unicode package has no table for.
//
// https://www.unicode.org/Public/15.0.0/ucd/DerivedCoreProperties.txt
var derivedCoreProperties = map[string][]*unicode.RangeTable{
	"alpha": {
		unicode.Lu,
		unicode.Ll,
		unicode.Lt,
		unicode.Lm,
		unicode.Lo,
		unicode.Nl,
		unicode.Other_Alphabetic,
		unicode.Other_Lowercase,
		unicode.Other_Uppercase,
	},
	"lower": {
		unicode.Ll,
		unicode.Other_Lowercase,
	},
	"upper": {
		unicode.Lu,
		unicode.Other_Uppercase,
	},
	"wspace": {
		unicode.White_Space,
	},
}

func looseIndex(tabs map[string]*unicode.RangeTable) map[string]*unicode.RangeTable {
	idx := make(map[string]*unicode.RangeTable, len(tabs))
	for name, t := range tabs {
		idx[normalizeSymbolicValue(name)] = t
	}
	return idx
}

var (
	categoryIndex = looseIndex(unicode.Categories)
	scriptIndex   = looseIndex(unicode.Scripts)
	propertyIndex = looseIndex(unicode.Properties)
)

func generalCategory(val string) *unicode.RangeTable {
	v := normalizeSymbolicValue(val)
	if short, ok := generalCategoryLongNames[v]; ok {
		v = normalizeSymbolicValue(short)
	}
	if t, ok := categoryIndex[v]; ok {
		return t
	}
	if tabs, ok := compositeGeneralCategories[v]; ok {
		return rangetable.Merge(tabs...)
	}
	return nil
}

func script(val string) *unicode.RangeTable {
	return scriptIndex[normalizeSymbolicValue(val)]
}

func binaryProperty(name string) *unicode.RangeTable {
	n := normalizeSymbolicValue(name)
	if abb, ok := propertyNameAbbs[n]; ok {
		if tabs, ok := derivedCoreProperties[abb]; ok {
			return rangetable.Merge(tabs...)
		}
	}
	return propertyIndex[n]
}

// lookupProperty resolves the body of `\p{...}`. The body is either a general category, a
// script or a binary property, or a `name=value` pair of one of them.
func lookupProperty(body string) (*unicode.RangeTable, error) {
	name, val, hasVal := strings.Cut(body, "=")
	if !hasVal {
		if t := generalCategory(name); t != nil {
			return t, nil
		}
		if t := script(name); t != nil {
			return t, nil
		}
		if t := binaryProperty(name); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("unknown category, script or property: %v", name)
	}

	switch propertyNameAbbs[normalizeSymbolicValue(name)] {
	case "gc":
		if t := generalCategory(val); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("unknown general category: %v", val)
	case "sc":
		if t := script(val); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("unknown script: %v", val)
	}

	t := binaryProperty(name)
	if t == nil {
		return nil, fmt.Errorf("unknown property: %v", name)
	}
	yes, ok := binaryValues[normalizeSymbolicValue(val)]
	if !ok {
		return nil, fmt.Errorf("binary property %v takes yes or no: %v", name, val)
	}
	if !yes {
		return complement(t), nil
	}
	return t, nil
}

func complement(t *unicode.RangeTable) *unicode.RangeTable {
	c := &Class{
		table: t,
	}
	return c.Negate().table
}

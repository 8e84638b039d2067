package transaction

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type is the income/expense classification of a transaction
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// IsValid reports whether t is one of the two known types
func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// synonyms maps every type tag a backend has been seen to send, case-folded.
var synonyms = map[string]Type{
	"income":  TypeIncome,
	"gelir":   TypeIncome,
	"revenue": TypeIncome,

	"expense": TypeExpense,
	"gider":   TypeExpense,
	"outcome": TypeExpense,
	"harcama": TypeExpense,
}

// NormalizeType maps a backend type tag to a Type. Unknown tags default to
// TypeExpense with ok=false so the caller can log them.
//
// Tags are tried case-folded first and then with Turkish lowering, which
// maps dotted İ to i ("GİDER" -> "gider") where plain folding does not.
func NormalizeType(tag string) (Type, bool) {
	tag = strings.TrimSpace(tag)
	for _, c := range []cases.Caser{cases.Fold(), cases.Lower(language.Turkish)} {
		if t, ok := synonyms[c.String(tag)]; ok {
			return t, true
		}
	}
	return TypeExpense, false
}

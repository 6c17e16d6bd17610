package bizcard

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Labels shown when no company name is known.
const (
	DefaultCompanyMain = "ONEX"
	DefaultCompanySub  = "PROPERTIES"
)

// CompanyNameParts is the two-line company label printed on the front face.
type CompanyNameParts struct {
	Main string
	Sub  string
}

// SplitCompanyName upper-cases name and splits it on single spaces. The first
// token becomes Main and the rest, rejoined with one space, becomes Sub. A
// single token keeps [DefaultCompanySub] as Sub and an empty name yields the
// default pair.
//
// Runs of spaces are not collapsed: "A  B" gives Main "A" and Sub " B".
func SplitCompanyName(name string) CompanyNameParts {
	if name == "" {
		return CompanyNameParts{Main: DefaultCompanyMain, Sub: DefaultCompanySub}
	}
	tokens := strings.Split(cases.Upper(language.Und).String(name), " ")
	if len(tokens) > 1 {
		return CompanyNameParts{Main: tokens[0], Sub: strings.Join(tokens[1:], " ")}
	}
	return CompanyNameParts{Main: tokens[0], Sub: DefaultCompanySub}
}

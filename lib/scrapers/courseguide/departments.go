package courseguide

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// the two catalog types the course guide serves
const (
	CatalogUndergrad = "ug"
	CatalogGraduate  = "gr"
)

var CatalogTypes = []string{CatalogUndergrad, CatalogGraduate}

// DepartmentSet holds the department codes discovered per catalog
// type, sorted and deduplicated.
type DepartmentSet struct {
	Undergrad []string
	Graduate  []string
}

func (d DepartmentSet) ForCatalog(cgtype string) []string {
	if cgtype == CatalogGraduate {
		return d.Graduate
	}
	return d.Undergrad
}

func (d DepartmentSet) Len() int {
	return len(d.Undergrad) + len(d.Graduate)
}

func (c *Client) subjectListUrl(cgtype string) string {
	return fmt.Sprintf(
		"/cg/cg_subjectlist.aspx?termArray=%s&cgtype=%s&allsections=true",
		c.Term, cgtype,
	)
}

// ListDepartments fetches the undergraduate and graduate subject
// listings for the configured term and extracts the department codes.
func (c *Client) ListDepartments(ctx context.Context) (DepartmentSet, error) {
	ctx, span := tracer.Start(ctx, "ListDepartments")
	defer span.End()

	var out DepartmentSet
	for _, cgtype := range CatalogTypes {
		doc, err := c.fetchDocument(ctx, c.subjectListUrl(cgtype))
		if err != nil {
			return DepartmentSet{}, fmt.Errorf("list %s departments: %w", cgtype, err)
		}
		deps, err := parseDepartments(doc)
		if err != nil {
			return DepartmentSet{}, fmt.Errorf("list %s departments: %w", cgtype, err)
		}
		if cgtype == CatalogGraduate {
			out.Graduate = deps
		} else {
			out.Undergrad = deps
		}
	}
	return out, nil
}

func parseDepartments(doc *goquery.Document) ([]string, error) {
	table := doc.Find(".table.table-striped.table-condensed").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("subject table not found")
	}

	seen := map[string]bool{}
	table.Find("tr > td:nth-child(1)").Each(func(_ int, cell *goquery.Selection) {
		code := strings.TrimSpace(cell.Text())
		if code != "" {
			seen[code] = true
		}
	})

	deps := make([]string, 0, len(seen))
	for code := range seen {
		deps = append(deps, code)
	}
	slices.Sort(deps)
	return deps, nil
}

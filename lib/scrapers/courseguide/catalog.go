package courseguide

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"magnify-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// one course listing row from a department results page
type CatalogRow struct {
	Dept       string
	Number     string
	Name       string
	Section    string
	Term       string
	Credits    string
	Mode       string
	Instructor string
	// detail page link, relative to the guide's /cg/ directory
	Url string
}

// Key is the canonical course identifier, e.g. "EECS 280". Multiple
// sections of one course share a key.
func (r CatalogRow) Key() string {
	return r.Dept + " " + r.Number
}

func (c *Client) resultsUrl(cgtype, dept string) string {
	return fmt.Sprintf(
		"/cg/cg_results.aspx?termArray=%s&cgtype=%s&department=%s&allsections=true&show=40",
		c.Term, cgtype, dept,
	)
}

// IndexCourses walks every department's paginated results listing and
// builds the course key -> detail page URL mapping for the crawl.
// When several rows share a key the last row's URL wins: detail pages
// are per course, not per section, so any of them resolves to the
// same page. A department with zero results simply contributes
// nothing.
func (c *Client) IndexCourses(ctx context.Context, deps DepartmentSet) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "IndexCourses")
	defer span.End()

	index := map[string]string{}
	for _, cgtype := range CatalogTypes {
		for _, dept := range deps.ForCatalog(cgtype) {
			rows, err := c.listDepartmentCourses(ctx, cgtype, dept)
			if err != nil {
				return nil, fmt.Errorf("index %s %s: %w", cgtype, dept, err)
			}
			for _, row := range rows {
				link, err := c.resolve(row.Url)
				if err != nil {
					slog.WarnContext(ctx, "skipping row with bad detail link", "course", row.Key(), "href", row.Url, "err", err)
					continue
				}
				if prev, ok := index[row.Key()]; ok && prev != link {
					slog.DebugContext(ctx, "course key collision, keeping last url", "course", row.Key())
				}
				index[row.Key()] = link
			}
		}
	}
	return index, nil
}

func (c *Client) listDepartmentCourses(ctx context.Context, cgtype, dept string) ([]CatalogRow, error) {
	slog.InfoContext(ctx, "indexing department", "catalog", cgtype, "department", dept)

	doc, err := c.fetchDocument(ctx, c.resultsUrl(cgtype, dept))
	if err != nil {
		return nil, err
	}

	var rows []CatalogRow
	collect := func(doc *goquery.Document) {
		doc.Find(".row.result, .row.resultalt").Each(func(_ int, sel *goquery.Selection) {
			row, err := parseCatalogRow(sel)
			if err != nil {
				slog.WarnContext(ctx, "skipping malformed result row", "department", dept, "err", err)
				return
			}
			rows = append(rows, row)
		})
	}
	collect(doc)

	// follow the "next page" link while the listing has one
	for {
		href, ok := doc.Find("#contentMain_hlnkNextBtm").First().Attr("href")
		if !ok {
			break
		}
		slog.DebugContext(ctx, "getting next page", "department", dept)
		link, err := c.resolve(href)
		if err != nil {
			return nil, err
		}
		doc, err = c.fetchDocument(ctx, link)
		if err != nil {
			return nil, err
		}
		collect(doc)
	}

	return rows, nil
}

func parseCatalogRow(sel *goquery.Selection) (CatalogRow, error) {
	title := sel.Find("font").First()
	if title.Length() == 0 {
		return CatalogRow{}, fmt.Errorf("missing title block")
	}

	var parts []string
	for _, p := range strings.Split(strings.TrimSpace(title.Text()), "\r\n") {
		parts = append(parts, strings.TrimSpace(p))
	}
	if len(parts) < 4 {
		return CatalogRow{}, fmt.Errorf("short title block: %q", title.Text())
	}

	details := sel.Find(".bottompadding_main").First().ChildrenFiltered("div")
	if details.Length() < 5 {
		return CatalogRow{}, fmt.Errorf("detail block has %d cells", details.Length())
	}
	cells := make([]string, 0, details.Length())
	details.Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})

	href, ok := sel.Find("a").First().Attr("href")
	if !ok {
		return CatalogRow{}, fmt.Errorf("missing detail link")
	}

	return CatalogRow{
		Dept:       parts[0],
		Number:     parts[1],
		Name:       strings.Join(parts[3:], " "),
		Section:    textutil.CollapseWhitespace(cells[0]),
		Term:       dropFirstField(cells[1]),
		Credits:    lastField(cells[2]),
		Mode:       lastField(cells[3]),
		Instructor: dropFirstField(cells[4]),
		Url:        href,
	}, nil
}

// the detail cells carry a label prefix ("Instructor: some name"),
// these strip the label side
func dropFirstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Package scrape fetches and parses An Bord Pleanála case-listing pages.
package scrape

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/dublin-research/dublin-geo/internal/model"
)

// ParseCases extracts planning cases from one case-listing page. Each case
// is a div.cell card; cards without a link element are ignored.
func ParseCases(r io.Reader) ([]model.PlanningCase, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse html")
	}

	var cases []model.PlanningCase
	doc.Find("div.cell").Each(func(_ int, cell *goquery.Selection) {
		if cell.Find("a.card-item").Length() == 0 {
			return
		}

		c := model.PlanningCase{
			Type:  strings.TrimSpace(cell.Find("span.meta").First().Text()),
			Title: strings.TrimSpace(cell.Find("span.title").First().Text()),
		}

		cell.Find("span.details").Each(func(_ int, span *goquery.Selection) {
			text := strings.TrimSpace(span.Text())
			switch {
			case strings.Contains(text, "Case reference:"):
				c.Reference = after(text, "Case reference:")
			case strings.Contains(text, "Status:"):
				c.Status = after(text, "Status:")
			case strings.Contains(text, "Description:"):
				c.Description = after(text, "Description:")
			case strings.Contains(text, "Date lodged:"):
				// "Date lodged: <d>; Signed: <d>" carries both dates.
				parts := strings.Split(text, ";")
				c.DateLodged = after(parts[0], "Date lodged:")
				if len(parts) >= 2 {
					c.DateSigned = after(parts[1], "Signed:")
				}
			case strings.Contains(text, "EIAR:"):
				c.EIAR = after(text, "EIAR:")
			case strings.Contains(text, "NIS:"):
				c.NIS = after(text, "NIS:")
			}
		})

		var parties []string
		cell.Find("div.details ul li").Each(func(_ int, li *goquery.Selection) {
			party := strings.Join(strings.Fields(li.Text()), " ")
			if party != "" {
				parties = append(parties, party)
			}
		})
		c.Parties = strings.Join(parties, "; ")

		cases = append(cases, c)
	})

	return cases, nil
}

// Dedupe drops cases whose reference was already seen, keeping first
// occurrences in order. Cases with an empty reference are all kept.
func Dedupe(cases []model.PlanningCase) []model.PlanningCase {
	seen := make(map[string]bool, len(cases))
	out := make([]model.PlanningCase, 0, len(cases))
	for _, c := range cases {
		if c.Reference != "" {
			if seen[c.Reference] {
				continue
			}
			seen[c.Reference] = true
		}
		out = append(out, c)
	}
	return out
}

func after(text, marker string) string {
	_, rest, found := strings.Cut(text, marker)
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

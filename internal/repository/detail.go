// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/internal/metrics"
	"github.com/pdiddy/refmat-engine/pkg/types"
)

// analyteTableSelector matches the certified-value tables on a material
// detail page. The analyte data is in the second matching table; older
// pages publish only one, which is then used as the fallback.
const analyteTableSelector = "table.certified-values"

// analyteColumns is the fixed column order of a data row.
const analyteColumns = 6

// FetchDetail retrieves and parses the detail page for a material. A page
// without an analyte table is a valid "no analyte data published" state and
// returns a detail with an empty analyte list.
func (c *Client) FetchDetail(ctx context.Context, summary types.MaterialSummary) (types.MaterialDetail, error) {
	reqURL := repoAPIBase + "/materials/" + url.PathEscape(detailPath(summary.ID))

	start := time.Now()
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		metrics.ObserveRequest("repository", "fetch_detail", time.Since(start).Seconds(), true)
		return types.MaterialDetail{}, fmt.Errorf("repository detail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveRequest("repository", "fetch_detail", time.Since(start).Seconds(), true)
		return types.MaterialDetail{}, fmt.Errorf("repository detail returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		metrics.ObserveRequest("repository", "fetch_detail", time.Since(start).Seconds(), true)
		return types.MaterialDetail{}, fmt.Errorf("parsing repository detail page: %w", err)
	}
	metrics.ObserveRequest("repository", "fetch_detail", time.Since(start).Seconds(), false)

	detail := types.MaterialDetail{
		Title:           firstText(doc, "h1.material-title", "h1"),
		AbstractText:    firstText(doc, "div.abstract"),
		MaterialType:    firstText(doc, "span.material-type"),
		DOI:             firstText(doc, "a.doi"),
		PublicationDate: firstText(doc, "time.published"),
	}
	if detail.Title == "" {
		detail.Title = summary.SearchableName
	}
	if detail.AbstractText == "" {
		detail.AbstractText = summary.AbstractText
	}

	detail.Analytes = parseAnalyteTable(doc)
	if len(detail.Analytes) == 0 {
		c.Logger.Debug("no analyte table on detail page",
			zap.String("material_id", summary.ID))
	}
	return detail, nil
}

// parseAnalyteTable extracts analytes from the detail document. The second
// table matching the structural selector carries the analyte data; when
// only one matches, that one is used. No matching table means no analyte
// data was published.
func parseAnalyteTable(doc *goquery.Document) []types.Analyte {
	tables := doc.Find(analyteTableSelector)
	var table *goquery.Selection
	switch {
	case tables.Length() >= 2:
		table = tables.Eq(1)
	case tables.Length() == 1:
		table = tables.Eq(0)
	default:
		return nil
	}

	var analytes []types.Analyte
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < analyteColumns {
			return // header or malformed row
		}
		col := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }
		a := types.Analyte{
			Name:        col(0),
			Quantity:    col(1),
			Value:       col(2),
			Uncertainty: col(3),
			Unit:        col(4),
			Category:    col(5),
		}
		if a.Name == "" {
			return
		}
		analytes = append(analytes, a)
	})
	return analytes
}

// firstText returns the trimmed text of the first selector that matches.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if s := strings.TrimSpace(doc.Find(sel).First().Text()); s != "" {
			return s
		}
	}
	return ""
}

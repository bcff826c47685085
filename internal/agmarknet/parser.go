package agmarknet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseTable extracts the price records from an Agmarknet search results
// page. Returns an empty list when the results table is missing or only
// holds the header row.
func ParseTable(html string) ([]map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse agmarknet page: %w", err)
	}

	rows := doc.Find("table#cphBody_GridPriceData tr")
	if rows.Length() < 2 {
		return []map[string]string{}, nil
	}

	var headers []string
	rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		h := strings.TrimSpace(cell.Text())
		h = strings.NewReplacer(" ", "_", "(", "", ")", "").Replace(h)
		headers = append(headers, h)
	})

	records := make([]map[string]string, 0, rows.Length()-1)
	rows.Slice(1, rows.Length()).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		if strings.Contains(row.Text(), "No Data Found") {
			return
		}
		record := make(map[string]string, cells.Length()+1)
		cells.Each(func(j int, cell *goquery.Selection) {
			key := "col" + strconv.Itoa(j)
			if j < len(headers) {
				key = headers[j]
			}
			record[key] = strings.TrimSpace(cell.Text())
		})
		record["Sl_No"] = strconv.Itoa(i + 1)
		records = append(records, record)
	})
	return records, nil
}

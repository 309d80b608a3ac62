package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/domain"
)

type ProductWriter interface {
	UpsertProduct(ctx context.Context, p domain.Product, categoryKey string) (*domain.Product, error)
}

// CSVImporter reads menu CSV files. Rows with an empty key add modifier
// options to the product above them.
type CSVImporter struct {
	reader       *csv.Reader
	products     ProductWriter
	restaurantID string
}

func NewCSVImporter(r io.Reader, products ProductWriter, restaurantID string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:       csvr,
		products:     products,
		restaurantID: restaurantID,
	}
}

type csvRow struct {
	line      int
	Key       string
	Name      string
	Desc      string
	Category  string
	Price     string
	Available string
	group     groupCell
}

type groupCell struct {
	Name        string
	Mode        string
	Required    string
	Min         string
	Max         string
	OptionID    string
	OptionName  string
	OptionPrice string
}

type pending struct {
	row    *csvRow
	groups []domain.ModifierGroup
}

// Run parses CSV rows and upserts products grouped by product key.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["key"]; !ok {
		return 0, fmt.Errorf("read headers: missing key column")
	}

	var (
		current  *pending
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		row := parseRow(record, index, line)
		if row == nil {
			continue
		}

		if row.Key != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = &pending{row: row}
		} else if current == nil {
			return imported, fmt.Errorf("line %d: modifier row before any product", line)
		}

		if row.group.Name != "" {
			if err := current.addOption(row); err != nil {
				return imported, err
			}
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (p *pending) addOption(row *csvRow) error {
	cell := row.group
	pos := -1
	for idx, g := range p.groups {
		if g.Name == cell.Name {
			pos = idx
			break
		}
	}
	if pos < 0 {
		g := domain.ModifierGroup{Name: cell.Name, SelectionMode: domain.SelectionSingle, Position: len(p.groups)}
		if cell.Mode != "" {
			g.SelectionMode = domain.SelectionMode(strings.ToLower(cell.Mode))
		}
		var err error
		if g.Required, err = parseBool(cell.Required, false); err != nil {
			return fmt.Errorf("line %d: required: %w", row.line, err)
		}
		if g.MinSelect, err = parseInt(cell.Min); err != nil {
			return fmt.Errorf("line %d: min: %w", row.line, err)
		}
		if g.MaxSelect, err = parseInt(cell.Max); err != nil {
			return fmt.Errorf("line %d: max: %w", row.line, err)
		}
		p.groups = append(p.groups, g)
		pos = len(p.groups) - 1
	}

	if cell.OptionName == "" {
		return nil
	}
	price, err := parsePrice(cell.OptionPrice)
	if err != nil {
		return fmt.Errorf("line %d: option price: %w", row.line, err)
	}
	id := cell.OptionID
	if id == "" {
		id = slug(cell.OptionName)
	}
	p.groups[pos].Options = append(p.groups[pos].Options, domain.ModifierOption{
		ID:        id,
		Name:      cell.OptionName,
		Price:     price,
		Available: true,
	})
	return nil
}

func (i *CSVImporter) save(ctx context.Context, p *pending) error {
	row := p.row
	if row.Name == "" || row.Price == "" {
		return fmt.Errorf("invalid product row (missing required fields) for key %q", row.Key)
	}
	price, err := parsePrice(row.Price)
	if err != nil {
		return fmt.Errorf("invalid price for key %q: %w", row.Key, err)
	}
	available, err := parseBool(row.Available, true)
	if err != nil {
		return fmt.Errorf("invalid available flag for key %q: %w", row.Key, err)
	}

	product := domain.Product{
		RestaurantID:   i.restaurantID,
		Key:            row.Key,
		Name:           row.Name,
		Description:    row.Desc,
		Price:          price,
		Available:      available,
		ModifierGroups: p.groups,
	}
	if _, err := i.products.UpsertProduct(ctx, product, row.Category); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Key, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) *csvRow {
	row := &csvRow{
		line:      line,
		Key:       pick(record, index, "key"),
		Name:      pick(record, index, "name"),
		Desc:      pick(record, index, "description"),
		Category:  pick(record, index, "category"),
		Price:     pick(record, index, "price"),
		Available: pick(record, index, "available"),
		group: groupCell{
			Name:        pick(record, index, "modifier.group"),
			Mode:        pick(record, index, "modifier.mode"),
			Required:    pick(record, index, "modifier.required"),
			Min:         pick(record, index, "modifier.min"),
			Max:         pick(record, index, "modifier.max"),
			OptionID:    pick(record, index, "modifier.option.id"),
			OptionName:  pick(record, index, "modifier.option.name"),
			OptionPrice: pick(record, index, "modifier.option.price"),
		},
	}
	if row.Key == "" && row.group.Name == "" {
		return nil
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

// parsePrice accepts non-negative amounts with at most two decimal places.
func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%s is negative", s)
	}
	if !d.Equal(d.Round(2)) {
		return 0, fmt.Errorf("%s has more than two decimal places", s)
	}
	f, _ := d.Float64()
	return f, nil
}

func parseBool(s string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseBool(s)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"hobbyshop/internal/domain/catalogs/item"
)

// BulkLoader inserts items through the COPY protocol.
// Much faster than row-by-row INSERT for seeding large catalogs.
type BulkLoader struct {
	txManager *TxManager
	table     string
	columns   []string
}

// NewBulkLoader creates a loader for the items table.
func NewBulkLoader(txManager *TxManager) *BulkLoader {
	return &BulkLoader{
		txManager: txManager,
		table:     "items",
		columns:   copyColumns(),
	}
}

// copyColumns lists every item column except the generated id.
func copyColumns() []string {
	all := ExtractDBColumns[item.Item]()
	cols := make([]string, 0, len(all))
	for _, c := range all {
		if c != "id" {
			cols = append(cols, c)
		}
	}
	return cols
}

// CopyItems writes items in one COPY. Must be called within a transaction.
// Assigned IDs are not read back.
func (b *BulkLoader) CopyItems(ctx context.Context, items []*item.Item) (int64, error) {
	tx := b.txManager.GetTx(ctx)
	if tx == nil {
		return 0, fmt.Errorf("CopyItems must be called within a transaction")
	}

	rows := make([][]any, 0, len(items))
	for _, it := range items {
		row, err := copyRow(it, b.columns)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	count, err := tx.CopyFrom(ctx, pgx.Identifier{b.table}, b.columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, Classify("copy items", err)
	}
	return count, nil
}

// copyRow orders the item's values by columns. COPY encodes in binary,
// so prices go through pgtype.Numeric.
func copyRow(it *item.Item, columns []string) ([]any, error) {
	values := StructToMap(it)
	row := make([]any, len(columns))
	for i, col := range columns {
		v, ok := values[col]
		if !ok {
			return nil, fmt.Errorf("item has no column %q", col)
		}
		if d, isDecimal := v.(*decimal.Decimal); isDecimal {
			n, err := toNumeric(d)
			if err != nil {
				return nil, err
			}
			v = n
		}
		row[i] = v
	}
	return row, nil
}

func toNumeric(d *decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if d == nil {
		return n, nil
	}
	if err := n.Scan(d.String()); err != nil {
		return n, fmt.Errorf("convert price %s: %w", d.String(), err)
	}
	return n, nil
}

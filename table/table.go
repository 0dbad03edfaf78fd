// Package table reads tabular views. A Table is addressed by row and column through a
// pluggable CellLocator, so html tables and grid widgets share one implementation.
package table

import (
	"context"
	"fmt"

	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/darcyk/by"
	"gitlab.com/darcyk/selection"
)

// CellLocator addresses a table's parts. Rows and columns are numbered from 1.
type CellLocator interface {
	Table() darcyk.Locator
	Rows() darcyk.Locator
	Header(col int) darcyk.Locator
	Cell(row, col int) darcyk.Locator
}

// HTMLCells locates cells of a plain <table> with thead and tbody
type HTMLCells struct {
	table darcyk.Locator
}

// NewHTMLCells for the table found by loc
func NewHTMLCells(loc darcyk.Locator) HTMLCells {
	return HTMLCells{table: loc}
}

func (h HTMLCells) Table() darcyk.Locator {
	return h.table
}

func (h HTMLCells) Rows() darcyk.Locator {
	return by.Nested(h.table, by.CSS("tbody > tr"))
}

func (h HTMLCells) Header(col int) darcyk.Locator {
	return by.Nested(h.table, by.CSS(fmt.Sprintf("thead > tr > th:nth-child(%d)", col)))
}

func (h HTMLCells) Cell(row, col int) darcyk.Locator {
	return by.Nested(h.table, by.CSS(fmt.Sprintf("tbody > tr:nth-child(%d) > td:nth-child(%d)", row, col)))
}

// Table is a view over a CellLocator
type Table struct {
	ctx   darcyk.Context
	cells CellLocator
	name  string
}

// New table bound to ctx
func New(name string, ctx darcyk.Context, cells CellLocator) *Table {
	return &Table{name: name, ctx: ctx, cells: cells}
}

func (t *Table) find() *selection.Selection {
	return selection.Find(t.ctx)
}

// SetContext rebinds the table when it is entered by navigation
func (t *Table) SetContext(ctx darcyk.Context) {
	t.ctx = ctx
}

// IsLoaded when the table element is displayed
func (t *Table) IsLoaded(ctx context.Context) (bool, error) {
	return t.find().Element(t.cells.Table()).IsDisplayed()
}

// RowCount of the current page
func (t *Table) RowCount() (int, error) {
	rows, err := t.find().Elements(t.cells.Rows())
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Header element of col
func (t *Table) Header(col int) (*selection.Element, error) {
	if col < 1 {
		return nil, &darcyk.IndexErr{Message: fmt.Sprintf("column %d of %s", col, t.name)}
	}
	return t.find().Element(t.cells.Header(col)), nil
}

// Cell at row, col. The row is checked against the current row count.
func (t *Table) Cell(row, col int) (*selection.Element, error) {
	if col < 1 {
		return nil, &darcyk.IndexErr{Message: fmt.Sprintf("column %d of %s", col, t.name)}
	}
	count, err := t.RowCount()
	if err != nil {
		return nil, err
	}
	if row < 1 || row > count {
		return nil, &darcyk.IndexErr{Message: fmt.Sprintf("row %d of %s with %d rows", row, t.name, count)}
	}
	return t.find().Element(t.cells.Cell(row, col)), nil
}

func (t *Table) String() string {
	return t.name
}

// Column reads typed values from one column
type Column[T any] struct {
	Name  string
	Index int
	Read  func(cell *selection.Element) (T, error)
}

// TextColumn reads cell text
func TextColumn(name string, index int) Column[string] {
	return Column[string]{Name: name, Index: index, Read: func(cell *selection.Element) (string, error) {
		return cell.Text()
	}}
}

// LinkColumn reads the first link in each cell
func LinkColumn(name string, index int) Column[*selection.Link] {
	return Column[*selection.Link]{Name: name, Index: index, Read: func(cell *selection.Element) (*selection.Link, error) {
		return cell.Find().Link(by.HTMLTag("a")), nil
	}}
}

// Value of this column in row
func (c Column[T]) Value(t *Table, row int) (T, error) {
	var zero T
	cell, err := t.Cell(row, c.Index)
	if err != nil {
		return zero, err
	}
	return c.Read(cell)
}

// Values of this column for every row on the current page
func (c Column[T]) Values(t *Table) ([]T, error) {
	count, err := t.RowCount()
	if err != nil {
		return nil, err
	}
	values := make([]T, 0, count)
	for row := 1; row <= count; row++ {
		v, err := c.Read(t.find().Element(t.cells.Cell(row, c.Index)))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

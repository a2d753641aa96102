package memdb

import (
	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/hashicorp/go-memdb"
)

const (
	tableProducts     = "products"
	tableCustomers    = "customers"
	tableTransactions = "transactions"
	tableMovements    = "movements"
)

// Every row carries Seq so iteration over the "seq" index gives insertion
// order. go-memdb rows are shared with readers and must never be mutated
// after insert.
type productRow struct {
	Seq uint64
	model.Product
}

type customerRow struct {
	Seq uint64
	model.Customer
}

type transactionRow struct {
	Seq        uint64
	ID         string
	CustomerID string
	Txn        model.Transaction
}

type movementRow struct {
	Seq uint64
	model.InventoryMovement
}

func idIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    "id",
		Unique:  true,
		Indexer: &memdb.StringFieldIndex{Field: "ID"},
	}
}

func seqIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{
		Name:    "seq",
		Unique:  true,
		Indexer: &memdb.UintFieldIndex{Field: "Seq"},
	}
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					"id":  idIndex(),
					"seq": seqIndex(),
				},
			},
			tableCustomers: {
				Name: tableCustomers,
				Indexes: map[string]*memdb.IndexSchema{
					"id":  idIndex(),
					"seq": seqIndex(),
				},
			},
			tableTransactions: {
				Name: tableTransactions,
				Indexes: map[string]*memdb.IndexSchema{
					"id":  idIndex(),
					"seq": seqIndex(),
					"customer": {
						Name:         "customer",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "CustomerID"},
					},
				},
			},
			tableMovements: {
				Name: tableMovements,
				Indexes: map[string]*memdb.IndexSchema{
					"id":  idIndex(),
					"seq": seqIndex(),
					"product": {
						Name:    "product",
						Indexer: &memdb.StringFieldIndex{Field: "ProductID"},
					},
				},
			},
		},
	}
}

func cloneCustomer(c model.Customer) model.Customer {
	if c.Vehicles != nil {
		c.Vehicles = append(model.Vehicles(nil), c.Vehicles...)
	}
	return c
}

func cloneTransaction(t model.Transaction) model.Transaction {
	if t.Items != nil {
		t.Items = append(model.LineItems(nil), t.Items...)
	}
	return t
}

func newTransactionRow(seq uint64, t model.Transaction) *transactionRow {
	row := &transactionRow{Seq: seq, ID: t.ID, Txn: cloneTransaction(t)}
	if t.CustomerID != nil {
		row.CustomerID = *t.CustomerID
	}
	return row
}

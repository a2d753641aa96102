package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	name := "Budi Santoso"
	txn := &model.Transaction{
		ID:           "abc123",
		Date:         time.Date(2023, 12, 1, 3, 30, 0, 0, time.UTC),
		CustomerName: &name,
		Items: model.LineItems{
			{ID: "1", Name: "Engine Oil (1L)", Price: 85000, Quantity: 4},
			{ID: "2", Name: "Oil Filter", Price: 45000, Quantity: 1},
		},
		Subtotal: 385000,
		Tax:      38500,
		Total:    423500,
	}
	wib := time.FixedZone("WIB", 7*3600)

	out := Render(txn, Shop{Name: "Bengkel Maju", Location: wib})

	assert.Contains(t, out, "Bengkel Maju")
	assert.Contains(t, out, "Jl. Workshop No. 123")
	assert.Contains(t, out, "Receipt #abc123")
	assert.Contains(t, out, "Date: 01 Dec 2023 10:30")
	assert.Contains(t, out, "Customer: Budi Santoso")
	assert.Contains(t, out, "Rp 340.000")
	assert.Contains(t, out, "Rp 423.500")

	lines := strings.Split(out, "\n")
	var oilLine string
	for _, l := range lines {
		if strings.Contains(l, "Engine Oil") {
			oilLine = l
		}
	}
	assert.Contains(t, oilLine, "Rp 85.000")
	assert.Contains(t, oilLine, " 4 ")
}

func TestRenderWalkIn(t *testing.T) {
	out := Render(&model.Transaction{ID: "x", Date: time.Now()}, Shop{})
	assert.Contains(t, out, "Customer: Walk-in Customer")
	assert.Contains(t, out, "Bengkel POS")
	assert.Contains(t, out, "Total:")
}

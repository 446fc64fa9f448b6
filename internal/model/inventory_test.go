package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name    string
		current int
		minimum int
		want    StockStatus
	}{
		{"zero stock", 0, 10, StockStatusOut},
		{"negative stock", -1, 10, StockStatusOut},
		{"at half of minimum", 5, 10, StockStatusCritical},
		{"below half of minimum", 3, 10, StockStatusCritical},
		{"just above half of minimum", 6, 10, StockStatusLow},
		{"exactly at minimum", 10, 10, StockStatusLow},
		{"above minimum", 11, 10, StockStatusInStock},
		{"zero minimum with stock", 5, 0, StockStatusInStock},
		{"zero minimum zero stock", 0, 0, StockStatusOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{CurrentStock: tt.current, MinimumStock: tt.minimum}
			assert.Equal(t, tt.want, item.StockStatus())
		})
	}
}

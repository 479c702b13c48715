package orders

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/money"
)

func strPtr(s string) *string { return &s }

func moneyPtr(raw string) *money.Money {
	m := money.MustParse(raw)
	return &m
}

func TestConsolidateItems_MergesDuplicates(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()

	merged, err := consolidateItems([]ItemRequest{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
		{ProductID: p1, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("consolidateItems returned error: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged lines, got %d", len(merged))
	}
	if merged[0].ProductID != p1 || merged[0].Quantity != 5 {
		t.Fatalf("expected first line product %s qty 5, got %s qty %d", p1, merged[0].ProductID, merged[0].Quantity)
	}
	if merged[1].ProductID != p2 || merged[1].Quantity != 1 {
		t.Fatalf("expected second line product %s qty 1, got %s qty %d", p2, merged[1].ProductID, merged[1].Quantity)
	}
}

func TestConsolidateItems_PreservesFirstSeenOrder(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	p3 := uuid.New()

	merged, err := consolidateItems([]ItemRequest{
		{ProductID: p2, Quantity: 1},
		{ProductID: p3, Quantity: 1},
		{ProductID: p1, Quantity: 1},
		{ProductID: p2, Quantity: 4},
	})
	if err != nil {
		t.Fatalf("consolidateItems returned error: %v", err)
	}
	want := []uuid.UUID{p2, p3, p1}
	for i, id := range want {
		if merged[i].ProductID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, merged[i].ProductID)
		}
	}
	if merged[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", merged[0].Quantity)
	}
}

func TestConsolidateItems_NotesAndPricePolicy(t *testing.T) {
	p1 := uuid.New()

	merged, err := consolidateItems([]ItemRequest{
		{ProductID: p1, Quantity: 1, Notes: strPtr("front print"), UnitPrice: moneyPtr("9.00")},
		{ProductID: p1, Quantity: 1, Notes: strPtr("   ")},
		{ProductID: p1, Quantity: 1, Notes: strPtr("back print")},
	})
	if err != nil {
		t.Fatalf("consolidateItems returned error: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(merged))
	}
	if merged[0].Notes == nil || *merged[0].Notes != "back print" {
		t.Fatalf("expected later non-blank note to win, got %v", merged[0].Notes)
	}
	if merged[0].UnitPrice == nil || !merged[0].UnitPrice.Equal(money.MustParse("9.00")) {
		t.Fatalf("expected earlier price override to survive, got %v", merged[0].UnitPrice)
	}
}

func TestConsolidateItems_LaterPriceOverrideWins(t *testing.T) {
	p1 := uuid.New()

	merged, err := consolidateItems([]ItemRequest{
		{ProductID: p1, Quantity: 1, UnitPrice: moneyPtr("9.00")},
		{ProductID: p1, Quantity: 1, UnitPrice: moneyPtr("7.50")},
	})
	if err != nil {
		t.Fatalf("consolidateItems returned error: %v", err)
	}
	if !merged[0].UnitPrice.Equal(money.MustParse("7.50")) {
		t.Fatalf("expected 7.50, got %s", merged[0].UnitPrice)
	}
}

func TestConsolidateItems_EmptyList(t *testing.T) {
	_, err := consolidateItems(nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict for empty item list, got %v", err)
	}
}

func TestConsolidateItems_RejectsBadQuantity(t *testing.T) {
	_, err := consolidateItems([]ItemRequest{{ProductID: uuid.New(), Quantity: 0}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
}

func TestConsolidateItems_RejectsMissingProduct(t *testing.T) {
	_, err := consolidateItems([]ItemRequest{{Quantity: 1}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil product id, got %v", err)
	}
}

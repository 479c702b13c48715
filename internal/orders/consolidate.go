package orders

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
)

// consolidateItems merges duplicate product lines from a create request into
// one entry per product, preserving the first-seen product order so line
// items come out deterministic. Quantities are summed. A later non-blank note
// replaces an earlier one, but a blank note never erases a real one. The last
// explicit unit price wins; requests without an override leave an earlier
// override in place.
func consolidateItems(requested []ItemRequest) ([]ItemRequest, error) {
	if len(requested) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order must contain at least one item")
	}

	byProduct := make(map[uuid.UUID]int, len(requested))
	merged := make([]ItemRequest, 0, len(requested))

	for _, req := range requested {
		if req.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if req.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}

		idx, seen := byProduct[req.ProductID]
		if !seen {
			byProduct[req.ProductID] = len(merged)
			merged = append(merged, req)
			continue
		}

		merged[idx].Quantity += req.Quantity
		if hasText(req.Notes) {
			merged[idx].Notes = req.Notes
		}
		if req.UnitPrice != nil {
			merged[idx].UnitPrice = req.UnitPrice
		}
	}

	return merged, nil
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

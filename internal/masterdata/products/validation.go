package products

import (
	"strings"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

func validate(p Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return httpx.Errorf(httpx.ErrValidation, "product SKU is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return httpx.Errorf(httpx.ErrValidation, "product name is required")
	}
	if p.MinStock < 0 {
		return httpx.Errorf(httpx.ErrValidation, "minimum stock must be >= 0")
	}
	if p.OpeningStockQty < 0 {
		return httpx.Errorf(httpx.ErrValidation, "opening stock must be >= 0")
	}
	return nil
}

package warehouses

import (
	"strings"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

func (s *Service) validate(w Warehouse) error {
	if strings.TrimSpace(w.Name) == "" {
		return httpx.Errorf(httpx.ErrValidation, "warehouse name is required")
	}
	return nil
}

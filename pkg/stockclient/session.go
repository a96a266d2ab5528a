package stockclient

import "context"

// Session pairs a Client with a per-session Cache. Master data reads go
// through the cache with a five minute window; document lists use a one
// minute window. Mutations apply optimistically to the cache and roll
// back by invalidation when the backend rejects them.
type Session struct {
	client *Client
	cache  *Cache
}

// NewSession wraps an authenticated client with a fresh cache.
func NewSession(client *Client) *Session {
	return &Session{client: client, cache: NewCache()}
}

// Cache exposes the underlying cache for manual invalidation.
func (s *Session) Cache() *Cache { return s.cache }

// Client exposes the raw REST client for uncached calls.
func (s *Session) Client() *Client { return s.client }

// Logout drops every cached slot.
func (s *Session) Logout() {
	s.cache.Clear()
}

// Warehouses returns the warehouse list, cached.
func (s *Session) Warehouses(ctx context.Context, force bool) ([]Warehouse, error) {
	return Fetch(ctx, s.cache, KeyWarehouses, func(ctx context.Context) ([]Warehouse, error) {
		return s.client.Warehouses(ctx)
	}, force)
}

// Locations returns the full location list, cached. Per-warehouse
// views filter in memory so the cache holds one unfiltered unit.
func (s *Session) Locations(ctx context.Context, warehouseID string, force bool) ([]Location, error) {
	all, err := Fetch(ctx, s.cache, KeyLocations, func(ctx context.Context) ([]Location, error) {
		return s.client.Locations(ctx, "")
	}, force)
	if err != nil || warehouseID == "" {
		return all, err
	}
	var out []Location
	for _, l := range all {
		if l.WarehouseID == warehouseID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Products returns the product list, cached.
func (s *Session) Products(ctx context.Context, force bool) ([]Product, error) {
	return Fetch(ctx, s.cache, KeyProducts, func(ctx context.Context) ([]Product, error) {
		return s.client.Products(ctx)
	}, force)
}

// Users returns the user list, cached. Admin only.
func (s *Session) Users(ctx context.Context, force bool) ([]User, error) {
	return Fetch(ctx, s.cache, KeyUsers, func(ctx context.Context) ([]User, error) {
		return s.client.Users(ctx)
	}, force)
}

// CreateWarehouse creates a warehouse and appends it to the cached list.
func (s *Session) CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	created, err := s.client.CreateWarehouse(ctx, w)
	if err != nil {
		return Warehouse{}, err
	}
	Add(s.cache, KeyWarehouses, created)
	return created, nil
}

// UpdateWarehouse patches the cached entry optimistically, then calls
// the backend. On rejection the slot is invalidated and refetched so
// the cache returns to server-authoritative state.
func (s *Session) UpdateWarehouse(ctx context.Context, id string, w Warehouse) (Warehouse, error) {
	w.ID = id
	UpdateByID(s.cache, KeyWarehouses, w)
	updated, err := s.client.UpdateWarehouse(ctx, id, w)
	if err != nil {
		s.rollback(ctx, KeyWarehouses)
		return Warehouse{}, err
	}
	UpdateByID(s.cache, KeyWarehouses, updated)
	return updated, nil
}

// DeleteWarehouse removes the cached entry optimistically, then calls
// the backend, rolling back on rejection.
func (s *Session) DeleteWarehouse(ctx context.Context, id string) error {
	RemoveByID[Warehouse](s.cache, KeyWarehouses, id)
	if err := s.client.DeleteWarehouse(ctx, id); err != nil {
		s.rollback(ctx, KeyWarehouses)
		return err
	}
	return nil
}

// CreateProduct creates a product and appends it to the cached list.
func (s *Session) CreateProduct(ctx context.Context, p Product) (Product, error) {
	created, err := s.client.CreateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	Add(s.cache, KeyProducts, created)
	return created, nil
}

// UpdateProduct patches the cached entry optimistically, then calls the
// backend, rolling back on rejection.
func (s *Session) UpdateProduct(ctx context.Context, id string, p Product) (Product, error) {
	p.ID = id
	UpdateByID(s.cache, KeyProducts, p)
	updated, err := s.client.UpdateProduct(ctx, id, p)
	if err != nil {
		s.rollback(ctx, KeyProducts)
		return Product{}, err
	}
	UpdateByID(s.cache, KeyProducts, updated)
	return updated, nil
}

// DeleteProduct removes the cached entry optimistically, then calls the
// backend, rolling back on rejection.
func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	RemoveByID[Product](s.cache, KeyProducts, id)
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		s.rollback(ctx, KeyProducts)
		return err
	}
	return nil
}

// rollback discards a slot whose optimistic state was rejected by the
// backend and refetches it so subsequent reads are authoritative again.
func (s *Session) rollback(ctx context.Context, key Key) {
	s.cache.Invalidate(key)
	_, _ = s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		switch key {
		case KeyWarehouses:
			return s.client.Warehouses(ctx)
		case KeyLocations:
			return s.client.Locations(ctx, "")
		case KeyProducts:
			return s.client.Products(ctx)
		case KeyUsers:
			return s.client.Users(ctx)
		default:
			return s.client.Documents(ctx, key, "", "")
		}
	}, true)
}

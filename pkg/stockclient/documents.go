package stockclient

import "context"

// Documents returns the cached document list for one type. The cached
// unit is always the UNFILTERED list: the status filter is applied in
// memory after the fetch and is never part of the cache key, so a
// filtered view is exactly as fresh as the unfiltered entry.
func (s *Session) Documents(ctx context.Context, docType Key, statusFilter string, force bool) ([]Document, error) {
	all, err := Fetch(ctx, s.cache, docType, func(ctx context.Context) ([]Document, error) {
		return s.client.Documents(ctx, docType, "", "")
	}, force)
	if err != nil {
		return nil, err
	}
	if statusFilter == "" {
		return all, nil
	}
	var out []Document
	for _, d := range all {
		if d.Status == statusFilter {
			out = append(out, d)
		}
	}
	return out, nil
}

// Document fetches one document with its lines. The cached collection
// carries headers only, so the detail view always goes to the backend.
func (s *Session) Document(ctx context.Context, docType Key, id string) (Document, error) {
	return s.client.Document(ctx, docType, id)
}

// CreateDocument creates a draft and appends it to the cached list.
func (s *Session) CreateDocument(ctx context.Context, docType Key, draft DocumentDraft) (Document, error) {
	created, err := s.client.CreateDocument(ctx, docType, draft)
	if err != nil {
		return Document{}, err
	}
	Add(s.cache, docType, created)
	return created, nil
}

// UpdateDocument patches the cached header optimistically, then sends
// the draft. On rejection (including "Cannot edit confirmed document")
// the slot is invalidated and refetched.
func (s *Session) UpdateDocument(ctx context.Context, docType Key, id string, draft DocumentDraft) (Document, error) {
	s.cache.Update(docType, func(current any) any {
		docs, ok := current.([]Document)
		if !ok {
			return current
		}
		out := append([]Document(nil), docs...)
		for i := range out {
			if out[i].ID == id {
				out[i].Date = draft.Date
			}
		}
		return out
	})
	updated, err := s.client.UpdateDocument(ctx, docType, id, draft)
	if err != nil {
		s.rollback(ctx, docType)
		return Document{}, err
	}
	UpdateByID(s.cache, docType, updated)
	return updated, nil
}

// ConfirmDocument confirms a draft. The stock effects of a confirmation
// are computed server-side, so there is no correct optimistic patch:
// on success the document-type slot is invalidated and refetched in
// full. On failure the backend's detail is returned verbatim and the
// cache is left untouched (the draft is still valid).
func (s *Session) ConfirmDocument(ctx context.Context, docType Key, id string) (Document, error) {
	confirmed, err := s.client.ConfirmDocument(ctx, docType, id)
	if err != nil {
		return Document{}, err
	}
	s.cache.Invalidate(docType)
	if _, err := s.Documents(ctx, docType, "", true); err != nil {
		// The confirmation itself succeeded; the list will reload on
		// the next read.
		return confirmed, nil
	}
	return confirmed, nil
}

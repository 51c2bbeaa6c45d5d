package app

import (
	"context"

	"roomdesk/internal/domain"
)

// CatalogService owns admin room edits and keeps the cache honest: every
// write evicts the affected room key and the room list.
type CatalogService struct {
	rooms domain.RoomRepository
	cache domain.Cache
}

func NewCatalogService(r domain.RoomRepository, c domain.Cache) *CatalogService {
	return &CatalogService{rooms: r, cache: c}
}

func (s *CatalogService) UpsertRoom(ctx context.Context, r domain.Room) error {
	if err := s.rooms.UpsertRoom(ctx, r); err != nil {
		return err
	}
	s.invalidate(ctx, r.ID)
	return nil
}

func (s *CatalogService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, roomKey(id))
	_ = s.cache.Del(ctx, roomsKey)
}

package character

import (
	"context"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// GetCharacter loads a character and recomputes it, so records written by
// older versions come back fully derived.
func (s *service) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	char, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get character '%s'", id).
			WithMeta("character_id", id)
	}
	if err := s.Recompute(char); err != nil {
		return nil, err
	}
	return char, nil
}

// ListCharacters returns an owner's characters sorted by name
func (s *service) ListCharacters(ctx context.Context, ownerID string) ([]*character.Character, error) {
	chars, err := s.repository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to list characters for owner '%s'", ownerID).
			WithMeta("owner_id", ownerID)
	}
	for _, char := range chars {
		if err := s.Recompute(char); err != nil {
			return nil, err
		}
	}
	return chars, nil
}

// SaveCharacter creates the record on first save and replaces it afterwards
func (s *service) SaveCharacter(ctx context.Context, c *character.Character) error {
	if c == nil {
		return dnderr.InvalidArgument("character is required")
	}
	if c.ID == "" {
		c.ID = s.ids.New()
	}

	_, err := s.repository.Get(ctx, c.ID)
	switch {
	case dnderr.IsNotFound(err):
		if err := s.repository.Create(ctx, c); err != nil {
			return dnderr.Wrap(err, "failed to create character").WithMeta("character_id", c.ID)
		}
		return nil
	case err != nil:
		return dnderr.Wrap(err, "failed to check character").WithMeta("character_id", c.ID)
	}

	if err := s.repository.Update(ctx, c); err != nil {
		return dnderr.Wrap(err, "failed to update character").WithMeta("character_id", c.ID)
	}
	return nil
}

func (s *service) DeleteCharacter(ctx context.Context, id string) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return dnderr.Wrapf(err, "failed to delete character '%s'", id).
			WithMeta("character_id", id)
	}
	return nil
}

package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character repository
// Useful for testing and development
type InMemoryRepository struct {
	mu           sync.RWMutex
	characters   map[string]*character.Character
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		characters:   make(map[string]*character.Character),
		timeProvider: utcTimeProvider{},
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[char.ID]; exists {
		return dnderr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	now := r.timeProvider.Now()
	char.CreatedAt = now
	char.UpdatedAt = now

	// Store a deep copy so callers can keep mutating theirs
	r.characters[char.ID] = char.Clone()
	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	char, exists := r.characters[id]
	if !exists {
		return nil, dnderr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	return char.Clone(), nil
}

// ListByOwner retrieves all characters for a specific owner, sorted by name
func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*character.Character
	for _, char := range r.characters {
		if char.OwnerID == ownerID {
			result = append(result, char.Clone())
		}
	}
	sortByName(result)
	return result, nil
}

// Update replaces an existing character, keeping its creation time
func (r *InMemoryRepository) Update(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.characters[char.ID]
	if !exists {
		return dnderr.NotFoundf("character with ID '%s' not found", char.ID).
			WithMeta("character_id", char.ID)
	}

	char.CreatedAt = existing.CreatedAt
	char.UpdatedAt = r.timeProvider.Now()
	r.characters[char.ID] = char.Clone()
	return nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return dnderr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	delete(r.characters, id)
	return nil
}

func validate(char *character.Character) error {
	if char == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}
	if char.OwnerID == "" {
		return dnderr.InvalidArgument("character owner ID is required")
	}
	return nil
}

func sortByName(chars []*character.Character) {
	sort.Slice(chars, func(i, j int) bool {
		if chars[i].Name != chars[j].Name {
			return chars[i].Name < chars[j].Name
		}
		return chars[i].ID < chars[j].ID
	})
}

package characters_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	rulebook "github.com/KirkDiggler/dnd-sheet-engine/internal/domain/rulebook/dnd5e"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-sheet-engine/internal/testutils"
	"github.com/stretchr/testify/suite"
)

// RepositoryContractSuite runs the same lifecycle against every implementation
type RepositoryContractSuite struct {
	suite.Suite
	newRepo func() characters.Repository
	repo    characters.Repository
	ctx     context.Context
}

func (s *RepositoryContractSuite) SetupTest() {
	s.repo = s.newRepo()
	s.ctx = context.Background()
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryContractSuite{newRepo: characters.NewInMemoryRepository})
}

func TestRedisRepositoryWithMiniredis(t *testing.T) {
	s := &RepositoryContractSuite{}
	s.newRepo = func() characters.Repository {
		client := testutils.CreateTestRedisClient(s.T())
		return characters.NewRedis(client)
	}
	suite.Run(t, s)
}

func (s *RepositoryContractSuite) sheet(id, owner, name string) *character.Character {
	char := testutils.CreateTestCharacter(id, owner, name, rulebook.ClassBarbarian)
	char.UpsertResource(shared.ResourcePool{ID: "rage", Label: "Rage", Reset: shared.ResetLongRest, Max: 2, TrackActive: true})
	char.AddItem(testutils.CreateTestWeapon("axe", "Greataxe"))
	return char
}

func (s *RepositoryContractSuite) TestFullCharacterLifecycle() {
	char := s.sheet("char-1", "player-1", "Grog")
	s.Require().NoError(s.repo.Create(s.ctx, char))
	s.False(char.CreatedAt.IsZero())

	got, err := s.repo.Get(s.ctx, "char-1")
	s.Require().NoError(err)
	s.Equal("Grog", got.Name)
	s.Equal(2, got.Resource("rage").Max)
	s.True(got.Item("axe").Equipped)
	s.Equal(char.CreatedAt.Unix(), got.CreatedAt.Unix())

	got.SpendResource("rage")
	got.Name = "Grog the Mighty"
	s.Require().NoError(s.repo.Update(s.ctx, got))

	again, err := s.repo.Get(s.ctx, "char-1")
	s.Require().NoError(err)
	s.Equal("Grog the Mighty", again.Name)
	s.Equal(1, again.Resource("rage").Current)

	s.Require().NoError(s.repo.Delete(s.ctx, "char-1"))
	_, err = s.repo.Get(s.ctx, "char-1")
	s.True(dnderr.IsNotFound(err))
}

func (s *RepositoryContractSuite) TestReturnedCopiesAreIndependent() {
	s.Require().NoError(s.repo.Create(s.ctx, s.sheet("char-1", "player-1", "Grog")))

	got, err := s.repo.Get(s.ctx, "char-1")
	s.Require().NoError(err)
	got.Resource("rage").Current = 0

	again, err := s.repo.Get(s.ctx, "char-1")
	s.Require().NoError(err)
	s.Equal(2, again.Resource("rage").Current)
}

func (s *RepositoryContractSuite) TestListByOwner() {
	s.Require().NoError(s.repo.Create(s.ctx, s.sheet("c1", "player-1", "Vex")))
	s.Require().NoError(s.repo.Create(s.ctx, s.sheet("c2", "player-1", "Anna")))
	s.Require().NoError(s.repo.Create(s.ctx, s.sheet("c3", "player-2", "Pike")))

	chars, err := s.repo.ListByOwner(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(chars, 2)
	s.Equal("Anna", chars[0].Name)
	s.Equal("Vex", chars[1].Name)

	moved := chars[0]
	moved.OwnerID = "player-2"
	s.Require().NoError(s.repo.Update(s.ctx, moved))

	chars, err = s.repo.ListByOwner(s.ctx, "player-2")
	s.Require().NoError(err)
	s.Len(chars, 2)
}

func (s *RepositoryContractSuite) TestErrors() {
	s.Require().NoError(s.repo.Create(s.ctx, s.sheet("c1", "player-1", "Vex")))
	s.True(dnderr.IsAlreadyExists(s.repo.Create(s.ctx, s.sheet("c1", "player-1", "Vex"))))
	s.True(dnderr.IsNotFound(s.repo.Update(s.ctx, s.sheet("nope", "player-1", "Vex"))))
	s.True(dnderr.IsNotFound(s.repo.Delete(s.ctx, "nope")))
	s.True(dnderr.IsInvalidArgument(s.repo.Delete(s.ctx, "")))

	_, err := s.repo.ListByOwner(s.ctx, "")
	s.True(dnderr.IsInvalidArgument(err))
}

package dnd5e

//go:generate mockgen -destination=mock/mock_client.go -package=mockdnd5e . Client

// Client fetches monster templates from the dnd5e API
type Client interface {
	GetMonster(key string) (*MonsterTemplate, error)
}

// MonsterTemplate is the slice of a monster this pipeline cares about: its
// identity and the action text that gets converted
type MonsterTemplate struct {
	Key             string
	Name            string
	Type            string
	ChallengeRating float32
	Actions         []*MonsterAction
}

// MonsterAction is one action entry on a monster stat block
type MonsterAction struct {
	Name        string
	Description string
	AttackBonus int
}

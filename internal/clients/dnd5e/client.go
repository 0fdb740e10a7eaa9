package dnd5e

import (
	"net/http"
	"strings"

	apiEntities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"

	"github.com/KirkDiggler/ability-forge/internal/errors"
)

type client struct {
	client dnd5e.Interface
}

// Config holds dependencies for the API client
type Config struct {
	HttpClient *http.Client
}

// New creates a dnd5e API client
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("cfg cannot be nil")
	}

	dndClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client: cfg.HttpClient,
	})
	if err != nil {
		return nil, err
	}

	return &client{
		client: dndClient,
	}, nil
}

func (c *client) GetMonster(key string) (*MonsterTemplate, error) {
	if key == "" {
		return nil, errors.InvalidArgument("key cannot be empty")
	}

	monster, err := c.client.GetMonster(key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get monster %s", key)
	}

	template := apiToMonsterTemplate(monster)
	if template == nil {
		return nil, errors.NotFoundf("monster %s", key)
	}
	return template, nil
}

func apiToMonsterTemplate(input *apiEntities.Monster) *MonsterTemplate {
	if input == nil {
		return nil
	}

	return &MonsterTemplate{
		Key:             input.Key,
		Name:            input.Name,
		Type:            input.Type,
		ChallengeRating: input.ChallengeRating,
		Actions:         apisToMonsterActions(input.MonsterActions),
	}
}

func apisToMonsterActions(input []*apiEntities.MonsterAction) []*MonsterAction {
	if input == nil {
		return nil
	}

	var actions []*MonsterAction
	for _, ma := range input {
		if ma == nil {
			continue
		}
		actions = append(actions, &MonsterAction{
			Name:        ma.Name,
			Description: ma.Description,
			AttackBonus: ma.AttackBonus,
		})
	}
	return actions
}

// Document renders the template's actions back into a stat-block style
// document suitable for segmentation
func (m *MonsterTemplate) Document() string {
	var b strings.Builder
	for _, action := range m.Actions {
		if action == nil || action.Name == "" {
			continue
		}
		b.WriteString(action.Name)
		b.WriteString(". ")
		b.WriteString(strings.TrimSpace(action.Description))
		b.WriteString("\n")
	}
	return b.String()
}

package ipc

import (
	"fmt"

	"github.com/nstehr/dominion/dominion-core/campaign"
	"github.com/nstehr/dominion/dominion-core/dice"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

// Requests and their replies. Every request is answered with a reply of the
// matching type (ack for hello, result for everything else) or with error.
const (
	TypeHello              = "hello"
	TypeAck                = "ack"
	TypeResolveTable       = "resolve_table"
	TypeResolveTerritories = "resolve_territories"
	TypeTerritoryPrompts   = "territory_prompts"
	TypeLastingInjury      = "lasting_injury"
	TypeRogueDoc           = "rogue_doc"
	TypeLootBox            = "loot_box"
	TypeXPAdvancement      = "xp_advancement"
	TypeSkillRoll          = "skill_roll"
	TypeResult             = "result"
	TypeError              = "error"
)

type HelloMessage struct {
	Client string `json:"client"`
	Gang   string `json:"gang"`
}

type AckMessage struct {
	Status string   `json:"status"`
	Gang   string   `json:"gang,omitempty"`
	Tables []string `json:"tables,omitempty"`
}

type ErrorMessage struct {
	Request string `json:"request"`
	Error   string `json:"error"`
}

// TableRequest names a table within a rule set. Roll forces the first roll.
type TableRequest struct {
	Set   string `json:"set"`
	Table string `json:"table"`
	Roll  *int   `json:"roll,omitempty"`
}

// TerritoryInput is the per-territory answer to a prompt.
type TerritoryInput struct {
	Count     *int   `json:"count,omitempty"`
	Suit      string `json:"suit,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// TerritoriesRequest resolves the selected territories. An empty gang falls
// back to the session gang; empty categories means every category.
type TerritoriesRequest struct {
	Territories []string                  `json:"territories"`
	Gang        string                    `json:"gang,omitempty"`
	Categories  []model.Category          `json:"categories,omitempty"`
	Inputs      map[string]TerritoryInput `json:"inputs,omitempty"`
}

// BatchInput converts the request into the engine's batch input. Suit
// guesses accept names or symbols.
func (r TerritoriesRequest) BatchInput(gang string) (rules.BatchInput, error) {
	if r.Gang != "" {
		gang = r.Gang
	}
	in := rules.BatchInput{Gang: gang, Inputs: make(map[string]rules.Input, len(r.Inputs))}
	for id, ti := range r.Inputs {
		ri := rules.Input{Count: ti.Count, Cancelled: ti.Cancelled}
		if ti.Suit != "" {
			suit, err := dice.ParseSuit(ti.Suit)
			if err != nil {
				return rules.BatchInput{}, fmt.Errorf("territory %s: %w", id, err)
			}
			ri.Suit = suit
		}
		in.Inputs[id] = ri
	}
	return in, nil
}

type PromptsRequest struct {
	Territories []string `json:"territories"`
	Gang        string   `json:"gang,omitempty"`
}

type InjuryRequest struct {
	Mode string `json:"mode"`
	Roll *int   `json:"roll,omitempty"`
}

// RogueDocRequest resolves a treatment; Cost is a price already quoted to the
// player.
type RogueDocRequest struct {
	Mode string `json:"mode"`
	Cost *int   `json:"cost,omitempty"`
}

type RollRequest struct {
	Roll *int `json:"roll,omitempty"`
}

type SkillRequest struct {
	Table string `json:"table"`
	Roll  *int   `json:"roll,omitempty"`
}

// ResultMessage carries exactly one of its fields.
type ResultMessage struct {
	Result  *model.Result      `json:"result,omitempty"`
	Batch   *rules.BatchResult `json:"batch,omitempty"`
	Prompts []campaign.Prompt  `json:"prompts,omitempty"`
}

// Package session answers the requests of one connected front end.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nstehr/dominion/dominion-core/campaign"
	"github.com/nstehr/dominion/dominion-core/ipc"
	"github.com/nstehr/dominion/dominion-core/metrics"
	"github.com/nstehr/dominion/dominion-core/model"
)

const transport = "ipc"

// Session owns the state of a single connection: the gang picked at hello.
type Session struct {
	Conn      *ipc.Connection
	Gang      string
	Companion *campaign.Companion
	Metrics   *metrics.Metrics
}

func New(conn *ipc.Connection, c *campaign.Companion, m *metrics.Metrics) *Session {
	return &Session{Conn: conn, Companion: c, Metrics: m}
}

// Register installs a handler for every request type on the connection.
func (s *Session) Register() {
	s.Conn.RegisterHandler(ipc.TypeHello, s.HandleHello)
	s.Conn.RegisterHandler(ipc.TypeResolveTable, s.HandleResolveTable)
	s.Conn.RegisterHandler(ipc.TypeResolveTerritories, s.HandleResolveTerritories)
	s.Conn.RegisterHandler(ipc.TypeTerritoryPrompts, s.HandleTerritoryPrompts)
	s.Conn.RegisterHandler(ipc.TypeLastingInjury, s.HandleLastingInjury)
	s.Conn.RegisterHandler(ipc.TypeRogueDoc, s.HandleRogueDoc)
	s.Conn.RegisterHandler(ipc.TypeLootBox, s.HandleLootBox)
	s.Conn.RegisterHandler(ipc.TypeXPAdvancement, s.HandleXPAdvancement)
	s.Conn.RegisterHandler(ipc.TypeSkillRoll, s.HandleSkillRoll)
}

// HandleHello completes the handshake and records the gang for later requests.
func (s *Session) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	s.Metrics.Request(transport, env.Type)
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	s.Gang = hello.Gang
	s.Conn.Gang = hello.Gang
	slog.Info("client identified", "client", hello.Client, "gang", s.Gang)

	ack, err := ipc.Reply(env, ipc.TypeAck, ipc.AckMessage{
		Status: "ok",
		Gang:   s.Gang,
		Tables: s.Companion.Injuries.Modes(),
	})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

func (s *Session) HandleResolveTable(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.TableRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	res, err := s.Companion.RollTable(req.Set, req.Table, req.Roll)
	if err != nil {
		return nil, err
	}
	return s.result(env, req.Set, res)
}

func (s *Session) HandleResolveTerritories(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.TerritoriesRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	in, err := req.BatchInput(s.Gang)
	if err != nil {
		return nil, err
	}
	batch, err := s.Companion.Territories.Resolve(req.Territories, req.Categories, in)
	if err != nil {
		return nil, err
	}
	s.Metrics.ObserveBatch(batch)
	slog.Info("territories resolved", "gang", in.Gang, "territories", len(req.Territories), "credits", batch.Credits)
	return s.reply(env, ipc.ResultMessage{Batch: &batch})
}

func (s *Session) HandleTerritoryPrompts(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.PromptsRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	gang := req.Gang
	if gang == "" {
		gang = s.Gang
	}
	prompts, err := s.Companion.Territories.Prompts(req.Territories, gang)
	if err != nil {
		return nil, err
	}
	return s.reply(env, ipc.ResultMessage{Prompts: prompts})
}

func (s *Session) HandleLastingInjury(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.InjuryRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	var res model.Result
	var err error
	if req.Roll != nil {
		res, err = s.Companion.Injuries.RollWithValue(req.Mode, *req.Roll)
	} else {
		res, err = s.Companion.Injuries.Roll(req.Mode)
	}
	if err != nil {
		return nil, err
	}
	return s.result(env, "injury", res)
}

func (s *Session) HandleRogueDoc(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.RogueDocRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	res, err := s.Companion.Injuries.RogueDoc(req.Mode, req.Cost)
	if err != nil {
		return nil, err
	}
	return s.result(env, "rogue_doc", res)
}

func (s *Session) HandleLootBox(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.RollRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	res := s.Companion.Loot.Open()
	if req.Roll != nil {
		res = s.Companion.Loot.OpenWithRoll(*req.Roll)
	}
	return s.result(env, "loot", res)
}

func (s *Session) HandleXPAdvancement(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.RollRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	res := s.Companion.XP.Advancement()
	if req.Roll != nil {
		res = s.Companion.XP.AdvancementWithRoll(*req.Roll)
	}
	return s.result(env, "advancement", res)
}

func (s *Session) HandleSkillRoll(env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.SkillRequest
	if err := s.decode(env, &req); err != nil {
		return nil, err
	}
	var res model.Result
	var err error
	if req.Roll != nil {
		res, err = s.Companion.XP.RollSkillWithValue(req.Table, *req.Roll)
	} else {
		res, err = s.Companion.XP.RollSkill(req.Table)
	}
	if err != nil {
		return nil, err
	}
	return s.result(env, "skill", res)
}

// decode counts the request and unmarshals its payload. An empty payload
// leaves v at its zero value.
func (s *Session) decode(env ipc.Envelope, v any) error {
	s.Metrics.Request(transport, env.Type)
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", env.Type, err)
	}
	return nil
}

func (s *Session) result(env ipc.Envelope, kind string, res model.Result) (*ipc.Envelope, error) {
	s.Metrics.Observe(kind, res)
	return s.reply(env, ipc.ResultMessage{Result: &res})
}

func (s *Session) reply(env ipc.Envelope, msg ipc.ResultMessage) (*ipc.Envelope, error) {
	out, err := ipc.Reply(env, ipc.TypeResult, msg)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

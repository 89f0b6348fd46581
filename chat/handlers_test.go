package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/giygas/bulario-chat/entities"
)

func TestBularioHandlerEnrichesWithFirstFoundTerm(t *testing.T) {
	lookup := &fakeLookup{results: map[string]entities.LookupResult{
		"ibuprofeno": {Term: "ibuprofeno", Outcome: entities.OutcomeFound, Text: "**Ibuprofeno**\nBULA"},
	}}
	streamer := &fakeStreamer{fragments: []string{"O ibuprofeno", " é um anti-inflamatório."}}
	sink := &recordingSink{}

	h := NewBularioHandler(lookup, streamer, BularioOptions{Model: "gpt-4o-mini", Temperature: DefaultTemperature})
	if err := h.HandleMessage(context.Background(), "Me fale sobre ibuprofeno", sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(lookup.calls, ","); got != "fale,sobre,ibuprofeno" {
		t.Errorf("lookup calls = %s, want fale,sobre,ibuprofeno", got)
	}

	if len(streamer.requests) != 1 {
		t.Fatalf("expected one completion, got %d", len(streamer.requests))
	}
	req := streamer.requests[0]
	wantSystem := bularioSystemPrompt +
		"\n\nUse as seguintes informações específicas do medicamento para complementar sua resposta:\n" +
		"\n\nINFORMAÇÕES DA BASE DE DADOS:\n**Ibuprofeno**\nBULA\n\n"
	if req.Messages[0].Role != entities.RoleSystem || req.Messages[0].Content != wantSystem {
		t.Errorf("unexpected system instruction:\n%q", req.Messages[0].Content)
	}
	if req.Messages[1].Role != entities.RoleUser || req.Messages[1].Content != "Me fale sobre ibuprofeno" {
		t.Errorf("unexpected user message %+v", req.Messages[1])
	}
	if req.Model != "gpt-4o-mini" || req.Temperature == nil || *req.Temperature != 0.7 {
		t.Errorf("unexpected model settings: %s %v", req.Model, req.Temperature)
	}

	want := []string{"created", "append:O ibuprofeno", "append: é um anti-inflamatório.", "finalize"}
	if strings.Join(sink.events, "|") != strings.Join(want, "|") {
		t.Errorf("events = %q, want %q", sink.events, want)
	}
}

func TestBularioHandlerSkipsLookupWithoutKeyword(t *testing.T) {
	lookup := &fakeLookup{}
	streamer := &fakeStreamer{fragments: []string{"Olá!"}}
	sink := &recordingSink{}

	h := NewBularioHandler(lookup, streamer, BularioOptions{Temperature: DefaultTemperature})
	if err := h.HandleMessage(context.Background(), "Olá, tudo bem?", sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lookup.calls) != 0 {
		t.Errorf("expected no lookups, got %v", lookup.calls)
	}
	if streamer.requests[0].Messages[0].Content != bularioSystemPrompt {
		t.Error("system instruction should be the bare prompt")
	}
}

func TestBularioHandlerLookupErrorIsSwallowed(t *testing.T) {
	lookup := &fakeLookup{err: context.DeadlineExceeded}
	streamer := &fakeStreamer{fragments: []string{"resposta"}}
	sink := &recordingSink{}

	h := NewBularioHandler(lookup, streamer, BularioOptions{})
	if err := h.HandleMessage(context.Background(), "Qual a dose de dipirona?", sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lookup.calls) != 1 {
		t.Errorf("probing should stop at the first failure, got %v", lookup.calls)
	}
	if len(streamer.requests) != 1 {
		t.Fatal("completion should still be issued")
	}
	if streamer.requests[0].Messages[0].Content != bularioSystemPrompt {
		t.Error("enrichment should be empty after a lookup failure")
	}
	for _, e := range sink.events {
		if strings.HasPrefix(e, "fail:") {
			t.Errorf("no user-visible error expected, got %q", e)
		}
	}
}

func TestBularioHandlerErrorTextsDoNotEnrich(t *testing.T) {
	lookup := &fakeLookup{results: map[string]entities.LookupResult{
		"qual":     {Outcome: entities.OutcomeNetworkUnavailable, Text: "**Erro de Conexão**"},
		"dipirona": {Outcome: entities.OutcomeNetworkUnavailable, Text: "**Erro de Conexão**"},
	}}
	streamer := &fakeStreamer{}
	sink := &recordingSink{}

	h := NewBularioHandler(lookup, streamer, BularioOptions{})
	_ = h.HandleMessage(context.Background(), "Qual a dose de dipirona?", sink)

	if got := strings.Join(lookup.calls, ","); got != "qual,dose,dipirona" {
		t.Errorf("lookup calls = %s", got)
	}
	if streamer.requests[0].Messages[0].Content != bularioSystemPrompt {
		t.Error("error texts must not be used as enrichment")
	}
}

func TestBularioHandlerModelErrorKeepsFragments(t *testing.T) {
	streamer := &fakeStreamer{fragments: []string{"Parte 1", "Parte 2"}, err: errors.New("stream reset")}
	sink := &recordingSink{}

	h := NewBularioHandler(&fakeLookup{}, streamer, BularioOptions{})
	if err := h.HandleMessage(context.Background(), "oi", sink); err != nil {
		t.Fatalf("model errors should not be returned, got %v", err)
	}

	want := []string{
		"created",
		"append:Parte 1",
		"append:Parte 2",
		"fail:Erro ao processar sua solicitação: stream reset\n\nTente novamente ou reformule sua pergunta.",
	}
	if strings.Join(sink.events, "|") != strings.Join(want, "|") {
		t.Errorf("events = %q, want %q", sink.events, want)
	}
}

func TestBularioHandlerReturnsSinkError(t *testing.T) {
	gone := errors.New("connection closed")
	streamer := &fakeStreamer{fragments: []string{"x"}}
	sink := &recordingSink{appendErr: gone}

	h := NewBularioHandler(&fakeLookup{}, streamer, BularioOptions{})
	err := h.HandleMessage(context.Background(), "oi", sink)
	if !errors.Is(err, gone) {
		t.Errorf("expected sink error, got %v", err)
	}
	for _, e := range sink.events {
		if strings.HasPrefix(e, "fail:") || e == "finalize" {
			t.Errorf("no terminal event expected after a sink failure, got %q", e)
		}
	}
}

func TestSimpleHandlerGoesStraightToModel(t *testing.T) {
	streamer := &fakeStreamer{fragments: []string{"Até", " logo!"}}
	sink := &recordingSink{}

	h := NewSimpleHandler(streamer, "gpt-4o-mini")
	if err := h.HandleMessage(context.Background(), "tchau", sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := streamer.requests[0]
	if req.Messages[0].Content != "Você é um assistente útil que responde em português." {
		t.Errorf("unexpected system prompt %q", req.Messages[0].Content)
	}
	if req.Temperature != nil {
		t.Errorf("simple handler should leave the provider temperature, got %v", *req.Temperature)
	}
	want := "created|append:Até|append: logo!|finalize"
	if got := strings.Join(sink.events, "|"); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestSimpleHandlerError(t *testing.T) {
	streamer := &fakeStreamer{err: errors.New("invalid api key")}
	sink := &recordingSink{}

	_ = NewSimpleHandler(streamer, "m").HandleMessage(context.Background(), "oi", sink)

	want := "created|fail:Erro ao conectar com OpenAI: invalid api key"
	if got := strings.Join(sink.events, "|"); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestEchoHandler(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Oi!", "Oi! Como posso ajudar você hoje?"},
		{"Olá", "Oi! Como posso ajudar você hoje?"},
		{"tchau", "Até logo! Foi um prazer conversar com você! 👋"},
		{"Adeus", "Até logo! Foi um prazer conversar com você! 👋"},
		{"Como você está?", "Estou funcionando perfeitamente, obrigado por perguntar! E você?"},
		{"Bom dia", "Interessante! Você disse: 'Bom dia'\n\nComo posso ajudar com isso?"},
	}

	h := NewEchoHandler()
	for _, tt := range tests {
		sink := &recordingSink{}
		if err := h.HandleMessage(context.Background(), tt.input, sink); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "created|append:" + tt.want + "|finalize"
		if got := strings.Join(sink.events, "|"); got != want {
			t.Errorf("input %q: events = %q, want %q", tt.input, got, want)
		}
	}
}

func TestWelcomeMessages(t *testing.T) {
	streamer := &fakeStreamer{}
	tests := []struct {
		name   string
		msg    entities.Message
		prefix string
	}{
		{"bulario", NewBularioHandler(&fakeLookup{}, streamer, BularioOptions{}).Welcome(), "🤖 **Bem-vindo ao Chatbot de Medicamentos!** 💊"},
		{"simple", NewSimpleHandler(streamer, "m").Welcome(), "🤖 Olá! Sou um chatbot conectado ao GPT da OpenAI."},
		{"echo", NewEchoHandler().Welcome(), "🤖 Olá! Bem-vindo ao seu chatbot!"},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.msg.Content, tt.prefix) {
			t.Errorf("%s welcome = %q", tt.name, tt.msg.Content)
		}
		if tt.msg.ID == "" || tt.msg.Author != "Assistant" {
			t.Errorf("%s welcome should carry an id and author, got %+v", tt.name, tt.msg)
		}
	}
}

func TestSessionRejectsConcurrentTurn(t *testing.T) {
	streamer := &fakeStreamer{block: make(chan struct{}), started: make(chan struct{}), fragments: []string{"ok"}}
	session := NewSession(NewSimpleHandler(streamer, "m"))
	defer session.Close()

	done := make(chan error, 1)
	go func() {
		done <- session.Handle(context.Background(), "primeira", &recordingSink{})
	}()

	select {
	case <-streamer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first turn did not start")
	}

	if session.State() != StateAwaitingCompletion {
		t.Errorf("expected awaiting_completion, got %s", session.State())
	}

	if err := session.Handle(context.Background(), "segunda", &recordingSink{}); !errors.Is(err, ErrTurnInProgress) {
		t.Errorf("expected ErrTurnInProgress, got %v", err)
	}

	close(streamer.block)
	if err := <-done; err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if session.State() != StateIdle {
		t.Errorf("expected idle after the turn, got %s", session.State())
	}
}

func TestSessionStartClaimsSynchronously(t *testing.T) {
	streamer := &fakeStreamer{block: make(chan struct{}), fragments: []string{"ok"}}
	session := NewSession(NewSimpleHandler(streamer, "m"))
	defer session.Close()

	sink := &recordingSink{}
	done, err := session.Start(context.Background(), "primeira", sink)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := session.Start(context.Background(), "segunda", &recordingSink{}); !errors.Is(err, ErrTurnInProgress) {
		t.Errorf("expected ErrTurnInProgress right after Start, got %v", err)
	}

	close(streamer.block)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("turn failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("turn did not finish")
	}

	if session.State() != StateIdle {
		t.Errorf("expected idle once the turn reported, got %s", session.State())
	}
	if len(sink.events) == 0 || sink.events[len(sink.events)-1] != "finalize" {
		t.Errorf("expected the turn to finalize, got %v", sink.events)
	}
}

package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RegistroNaoInformado is the placeholder the companion service uses for a
// missing registry number.
const RegistroNaoInformado = "não informado na bula"

// Bula is one medication leaflet as served by the companion service.
// It is read-only and lives for a single lookup.
type Bula struct {
	Medicamento            Text            `json:"medicamento"`
	Fabricante             Text            `json:"fabricante"`
	FormaFarmaceutica      Text            `json:"forma_farmaceutica"`
	Apresentacao           Text            `json:"apresentacao"`
	ViaAdministracao       Text            `json:"via_administracao"`
	Uso                    TextList        `json:"uso"`
	Composicao             *Composicao     `json:"composicao"`
	Indicacoes             TextList        `json:"indicacoes"`
	Contraindicacoes       TextList        `json:"contraindicacoes"`
	AdvertenciasPrecaucoes TextList        `json:"advertencias_precaucoes"`
	Posologia              *Posologia      `json:"posologia"`
	ReacoesAdversas        ReacoesAdversas `json:"reações_adversas"`
	Armazenamento          *Armazenamento  `json:"armazenamento"`
	Registro               Text            `json:"registro"`
	Tarja                  Text            `json:"tarja"`
}

type Composicao struct {
	PrincipioAtivo Text     `json:"principio_ativo"`
	Excipientes    TextList `json:"excipientes"`
}

// Posologia is either a mapping from group label to dose (Groups, in
// document order) or a flat description (Text).
type Posologia struct {
	Groups []DoseGroup
	Text   string
}

type DoseGroup struct {
	Group string
	Dose  string
}

// IsEmpty reports whether there is nothing to render.
func (p *Posologia) IsEmpty() bool {
	return p == nil || (len(p.Groups) == 0 && p.Text == "")
}

func (p *Posologia) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	p.Groups, p.Text = nil, ""

	if len(trimmed) > 0 && trimmed[0] == '{' {
		return decodeOrderedObject(trimmed, func(key string, value json.RawMessage) error {
			dose, _, err := scalarText(value)
			if err != nil {
				return fmt.Errorf("posologia %q: %w", key, err)
			}
			p.Groups = append(p.Groups, DoseGroup{Group: key, Dose: dose})
			return nil
		})
	}

	text, _, err := scalarText(trimmed)
	if err != nil {
		return fmt.Errorf("posologia: %w", err)
	}
	p.Text = text
	return nil
}

// ReacoesAdversas maps a frequency category to reaction names, in document
// order. Categories whose value is not a list keep a nil Reactions slice.
type ReacoesAdversas struct {
	Categories []ReactionCategory
}

type ReactionCategory struct {
	Category  string
	Reactions []string
}

// IsEmpty reports whether the mapping had no keys at all.
func (r ReacoesAdversas) IsEmpty() bool {
	return len(r.Categories) == 0
}

func (r *ReacoesAdversas) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	r.Categories = nil

	// Anything but an object is ignored, like a missing block.
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	return decodeOrderedObject(trimmed, func(key string, value json.RawMessage) error {
		category := ReactionCategory{Category: key}

		var list TextList
		if err := json.Unmarshal(value, &list); err != nil {
			return fmt.Errorf("reações adversas %q: %w", key, err)
		}
		category.Reactions = list.Items

		r.Categories = append(r.Categories, category)
		return nil
	})
}

// Armazenamento holds the storage conditions. Keys counts every key of the
// source object, known or not.
type Armazenamento struct {
	Temperatura Text
	Protecao    Text
	Validade    Text
	Keys        int
}

// IsEmpty reports whether the storage object had no keys.
func (a *Armazenamento) IsEmpty() bool {
	return a == nil || a.Keys == 0
}

func (a *Armazenamento) UnmarshalJSON(data []byte) error {
	*a = Armazenamento{}

	return decodeOrderedObject(bytes.TrimSpace(data), func(key string, value json.RawMessage) error {
		a.Keys++

		var target *Text
		switch key {
		case "temperatura":
			target = &a.Temperatura
		case "protecao":
			target = &a.Protecao
		case "validade":
			target = &a.Validade
		default:
			return nil
		}
		return json.Unmarshal(value, target)
	})
}

// SearchResponse is the envelope of GET /api/search. Records are kept raw so
// a malformed bula is reported as a formatting problem.
type SearchResponse struct {
	Query   string         `json:"query"`
	Field   string         `json:"field"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

type SearchResult struct {
	ID            int             `json:"id"`
	Bula          json.RawMessage `json:"bula"`
	MatchedFields []string        `json:"matchedFields"`
}

// DecodeBula decodes one raw record.
func DecodeBula(raw json.RawMessage) (*Bula, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("empty bula record")
	}

	var bula Bula
	if err := json.Unmarshal(raw, &bula); err != nil {
		return nil, err
	}
	return &bula, nil
}

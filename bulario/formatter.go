package bulario

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/giygas/bulario-chat/entities"
)

const (
	maxContraindications = 3
	maxWarnings          = 2
	maxReactions         = 3
)

// Format renders a bula as the Portuguese markdown shown in the chat.
// The output depends only on the record. A nil record or a panic while
// rendering is returned as an error.
func Format(b *entities.Bula) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%v", r)
		}
	}()

	if b == nil {
		return "", fmt.Errorf("registro vazio")
	}

	// cases.Caser keeps state, one per call
	title := cases.Title(language.BrazilianPortuguese)

	var sb strings.Builder

	principioAtivo := notAvailable
	if b.Composicao != nil {
		principioAtivo = b.Composicao.PrincipioAtivo.Or(notAvailable)
	}
	fmt.Fprintf(&sb, "**%s**\n\n**COMPOSIÇÃO:**\n• **Princípio Ativo:** %s", b.Medicamento.Or(notAvailable), principioAtivo)

	if b.Composicao != nil && len(b.Composicao.Excipientes.Items) > 0 {
		fmt.Fprintf(&sb, "\n• **Excipientes:** %s", strings.Join(b.Composicao.Excipientes.Items, ", "))
	}

	sb.WriteString("\n\n**INFORMAÇÕES GERAIS:**")
	fmt.Fprintf(&sb, "\n• **Fabricante:** %s", b.Fabricante.Or(notAvailable))
	fmt.Fprintf(&sb, "\n• **Forma Farmacêutica:** %s", b.FormaFarmaceutica.Or(notAvailable))
	fmt.Fprintf(&sb, "\n• **Apresentação:** %s", b.Apresentacao.Or(notAvailable))
	fmt.Fprintf(&sb, "\n• **Via de Administração:** %s", b.ViaAdministracao.Or(notAvailable))
	fmt.Fprintf(&sb, "\n• **Uso:** %s", joined(b.Uso))

	fmt.Fprintf(&sb, "\n\n**INDICAÇÕES:**\n%s", bullets(b.Indicacoes, 0, ""))
	fmt.Fprintf(&sb, "\n\n**CONTRAINDICAÇÕES:**\n%s", bullets(b.Contraindicacoes, maxContraindications, "contraindicações"))
	fmt.Fprintf(&sb, "\n\n**ADVERTÊNCIAS E PRECAUÇÕES:**\n%s", bullets(b.AdvertenciasPrecaucoes, maxWarnings, "advertências"))

	if !b.Posologia.IsEmpty() {
		sb.WriteString("\n\n**POSOLOGIA:**")
		if len(b.Posologia.Groups) > 0 {
			for _, g := range b.Posologia.Groups {
				fmt.Fprintf(&sb, "\n• **%s:** %s", title.String(g.Group), g.Dose)
			}
		} else {
			fmt.Fprintf(&sb, "\n%s", b.Posologia.Text)
		}
	}

	if !b.ReacoesAdversas.IsEmpty() {
		sb.WriteString("\n\n**PRINCIPAIS REAÇÕES ADVERSAS:**")
		for _, c := range b.ReacoesAdversas.Categories {
			if len(c.Reactions) == 0 {
				continue
			}
			shown := c.Reactions
			if len(shown) > maxReactions {
				shown = shown[:maxReactions]
			}
			line := strings.Join(shown, ", ")
			if extra := len(c.Reactions) - maxReactions; extra > 0 {
				line += fmt.Sprintf(" (e mais %d)", extra)
			}
			fmt.Fprintf(&sb, "\n• **%s:** %s", title.String(c.Category), line)
		}
	}

	if !b.Armazenamento.IsEmpty() {
		sb.WriteString("\n\n**ARMAZENAMENTO:**")
		if v, ok := b.Armazenamento.Temperatura.Get(); ok && v != "" {
			fmt.Fprintf(&sb, "\n• **Temperatura:** %s", v)
		}
		if v, ok := b.Armazenamento.Protecao.Get(); ok && v != "" {
			fmt.Fprintf(&sb, "\n• **Proteção:** %s", v)
		}
		if v, ok := b.Armazenamento.Validade.Get(); ok && v != "" {
			fmt.Fprintf(&sb, "\n• **Validade:** %s", v)
		}
	}

	if registro, _ := b.Registro.Get(); registro != "" && registro != entities.RegistroNaoInformado {
		fmt.Fprintf(&sb, "\n\n**Registro:** %s", registro)
	}
	if tarja, _ := b.Tarja.Get(); tarja != "" {
		fmt.Fprintf(&sb, "\n**Classificação:** %s", tarja)
	}

	sb.WriteString(msgDisclaimer)
	return sb.String(), nil
}

// bullets renders a list one "• item" per line. With limit > 0 only the first
// limit items are shown, followed by a "... e mais N <noun>" line.
func bullets(l entities.TextList, limit int, noun string) string {
	if len(l.Items) == 0 {
		if l.Raw != "" {
			return l.Raw
		}
		return notAvailable
	}

	shown := l.Items
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, item := range shown {
		lines = append(lines, "• "+item)
	}
	if limit > 0 && len(l.Items) > limit {
		lines = append(lines, fmt.Sprintf("• ... e mais %d %s", len(l.Items)-limit, noun))
	}
	return strings.Join(lines, "\n")
}

func joined(l entities.TextList) string {
	switch {
	case len(l.Items) > 0:
		return strings.Join(l.Items, ", ")
	case l.Raw != "":
		return l.Raw
	default:
		return notAvailable
	}
}

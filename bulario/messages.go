package bulario

import (
	"fmt"
	"net/url"
)

const (
	msgInvalidInput = "Nome do medicamento é obrigatório."
	msgTimeout      = "Timeout: A API de medicamentos está demorando para responder. Tente novamente em alguns segundos."
	msgDisclaimer   = "\n\n**IMPORTANTE:** Sempre consulte um médico ou farmacêutico antes de usar qualquer medicamento. Esta é apenas uma consulta informativa."
	notAvailable    = "N/A"
)

func notFoundText(term string) string {
	return fmt.Sprintf("**Medicamento '%s' não encontrado**\n\n"+
		"**Medicamentos disponíveis na base de dados:**\n"+
		"• Dipirona (Dipirona Monoidratada)\n"+
		"• Paracetamol\n\n"+
		"**Sugestões:**\n"+
		"- Verifique a grafia do medicamento\n"+
		"- Use apenas o nome do princípio ativo\n"+
		"- Experimente nomes similares ou sinônimos\n\n"+
		"**Nota:** A base de dados atual possui um número limitado de medicamentos cadastrados.", term)
}

func connectionErrorText(baseURL string) string {
	return fmt.Sprintf("**Erro de Conexão com a API de Medicamentos**\n\n"+
		"A API de medicamentos parece estar indisponível no momento.\n\n"+
		"**Para resolver:**\n"+
		"1. Verifique se a API está rodando:\n"+
		"   ```\n"+
		"   cd api-bula\n"+
		"   npm start\n"+
		"   ```\n\n"+
		"2. Confirme se está acessível em: %s\n\n"+
		"3. Aguarde alguns segundos e tente novamente\n\n"+
		"**A API deve estar rodando na porta %s.**", baseURL, portOf(baseURL))
}

func httpErrorText(status int) string {
	return fmt.Sprintf("Erro HTTP %d: Não foi possível consultar a API de medicamentos.", status)
}

func unexpectedText(err error) string {
	return fmt.Sprintf("Erro inesperado ao consultar medicamento: %v", err)
}

func formatErrorText(err any) string {
	return fmt.Sprintf("Erro ao processar dados do medicamento: %v", err)
}

// portOf returns the explicit port of baseURL or the scheme default
func portOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "?"
	}
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}

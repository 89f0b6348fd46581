package chat

const assistantAuthor = "Assistant"

const bularioIntroduction = "🤖 **Bem-vindo ao Chatbot de Medicamentos!** 💊\n\n" +
	"Sou seu assistente especializado em informações sobre medicamentos. " +
	"**Com este chatbot, você pode:**\n" +
	"- **Consultar medicamentos**: Informações detalhadas incluindo composição completa\n" +
	"- **Composição detalhada**: Princípios ativos e lista completa de excipientes\n" +
	"- **Indicações terapêuticas**: Para que serve cada medicamento\n" +
	"- **Contraindicações**: Quando não usar o medicamento\n" +
	"- **Posologia**: Como administrar corretamente\n" +
	"- **Reações adversas**: Efeitos colaterais por frequência\n" +
	"- **Informações técnicas**: Armazenamento, validade e dados regulatórios\n\n" +
	"**Exemplos do que você pode perguntar:**\n" +
	"- *\"Me fale sobre ibuprofeno\"*\n" +
	"- *\"Quais são os excipientes do omeprazol?\"*\n" +
	"- *\"Reações adversas da sepurin\"*\n" +
	"- *\"Quais são os excipientes da macrodantina?\"*\n\n" +
	" **Importante**: As informações fornecidas são apenas para fins educativos. " +
	"Sempre consulte um profissional de saúde antes de usar qualquer medicamento.\n\n" +
	"Digite sua pergunta sobre medicamentos para começar!"

const bularioSystemPrompt = "Você é um assistente especializado em informações sobre medicamentos. " +
	"Seu foco principal é fornecer informações precisas e educativas sobre medicamentos " +
	"através de consultas a uma base de dados especializada.\n\n" +
	"INSTRUÇÕES IMPORTANTES:\n" +
	"- Sempre forneça informações completas: composição, indicações, contraindicações, posologia, reações adversas\n" +
	"- SEMPRE inclua avisos de segurança sobre consultar profissionais de saúde\n" +
	"- As informações de posologia são apenas educativas - sempre oriente a consultar um profissional\n" +
	"- Seja claro que suas informações são apenas para fins informativos\n" +
	"- DESTAQUE informações importantes como contraindicações e reações adversas graves\n" +
	"- Responda sempre em português brasileiro de forma clara e profissional\n" +
	"- Seja cordial, responsável e educativo\n" +
	"- Se não encontrar informações sobre um medicamento específico, sugira alternativas ou oriente a consultar um profissional\n\n" +
	"Enfatize sempre a importância de consultar profissionais de saúde."

const (
	simpleWelcome      = "🤖 Olá! Sou um chatbot conectado ao GPT da OpenAI. Como posso ajudar você?"
	simpleSystemPrompt = "Você é um assistente útil que responde em português."

	echoWelcome = "🤖 Olá! Bem-vindo ao seu chatbot!\n\nDigite qualquer mensagem para começar nossa conversa!"
)

// enrichmentBlock wraps a lookup result for the system instruction
func enrichmentBlock(lookupText string) string {
	return "\n\nINFORMAÇÕES DA BASE DE DADOS:\n" + lookupText + "\n\n"
}

// systemInstruction appends the enrichment, if any, to the base prompt
func systemInstruction(base, enrichment string) string {
	if enrichment == "" {
		return base
	}
	return base + "\n\nUse as seguintes informações específicas do medicamento para complementar sua resposta:\n" + enrichment
}

package i18n

var ptBRMessages = map[Code]string{
	CodeReadingNotNumeric:         "{{.field}} deve ser numérico",
	CodeReadingUnknownAngle:       "{{.angle}} não é um ângulo de calibração",
	CodeReadingUnknownTransmitter: "transmissor desconhecido {{.transmitter}}; use tx1 ou tx2",
	CodeReadingUnknownStage:       "etapa desconhecida {{.stage}}; use present ou reference",
	CodeReadingUnknownField:       "campo desconhecido {{.field}}; use DDM, SDM ou RF",
	CodeReadingInvalidZeroSign:    "o sinal do DDM em 0° deve ser + ou -",
	CodeReadingCursorInvalid:      "posição de entrada inválida: {{.reason}}",
	CodeMetricsShapeMismatch:      "as leituras {{.stage}} têm {{.got}} entradas, esperado {{.want}}",
	CodeMetricsInvalidSectorWidth: "a semilargura do setor deve ser um número positivo de graus",
	CodeSessionMetaInvalid:        "dados da sessão inválidos: {{.reason}}",
	CodeSessionIDInvalid:          "id de sessão inválido",
	CodeSessionStateCorrupt:       "a sessão salva não pôde ser lida",
	CodeSessionPageTokenInvalid:   "token de página inválido",
	CodeNotFound:                  "{{.resource}} não encontrado",
}
